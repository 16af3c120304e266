package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/caurus/cronto"
	"github.com/caurus/cronto/internal/store"
)

var transactionViewer string

var transactionCmd = &cobra.Command{
	Use:   "transaction account [message...]",
	Short: "Authorize a transaction for an enrolled account",
	Long: `Authorize a transaction for an enrolled account.

Each message argument becomes one display row on the client: "KEY",
"KEY:VALUE", or "KEY:VALUE:STYLE" with STYLE one of S (bold), K (black),
B (blue), G (green), R (red). For example:

  caurus transaction 42 PAY:EUR100:R TO:ALICE`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, st, err := loadEnvironment()
		if err != nil {
			return err
		}

		number, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("account must be an integer: %w", err)
		}
		account, err := st.Account(number)
		if errors.Is(err, store.ErrNotFound) {
			return errors.New("invalid account")
		}
		if err != nil {
			return err
		}

		message, err := parseMessageArgs(args[1:])
		if err != nil {
			return err
		}

		result, err := cronto.Transaction(ctx, account, account.Salt, message)
		if err != nil {
			return err
		}
		slog.Debug("transaction built", "account", number, "correlation_id", result.CorrelationID)

		if err := viewBarcode(result.Barcode, transactionViewer); err != nil {
			return err
		}
		fmt.Printf("Code: %s\n", result.Code)
		return nil
	},
}

func init() {
	transactionCmd.Flags().StringVar(&transactionViewer, "viewer", "", "path to an SVG viewer")
	rootCmd.AddCommand(transactionCmd)
}
