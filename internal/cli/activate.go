package cli

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/caurus/cronto"
)

var (
	activateViewer  string
	activateLenient bool
)

var errInvalidCode = errors.New("invalid code")

var activateCmd = &cobra.Command{
	Use:   "activate [account]",
	Short: "Run the activation ceremony to enrol a new client device",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, st, err := loadEnvironment()
		if err != nil {
			return err
		}

		var account *int
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("account must be an integer: %w", err)
			}
			account = &n
		}

		pending, err := cronto.StartActivation(ctx, account)
		if err != nil {
			return err
		}
		slog.Debug("activation started", "account", pending.Account, "correlation_id", pending.CorrelationID)

		if err := viewBarcode(pending.Barcode, activateViewer); err != nil {
			return err
		}
		code := promptCode(7)
		if subtle.ConstantTimeCompare([]byte(code), []byte(pending.Code)) != 1 {
			return errInvalidCode
		}

		state, err := cronto.ContinueActivation(ctx, pending)
		if err != nil {
			return err
		}
		slog.Debug("activation continued", "account", pending.Account, "correlation_id", state.CorrelationID)

		if err := viewBarcode(state.Barcode, activateViewer); err != nil {
			return err
		}
		code = promptCode(7)
		if code == "" {
			return errInvalidCode
		}

		strictness := cronto.StrictRejectMalformedCode
		if activateLenient {
			strictness = cronto.LenientAcceptMalformedCode
		}
		salt, err := cronto.CompleteActivation(ctx, pending.Key, state, code, strictness)
		if err != nil {
			return err
		}
		if salt == nil {
			return errInvalidCode
		}

		enrolled := &cronto.Account{
			Number: pending.Account,
			ID:     pending.ID,
			Key:    pending.Key,
			Salt:   salt,
		}
		if err := st.Save(enrolled); err != nil {
			return err
		}

		slog.Info("client confirmed", "account", enrolled.Number)
		fmt.Printf("Client successfully confirmed! Account %d is ready for transactions.\n", enrolled.Number)
		return nil
	},
}

func init() {
	activateCmd.Flags().StringVar(&activateViewer, "viewer", "", "path to an SVG viewer")
	activateCmd.Flags().BoolVar(&activateLenient, "lenient", false, "accept codes with a malformed embedded marker")
	rootCmd.AddCommand(activateCmd)
}
