package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/caurus/cronto/internal/store"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage enrolled accounts",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List enrolled accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := loadEnvironment()
		if err != nil {
			return err
		}
		accounts, err := st.Accounts()
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			fmt.Println("No accounts enrolled.")
			return nil
		}
		for _, account := range accounts {
			fmt.Printf("%4d  id %x\n", account.Number, account.ID)
		}
		return nil
	},
}

var accountsRemoveCmd = &cobra.Command{
	Use:   "remove account",
	Short: "Remove an enrolled account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := loadEnvironment()
		if err != nil {
			return err
		}
		number, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("account must be an integer: %w", err)
		}
		if err := st.Delete(number); errors.Is(err, store.ErrNotFound) {
			return errors.New("invalid account")
		} else if err != nil {
			return err
		}
		slog.Info("account removed", "account", number)
		return nil
	},
}

func init() {
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsRemoveCmd)
	rootCmd.AddCommand(accountsCmd)
}
