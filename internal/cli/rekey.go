package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/caurus/cronto/internal/config"
	"github.com/caurus/cronto/internal/store"
)

var rekeyNewPass string

var rekeyCmd = &cobra.Command{
	Use:   "rekey",
	Short: "Reseal stored key material under a new passphrase",
	Long: `Reseal stored key material under a new passphrase.

Opens the service configuration and every enrolled account key under the
current --key-pass and rewrites them sealed under --new-key-pass. An
empty --new-key-pass leaves key material stored as plain hex; an empty
--key-pass seals a previously unsealed installation.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		oldVault := keyVault(keyPass)
		newVault := keyVault(rekeyNewPass)

		cfg, err := config.Rekey(configPath, oldVault, newVault)
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.DB, oldVault)
		if err != nil {
			return err
		}
		if err := st.Rekey(newVault); err != nil {
			return err
		}

		slog.Info("key material resealed", "config", configPath, "db", cfg.DB, "sealed", newVault != nil)
		return nil
	},
}

func init() {
	rekeyCmd.Flags().StringVar(&rekeyNewPass, "new-key-pass", "", "new passphrase; empty stores key material unsealed")
	rootCmd.AddCommand(rekeyCmd)
}
