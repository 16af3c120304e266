package cli

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/caurus/cronto/internal/config"
	"github.com/caurus/cronto/internal/store"
)

var initDBPath string

var initCmd = &cobra.Command{
	Use:   "init [id]",
	Short: "Generate a service identity and write a new configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		serviceID := 1
		if len(args) == 1 {
			var err error
			serviceID, err = strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("service id must be an integer: %w", err)
			}
		}

		vault := keyVault(keyPass)
		cfg, err := config.Init(configPath, serviceID, initDBPath, vault)
		if err != nil {
			return err
		}
		if _, err := store.Open(cfg.DB, vault); err != nil {
			return err
		}

		slog.Info("service initialized", "config", configPath, "service_id", serviceID, "db", cfg.DB)
		fmt.Println("Ready!")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initDBPath, "db", "caurus.db", "path to the account database")
	rootCmd.AddCommand(initCmd)
}
