// Package cli implements the caurus command-line front end: service
// initialization, the activation ceremony, transaction authorization,
// account management, and barcode rendering. The cronto core performs no
// I/O and no logging of its own; everything interactive lives here.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"hermannm.dev/devlog"

	"github.com/caurus/cronto"
	"github.com/caurus/cronto/internal/config"
	"github.com/caurus/cronto/internal/store"
)

var (
	configPath string
	keyPass    string
	debug      bool
	logLevel   slog.LevelVar
)

var rootCmd = &cobra.Command{
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Use:   "caurus",
	Short: "Issue and verify cronto-v3 coloured 2D barcodes",
	Long: `Server side of the cronto-v3 two-factor verification scheme.

The service issues coloured 2D barcodes that a trusted client device
scans; the client's computed short numeric code, echoed back by the user,
either proves activation of a new device or authorizes a transaction with
the exact message the user sees.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			logLevel.Set(slog.LevelDebug)
		}
	},
}

// Execute runs the root command. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stderr, &devlog.Options{
		Level: &logLevel,
	})))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "caurus.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&keyPass, "key-pass", "", "passphrase sealing key material at rest")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print debug logs")
}

// keyVault builds the vault that seals key material at rest from a
// passphrase. An empty passphrase means key material is stored as plain
// hex and nil is returned.
func keyVault(pass string) *cronto.KeyVault {
	if pass == "" {
		return nil
	}
	provider := cronto.NewPasswordKeyProvider([]byte(pass), cronto.Argon2idParams{})
	return cronto.NewKeyVault(provider, cronto.CipherAuto, provider.SaltSize())
}

// loadEnvironment reads the configuration file and opens everything a
// server subcommand needs: the service context for the core and the
// account store, both unsealed through the --key-pass vault when one is
// configured.
func loadEnvironment() (*cronto.ServiceContext, *store.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	vault := keyVault(keyPass)
	ctx, err := cfg.ServiceContext(vault)
	if err != nil {
		return nil, nil, err
	}
	if !debug {
		applyLogLevel(cfg.Log.Level)
	}
	st, err := store.Open(cfg.DB, vault)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("configuration loaded", "config", configPath, "service_id", ctx.ServiceID, "db", cfg.DB)
	return ctx, st, nil
}

func applyLogLevel(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		slog.Warn("unknown log level in configuration, keeping default", "level", level)
		return
	}
	logLevel.Set(l)
}
