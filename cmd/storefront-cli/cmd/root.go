package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/nfrund/storefront/internal/app"
	"github.com/nfrund/storefront/internal/config"
	"github.com/nfrund/storefront/internal/logging"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "storefront-cli",
	Short: "Storefront maintenance tool",
	Long: `storefront-cli runs maintenance tasks against a storefront deployment.

Available commands:
  invoice          Regenerate the PDF invoice of an order
  purge-sessions   Delete expired server-side sessions
  version          Print the CLI version

Use "storefront-cli [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (defaults to $CONFIG_FILE)")
}

// withApp loads the configuration, builds the application and releases it
// once fn returns.
func withApp(ctx context.Context, fn func(*app.App) error) error {
	_ = godotenv.Load()
	path := configFile
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	slog.SetDefault(logging.New(cfg.GetLogFormat(), cfg.GetLogLevel()))

	a := app.New(cfg)
	defer func() { _ = a.Close(ctx) }()
	return fn(a)
}
