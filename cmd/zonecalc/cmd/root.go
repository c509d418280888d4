package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oshokin/terror-zones/internal/config"
	"github.com/oshokin/terror-zones/internal/logger"
	"github.com/oshokin/terror-zones/internal/service/query"
	"github.com/oshokin/terror-zones/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// catalogFile overrides catalog_file from the settings file.
	catalogFile string
	// at is the reference time, RFC3339 or Unix milliseconds.
	at string
	// serverAddress switches queries to a remote zone-server.
	serverAddress string
	// logLevel overrides log_level from the settings file.
	logLevel string
	// output selects text, json or yaml rendering.
	output string

	// rootCmd represents the base command of the calculator.
	rootCmd = &cobra.Command{
		Use:   "zonecalc",
		Short: "Compute the terror zone rotation.",
		Long: `Computes which terror zone is active at any moment and when each zone
comes up next.

The rotation is derived from the clock alone, so the calculator works offline
from the bundled catalog. Pass --server to ask a running zone-server instead.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}
)

// Execute runs the zonecalc CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging applies the log level and keeps machine-readable output clean
// by moving logs to stderr at warning level.
func setupLogging(_ *cobra.Command, _ []string) error {
	level := logLevel
	if level == "" {
		if settings, err := config.LoadOrDefault(configPath); err == nil {
			level = settings.LogLevel
		}
	}

	if err := logger.Setup(level); err != nil {
		return err
	}

	format, err := query.ParseFormat(output)
	if err != nil {
		return err
	}

	if format != query.FormatText {
		logger.SetLogger(logger.NewWithWriter(os.Stderr, nil, logger.WithLevel(zap.WarnLevel)))
	}

	return nil
}

// queryOptions collects the persistent flags.
func queryOptions() *query.Options {
	return &query.Options{
		ConfigPath:    configPath,
		ServerAddress: serverAddress,
		CatalogFile:   catalogFile,
		At:            at,
		Output:        query.Format(output),
	}
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.PersistentFlags()

	// Setup command flags with consistent naming and descriptions.
	flags.StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVar(&catalogFile, "catalog", "", "zone catalog YAML file (overrides catalog_file)")
	flags.StringVar(&at, "at", "", "reference time as RFC3339 or Unix milliseconds (default now)")
	flags.StringVarP(&serverAddress, "server", "s", "", "query a zone-server at this address instead of computing locally")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVarP(&output, "output", "o", string(query.FormatText), "output format: text, json, yaml")

	rootCmd.AddCommand(
		newCurrentCommand(),
		newNextCommand(),
		newFindCommand(),
		newZonesCommand(),
		newWatchCommand(),
		newCatalogCommand(),
	)
}
