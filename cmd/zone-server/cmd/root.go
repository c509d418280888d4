package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/terror-zones/internal/config"
	"github.com/oshokin/terror-zones/internal/logger"
	"github.com/oshokin/terror-zones/internal/service/server"
	"github.com/oshokin/terror-zones/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// httpAddress overrides http_addr from the settings file.
	httpAddress string
	// catalogFile overrides catalog_file from the settings file.
	catalogFile string
	// logLevel overrides log_level from the settings file.
	logLevel string

	// rootCmd represents the base command for running the zone server.
	rootCmd = &cobra.Command{
		Use:   "zone-server [listen-address]",
		Short: "Serve terror zone rotation queries over gRPC and HTTP.",
		Long: `Starts the gRPC zone service and, when http_addr is configured, the HTTP API
with Prometheus metrics.

Every answer is computed from the clock and the zone catalog, so the server
keeps no state and any number of replicas agree with each other.
The listen address can be provided as argument to override the config (e.g. :50051).`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogging()
		},
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				HTTPAddress:   httpAddress,
				CatalogFile:   catalogFile,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the zone-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging applies the flag level, falling back to the settings file.
func setupLogging() error {
	if logLevel != "" {
		return logger.Setup(logLevel)
	}

	settings, err := config.LoadOrDefault(configPath)
	if err != nil {
		// server.Run reports the settings error with full context.
		return nil //nolint:nilerr // Logging stays at the default level.
	}

	return logger.Setup(settings.LogLevel)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&httpAddress, "http-addr", "", "HTTP API listen address (overrides http_addr)")
	rootCmd.Flags().StringVar(&catalogFile, "catalog", "", "zone catalog YAML file (overrides catalog_file)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}
