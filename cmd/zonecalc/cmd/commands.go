package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/terror-zones/internal/service/query"
	"github.com/oshokin/terror-zones/internal/service/watcher"
)

// defaultNextCount is the number of upcoming windows shown by `next`.
const defaultNextCount = 8

func newCurrentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the active zone and time until the next rotation.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return query.Current(ctx, queryOptions())
		},
	}
}

func newNextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "next [count]",
		Short: "List the upcoming windows after the current one.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			count := defaultNextCount

			if len(args) > 0 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("parse count %q: %w", args[0], err)
				}

				count = parsed
			}

			ctx, stop := signalContext()
			defer stop()

			return query.Next(ctx, queryOptions(), count)
		},
	}
}

func newFindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find <zone>",
		Short: "Show when a zone is next active.",
		Long: `Searches forward from the current window for the named zone.
The name is matched case-insensitively; quote names containing spaces.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			return query.Find(ctx, queryOptions(), strings.Join(args, " "))
		},
	}
}

func newZonesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "List the catalog in rotation order.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return query.Zones(ctx, queryOptions())
		},
	}
}

func newWatchCommand() *cobra.Command {
	var interval time.Duration

	command := &cobra.Command{
		Use:   "watch [zone...]",
		Short: "Follow the rotation and alert when a tracked zone becomes active.",
		Long: `Polls the rotation until interrupted, logging every change of zone.
Zones given as arguments replace tracked_zones from the settings file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			options := &watcher.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				CatalogFile:   catalogFile,
				TrackedZones:  args,
				PollInterval:  interval,
				Out:           cmd.OutOrStdout(),
			}

			return watcher.Run(ctx, options)
		},
	}

	command.Flags().DurationVar(&interval, "interval", 0, "poll interval (overrides poll_interval)")

	return command
}

func newCatalogCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "catalog",
		Short: "Manage zone catalogs.",
	}

	command.AddCommand(&cobra.Command{
		Use:   "export <path>",
		Short: "Write the active catalog to a YAML file for editing.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			return query.ExportCatalog(ctx, queryOptions(), args[0])
		},
	})

	return command
}
