package watcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oshokin/terror-zones/internal/config"
	"github.com/oshokin/terror-zones/internal/logger"
	"github.com/oshokin/terror-zones/internal/service/common"
)

// Options controls the watcher polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file. A missing file
	// falls back to defaults.
	ConfigPath string
	// ServerAddress polls a remote zone-server when set; otherwise the local engine is used.
	ServerAddress string
	// CatalogFile overrides catalog_file from the settings file.
	CatalogFile string
	// TrackedZones overrides tracked_zones from the settings file.
	TrackedZones []string
	// PollInterval overrides poll_interval from the settings file.
	PollInterval time.Duration
	// Out receives alert lines. Defaults to stdout.
	Out io.Writer
	// Now overrides the clock.
	Now func() time.Time
}

// Run resolves the zone source, validates tracked zones and polls until ctx is canceled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "zone-watcher")

	settings, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = applyOverrides(settings, opts); err != nil {
		return err
	}

	source, closeSource, err := common.OpenSource(ctx, settings, opts.ServerAddress)
	if err != nil {
		return err
	}

	defer closeSource()

	tracked, err := ResolveTracked(ctx, source, settings.TrackedZones)
	if err != nil {
		return fmt.Errorf("resolve tracked zones: %w", err)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	logger.InfoKV(ctx, "Watching zone rotation",
		"tracked", tracked,
		"interval", settings.PollInterval.String(),
		"remote", opts.ServerAddress != "",
	)

	return New(source, NewWriterAlerter(out), tracked, opts.Now).Run(ctx, settings.PollInterval)
}

// applyOverrides copies non-empty option values over the loaded settings and
// validates the result, so overrides obey the same bounds as the file.
func applyOverrides(settings *config.Config, opts *Options) error {
	if opts.CatalogFile != "" {
		settings.CatalogFile = opts.CatalogFile
	}

	if len(opts.TrackedZones) > 0 {
		settings.TrackedZones = opts.TrackedZones
	}

	if opts.PollInterval > 0 {
		settings.PollInterval = opts.PollInterval
	}

	if err := config.Validate(settings); err != nil {
		return fmt.Errorf("validate overrides: %w", err)
	}

	return nil
}
