package query

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oshokin/terror-zones/internal/config"
	"github.com/oshokin/terror-zones/internal/logger"
	"github.com/oshokin/terror-zones/internal/repository/catalog"
	"github.com/oshokin/terror-zones/internal/service/common"
)

// Options controls source selection, the reference time and output rendering.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file. A missing file
	// falls back to defaults.
	ConfigPath string
	// ServerAddress queries a remote zone-server when set; otherwise the local engine is used.
	ServerAddress string
	// CatalogFile overrides catalog_file from the settings file.
	CatalogFile string
	// At is the reference time as RFC3339 or Unix milliseconds. Empty means now.
	At string
	// Output selects the rendering format.
	Output Format
	// Out receives the rendered result. Defaults to stdout.
	Out io.Writer
	// Now overrides the clock used when At is empty.
	Now func() time.Time
}

// ErrInvalidTime is returned when the reference time cannot be parsed.
var ErrInvalidTime = errors.New("invalid reference time")

// Current prints the window active at the reference time.
func Current(ctx context.Context, opts *Options) error {
	return withSource(ctx, opts, func(ctx context.Context, source common.Source, at int64, r *renderer) error {
		status, err := source.CurrentZone(ctx, at)
		if err != nil {
			return fmt.Errorf("current zone: %w", err)
		}

		return r.current(status)
	})
}

// Next prints the count windows following the current one.
func Next(ctx context.Context, opts *Options, count int) error {
	return withSource(ctx, opts, func(ctx context.Context, source common.Source, at int64, r *renderer) error {
		entries, err := source.Forecast(ctx, at, count)
		if err != nil {
			return fmt.Errorf("forecast: %w", err)
		}

		return r.forecast(entries)
	})
}

// Find prints the next window of the named zone.
func Find(ctx context.Context, opts *Options, name string) error {
	return withSource(ctx, opts, func(ctx context.Context, source common.Source, at int64, r *renderer) error {
		entry, found, err := source.FindZone(ctx, at, name)
		if err != nil {
			return fmt.Errorf("find zone: %w", err)
		}

		return r.find(name, entry, found)
	})
}

// Zones prints the catalog in rotation order.
func Zones(ctx context.Context, opts *Options) error {
	return withSource(ctx, opts, func(ctx context.Context, source common.Source, _ int64, r *renderer) error {
		names, err := source.ListZones(ctx)
		if err != nil {
			return fmt.Errorf("list zones: %w", err)
		}

		return r.zones(names)
	})
}

// ExportCatalog writes the active catalog to path as YAML.
func ExportCatalog(ctx context.Context, opts *Options, path string) error {
	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}

	zones, err := catalog.Open(settings.CatalogFile).Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	if err = catalog.NewFileRepository(path).Save(ctx, zones); err != nil {
		return fmt.Errorf("export catalog: %w", err)
	}

	logger.InfoKV(ctx, "Catalog exported", "path", path, "zones", zones.Len())

	return nil
}

// ParseAt converts an RFC3339 timestamp or Unix milliseconds into milliseconds.
// An empty value yields the current time from now.
func ParseAt(value string, now func() time.Time) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		if now == nil {
			now = time.Now
		}

		return now().UnixMilli(), nil
	}

	if millis, err := strconv.ParseInt(value, 10, 64); err == nil {
		return millis, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is neither RFC3339 nor Unix milliseconds", ErrInvalidTime, value)
	}

	return parsed.UnixMilli(), nil
}

// withSource resolves settings, the reference time and the source, then runs fn.
func withSource(
	ctx context.Context,
	opts *Options,
	fn func(ctx context.Context, source common.Source, atMillis int64, r *renderer) error,
) error {
	r, err := newRenderer(opts.Out, opts.Output)
	if err != nil {
		return err
	}

	at, err := ParseAt(opts.At, opts.Now)
	if err != nil {
		return err
	}

	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}

	source, closeSource, err := common.OpenSource(ctx, settings, opts.ServerAddress)
	if err != nil {
		return err
	}

	defer closeSource()

	return fn(ctx, source, at, r)
}

// loadSettings reads the settings file and applies the catalog override.
func loadSettings(opts *Options) (*config.Config, error) {
	settings, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.CatalogFile != "" {
		settings.CatalogFile = opts.CatalogFile
	}

	return settings, nil
}

// stdout returns w or os.Stdout when w is nil.
func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}
