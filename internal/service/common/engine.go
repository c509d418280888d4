//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"

	"github.com/oshokin/terror-zones/internal/domain/zone"
	"github.com/oshokin/terror-zones/internal/repository/catalog"
)

// NewEngine loads the catalog (the bundled one when catalogFile is empty)
// and builds an engine with the given search horizon (0 keeps the default).
func NewEngine(ctx context.Context, catalogFile string, horizon int) (*zone.Engine, error) {
	zones, err := catalog.Open(catalogFile).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	engine, err := zone.NewEngine(zones, zone.WithHorizon(horizon))
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	return engine, nil
}

// LocalSource answers rotation queries from an in-process engine.
type LocalSource struct {
	// engine resolves the rotation.
	engine *zone.Engine
}

// NewLocalSource wraps engine.
func NewLocalSource(engine *zone.Engine) *LocalSource {
	return &LocalSource{
		engine: engine,
	}
}

// CurrentZone returns the window active at atMillis.
func (s *LocalSource) CurrentZone(_ context.Context, atMillis int64) (zone.Status, error) {
	return s.engine.CurrentZone(atMillis), nil
}

// Forecast returns count windows after the current one.
func (s *LocalSource) Forecast(_ context.Context, atMillis int64, count int) ([]zone.ForecastEntry, error) {
	return s.engine.Forecast(atMillis, count)
}

// FindZone resolves name case-insensitively and returns its next window.
func (s *LocalSource) FindZone(_ context.Context, atMillis int64, name string) (zone.ForecastEntry, bool, error) {
	canonical, ok := s.engine.Catalog().Lookup(name)
	if !ok {
		return zone.ForecastEntry{}, false, fmt.Errorf("%w: %q", zone.ErrUnknownZone, name)
	}

	return s.engine.NextOccurrence(atMillis, canonical)
}

// ListZones returns the catalog in rotation order.
func (s *LocalSource) ListZones(context.Context) ([]string, error) {
	return s.engine.Catalog().Names(), nil
}
