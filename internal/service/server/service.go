package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/terror-zones/internal/domain/zone"
	"github.com/oshokin/terror-zones/internal/logger"
	"github.com/oshokin/terror-zones/internal/telemetry"
)

// Operation label values for telemetry.ZoneQueriesTotal.
const (
	operationCurrent  = "current"
	operationForecast = "forecast"
	operationFind     = "find"
)

// service answers zone rotation queries on top of a single engine.
// It is unexported to keep the transports decoupled from the implementation.
type service struct {
	// engine resolves the rotation; it is immutable and shared by all requests.
	engine *zone.Engine
	// now is the clock used when a request carries no reference time.
	now func() time.Time
}

// newService creates a service backed by the provided engine.
// A nil clock defaults to time.Now.
func newService(engine *zone.Engine, now func() time.Time) *service {
	if now == nil {
		now = time.Now
	}

	return &service{
		engine: engine,
		now:    now,
	}
}

// NowMillis returns the service clock in Unix milliseconds.
func (s *service) NowMillis() int64 {
	return s.now().UnixMilli()
}

// CurrentZone returns the window active at atMillis.
func (s *service) CurrentZone(ctx context.Context, atMillis int64) zone.Status {
	status := s.engine.CurrentZone(atMillis)

	if idx, ok := s.engine.Catalog().Index(status.Zone); ok {
		telemetry.CurrentZoneIndex.Set(float64(idx))
	}

	telemetry.CurrentWindowStart.Set(float64(status.StartMillis / 1000))
	telemetry.ZoneQueriesTotal.WithLabelValues(operationCurrent, telemetry.OutcomeOK).Inc()

	logger.DebugKV(ctx, "Current zone resolved",
		"at_ms", atMillis,
		"zone", status.Zone,
		"seconds_left", status.SecondsUntilNextBoundary,
	)

	return status
}

// Forecast returns count windows following the current one.
func (s *service) Forecast(ctx context.Context, atMillis int64, count int) ([]zone.ForecastEntry, error) {
	entries, err := s.engine.Forecast(atMillis, count)
	if err != nil {
		telemetry.ZoneQueriesTotal.WithLabelValues(operationForecast, outcome(err)).Inc()

		return nil, fmt.Errorf("forecast: %w", err)
	}

	telemetry.ZoneQueriesTotal.WithLabelValues(operationForecast, telemetry.OutcomeOK).Inc()
	logger.DebugKV(ctx, "Forecast resolved", "at_ms", atMillis, "count", count)

	return entries, nil
}

// FindZone resolves name against the catalog (case-insensitively) and returns
// its next window, the current one included.
func (s *service) FindZone(ctx context.Context, atMillis int64, name string) (zone.ForecastEntry, bool, error) {
	canonical, ok := s.engine.Catalog().Lookup(name)
	if !ok {
		telemetry.ZoneQueriesTotal.WithLabelValues(operationFind, telemetry.OutcomeUnknown).Inc()

		return zone.ForecastEntry{}, false, fmt.Errorf("find %q: %w", name, zone.ErrUnknownZone)
	}

	entry, found, err := s.engine.NextOccurrence(atMillis, canonical)
	if err != nil {
		telemetry.ZoneQueriesTotal.WithLabelValues(operationFind, outcome(err)).Inc()

		return zone.ForecastEntry{}, false, fmt.Errorf("find %q: %w", name, err)
	}

	if !found {
		telemetry.ZoneQueriesTotal.WithLabelValues(operationFind, telemetry.OutcomeNotFound).Inc()
		logger.DebugKV(ctx, "Zone not within horizon", "zone", canonical, "horizon", s.engine.Horizon())

		return zone.ForecastEntry{}, false, nil
	}

	telemetry.ZoneQueriesTotal.WithLabelValues(operationFind, telemetry.OutcomeOK).Inc()
	logger.DebugKV(ctx, "Zone found", "zone", canonical, "seconds_until_active", entry.SecondsUntilActive)

	return entry, true, nil
}

// Zones returns the catalog in rotation order.
func (s *service) Zones(context.Context) []string {
	return s.engine.Catalog().Names()
}

// Horizon returns the FindZone search bound in windows.
func (s *service) Horizon() int {
	return s.engine.Horizon()
}

// outcome maps an engine error to a telemetry outcome label.
func outcome(err error) string {
	switch {
	case errors.Is(err, zone.ErrInvalidArgument):
		return telemetry.OutcomeInvalid
	case errors.Is(err, zone.ErrUnknownZone):
		return telemetry.OutcomeUnknown
	default:
		return telemetry.OutcomeError
	}
}
