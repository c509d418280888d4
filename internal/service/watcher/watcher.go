package watcher

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/oshokin/terror-zones/internal/domain/zone"
	"github.com/oshokin/terror-zones/internal/logger"
)

// Source resolves the active window.
type Source interface {
	CurrentZone(ctx context.Context, atMillis int64) (zone.Status, error)
	ListZones(ctx context.Context) ([]string, error)
}

// Alerter delivers a notification that a tracked zone is active.
type Alerter interface {
	Alert(ctx context.Context, status zone.Status) error
}

// WriterAlerter prints one line per alert.
type WriterAlerter struct {
	// out receives the alert lines.
	out io.Writer
}

// NewWriterAlerter creates an alerter writing to out.
func NewWriterAlerter(out io.Writer) *WriterAlerter {
	return &WriterAlerter{
		out: out,
	}
}

// Alert writes the zone and the remaining window time.
func (a *WriterAlerter) Alert(_ context.Context, status zone.Status) error {
	remaining := time.Duration(status.SecondsUntilNextBoundary) * time.Second

	_, err := fmt.Fprintf(a.out, "[%s] %s is active for another %s\n",
		status.Start().UTC().Format(time.RFC3339), status.Zone, remaining)
	if err != nil {
		return fmt.Errorf("write alert: %w", err)
	}

	return nil
}

// Watcher tracks rotation changes for a set of zones.
type Watcher struct {
	// source resolves the active window.
	source Source
	// alerter is notified when a tracked zone is active.
	alerter Alerter
	// tracked holds canonical names of the zones to alert on.
	tracked map[string]struct{}
	// now is the clock used for every poll.
	now func() time.Time

	// lastWindow is the start of the window seen by the previous poll.
	lastWindow int64
	// alertedWindow is the start of the last window an alert was sent for.
	alertedWindow int64
	// alerted reports whether alertedWindow is set.
	alerted bool
	// seen reports whether any poll succeeded yet.
	seen bool
}

// New creates a watcher. tracked must already hold canonical catalog names.
// A nil clock defaults to time.Now.
func New(source Source, alerter Alerter, tracked []string, now func() time.Time) *Watcher {
	if now == nil {
		now = time.Now
	}

	set := make(map[string]struct{}, len(tracked))
	for _, name := range tracked {
		set[name] = struct{}{}
	}

	return &Watcher{
		source:  source,
		alerter: alerter,
		tracked: set,
		now:     now,
	}
}

// Poll checks the rotation once. It returns the current status and whether
// an alert was raised for it.
func (w *Watcher) Poll(ctx context.Context) (zone.Status, bool, error) {
	status, err := w.source.CurrentZone(ctx, w.now().UnixMilli())
	if err != nil {
		return zone.Status{}, false, fmt.Errorf("resolve current zone: %w", err)
	}

	if !w.seen || status.StartMillis != w.lastWindow {
		logger.InfoKV(ctx, "Zone rotated",
			"zone", status.Zone,
			"window_start", status.Start().UTC().Format(time.RFC3339),
			"seconds_left", status.SecondsUntilNextBoundary,
		)

		w.lastWindow = status.StartMillis
		w.seen = true
	}

	if _, ok := w.tracked[status.Zone]; !ok {
		return status, false, nil
	}

	if w.alerted && w.alertedWindow == status.StartMillis {
		return status, false, nil
	}

	if err = w.alerter.Alert(ctx, status); err != nil {
		return status, false, fmt.Errorf("alert: %w", err)
	}

	w.alertedWindow = status.StartMillis
	w.alerted = true

	return status, true, nil
}

// Run polls every interval until ctx is canceled. Poll errors are logged and
// do not stop the loop.
func (w *Watcher) Run(ctx context.Context, interval time.Duration) error {
	w.pollAndLog(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
			w.pollAndLog(ctx)
		}
	}
}

// pollAndLog runs Poll and logs failures.
func (w *Watcher) pollAndLog(ctx context.Context) {
	status, alerted, err := w.Poll(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Poll failed", "error", err)
		return
	}

	if alerted {
		logger.InfoKV(ctx, "Tracked zone active", "zone", status.Zone)
	}
}

// ResolveTracked maps free-text names to canonical catalog names.
// Unknown names fail with zone.ErrUnknownZone.
func ResolveTracked(ctx context.Context, source Source, names []string) ([]string, error) {
	zones, err := source.ListZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}

	catalog, err := zone.NewCatalog(zones)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	resolved := make([]string, 0, len(names))

	for _, name := range names {
		canonical, ok := catalog.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", zone.ErrUnknownZone, name)
		}

		resolved = append(resolved, canonical)
	}

	return resolved, nil
}
