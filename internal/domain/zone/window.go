package zone

import "time"

// Window is one 15-minute rotation slot and the zone active during it.
type Window struct {
	// Zone is the catalog name active during the window.
	Zone string
	// StartMillis is the window start in Unix milliseconds, always slot-aligned.
	StartMillis int64
}

// EndMillis returns the exclusive end of the window in Unix milliseconds.
func (w Window) EndMillis() int64 {
	return w.StartMillis + SlotMillis
}

// Start returns the window start as a time.Time.
func (w Window) Start() time.Time {
	return time.UnixMilli(w.StartMillis)
}

// End returns the exclusive window end as a time.Time.
func (w Window) End() time.Time {
	return time.UnixMilli(w.EndMillis())
}

// Status describes the window containing the reference time.
type Status struct {
	Window

	// SecondsUntilNextBoundary counts whole seconds until the window closes.
	SecondsUntilNextBoundary int64
}

// ForecastEntry is a window annotated with a countdown relative to the
// reference time of the query that produced it.
type ForecastEntry struct {
	Window

	// SecondsUntilActive counts whole seconds until the window opens.
	// It is zero when the window is already active.
	SecondsUntilActive int64
}
