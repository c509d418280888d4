package zone

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"time"
)

const (
	// SlotMillis is the length of one rotation window in milliseconds.
	SlotMillis int64 = 900_000
	// DayMillis is the length of one day in milliseconds.
	DayMillis int64 = 86_400_000
	// SlotDuration is SlotMillis as a time.Duration.
	SlotDuration = time.Duration(SlotMillis) * time.Millisecond

	// slotsPerDay is the number of whole windows in a day.
	slotsPerDay = DayMillis / SlotMillis

	// The generator constants are the game's, not ours to tune.
	lcgMultiplier int64 = 214013
	lcgIncrement  int64 = 2531011
	lcgShift            = 16
	lcgMask       int64 = 32767

	// maxSlotIndex is the last slot whose start fits in int64 milliseconds.
	maxSlotIndex = math.MaxInt64 / SlotMillis
)

var (
	// ErrInvalidArgument is returned for negative counts or offsets and for
	// offsets that would move past the representable time range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownZone is returned when a queried zone is not in the catalog.
	ErrUnknownZone = errors.New("unknown zone")
)

// WeekHorizon is a search horizon of seven days of windows. It is wider than
// the longest gap between two occurrences of any zone in the rotation.
const WeekHorizon = 7 * int(slotsPerDay)

// Engine resolves rotation windows against a fixed Catalog.
// The zero value is not usable; construct it with NewEngine.
type Engine struct {
	// catalog is the immutable zone list the generator indexes into.
	catalog *Catalog
	// horizon is the number of windows NextOccurrence inspects.
	horizon int
}

// Option configures an Engine.
type Option func(*Engine)

// WithHorizon overrides the NextOccurrence search bound.
// Non-positive values keep the default of twice the catalog length.
func WithHorizon(windows int) Option {
	return func(e *Engine) {
		if windows > 0 {
			e.horizon = windows
		}
	}
}

// NewEngine creates an engine over catalog.
func NewEngine(catalog *Catalog, opts ...Option) (*Engine, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, ErrEmptyCatalog
	}

	e := &Engine{
		catalog: catalog,
		horizon: 2 * catalog.Len(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Catalog returns the catalog the engine was built with.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Horizon returns how many windows NextOccurrence inspects before giving up.
func (e *Engine) Horizon() int {
	return e.horizon
}

// WindowAt resolves the window offset slots after the one containing nowMillis.
// Offset zero is the current window.
func (e *Engine) WindowAt(nowMillis int64, offset int) (Window, error) {
	slot, err := offsetSlot(SlotIndex(nowMillis), offset)
	if err != nil {
		return Window{}, err
	}

	return e.window(slot), nil
}

// CurrentZone returns the window containing nowMillis.
func (e *Engine) CurrentZone(nowMillis int64) Status {
	w := e.window(SlotIndex(nowMillis))

	// Measured from the start so the last representable window cannot overflow.
	elapsed := nowMillis - w.StartMillis

	return Status{
		Window:                   w,
		SecondsUntilNextBoundary: (SlotMillis - elapsed) / 1000,
	}
}

// NextZones returns the count windows that follow the current one.
// The sequence is computed on every iteration, so ranging over it twice
// yields identical entries. A zero count yields an empty sequence.
func (e *Engine) NextZones(nowMillis int64, count int) (iter.Seq[ForecastEntry], error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count %d is negative", ErrInvalidArgument, count)
	}

	first := SlotIndex(nowMillis)
	if _, err := offsetSlot(first, count); err != nil {
		return nil, err
	}

	return func(yield func(ForecastEntry) bool) {
		for offset := 1; offset <= count; offset++ {
			if !yield(e.forecast(nowMillis, first+int64(offset))) {
				return
			}
		}
	}, nil
}

// Forecast collects NextZones into a slice.
func (e *Engine) Forecast(nowMillis int64, count int) ([]ForecastEntry, error) {
	seq, err := e.NextZones(nowMillis, count)
	if err != nil {
		return nil, err
	}

	entries := make([]ForecastEntry, 0, count)
	for entry := range seq {
		entries = append(entries, entry)
	}

	return entries, nil
}

// NextOccurrence finds the first window, starting with the current one,
// during which zone is active. It fails with ErrUnknownZone when zone is not
// in the catalog, and reports found == false when the zone does not come up
// within Horizon windows.
func (e *Engine) NextOccurrence(nowMillis int64, zone string) (entry ForecastEntry, found bool, err error) {
	if !e.catalog.Contains(zone) {
		return ForecastEntry{}, false, fmt.Errorf("%w: %q", ErrUnknownZone, zone)
	}

	first := SlotIndex(nowMillis)

	for offset := range e.horizon {
		slot := first + int64(offset)
		if slot > maxSlotIndex {
			break
		}

		if e.zoneAt(slot) == zone {
			return e.forecast(nowMillis, slot), true, nil
		}
	}

	return ForecastEntry{}, false, nil
}

// window resolves the zone for the given slot index.
func (e *Engine) window(slot int64) Window {
	return Window{
		Zone:        e.zoneAt(slot),
		StartMillis: slot * SlotMillis,
	}
}

// forecast resolves slot and attaches the countdown relative to nowMillis.
func (e *Engine) forecast(nowMillis, slot int64) ForecastEntry {
	w := e.window(slot)

	return ForecastEntry{
		Window:             w,
		SecondsUntilActive: secondsBetween(nowMillis, w.StartMillis),
	}
}

// zoneAt maps a slot index to its catalog entry.
func (e *Engine) zoneAt(slot int64) string {
	n := int64(e.catalog.Len())

	return e.catalog.Name(int(RotationValue(Seed(slot)) % n))
}

// SlotIndex returns the index of the window containing the timestamp,
// flooring towards negative infinity for pre-epoch values.
func SlotIndex(millis int64) int64 {
	return floorDiv(millis, SlotMillis)
}

// Seed derives the generator seed for a window from its slot index.
// It equals floor(start/SlotMillis) + floor(start/DayMillis) for the window
// start; working on the slot index keeps the sum exact for every timestamp.
func Seed(slot int64) int64 {
	return slot + floorDiv(slot, slotsPerDay)
}

// RotationValue runs one step of the generator and returns a value in [0, 32767].
// The product needs more than 32 bits (and more than a float64 mantissa for
// far-future seeds); int64 is exact for every seed derived from an int64
// millisecond timestamp.
func RotationValue(seed int64) int64 {
	return ((seed*lcgMultiplier + lcgIncrement) >> lcgShift) & lcgMask
}

// offsetSlot adds offset to slot, rejecting negative offsets and overflow.
func offsetSlot(slot int64, offset int) (int64, error) {
	if offset < 0 {
		return 0, fmt.Errorf("%w: offset %d is negative", ErrInvalidArgument, offset)
	}

	if int64(offset) > maxSlotIndex-slot {
		return 0, fmt.Errorf("%w: offset %d is out of range", ErrInvalidArgument, offset)
	}

	return slot + int64(offset), nil
}

// secondsBetween returns max(0, floor((to-from)/1000)).
func secondsBetween(from, to int64) int64 {
	if to <= from {
		return 0
	}

	return (to - from) / 1000
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}
