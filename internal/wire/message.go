package wire

import (
	"errors"
	"strings"
)

// Limits enforced on incoming requests.
const (
	// MaxForecastCount caps the number of windows one forecast may return (one day).
	MaxForecastCount = 96
	// MaxZoneNameLength caps the length of a zone name in FindZone.
	MaxZoneNameLength = 256
)

var (
	// ErrNegativeCount is returned for a forecast with a negative count.
	ErrNegativeCount = errors.New("count must not be negative")
	// ErrCountTooLarge is returned for a forecast above MaxForecastCount.
	ErrCountTooLarge = errors.New("count exceeds the forecast limit")
	// ErrZoneRequired is returned when FindZone has no zone name.
	ErrZoneRequired = errors.New("zone name is required")
	// ErrZoneTooLong is returned when the zone name exceeds MaxZoneNameLength.
	ErrZoneTooLong = errors.New("zone name is too long")
)

// ZoneWindow is one rotation window.
//
// CBOR encoding:
//
//	{
//	  1: zone,         // text
//	  2: startMillis,  // int, Unix ms, slot-aligned
//	  3: endMillis     // int, Unix ms, exclusive
//	}
type ZoneWindow struct {
	Zone        string `cbor:"1,keyasint"`
	StartMillis int64  `cbor:"2,keyasint"`
	EndMillis   int64  `cbor:"3,keyasint"`
}

// GetZone returns the zone name or "" for a nil window.
func (w *ZoneWindow) GetZone() string {
	if w == nil {
		return ""
	}

	return w.Zone
}

// ForecastEntry is a window with a countdown to its start.
type ForecastEntry struct {
	Window             *ZoneWindow `cbor:"1,keyasint"`
	SecondsUntilActive int64       `cbor:"2,keyasint"`
}

// GetWindow returns the window or nil.
func (e *ForecastEntry) GetWindow() *ZoneWindow {
	if e == nil {
		return nil
	}

	return e.Window
}

// CurrentZoneRequest asks for the window containing AtMillis.
// A zero AtMillis means "now" on the server clock.
type CurrentZoneRequest struct {
	AtMillis int64 `cbor:"1,keyasint,omitempty"`
}

// CurrentZoneResponse describes the active window.
type CurrentZoneResponse struct {
	Window                   *ZoneWindow `cbor:"1,keyasint"`
	SecondsUntilNextBoundary int64       `cbor:"2,keyasint"`
	AtMillis                 int64       `cbor:"3,keyasint"`
}

// GetWindow returns the window or nil.
func (r *CurrentZoneResponse) GetWindow() *ZoneWindow {
	if r == nil {
		return nil
	}

	return r.Window
}

// ForecastRequest asks for the Count windows after the current one.
type ForecastRequest struct {
	AtMillis int64 `cbor:"1,keyasint,omitempty"`
	Count    int32 `cbor:"2,keyasint"`
}

// Validate checks the count bounds.
func (r *ForecastRequest) Validate() error {
	switch {
	case r.Count < 0:
		return ErrNegativeCount
	case r.Count > MaxForecastCount:
		return ErrCountTooLarge
	default:
		return nil
	}
}

// ForecastResponse lists upcoming windows in chronological order.
type ForecastResponse struct {
	Entries  []*ForecastEntry `cbor:"1,keyasint"`
	AtMillis int64            `cbor:"2,keyasint"`
}

// FindZoneRequest asks for the next window of Zone, current one included.
type FindZoneRequest struct {
	AtMillis int64  `cbor:"1,keyasint,omitempty"`
	Zone     string `cbor:"2,keyasint"`
}

// Validate checks the zone name.
func (r *FindZoneRequest) Validate() error {
	switch name := strings.TrimSpace(r.Zone); {
	case name == "":
		return ErrZoneRequired
	case len(name) > MaxZoneNameLength:
		return ErrZoneTooLong
	default:
		return nil
	}
}

// FindZoneResponse carries the match, or Found == false when the zone did
// not come up within HorizonWindows windows.
type FindZoneResponse struct {
	Found          bool           `cbor:"1,keyasint"`
	Entry          *ForecastEntry `cbor:"2,keyasint,omitempty"`
	HorizonWindows int32          `cbor:"3,keyasint"`
	AtMillis       int64          `cbor:"4,keyasint"`
}

// GetEntry returns the match or nil.
func (r *FindZoneResponse) GetEntry() *ForecastEntry {
	if r == nil {
		return nil
	}

	return r.Entry
}

// ListZonesRequest asks for the catalog.
type ListZonesRequest struct{}

// ListZonesResponse is the catalog in rotation order.
type ListZonesResponse struct {
	Zones          []string `cbor:"1,keyasint"`
	HorizonWindows int32    `cbor:"2,keyasint"`
}
