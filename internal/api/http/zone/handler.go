package zone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	domain "github.com/oshokin/terror-zones/internal/domain/zone"
	"github.com/oshokin/terror-zones/internal/logger"
	"github.com/oshokin/terror-zones/internal/telemetry"
	"github.com/oshokin/terror-zones/internal/wire"
)

// DefaultForecastCount is used when the count query parameter is absent.
const DefaultForecastCount = 8

// Service abstracts the business operations the HTTP layer depends on.
type Service interface {
	NowMillis() int64
	CurrentZone(ctx context.Context, atMillis int64) domain.Status
	Forecast(ctx context.Context, atMillis int64, count int) ([]domain.ForecastEntry, error)
	FindZone(ctx context.Context, atMillis int64, name string) (domain.ForecastEntry, bool, error)
	Zones(ctx context.Context) []string
	Horizon() int
}

// windowJSON is the JSON form of a rotation window.
type windowJSON struct {
	Zone        string `json:"zone"`
	StartMillis int64  `json:"window_start_ms"`
	EndMillis   int64  `json:"window_end_ms"`
	// Start is RFC3339 in UTC. Years past 9999 keep their extra digits.
	Start string `json:"window_start"`
}

// currentJSON is the body of GET /zones/current.
type currentJSON struct {
	windowJSON

	SecondsUntilNextBoundary int64 `json:"seconds_until_next_boundary"`
	AtMillis                 int64 `json:"at_ms"`
}

// entryJSON is one forecast entry.
type entryJSON struct {
	windowJSON

	SecondsUntilActive int64 `json:"seconds_until_active"`
}

// forecastJSON is the body of GET /zones/forecast.
type forecastJSON struct {
	Entries  []entryJSON `json:"entries"`
	AtMillis int64       `json:"at_ms"`
}

// findJSON is the body of GET /zones/find.
type findJSON struct {
	Found          bool       `json:"found"`
	Entry          *entryJSON `json:"entry,omitempty"`
	HorizonWindows int        `json:"horizon_windows"`
	AtMillis       int64      `json:"at_ms"`
}

// zonesJSON is the body of GET /zones.
type zonesJSON struct {
	Zones          []string `json:"zones"`
	HorizonWindows int      `json:"horizon_windows"`
}

// Handler serves the JSON API.
type Handler struct {
	// service provides the zone rotation queries.
	service Service
	// base carries the request logger.
	base context.Context
}

// NewHandler creates an HTTP handler over service. Requests log through base's logger.
func NewHandler(base context.Context, service Service) *Handler {
	return &Handler{
		service: service,
		base:    base,
	}
}

// Router builds the chi router with API, health and metrics routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(telemetry.MetricsMiddleware)

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	r.Route("/api/v1/zones", func(r chi.Router) {
		r.Get("/", h.handleZones)
		r.Get("/current", h.handleCurrent)
		r.Get("/forecast", h.handleForecast)
		r.Get("/find", h.handleFind)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleZones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, zonesJSON{
		Zones:          h.service.Zones(h.context(r)),
		HorizonWindows: h.service.Horizon(),
	})
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	at, err := h.at(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := h.service.CurrentZone(h.context(r), at)

	writeJSON(w, http.StatusOK, currentJSON{
		windowJSON:               toWindowJSON(status.Window),
		SecondsUntilNextBoundary: status.SecondsUntilNextBoundary,
		AtMillis:                 at,
	})
}

func (h *Handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	at, err := h.at(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	count := DefaultForecastCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "count must be an integer")
			return
		}
	}

	if count < 0 || count > wire.MaxForecastCount {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("count must be within [0, %d]", wire.MaxForecastCount))
		return
	}

	entries, err := h.service.Forecast(h.context(r), at, count)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	body := forecastJSON{
		Entries:  make([]entryJSON, 0, len(entries)),
		AtMillis: at,
	}

	for _, entry := range entries {
		body.Entries = append(body.Entries, toEntryJSON(entry))
	}

	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) handleFind(w http.ResponseWriter, r *http.Request) {
	at, err := h.at(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	request := wire.FindZoneRequest{Zone: r.URL.Query().Get("zone")}
	if err = request.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, found, err := h.service.FindZone(h.context(r), at, request.Zone)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	body := findJSON{
		Found:          found,
		HorizonWindows: h.service.Horizon(),
		AtMillis:       at,
	}

	if found {
		e := toEntryJSON(entry)
		body.Entry = &e
	}

	writeJSON(w, http.StatusOK, body)
}

// context returns the request context carrying the handler logger.
func (h *Handler) context(r *http.Request) context.Context {
	return logger.ToContext(r.Context(), logger.FromContext(h.base))
}

// at reads the optional "at" parameter (Unix milliseconds), defaulting to now.
func (h *Handler) at(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("at")
	if raw == "" {
		return h.service.NowMillis(), nil
	}

	at, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("at must be Unix milliseconds")
	}

	return at, nil
}

func toWindowJSON(w domain.Window) windowJSON {
	return windowJSON{
		Zone:        w.Zone,
		StartMillis: w.StartMillis,
		EndMillis:   w.EndMillis(),
		Start:       w.Start().UTC().Format(time.RFC3339),
	}
}

func toEntryJSON(e domain.ForecastEntry) entryJSON {
	return entryJSON{
		windowJSON:         toWindowJSON(e.Window),
		SecondsUntilActive: e.SecondsUntilActive,
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnknownZone):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "unable to resolve zone rotation")
	}
}

// writeJSON encodes data before committing the status so an encoding
// failure becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, data any) {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(data); err != nil {
		status = http.StatusInternalServerError
		body.Reset()
		body.WriteString(`{"error":"unable to encode response"}` + "\n")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body.Bytes())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
