package zone

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/oshokin/terror-zones/internal/domain/zone"
	"github.com/oshokin/terror-zones/internal/wire"
)

// Service abstracts the business operations the transport layer depends on.
// A zero atMillis is never passed; the transport resolves "now" first.
type Service interface {
	NowMillis() int64
	CurrentZone(ctx context.Context, atMillis int64) domain.Status
	Forecast(ctx context.Context, atMillis int64, count int) ([]domain.ForecastEntry, error)
	FindZone(ctx context.Context, atMillis int64, name string) (domain.ForecastEntry, bool, error)
	Zones(ctx context.Context) []string
	Horizon() int
}

// Server implements the ZoneService gRPC API.
type Server struct {
	wire.UnimplementedZoneServiceServer

	// service provides the zone rotation queries.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// GetCurrentZone returns the window active at the requested time.
func (s *Server) GetCurrentZone(ctx context.Context, req *wire.CurrentZoneRequest) (*wire.CurrentZoneResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	at := s.resolve(req.AtMillis)
	current := s.service.CurrentZone(ctx, at)

	return &wire.CurrentZoneResponse{
		Window:                   ToWireWindow(current.Window),
		SecondsUntilNextBoundary: current.SecondsUntilNextBoundary,
		AtMillis:                 at,
	}, nil
}

// GetForecast returns the windows following the current one.
func (s *Server) GetForecast(ctx context.Context, req *wire.ForecastRequest) (*wire.ForecastResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	at := s.resolve(req.AtMillis)

	entries, err := s.service.Forecast(ctx, at, int(req.Count))
	if err != nil {
		return nil, toStatus(err)
	}

	result := make([]*wire.ForecastEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, ToWireEntry(entry))
	}

	return &wire.ForecastResponse{
		Entries:  result,
		AtMillis: at,
	}, nil
}

// FindZone returns the next window of the requested zone.
func (s *Server) FindZone(ctx context.Context, req *wire.FindZoneRequest) (*wire.FindZoneResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	at := s.resolve(req.AtMillis)

	entry, found, err := s.service.FindZone(ctx, at, req.Zone)
	if err != nil {
		return nil, toStatus(err)
	}

	response := &wire.FindZoneResponse{
		Found:          found,
		HorizonWindows: int32(s.service.Horizon()), //nolint:gosec // Horizon is bounded by config validation.
		AtMillis:       at,
	}

	if found {
		response.Entry = ToWireEntry(entry)
	}

	return response, nil
}

// ListZones returns the catalog in rotation order.
func (s *Server) ListZones(ctx context.Context, _ *wire.ListZonesRequest) (*wire.ListZonesResponse, error) {
	return &wire.ListZonesResponse{
		Zones:          s.service.Zones(ctx),
		HorizonWindows: int32(s.service.Horizon()), //nolint:gosec // Horizon is bounded by config validation.
	}, nil
}

// resolve substitutes the service clock for an unset time.
func (s *Server) resolve(atMillis int64) int64 {
	if atMillis == 0 {
		return s.service.NowMillis()
	}

	return atMillis
}

// toStatus maps domain errors to gRPC status errors.
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrUnknownZone):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, "unable to resolve zone rotation")
	}
}

// ToWireWindow converts a domain window to its wire form.
func ToWireWindow(w domain.Window) *wire.ZoneWindow {
	return &wire.ZoneWindow{
		Zone:        w.Zone,
		StartMillis: w.StartMillis,
		EndMillis:   w.EndMillis(),
	}
}

// ToWireEntry converts a domain forecast entry to its wire form.
func ToWireEntry(e domain.ForecastEntry) *wire.ForecastEntry {
	return &wire.ForecastEntry{
		Window:             ToWireWindow(e.Window),
		SecondsUntilActive: e.SecondsUntilActive,
	}
}

// FromWireEntry converts a wire forecast entry back to the domain form.
func FromWireEntry(e *wire.ForecastEntry) domain.ForecastEntry {
	w := e.GetWindow()
	if w == nil {
		return domain.ForecastEntry{}
	}

	return domain.ForecastEntry{
		Window: domain.Window{
			Zone:        w.Zone,
			StartMillis: w.StartMillis,
		},
		SecondsUntilActive: e.SecondsUntilActive,
	}
}
