//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	grpcapi "github.com/oshokin/terror-zones/internal/api/grpc/zone"
	"github.com/oshokin/terror-zones/internal/config"
	"github.com/oshokin/terror-zones/internal/domain/zone"
	"github.com/oshokin/terror-zones/internal/wire"
)

// Client wraps the gRPC ZoneService client with convenience helpers
// that return domain types.
type Client struct {
	// conn is the underlying gRPC connection to the zone server.
	conn *grpc.ClientConn
	// api is the ZoneService client interface.
	api wire.ZoneServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial establishes a gRPC connection to the zone server.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial zone server: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         wire.NewZoneServiceClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// CurrentZone asks the server for the window active at atMillis (0 = server now).
func (c *Client) CurrentZone(ctx context.Context, atMillis int64) (zone.Status, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetCurrentZone(callCtx, &wire.CurrentZoneRequest{AtMillis: atMillis})
	if err != nil {
		return zone.Status{}, fmt.Errorf("get current zone: %w", fromStatus(err))
	}

	w := resp.GetWindow()
	if w == nil {
		return zone.Status{}, errEmptyResponse
	}

	return zone.Status{
		Window: zone.Window{
			Zone:        w.Zone,
			StartMillis: w.StartMillis,
		},
		SecondsUntilNextBoundary: resp.SecondsUntilNextBoundary,
	}, nil
}

// Forecast asks the server for count windows after the current one.
func (c *Client) Forecast(ctx context.Context, atMillis int64, count int) ([]zone.ForecastEntry, error) {
	if count < 0 || count > wire.MaxForecastCount {
		return nil, fmt.Errorf("%w: count %d not within [0, %d]", zone.ErrInvalidArgument, count, wire.MaxForecastCount)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	request := &wire.ForecastRequest{
		AtMillis: atMillis,
		Count:    int32(count), //nolint:gosec // Bounded above.
	}

	resp, err := c.api.GetForecast(callCtx, request)
	if err != nil {
		return nil, fmt.Errorf("get forecast: %w", fromStatus(err))
	}

	entries := make([]zone.ForecastEntry, 0, len(resp.Entries))
	for _, entry := range resp.Entries {
		entries = append(entries, grpcapi.FromWireEntry(entry))
	}

	return entries, nil
}

// FindZone asks the server for the next window of name.
func (c *Client) FindZone(ctx context.Context, atMillis int64, name string) (zone.ForecastEntry, bool, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.FindZone(callCtx, &wire.FindZoneRequest{AtMillis: atMillis, Zone: name})
	if err != nil {
		return zone.ForecastEntry{}, false, fmt.Errorf("find zone: %w", fromStatus(err))
	}

	if !resp.Found {
		return zone.ForecastEntry{}, false, nil
	}

	return grpcapi.FromWireEntry(resp.GetEntry()), true, nil
}

// ListZones returns the server catalog in rotation order.
func (c *Client) ListZones(ctx context.Context) ([]string, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.ListZones(callCtx, new(wire.ListZonesRequest))
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", fromStatus(err))
	}

	return resp.Zones, nil
}

// errEmptyResponse is returned when the server omits the window.
var errEmptyResponse = errors.New("server returned an empty window")

// fromStatus maps gRPC status codes back to the domain sentinels so remote
// and local sources fail the same way. Other errors pass through unchanged.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", zone.ErrUnknownZone, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", zone.ErrInvalidArgument, st.Message())
	default:
		return err
	}
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
