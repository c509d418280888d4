//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"

	"github.com/oshokin/terror-zones/internal/config"
	"github.com/oshokin/terror-zones/internal/domain/zone"
)

// Source answers rotation queries. LocalSource and Client both implement it.
type Source interface {
	CurrentZone(ctx context.Context, atMillis int64) (zone.Status, error)
	Forecast(ctx context.Context, atMillis int64, count int) ([]zone.ForecastEntry, error)
	FindZone(ctx context.Context, atMillis int64, name string) (zone.ForecastEntry, bool, error)
	ListZones(ctx context.Context) ([]string, error)
}

var (
	_ Source = (*LocalSource)(nil)
	_ Source = (*Client)(nil)
)

// OpenSource dials serverAddress when it is set and otherwise builds a local
// engine from the settings. The returned function releases the source.
func OpenSource(ctx context.Context, settings *config.Config, serverAddress string) (Source, func(), error) {
	if serverAddress != "" {
		client, err := Dial(ctx, serverAddress, WithCallTimeout(settings.Timeout))
		if err != nil {
			return nil, nil, fmt.Errorf("dial server: %w", err)
		}

		return client, func() { _ = client.Close() }, nil
	}

	engine, err := NewEngine(ctx, settings.CatalogFile, settings.SearchHorizon)
	if err != nil {
		return nil, nil, err
	}

	return NewLocalSource(engine), func() {}, nil
}
