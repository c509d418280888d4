package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "terror_zones"

// Outcome label values for ZoneQueriesTotal.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeUnknown  = "unknown_zone"
	OutcomeError    = "error"
)

//nolint:gochecknoglobals // Collectors are registered once with the default registry.
var (
	// ZoneQueriesTotal counts engine queries by operation and outcome.
	ZoneQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "zone_queries_total",
		Help:      "Zone rotation queries served, by operation and outcome.",
	}, []string{"operation", "outcome"})

	// CurrentZoneIndex is the catalog index of the zone active at the last current-zone query.
	CurrentZoneIndex = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "current_zone_index",
		Help:      "Catalog index of the zone returned by the latest current-zone query.",
	})

	// CurrentWindowStart is the start of that window in Unix seconds.
	CurrentWindowStart = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "current_window_start_seconds",
		Help:      "Start of the window returned by the latest current-zone query.",
	})

	// GRPCRequestsTotal counts unary RPCs by method and status code.
	GRPCRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "grpc_requests_total",
		Help:      "Unary gRPC requests, by method and status code.",
	}, []string{"method", "code"})

	// APIRequestsTotal counts HTTP requests.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP API requests, by method, route and status.",
	}, []string{"method", "route", "status"})

	// APIRequestDuration observes HTTP request latency.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// APIActiveConnections tracks in-flight HTTP requests.
	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_active_requests",
		Help:      "HTTP API requests currently being served.",
	})
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
