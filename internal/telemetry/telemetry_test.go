package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TestMetricsMiddleware_RecordsRoutePattern checks that requests are labelled by chi pattern.
func TestMetricsMiddleware_RecordsRoutePattern(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(http.MethodGet, "/items/{id}", "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(http.MethodGet, "/items/{id}", "418"))
	require.InDelta(t, before+1, after, 0)
}

// TestUnaryServerInterceptor_CountsCodes checks RPC counting by status code.
func TestUnaryServerInterceptor_CountsCodes(t *testing.T) {
	t.Parallel()

	interceptor := UnaryServerInterceptor(context.Background())
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Fail"}

	counter := GRPCRequestsTotal.WithLabelValues(info.FullMethod, codes.NotFound.String())
	before := testutil.ToFloat64(counter)

	_, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.NotFound, "missing")
	})
	require.Equal(t, codes.NotFound, status.Code(err))
	require.InDelta(t, before+1, testutil.ToFloat64(counter), 0)
}

// TestHandler serves the exposition format.
func TestHandler(t *testing.T) {
	t.Parallel()

	ZoneQueriesTotal.WithLabelValues("current", OutcomeOK).Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "terror_zones_zone_queries_total")
}

// TestMetricsMiddleware_UnmatchedRoute checks that unrouted paths share one label.
func TestMetricsMiddleware_UnmatchedRoute(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Get("/known", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	counter := APIRequestsTotal.WithLabelValues(http.MethodGet, UnmatchedRoute, "404")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/random/1", "/random/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	require.InDelta(t, before+2, testutil.ToFloat64(counter), 0)
}
