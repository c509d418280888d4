package telemetry

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/oshokin/terror-zones/internal/logger"
)

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter

	// statusCode is the first status written.
	statusCode int
	// written is set once headers went out.
	written bool
}

// WriteHeader records the status before delegating.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.written {
		return
	}

	rw.statusCode = code
	rw.written = true
	rw.ResponseWriter.WriteHeader(code)
}

// Write sends an implicit 200 on first use.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}

	return rw.ResponseWriter.Write(b)
}

// UnmatchedRoute labels requests no route pattern matched.
const UnmatchedRoute = "unmatched"

// MetricsMiddleware tracks HTTP request metrics by chi route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		APIActiveConnections.Inc()
		defer APIActiveConnections.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		// The pattern is only known after routing. Unrouted paths share one
		// label to keep the series count bounded.
		route := UnmatchedRoute
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil && routeCtx.RoutePattern() != "" {
			route = routeCtx.RoutePattern()
		}

		code := strconv.Itoa(wrapped.statusCode)

		APIRequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
		APIRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
	})
}

// UnaryServerInterceptor counts and logs unary RPCs.
// Handlers see a context carrying the logger of base.
func UnaryServerInterceptor(base context.Context) grpc.UnaryServerInterceptor {
	log := logger.FromContext(base)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		ctx = logger.ToContext(ctx, log)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		GRPCRequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()

		logger.DebugKV(ctx, "RPC served",
			"method", info.FullMethod,
			"code", code.String(),
			"duration", time.Since(start),
		)

		return resp, err
	}
}
