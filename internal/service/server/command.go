package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"

	grpcapi "github.com/oshokin/terror-zones/internal/api/grpc/zone"
	httpapi "github.com/oshokin/terror-zones/internal/api/http/zone"
	"github.com/oshokin/terror-zones/internal/config"
	"github.com/oshokin/terror-zones/internal/logger"
	"github.com/oshokin/terror-zones/internal/service/common"
	"github.com/oshokin/terror-zones/internal/telemetry"
	"github.com/oshokin/terror-zones/internal/wire"
)

// Options controls the zone-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// HTTPAddress overrides http_addr from the settings file.
	HTTPAddress string
	// CatalogFile overrides catalog_file from the settings file.
	CatalogFile string
	// Now overrides the clock; tests pin it.
	Now func() time.Time
	// Ready, when set, receives the bound gRPC and HTTP addresses once listening.
	Ready func(grpcAddress, httpAddress string)
}

// shutdownTimeout bounds the graceful HTTP shutdown.
const shutdownTimeout = 5 * time.Second

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the gRPC server (and the HTTP API when configured) and blocks
// until the context is canceled or a server stops.
//
//nolint:funlen // Start-up and shutdown read best as one sequence.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "zone-server")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	catalogFile := settings.CatalogFile
	if opts.CatalogFile != "" {
		catalogFile = opts.CatalogFile
	}

	httpAddress := settings.HTTPAddress
	if opts.HTTPAddress != "" {
		httpAddress = opts.HTTPAddress
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	engine, err := common.NewEngine(ctx, catalogFile, settings.SearchHorizon)
	if err != nil {
		return err
	}

	svc := newService(engine, opts.Now)

	lc := net.ListenConfig{}

	grpcListener, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := newGRPCServer(ctx, svc)

	var (
		httpServer   *http.Server
		httpListener net.Listener
	)

	if httpAddress != "" {
		httpListener, err = lc.Listen(ctx, "tcp", httpAddress)
		if err != nil {
			_ = grpcListener.Close()

			return fmt.Errorf("listen on %s: %w", httpAddress, err)
		}

		httpServer = &http.Server{
			Handler:           httpapi.NewHandler(ctx, svc).Router(),
			ReadHeaderTimeout: settings.Timeout,
		}
	}

	logger.InfoKV(ctx, "Zone server listening",
		"grpc_address", grpcListener.Addr().String(),
		"http_address", addrString(httpListener),
		"zones", engine.Catalog().Len(),
		"horizon", engine.Horizon(),
	)

	if opts.Ready != nil {
		opts.Ready(grpcListener.Addr().String(), addrString(httpListener))
	}

	errs := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errs <- fmt.Errorf("serve gRPC: %w", err)

			return
		}

		errs <- nil
	}()

	if httpServer != nil {
		go func() {
			if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- fmt.Errorf("serve HTTP: %w", err)

				return
			}

			errs <- nil
		}()
	}

	var runErr error

	select {
	case <-ctx.Done():
	case runErr = <-errs:
	}

	logger.Info(ctx, "Shutting down zone server")

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "HTTP shutdown failed", "error", err)
		}

		cancel()
	}

	grpcServer.GracefulStop()
	logger.Info(ctx, "Zone server stopped")

	return runErr
}

// newGRPCServer creates the gRPC server with the zone service registered.
func newGRPCServer(ctx context.Context, svc *service) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(telemetry.UnaryServerInterceptor(ctx)),
	)

	wire.RegisterZoneServiceServer(grpcServer, grpcapi.NewServer(svc))

	return grpcServer
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return ":" + port, nil
}

// addrString returns the listener address or "" when l is nil.
func addrString(l net.Listener) string {
	if l == nil {
		return ""
	}

	return l.Addr().String()
}
