// Package server provides the HTTP server for lixshare.
// It configures routing, middleware, metrics and tracing, and serves the
// document API along with the web frontend.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/liskl/lixshare/internal/config"
	"github.com/liskl/lixshare/internal/gateway"
	"github.com/liskl/lixshare/internal/handler"
	lsMiddleware "github.com/liskl/lixshare/internal/middleware"
)

// Server wraps the HTTP server with lixshare configuration.
type Server struct {
	httpServer *http.Server
	config     *config.Config
	logger     *zap.Logger
}

// New creates a new lixshare HTTP server. gatherer backs the metrics
// endpoint and may be nil when metrics are disabled.
func New(cfg *config.Config, gw *gateway.Gateway, logger *zap.Logger, gatherer prometheus.Gatherer) (*Server, error) {
	// Create the main router
	r := chi.NewRouter()

	// Apply middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(lsMiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Security headers
	r.Use(lsMiddleware.SecurityHeaders(cfg))

	if cfg.Metrics.Enabled {
		if gatherer == nil {
			return nil, fmt.Errorf("metrics enabled without a gatherer")
		}
		r.Use(lsMiddleware.Metrics())
	}

	if cfg.Tracing.Enabled {
		r.Use(lsMiddleware.TraceName())
	}

	// chi requires every middleware before the first route
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Create the main handler
	h := handler.New(cfg, gw, logger)

	// Mount routes
	r.Mount("/", h.Routes())

	var root http.Handler = r
	if cfg.Tracing.Enabled {
		root = otelhttp.NewHandler(r, cfg.Tracing.ServiceName)
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Main.Host, cfg.Main.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      root,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		config:     cfg,
		logger:     logger,
	}, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the server's address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
