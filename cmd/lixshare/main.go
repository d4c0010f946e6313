// Package main is the entry point for lixshare, a minimal document sharing
// service. This file handles command-line argument parsing, configuration
// loading, and orchestrates the startup of all application components.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/liskl/lixshare/internal/config"
	"github.com/liskl/lixshare/internal/gateway"
	"github.com/liskl/lixshare/internal/logger"
	"github.com/liskl/lixshare/internal/metrics"
	"github.com/liskl/lixshare/internal/render"
	"github.com/liskl/lixshare/internal/server"
	"github.com/liskl/lixshare/internal/storage"
	"github.com/liskl/lixshare/internal/trace"
)

// Version information set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "none"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config.ini", "Path to configuration file")
	envPath := flag.String("env", ".env", "Path to dotenv file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("lixshare %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	// A missing .env is normal outside development
	_ = godotenv.Load(*envPath)

	// Load configuration from INI file and environment variables
	// Environment variables override file settings (12-factor app pattern)
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		os.Exit(stopWith(log, err))
	}
}

// stopWith logs the error that ended run and flushes the logger before the
// caller exits, since os.Exit skips deferred calls.
func stopWith(log *zap.Logger, err error) int {
	log.Error("lixshare stopped", zap.Error(err))
	_ = log.Sync()
	return 1
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	if cfg.Tracing.Enabled {
		shutdown, err := trace.Init(ctx, cfg.Tracing)
		if err != nil {
			return fmt.Errorf("initializing tracing: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Warn("tracer shutdown", zap.Error(err))
			}
		}()
	}

	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if err := metrics.Register(reg); err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		gatherer = reg
	}

	// Initialize the storage backend based on configuration
	// Supports: sqlite, postgres, mysql, filesystem, mongo, redis, minio
	store, err := storage.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	gw := gateway.New(store, render.New(render.Options{Sanitize: cfg.Main.Sanitize}),
		gateway.WithIDLength(cfg.Main.IDLength),
		gateway.WithMaxRetries(cfg.Main.MaxRetries),
		gateway.WithLogger(log.Named("gateway")),
	)

	srv, err := server.New(cfg, gw, log, gatherer)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start the server in a goroutine so we can handle shutdown gracefully
	errCh := make(chan error, 1)
	go func() {
		log.Info("lixshare starting",
			zap.String("version", version),
			zap.String("addr", srv.Addr()),
			zap.String("storage", cfg.Model.Class),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM) for graceful shutdown
	// This ensures in-flight requests complete and resources are cleaned up
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("shutting down server")

	// Give outstanding requests up to 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}
