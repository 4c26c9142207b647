// Package main provides the entrypoint for the NaoLaMetric API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/naolametric/naolametric/internal/api"
	"github.com/naolametric/naolametric/internal/api/middleware"
	"github.com/naolametric/naolametric/internal/config"
	"github.com/naolametric/naolametric/internal/departures"
	"github.com/naolametric/naolametric/internal/provider/resilience"
	"github.com/naolametric/naolametric/internal/telemetry"
	"github.com/naolametric/naolametric/internal/transit"
	"github.com/naolametric/naolametric/internal/transit/naolib"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "naolametric"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log = log.Level(cfg.Level())

	log.Info().
		Str("build_time", BuildTime).
		Str("environment", cfg.Environment).
		Str("default_stop", cfg.StopCode).
		Msg("starting NaoLaMetric")

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTelEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}
	providerMetrics, err := telemetry.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Upstream client, stop cache and departure pipeline
	registry := resilience.NewRegistry()

	clientCfg := cfg.NaolibClient()
	clientCfg.Registry = registry
	clientCfg.Metrics = providerMetrics
	clientCfg.Logger = log
	client := naolib.NewClient(clientCfg)

	stops := transit.NewStopCache(transit.StopCacheConfig{
		Source:  client,
		Logger:  log,
		Metrics: providerMetrics,
	})

	log.Info().Str("base_url", cfg.BaseURL).Msg("loading stop list")
	if err := stops.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("initial stop list load failed, stop codes are not validated until it succeeds")
	}

	pipeline := departures.NewPipeline(departures.PipelineConfig{
		Source: client,
		Logger: log,
	})

	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		Defaults:    cfg.Defaults(),
		Stops:       stops,
		Pipeline:    pipeline,
		Registry:    registry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
