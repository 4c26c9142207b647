// Package api provides the HTTP API for NaoLaMetric.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/naolametric/naolametric/internal/api/handler"
	"github.com/naolametric/naolametric/internal/api/middleware"
	"github.com/naolametric/naolametric/internal/api/response"
	"github.com/naolametric/naolametric/internal/departures"
	"github.com/naolametric/naolametric/internal/provider/resilience"
	"github.com/naolametric/naolametric/internal/transit"
)

// StopCache is the stop list as seen by the HTTP layer.
type StopCache interface {
	handler.StopCatalog
	handler.StopSearcher
	handler.CacheStatser
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// Defaults are the per-request settings taken from the environment.
	Defaults departures.Defaults

	Stops    StopCache
	Pipeline handler.DepartureRunner
	Registry *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "naolametric"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.GetOnly) // Any method but GET is a 405, even on unknown paths
	r.Use(middleware.ContentTypeJSON)

	r.NotFound(response.NotFound)
	r.MethodNotAllowed(response.MethodNotAllowed)

	departuresHandler := handler.NewDeparturesHandler(cfg.Defaults, cfg.Stops, cfg.Pipeline, cfg.Logger)
	stopsHandler := handler.NewStopsHandler(cfg.Stops, cfg.Logger)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Stops, cfg.Registry)

	r.Get("/", departuresHandler.GetDepartures)
	r.Get("/stops", stopsHandler.ListStops)
	r.Get("/popular-stops", stopsHandler.ListPopularStops)
	r.Get("/health", opsHandler.HealthCheck)
	r.Get("/info", opsHandler.Info)
	r.Get("/status", opsHandler.SystemStatus)

	return r
}

var _ StopCache = (*transit.StopCache)(nil)
