// Package handler provides HTTP handlers for the NaoLaMetric API.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/naolametric/naolametric/internal/api/models"
	"github.com/naolametric/naolametric/internal/api/response"
	"github.com/naolametric/naolametric/internal/departures"
	"github.com/naolametric/naolametric/internal/transit"
)

// StopCatalog validates stop codes against a refreshable stop list.
type StopCatalog interface {
	EnsureFresh(ctx context.Context)
	IsValidCode(code string) bool
	Lookup(code string) (transit.Stop, bool)
}

// DepartureRunner produces the display response for a resolved request.
type DepartureRunner interface {
	Run(ctx context.Context, cfg departures.RequestConfig) (departures.Response, error)
}

// DeparturesHandler serves the LaMetric frames.
type DeparturesHandler struct {
	defaults departures.Defaults
	stops    StopCatalog
	pipeline DepartureRunner
	logger   zerolog.Logger
}

// NewDeparturesHandler creates a new DeparturesHandler.
func NewDeparturesHandler(defaults departures.Defaults, stops StopCatalog, pipeline DepartureRunner, logger zerolog.Logger) *DeparturesHandler {
	return &DeparturesHandler{
		defaults: defaults,
		stops:    stops,
		pipeline: pipeline,
		logger:   logger,
	}
}

// GetDepartures handles GET / - next departures as LaMetric frames.
// Every failure is answered with a single error frame so the device always
// has something to show.
func (h *DeparturesHandler) GetDepartures(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cfg, err := departures.Resolve(h.defaults, r.URL.Query(), freshStops{ctx: ctx, stops: h.stops})
	if err != nil {
		status, message := resolveError(err)
		h.logger.Debug().
			Err(err).
			Str("query", r.URL.RawQuery).
			Msg("rejected departure request")
		response.FrameError(w, r, status, message)
		return
	}

	label := cfg.StopCode
	if stop, ok := h.stops.Lookup(cfg.StopCode); ok && stop.Label != "" {
		label = stop.Label
	}

	resp, err := h.pipeline.Run(ctx, cfg)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("stop", cfg.StopCode).
			Str("stop_label", label).
			Msg("naolib departures request failed")
		response.FrameError(w, r, http.StatusBadGateway, models.FrameMsgAPIError)
		return
	}

	h.logger.Debug().
		Str("stop", cfg.StopCode).
		Str("stop_label", label).
		Int("frames", len(resp.Frames)).
		Msg("departures served")

	response.Frames(w, r, http.StatusOK, resp)
}

func resolveError(err error) (int, string) {
	switch {
	case errors.Is(err, departures.ErrMissingStopCode):
		return http.StatusBadRequest, models.FrameMsgNoStop
	case errors.Is(err, departures.ErrInvalidDirection):
		return http.StatusBadRequest, models.FrameMsgBadDir
	default:
		return http.StatusBadRequest, models.FrameMsgBadStop
	}
}

// freshStops refreshes the stop list only once a request gets as far as
// stop code validation, so malformed requests never reach upstream.
type freshStops struct {
	ctx   context.Context
	stops StopCatalog
}

func (f freshStops) IsValidCode(code string) bool {
	f.stops.EnsureFresh(f.ctx)
	return f.stops.IsValidCode(code)
}
