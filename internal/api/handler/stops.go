package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/naolametric/naolametric/internal/api/models"
	"github.com/naolametric/naolametric/internal/api/response"
	"github.com/naolametric/naolametric/internal/transit"
)

// StopSearcher searches a refreshable stop list.
type StopSearcher interface {
	EnsureFresh(ctx context.Context)
	Search(term string, limit int) ([]transit.Stop, error)
}

// StopsHandler serves the stop listings.
type StopsHandler struct {
	stops  StopSearcher
	logger zerolog.Logger
}

// NewStopsHandler creates a new StopsHandler.
func NewStopsHandler(stops StopSearcher, logger zerolog.Logger) *StopsHandler {
	return &StopsHandler{
		stops:  stops,
		logger: logger,
	}
}

// ListStops handles GET /stops - stop search.
func (h *StopsHandler) ListStops(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	term := strings.TrimSpace(query.Get("search"))
	limit := stopsLimit(query.Get("limit"))

	h.stops.EnsureFresh(r.Context())

	stops, err := h.stops.Search(term, limit)
	switch {
	case errors.Is(err, transit.ErrCacheNotReady):
		response.ServiceUnavailable(w, r, models.ErrMsgCacheNotReady)
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("stop search failed")
		response.InternalError(w, r, models.ErrMsgCacheError)
		return
	}

	items := make([]models.StopItem, 0, len(stops))
	for _, s := range stops {
		items = append(items, models.StopItem{Code: s.Code, Label: s.Label})
	}
	response.JSON(w, r, http.StatusOK, items)
}

// ListPopularStops handles GET /popular-stops - the curated stop list.
func (h *StopsHandler) ListPopularStops(w http.ResponseWriter, r *http.Request) {
	popular, err := transit.PopularStops()
	if err != nil {
		h.logger.Error().Err(err).Msg("popular stops unavailable")
		response.InternalError(w, r, models.ErrMsgInternal)
		return
	}

	items := make([]models.PopularStop, 0, len(popular))
	for _, s := range popular {
		items = append(items, models.PopularStop{Code: s.Code, Name: s.Name})
	}
	response.JSON(w, r, http.StatusOK, items)
}

// stopsLimit parses the /stops limit: absent or unparsable means the
// maximum, anything below 1 means 1.
func stopsLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return transit.MaxSearchResults
	}
	return max(1, min(n, transit.MaxSearchResults))
}
