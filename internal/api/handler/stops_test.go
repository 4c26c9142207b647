package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naolametric/naolametric/internal/api/handler"
	"github.com/naolametric/naolametric/internal/transit"
)

// recordingSearcher records the arguments of each Search call.
type recordingSearcher struct {
	refreshed int
	term      string
	limit     int
	err       error
}

func (s *recordingSearcher) EnsureFresh(context.Context) {
	s.refreshed++
}

func (s *recordingSearcher) Search(term string, limit int) ([]transit.Stop, error) {
	s.term = term
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	return []transit.Stop{{Code: "COMM", Label: "Commerce"}}, nil
}

func TestListStops_QueryParsing(t *testing.T) {
	tests := []struct {
		target string
		term   string
		limit  int
	}{
		{"/stops", "", 500},
		{"/stops?limit=abc", "", 500},
		{"/stops?limit=0", "", 1},
		{"/stops?limit=-3", "", 1},
		{"/stops?limit=20&search=%20gare%20", "gare", 20},
		{"/stops?limit=9999", "", 500},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			searcher := &recordingSearcher{}
			h := handler.NewStopsHandler(searcher, zerolog.Nop())

			rec := httptest.NewRecorder()
			h.ListStops(rec, httptest.NewRequest(http.MethodGet, tt.target, http.NoBody))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, 1, searcher.refreshed)
			assert.Equal(t, tt.term, searcher.term)
			assert.Equal(t, tt.limit, searcher.limit)
			assert.JSONEq(t, `[{"codeLieu":"COMM","libelle":"Commerce"}]`, rec.Body.String())
		})
	}
}

func TestListStops_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"cache not ready", transit.ErrCacheNotReady, http.StatusServiceUnavailable, `{"error":"Cache not ready"}`},
		{"other failure", assert.AnError, http.StatusInternalServerError, `{"error":"Cache error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewStopsHandler(&recordingSearcher{err: tt.err}, zerolog.Nop())

			rec := httptest.NewRecorder()
			h.ListStops(rec, httptest.NewRequest(http.MethodGet, "/stops", http.NoBody))

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestListPopularStops(t *testing.T) {
	h := handler.NewStopsHandler(&recordingSearcher{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.ListPopularStops(rec, httptest.NewRequest(http.MethodGet, "/popular-stops", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)

	var items []map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	require.Len(t, items, 14)
	assert.Equal(t, map[string]string{"code": "COMM", "name": "Commerce"}, items[0])
}
