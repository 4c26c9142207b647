package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naolametric/naolametric/internal/api/handler"
	"github.com/naolametric/naolametric/internal/api/models"
	"github.com/naolametric/naolametric/internal/provider/resilience"
	"github.com/naolametric/naolametric/internal/transit"
)

type fixedStats transit.CacheStats

func (f fixedStats) Stats() transit.CacheStats {
	return transit.CacheStats(f)
}

func systemStatus(t *testing.T, h *handler.OpsHandler) models.SystemStatus {
	t.Helper()
	rec := httptest.NewRecorder()
	h.SystemStatus(rec, httptest.NewRequest(http.MethodGet, "/status", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)

	var status models.SystemStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	return status
}

func TestSystemStatus_Cache(t *testing.T) {
	fetchedAt := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		stats    transit.CacheStats
		expected models.HealthStatus
	}{
		{"cold", transit.CacheStats{}, models.HealthStatusFail},
		{"fresh", transit.CacheStats{Warm: true, Fresh: true, StopCount: 1200, FetchedAt: fetchedAt}, models.HealthStatusOK},
		{"stale", transit.CacheStats{Warm: true, StopCount: 1200, FetchedAt: fetchedAt}, models.HealthStatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := systemStatus(t, handler.NewOpsHandler("1.0.0", "now", fixedStats(tt.stats), nil))

			assert.Equal(t, tt.expected, status.Status)
			assert.Equal(t, tt.expected, status.StopCache.Status)
			assert.Equal(t, tt.stats.StopCount, status.StopCache.StopCount)
			assert.Equal(t, "1.0.0", status.Version)
			assert.Empty(t, status.Providers)
		})
	}
}

func TestSystemStatus_OpenCircuit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := resilience.NewClient(resilience.DefaultClientConfig("naolib-departures"))
	registry := resilience.NewRegistry()
	registry.Register(client)

	for i := 0; i < 5; i++ {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, http.NoBody)
		require.NoError(t, err)
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
		}
	}
	registry.RecordFailure("naolib-departures", &resilience.ServerError{StatusCode: http.StatusBadGateway})

	fresh := fixedStats{Warm: true, Fresh: true, StopCount: 10, FetchedAt: time.Now()}
	status := systemStatus(t, handler.NewOpsHandler("1.0.0", "now", fresh, registry))

	assert.Equal(t, models.HealthStatusFail, status.Status)
	require.Len(t, status.Providers, 1)

	provider := status.Providers[0]
	assert.Equal(t, "naolib-departures", provider.Provider)
	assert.Equal(t, models.HealthStatusFail, provider.Status)
	assert.Equal(t, "open", provider.CircuitState)
	assert.Equal(t, "10s", provider.Timeout)
	assert.NotNil(t, provider.LastFailureAt)
	assert.Nil(t, provider.LastSuccessAt)
	require.NotNil(t, provider.Message)
	assert.Contains(t, *provider.Message, "Bad Gateway")
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.NewOpsHandler("dev", "", nil, nil).HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
