package handler

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/naolametric/naolametric/internal/api/models"
	"github.com/naolametric/naolametric/internal/api/response"
	"github.com/naolametric/naolametric/internal/provider/resilience"
	"github.com/naolametric/naolametric/internal/transit"
)

// CacheStatser reports stop cache statistics.
type CacheStatser interface {
	Stats() transit.CacheStats
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	cache     CacheStatser
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. cache and registry may be nil.
func NewOpsHandler(version, buildTime string, cache CacheStatser, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		cache:     cache,
		registry:  registry,
	}
}

// HealthCheck handles GET /health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.Text(w, r, http.StatusOK, "OK")
}

// Info handles GET /info - machine-readable API description.
func (h *OpsHandler) Info(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, apiInfo(h.version))
}

// SystemStatus handles GET /status - stop cache and upstream status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:    models.HealthStatusOK,
		Time:      models.Timestamp(time.Now()),
		Version:   h.version,
		BuildTime: h.buildTime,
		Providers: []models.ProviderStatus{},
	}

	if h.cache != nil {
		status.StopCache = cacheStatus(h.cache.Stats())
		status.Status = worst(status.Status, status.StopCache.Status)
	}

	if h.registry != nil {
		for _, health := range h.registry.All() {
			ps := providerStatus(health)
			status.Providers = append(status.Providers, ps)
			status.Status = worst(status.Status, ps.Status)
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func cacheStatus(stats transit.CacheStats) models.CacheStatus {
	cs := models.CacheStatus{
		Status:    models.HealthStatusOK,
		Fresh:     stats.Fresh,
		StopCount: stats.StopCount,
		FetchedAt: models.TimestampPtr(&stats.FetchedAt),
	}
	switch {
	case !stats.Warm || stats.StopCount == 0:
		cs.Status = models.HealthStatusFail
	case !stats.Fresh:
		cs.Status = models.HealthStatusDegraded
	}
	return cs
}

func providerStatus(health *resilience.ProviderHealth) models.ProviderStatus {
	ps := models.ProviderStatus{
		Provider:            health.Name,
		Status:              models.HealthStatusOK,
		Timeout:             health.Timeout.String(),
		CircuitState:        health.CircuitState.String(),
		ConsecutiveFailures: health.Counts.ConsecutiveFailures,
		LastSuccessAt:       models.TimestampPtr(health.LastSuccessAt),
		LastFailureAt:       models.TimestampPtr(health.LastFailureAt),
	}
	if health.LastError != "" {
		msg := health.LastError
		ps.Message = &msg
	}
	switch health.CircuitState {
	case gobreaker.StateOpen:
		ps.Status = models.HealthStatusFail
	case gobreaker.StateHalfOpen:
		ps.Status = models.HealthStatusDegraded
	}
	return ps
}

func worst(a, b models.HealthStatus) models.HealthStatus {
	rank := map[models.HealthStatus]int{
		models.HealthStatusOK:       0,
		models.HealthStatusDegraded: 1,
		models.HealthStatusFail:     2,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
