package transit

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/naolametric/naolametric/internal/clock"
	"github.com/naolametric/naolametric/internal/telemetry"
)

const (
	// DefaultStopCacheTTL is how long a stop list stays valid.
	DefaultStopCacheTTL = time.Hour

	// MaxSearchResults caps the number of stops returned by Search.
	MaxSearchResults = 500

	cacheProvider  = "naolib"
	cacheOperation = "stops"
)

// StopSource fetches the full stop list from the upstream API.
type StopSource interface {
	GetStops(ctx context.Context) ([]Stop, error)
}

// StopCacheConfig holds configuration for the stop cache.
type StopCacheConfig struct {
	Source StopSource
	Logger zerolog.Logger

	// Clock defaults to the system clock.
	Clock clock.Clock

	// TTL defaults to DefaultStopCacheTTL.
	TTL time.Duration

	// Metrics is optional.
	Metrics *telemetry.ProviderMetrics
}

// StopCache holds the most recently fetched stop list.
//
// The cache is Cold until the first successful Refresh and Warm afterwards.
// Each refresh builds a complete snapshot before swapping it in, so readers
// see either the previous or the next list, never a partial one. No lock is
// held while the upstream is called.
type StopCache struct {
	source  StopSource
	logger  zerolog.Logger
	clock   clock.Clock
	ttl     time.Duration
	metrics *telemetry.ProviderMetrics

	group singleflight.Group

	mu   sync.RWMutex
	snap *stopSnapshot
}

type stopSnapshot struct {
	stops     []Stop
	byCode    map[string]Stop
	fetchedAt time.Time
}

// CacheStats describes the current cache state.
type CacheStats struct {
	Warm      bool
	Fresh     bool
	StopCount int
	FetchedAt time.Time
}

// NewStopCache creates a cold stop cache.
func NewStopCache(cfg StopCacheConfig) *StopCache {
	c := cfg.Clock
	if c == nil {
		c = clock.Real{}
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultStopCacheTTL
	}

	return &StopCache{
		source:  cfg.Source,
		logger:  cfg.Logger,
		clock:   c,
		ttl:     ttl,
		metrics: cfg.Metrics,
	}
}

// Refresh fetches the stop list and replaces the snapshot on success.
// On failure the current snapshot is left untouched and the error returned.
// Concurrent calls share a single upstream fetch, which is detached from the
// first caller's cancellation so one aborted request cannot fail the others.
func (c *StopCache) Refresh(ctx context.Context) error {
	_, err, _ := c.group.Do(cacheOperation, func() (interface{}, error) {
		return nil, c.refresh(context.WithoutCancel(ctx))
	})
	return err
}

func (c *StopCache) refresh(ctx context.Context) error {
	stops, err := c.source.GetStops(ctx)
	if err != nil {
		return err
	}

	snap := &stopSnapshot{
		stops:     stops,
		byCode:    make(map[string]Stop, len(stops)),
		fetchedAt: c.clock.Now(),
	}
	for _, s := range stops {
		snap.byCode[strings.ToUpper(s.Code)] = s
	}

	c.mu.Lock()
	if c.snap == nil || !snap.fetchedAt.Before(c.snap.fetchedAt) {
		c.snap = snap
	}
	c.mu.Unlock()

	c.logger.Info().
		Int("stops", len(stops)).
		Msg("stop cache refreshed")

	return nil
}

// IsValid reports whether a snapshot exists and is younger than the TTL.
func (c *StopCache) IsValid() bool {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	return snap != nil && c.clock.Now().Sub(snap.fetchedAt) < c.ttl
}

// EnsureFresh refreshes the cache when it is not valid. A failed refresh is
// logged and otherwise ignored so callers can continue with a stale snapshot,
// or with the fail-open policy while still cold.
func (c *StopCache) EnsureFresh(ctx context.Context) {
	if c.IsValid() {
		c.metrics.RecordCacheHit(cacheProvider, cacheOperation)
		return
	}
	c.metrics.RecordCacheMiss(cacheProvider, cacheOperation)

	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("stop cache refresh failed, keeping current snapshot")
	}
}

// IsValidCode reports whether code is a known stop, ignoring case.
// An empty snapshot accepts every code so departures stay available while
// the stop list endpoint is down.
func (c *StopCache) IsValidCode(code string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snap == nil || len(c.snap.stops) == 0 {
		return true
	}
	_, ok := c.snap.byCode[strings.ToUpper(code)]
	return ok
}

// Lookup returns the stop with the given code, ignoring case.
func (c *StopCache) Lookup(code string) (Stop, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snap == nil {
		return Stop{}, false
	}
	s, ok := c.snap.byCode[strings.ToUpper(code)]
	return s, ok
}

// Search returns stops whose code or label contains term, ignoring case, in
// upstream order. An empty term matches every stop. At most
// min(limit, MaxSearchResults) stops are returned, and at least one is
// requested. ErrCacheNotReady is returned while the snapshot is empty.
func (c *StopCache) Search(term string, limit int) ([]Stop, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if snap == nil || len(snap.stops) == 0 {
		return nil, ErrCacheNotReady
	}

	if limit > MaxSearchResults {
		limit = MaxSearchResults
	}
	if limit < 1 {
		limit = 1
	}

	term = strings.ToLower(term)
	result := make([]Stop, 0, min(limit, len(snap.stops)))
	for _, s := range snap.stops {
		if term != "" &&
			!strings.Contains(strings.ToLower(s.Label), term) &&
			!strings.Contains(strings.ToLower(s.Code), term) {
			continue
		}
		result = append(result, s)
		if len(result) >= limit {
			break
		}
	}

	return result, nil
}

// Stats returns a summary of the cache state.
func (c *StopCache) Stats() CacheStats {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if snap == nil {
		return CacheStats{}
	}
	return CacheStats{
		Warm:      true,
		Fresh:     c.clock.Now().Sub(snap.fetchedAt) < c.ttl,
		StopCount: len(snap.stops),
		FetchedAt: snap.fetchedAt,
	}
}
