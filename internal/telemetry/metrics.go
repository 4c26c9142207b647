package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/naolametric/naolametric/internal/telemetry"

// ProviderMetrics records upstream calls and stop cache lookups.
// A nil *ProviderMetrics is valid and records nothing.
type ProviderMetrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	cacheHit        metric.Int64Counter
	cacheMiss       metric.Int64Counter
}

// NewProviderMetrics creates the instruments on the global meter provider.
func NewProviderMetrics() (*ProviderMetrics, error) {
	meter := otel.Meter(meterName)

	requestDuration, err := meter.Float64Histogram(
		"provider.request.duration",
		metric.WithDescription("Duration of upstream provider requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"provider.request.total",
		metric.WithDescription("Total number of upstream provider requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	cacheHit, err := meter.Int64Counter(
		"provider.cache.hit",
		metric.WithDescription("Number of cache lookups served from a fresh snapshot"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	cacheMiss, err := meter.Int64Counter(
		"provider.cache.miss",
		metric.WithDescription("Number of cache lookups that required a refresh"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, err
	}

	return &ProviderMetrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHit:        cacheHit,
		cacheMiss:       cacheMiss,
	}, nil
}

// RecordRequest records one upstream call.
func (m *ProviderMetrics) RecordRequest(provider, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("provider.name", provider),
		attribute.String("provider.operation", operation),
		attribute.Bool("error", err != nil),
	}

	// Detached from the request context so cancelled requests are still counted.
	ctx := context.Background()
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCacheHit records a lookup served from a valid snapshot.
func (m *ProviderMetrics) RecordCacheHit(provider, operation string) {
	if m == nil {
		return
	}
	m.cacheHit.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("provider.name", provider),
		attribute.String("provider.operation", operation),
	))
}

// RecordCacheMiss records a lookup that found the snapshot stale or missing.
func (m *ProviderMetrics) RecordCacheMiss(provider, operation string) {
	if m == nil {
		return
	}
	m.cacheMiss.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("provider.name", provider),
		attribute.String("provider.operation", operation),
	))
}
