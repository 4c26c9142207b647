// Package naolib is the client for the Naolib (TAN) open data API.
package naolib

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/naolametric/naolametric/internal/provider/resilience"
	"github.com/naolametric/naolametric/internal/telemetry"
	"github.com/naolametric/naolametric/internal/transit"
)

const (
	// ProviderName identifies this transit provider.
	ProviderName = "naolib"

	// DefaultBaseURL is the Naolib API base URL.
	DefaultBaseURL = "https://open.tan.fr/ewp"

	// StopsClientName and DeparturesClientName name the two upstream clients
	// in the resilience registry.
	StopsClientName      = "naolib-stops"
	DeparturesClientName = "naolib-departures"

	// DefaultStopsTimeout bounds the stop list call, which is large but rare.
	DefaultStopsTimeout = 10 * time.Second

	// DefaultDeparturesTimeout bounds the per-request departures call.
	DefaultDeparturesTimeout = 5 * time.Second

	opGetStops      = "get_stops"
	opGetDepartures = "get_departures"

	tracerName = "github.com/naolametric/naolametric/internal/transit/naolib"
)

// ClientConfig holds configuration for the Naolib client.
type ClientConfig struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// StopsTimeout defaults to DefaultStopsTimeout.
	StopsTimeout time.Duration

	// DeparturesTimeout defaults to DefaultDeparturesTimeout.
	DeparturesTimeout time.Duration

	// Registry receives call outcomes for status reporting (optional).
	Registry *resilience.Registry

	// Metrics records call durations (optional).
	Metrics *telemetry.ProviderMetrics

	Logger zerolog.Logger
}

// Client fetches stops and departures from Naolib. It never retries.
type Client struct {
	baseURL    string
	stops      *resilience.Client
	departures *resilience.Client
	registry   *resilience.Registry
	metrics    *telemetry.ProviderMetrics
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewClient creates a new Naolib client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	stopsCfg := resilience.DefaultClientConfig(StopsClientName)
	stopsCfg.Timeout = cfg.StopsTimeout
	if stopsCfg.Timeout == 0 {
		stopsCfg.Timeout = DefaultStopsTimeout
	}

	departuresCfg := resilience.DefaultClientConfig(DeparturesClientName)
	departuresCfg.Timeout = cfg.DeparturesTimeout
	if departuresCfg.Timeout == 0 {
		departuresCfg.Timeout = DefaultDeparturesTimeout
	}

	c := &Client{
		baseURL:    baseURL,
		stops:      resilience.NewClient(stopsCfg),
		departures: resilience.NewClient(departuresCfg),
		registry:   cfg.Registry,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		tracer:     otel.Tracer(tracerName),
	}

	if c.registry != nil {
		c.registry.Register(c.stops)
		c.registry.Register(c.departures)
	}

	return c
}

// GetStops fetches every stop served by the network.
func (c *Client) GetStops(ctx context.Context) ([]transit.Stop, error) {
	var body []naolibStop
	if err := c.getJSON(ctx, c.stops, opGetStops, c.baseURL+"/arrets.json", &body); err != nil {
		return nil, err
	}

	stops := make([]transit.Stop, 0, len(body))
	for _, s := range body {
		stops = append(stops, transit.Stop{
			Code:  s.CodeLieu,
			Label: s.Libelle,
		})
	}
	return stops, nil
}

// GetDepartures fetches the upcoming passages at the stop with the given code,
// in upstream order.
func (c *Client) GetDepartures(ctx context.Context, stopCode string) ([]transit.Passage, error) {
	endpoint := c.baseURL + "/tempsattente.json/" + url.PathEscape(stopCode)

	var body []naolibPassage
	if err := c.getJSON(ctx, c.departures, opGetDepartures, endpoint, &body); err != nil {
		return nil, err
	}

	passages := make([]transit.Passage, 0, len(body))
	for _, p := range body {
		passages = append(passages, transit.Passage{
			Line:      p.Ligne.NumLigne,
			Direction: transit.Direction(p.Sens),
			Terminus:  p.Terminus,
			Wait:      p.Temps,
		})
	}
	return passages, nil
}

// getJSON performs a GET through hc and decodes the body into out.
// Every failure is returned as *transit.UpstreamError.
func (c *Client) getJSON(ctx context.Context, hc *resilience.Client, op, endpoint string, out interface{}) error {
	ctx, span := c.tracer.Start(ctx, "naolib."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("url.full", endpoint),
			attribute.String("provider.name", ProviderName),
		),
	)
	defer span.End()

	start := time.Now()
	err := c.doGetJSON(ctx, hc, endpoint, out)
	duration := time.Since(start)

	c.metrics.RecordRequest(ProviderName, op, duration, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if c.registry != nil {
			c.registry.RecordFailure(hc.Name(), err)
		}
		c.logger.Error().
			Err(err).
			Str("operation", op).
			Dur("duration", duration).
			Msg("naolib request failed")
		return &transit.UpstreamError{Op: op, Err: err}
	}

	if c.registry != nil {
		c.registry.RecordSuccess(hc.Name())
	}
	c.logger.Debug().
		Str("operation", op).
		Dur("duration", duration).
		Msg("naolib request completed")

	return nil
}

func (c *Client) doGetJSON(ctx context.Context, hc *resilience.Client, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// Naolib API response structures.

type naolibStop struct {
	CodeLieu string `json:"codeLieu"`
	Libelle  string `json:"libelle"`
}

type naolibPassage struct {
	Sens     int    `json:"sens"`
	Terminus string `json:"terminus"`
	Temps    string `json:"temps"`
	Ligne    struct {
		NumLigne string `json:"numLigne"`
	} `json:"ligne"`
}
