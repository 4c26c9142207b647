package departures

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/naolametric/naolametric/internal/transit"
)

// DepartureSource fetches upcoming passages at a stop.
type DepartureSource interface {
	GetDepartures(ctx context.Context, stopCode string) ([]transit.Passage, error)
}

// Predicate selects passages.
type Predicate func(transit.Passage) bool

// HasWait drops cancelled passages.
func HasWait(p transit.Passage) bool {
	return !p.Cancelled()
}

// OnLine keeps passages of the given line, ignoring case.
func OnLine(line string) Predicate {
	return func(p transit.Passage) bool {
		return strings.EqualFold(p.Line, line)
	}
}

// InDirection keeps passages travelling in d.
func InDirection(d transit.Direction) Predicate {
	return func(p transit.Passage) bool {
		return p.Direction == d
	}
}

// Predicates returns the filters implied by cfg.
func (cfg RequestConfig) Predicates() []Predicate {
	preds := []Predicate{HasWait}
	if cfg.Line != "" {
		preds = append(preds, OnLine(cfg.Line))
	}
	if cfg.Direction != 0 {
		preds = append(preds, InDirection(cfg.Direction))
	}
	return preds
}

// Filter returns the passages matching every predicate, in input order.
func Filter(passages []transit.Passage, preds ...Predicate) []transit.Passage {
	kept := make([]transit.Passage, 0, len(passages))
next:
	for _, p := range passages {
		for _, pred := range preds {
			if !pred(p) {
				continue next
			}
		}
		kept = append(kept, p)
	}
	return kept
}

// Truncate returns at most limit passages from the head of passages.
func Truncate(passages []transit.Passage, limit int) []transit.Passage {
	if limit < 0 {
		limit = 0
	}
	if len(passages) > limit {
		return passages[:limit]
	}
	return passages
}

// PipelineConfig holds configuration for the departure pipeline.
type PipelineConfig struct {
	Source DepartureSource
	Logger zerolog.Logger
}

// Pipeline produces the display response for a resolved request.
type Pipeline struct {
	source DepartureSource
	logger zerolog.Logger
}

// NewPipeline creates a new Pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		source: cfg.Source,
		logger: cfg.Logger,
	}
}

// Run fetches passages for cfg.StopCode, filters and truncates them in
// upstream order and maps them to frames. Upstream failures are returned
// as is; there is no fallback data.
func (p *Pipeline) Run(ctx context.Context, cfg RequestConfig) (Response, error) {
	passages, err := p.source.GetDepartures(ctx, cfg.StopCode)
	if err != nil {
		return Response{}, fmt.Errorf("fetching departures for %s: %w", cfg.StopCode, err)
	}

	kept := Truncate(Filter(passages, cfg.Predicates()...), cfg.Limit)

	p.logger.Debug().
		Str("stop", cfg.StopCode).
		Int("received", len(passages)).
		Int("kept", len(kept)).
		Msg("departures filtered")

	if len(kept) == 0 {
		return NoResults(), nil
	}

	frames := make([]Frame, 0, len(kept))
	for _, passage := range kept {
		frames = append(frames, ToFrame(passage, cfg.ShowTerminus))
	}
	return Response{Frames: frames}, nil
}
