// Package departures turns a departure request into LaMetric display frames:
// it resolves the request configuration, fetches passages, filters them and
// maps them to frames.
package departures

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/naolametric/naolametric/internal/transit"
)

// Limit bounds.
const (
	DefaultLimit = 2
	MinLimit     = 1
	MaxLimit     = 10
)

// Query parameter names.
const (
	ParamStop         = "stop"
	ParamLine         = "line"
	ParamDirection    = "direction"
	ParamLimit        = "limit"
	ParamShowTerminus = "show_terminus"
)

// Validation errors returned by Resolve.
var (
	ErrMissingStopCode  = errors.New("missing stop code")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidStopCode  = errors.New("invalid stop code")
)

// Defaults are the environment-provided request settings.
type Defaults struct {
	StopCode string
	Line     string

	// Direction is 0 when no default direction filter is set.
	Direction transit.Direction

	// Limit is clamped to [MinLimit, MaxLimit]; 0 means DefaultLimit.
	Limit int

	ShowTerminus bool
}

// RequestConfig is the validated configuration of one departure request.
type RequestConfig struct {
	// StopCode is upper-cased and never empty.
	StopCode string

	// Line is an upper-cased line filter, empty for none.
	Line string

	// Direction is a direction filter, 0 for none.
	Direction transit.Direction

	// Limit is in [MinLimit, MaxLimit].
	Limit int

	ShowTerminus bool
}

// StopValidator reports whether a stop code is known.
type StopValidator interface {
	IsValidCode(code string) bool
}

// Resolve merges query overrides onto defaults and validates the result.
//
// Empty query values leave the default in place. An unparsable limit falls
// back to the default limit and any parsed limit is clamped. Errors are
// reported in a fixed order: ErrMissingStopCode, then ErrInvalidDirection,
// then ErrInvalidStopCode.
func Resolve(defaults Defaults, query url.Values, stops StopValidator) (RequestConfig, error) {
	cfg := RequestConfig{
		StopCode:     strings.ToUpper(strings.TrimSpace(defaults.StopCode)),
		Line:         strings.ToUpper(strings.TrimSpace(defaults.Line)),
		Direction:    defaults.Direction,
		Limit:        defaultLimit(defaults.Limit),
		ShowTerminus: defaults.ShowTerminus,
	}

	if v := queryValue(query, ParamStop); v != "" {
		cfg.StopCode = strings.ToUpper(v)
	}
	if v := queryValue(query, ParamLine); v != "" {
		cfg.Line = strings.ToUpper(v)
	}

	var directionErr error
	if v := queryValue(query, ParamDirection); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || !transit.Direction(d).Valid() {
			directionErr = fmt.Errorf("%w: %q", ErrInvalidDirection, v)
		} else {
			cfg.Direction = transit.Direction(d)
		}
	}

	if v := queryValue(query, ParamLimit); v != "" {
		cfg.Limit = ParseLimit(v, cfg.Limit)
	}
	if query.Has(ParamShowTerminus) {
		cfg.ShowTerminus = ParseBool(queryValue(query, ParamShowTerminus))
	}

	if cfg.StopCode == "" {
		return RequestConfig{}, ErrMissingStopCode
	}
	if directionErr != nil {
		return RequestConfig{}, directionErr
	}
	if stops != nil && !stops.IsValidCode(cfg.StopCode) {
		return RequestConfig{}, fmt.Errorf("%w: %q", ErrInvalidStopCode, cfg.StopCode)
	}

	return cfg, nil
}

// ParseLimit parses s and clamps it to [MinLimit, MaxLimit], returning
// fallback when s is not an integer.
func ParseLimit(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return ClampLimit(n)
}

// ClampLimit clamps n to [MinLimit, MaxLimit].
func ClampLimit(n int) int {
	return max(MinLimit, min(n, MaxLimit))
}

// ParseBool accepts "true" and "1" as true; anything else is false.
func ParseBool(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, "true") || s == "1"
}

func defaultLimit(n int) int {
	if n == 0 {
		return DefaultLimit
	}
	return ClampLimit(n)
}

func queryValue(query url.Values, key string) string {
	return strings.TrimSpace(query.Get(key))
}
