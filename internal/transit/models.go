// Package transit holds the Naolib domain model and the stop validity cache.
package transit

import (
	"errors"
	"fmt"
)

// ErrCacheNotReady is returned when the stop list has never been loaded
// or the last load returned no stops.
var ErrCacheNotReady = errors.New("stop cache not ready")

// Stop is a named transit location identified by a short code such as "COMM".
type Stop struct {
	// Code is the stop identifier, compared case-insensitively.
	Code string

	// Label is the human readable stop name.
	Label string
}

// Direction is the travel direction of a line at a stop. Naolib only uses 1 and 2.
type Direction int

// Known directions.
const (
	DirectionOne Direction = 1
	DirectionTwo Direction = 2
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == DirectionOne || d == DirectionTwo
}

// Passage is one upcoming vehicle at a stop.
type Passage struct {
	// Line is the line number, e.g. "1", "C6" or "N1".
	Line string

	// Direction is the travel direction of the vehicle.
	Direction Direction

	// Terminus is the destination label of the current run.
	Terminus string

	// Wait is the display wait text ("2mn", "proche"). Empty marks a
	// cancelled or unavailable passage.
	Wait string
}

// Cancelled reports whether the passage has no wait time to display.
func (p Passage) Cancelled() bool {
	return p.Wait == ""
}

// UpstreamError is any failure talking to the transit API: network error,
// timeout, open circuit, non-2xx status or undecodable body.
type UpstreamError struct {
	// Op names the upstream operation, e.g. "get_stops".
	Op string

	// Err is the underlying cause.
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
