package departures_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naolametric/naolametric/internal/departures"
	"github.com/naolametric/naolametric/internal/transit"
)

// knownStops validates against a fixed set of upper-case codes.
type knownStops map[string]bool

func (k knownStops) IsValidCode(code string) bool {
	return len(k) == 0 || k[code]
}

var nantes = knownStops{"COMM": true, "GSNO": true}

func query(t *testing.T, raw string) url.Values {
	t.Helper()
	q, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return q
}

func TestResolve_Defaults(t *testing.T) {
	cfg, err := departures.Resolve(departures.Defaults{StopCode: "comm"}, nil, nantes)
	require.NoError(t, err)

	assert.Equal(t, departures.RequestConfig{
		StopCode: "COMM",
		Limit:    departures.DefaultLimit,
	}, cfg)
}

func TestResolve_QueryOverrides(t *testing.T) {
	defaults := departures.Defaults{
		StopCode:  "GSNO",
		Line:      "2",
		Direction: transit.DirectionTwo,
		Limit:     4,
	}

	cfg, err := departures.Resolve(defaults, query(t, "stop=comm&line=c6&direction=1&limit=7&show_terminus=true"), nantes)
	require.NoError(t, err)

	assert.Equal(t, departures.RequestConfig{
		StopCode:     "COMM",
		Line:         "C6",
		Direction:    transit.DirectionOne,
		Limit:        7,
		ShowTerminus: true,
	}, cfg)
}

func TestResolve_EmptyValuesKeepDefaults(t *testing.T) {
	defaults := departures.Defaults{StopCode: "COMM", Line: "1", Direction: transit.DirectionOne, Limit: 3}

	cfg, err := departures.Resolve(defaults, query(t, "stop=&line=&direction=&limit="), nantes)
	require.NoError(t, err)

	assert.Equal(t, "COMM", cfg.StopCode)
	assert.Equal(t, "1", cfg.Line)
	assert.Equal(t, transit.DirectionOne, cfg.Direction)
	assert.Equal(t, 3, cfg.Limit)
}

func TestResolve_Limit(t *testing.T) {
	tests := []struct {
		raw      string
		expected int
	}{
		{"limit=0", 1},
		{"limit=-4", 1},
		{"limit=999", 10},
		{"limit=abc", 2},
		{"limit=5", 5},
		{"limit=%205%20", 5},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			cfg, err := departures.Resolve(departures.Defaults{StopCode: "COMM"}, query(t, tt.raw), nantes)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Limit)
		})
	}
}

func TestResolve_LimitFallsBackToConfiguredDefault(t *testing.T) {
	cfg, err := departures.Resolve(departures.Defaults{StopCode: "COMM", Limit: 6}, query(t, "limit=abc"), nantes)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Limit)

	cfg, err = departures.Resolve(departures.Defaults{StopCode: "COMM", Limit: 40}, nil, nantes)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Limit)
}

func TestResolve_ShowTerminus(t *testing.T) {
	tests := []struct {
		raw      string
		def      bool
		expected bool
	}{
		{"show_terminus=true", false, true},
		{"show_terminus=1", false, true},
		{"show_terminus=yes", false, false},
		{"show_terminus=false", true, false},
		{"", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			cfg, err := departures.Resolve(departures.Defaults{StopCode: "COMM", ShowTerminus: tt.def}, query(t, tt.raw), nantes)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.ShowTerminus)
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name     string
		defaults departures.Defaults
		raw      string
		expected error
	}{
		{"no stop anywhere", departures.Defaults{}, "", departures.ErrMissingStopCode},
		{"missing stop wins over bad direction", departures.Defaults{}, "stop=&direction=5", departures.ErrMissingStopCode},
		{"direction 3", departures.Defaults{StopCode: "COMM"}, "direction=3", departures.ErrInvalidDirection},
		{"direction 0", departures.Defaults{StopCode: "COMM"}, "direction=0", departures.ErrInvalidDirection},
		{"direction not a number", departures.Defaults{StopCode: "COMM"}, "direction=north", departures.ErrInvalidDirection},
		{"bad direction wins over unknown stop", departures.Defaults{}, "stop=XXXX&direction=9", departures.ErrInvalidDirection},
		{"unknown stop", departures.Defaults{}, "stop=XXXX", departures.ErrInvalidStopCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := departures.Resolve(tt.defaults, query(t, tt.raw), nantes)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestResolve_EmptyStopListAcceptsAnyCode(t *testing.T) {
	cfg, err := departures.Resolve(departures.Defaults{}, query(t, "stop=xyz"), knownStops{})
	require.NoError(t, err)
	assert.Equal(t, "XYZ", cfg.StopCode)
}

func TestParseBool(t *testing.T) {
	assert.True(t, departures.ParseBool("true"))
	assert.True(t, departures.ParseBool("TRUE"))
	assert.True(t, departures.ParseBool("1"))
	assert.False(t, departures.ParseBool("0"))
	assert.False(t, departures.ParseBool(""))
}
