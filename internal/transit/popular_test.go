package transit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naolametric/naolametric/internal/transit"
)

func TestPopularStops(t *testing.T) {
	stops, err := transit.PopularStops()
	require.NoError(t, err)

	require.Len(t, stops, 14)
	assert.Equal(t, transit.PopularStop{Code: "COMM", Name: "Commerce"}, stops[0])
	assert.Equal(t, transit.PopularStop{Code: "HALU", Name: "Haluchère - Batignolles"}, stops[13])

	for _, s := range stops {
		assert.NotEmpty(t, s.Code)
		assert.NotEmpty(t, s.Name)
	}
}

func TestDirection_Valid(t *testing.T) {
	assert.True(t, transit.DirectionOne.Valid())
	assert.True(t, transit.DirectionTwo.Valid())
	assert.False(t, transit.Direction(0).Valid())
	assert.False(t, transit.Direction(3).Valid())
}
