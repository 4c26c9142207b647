package transit

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed popular_stops.yaml
var popularStopsYAML []byte

// PopularStop is an entry of the curated list of frequently used stops.
type PopularStop struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

var loadPopularStops = sync.OnceValues(func() ([]PopularStop, error) {
	var stops []PopularStop
	if err := yaml.Unmarshal(popularStopsYAML, &stops); err != nil {
		return nil, fmt.Errorf("decoding popular stops: %w", err)
	}
	return stops, nil
})

// PopularStops returns the curated list of popular Nantes stops.
// The returned slice is shared and must not be modified.
func PopularStops() ([]PopularStop, error) {
	return loadPopularStops()
}
