package models

// Info describes the API for /info.
type Info struct {
	Name        string      `json:"name"`
	Version     string      `json:"version"`
	Description string      `json:"description"`
	Endpoints   []Endpoint  `json:"endpoints"`
	Parameters  []Parameter `json:"parameters"`
	Examples    []Example   `json:"examples"`
}

// Endpoint is one documented route.
type Endpoint struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

// Parameter is one documented query parameter of /.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// Example is a sample request.
type Example struct {
	Description string `json:"description"`
	URL         string `json:"url"`
}

// SystemStatus represents the overall system status.
type SystemStatus struct {
	Status    HealthStatus     `json:"status"`
	Time      Timestamp        `json:"time"`
	Version   string           `json:"version"`
	BuildTime string           `json:"buildTime,omitempty"`
	StopCache CacheStatus      `json:"stopCache"`
	Providers []ProviderStatus `json:"providers"`
}

// CacheStatus represents the state of the stop cache.
type CacheStatus struct {
	Status    HealthStatus `json:"status"`
	Fresh     bool         `json:"fresh"`
	StopCount int          `json:"stopCount"`
	FetchedAt *Timestamp   `json:"fetchedAt,omitempty"`
}

// ProviderStatus represents the status of an upstream client.
type ProviderStatus struct {
	Provider            string       `json:"provider"`
	Status              HealthStatus `json:"status"`
	Timeout             string       `json:"timeout"`
	CircuitState        string       `json:"circuitState"`
	ConsecutiveFailures uint32       `json:"consecutiveFailures"`
	LastSuccessAt       *Timestamp   `json:"lastSuccessAt,omitempty"`
	LastFailureAt       *Timestamp   `json:"lastFailureAt,omitempty"`
	Message             *string      `json:"message,omitempty"`
}
