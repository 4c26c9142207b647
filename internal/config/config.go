// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/naolametric/naolametric/internal/departures"
	"github.com/naolametric/naolametric/internal/transit"
	"github.com/naolametric/naolametric/internal/transit/naolib"
)

// Default values.
const (
	DefaultPort         = 8080
	DefaultEnvironment  = "development"
	DefaultOTLPEndpoint = "localhost:4317"
	DefaultLogLevel     = "info"
)

// Config holds the service configuration.
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	Environment string `validate:"required"`
	LogLevel    string `validate:"oneof=trace debug info warn error fatal panic disabled"`

	// Naolib upstream.
	BaseURL           string        `validate:"required,url"`
	StopsTimeout      time.Duration `validate:"gt=0"`
	DeparturesTimeout time.Duration `validate:"gt=0"`

	// Request defaults, overridable per request.
	StopCode     string
	Line         string
	Direction    int `validate:"oneof=0 1 2"`
	Limit        int
	ShowTerminus bool

	// Telemetry.
	OTelEnabled  bool
	OTLPEndpoint string `validate:"required_if=OTelEnabled true"`
}

// Load reads a .env file from the working directory, if there is one, and
// then builds the configuration from the environment. Variables already set
// in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds and validates the configuration from environment variables.
func FromEnv() (Config, error) {
	var errs []error

	port, err := intEnv("PORT", DefaultPort)
	errs = append(errs, err)
	direction, err := intEnv("NAOLIB_DIRECTION", 0)
	errs = append(errs, err)
	stopsTimeout, err := durationEnv("NAOLIB_STOPS_TIMEOUT", naolib.DefaultStopsTimeout)
	errs = append(errs, err)
	departuresTimeout, err := durationEnv("NAOLIB_DEPARTURES_TIMEOUT", naolib.DefaultDeparturesTimeout)
	errs = append(errs, err)

	// An unparsable limit falls back to the default, as it does per request.
	limit := departures.ParseLimit(getEnvOrDefault("NAOLIB_LIMIT", ""), departures.DefaultLimit)

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:              port,
		Environment:       getEnvOrDefault("APP_ENV", DefaultEnvironment),
		LogLevel:          strings.ToLower(getEnvOrDefault("LOG_LEVEL", DefaultLogLevel)),
		BaseURL:           getEnvOrDefault("NAOLIB_API_URL", naolib.DefaultBaseURL),
		StopsTimeout:      stopsTimeout,
		DeparturesTimeout: departuresTimeout,
		StopCode:          os.Getenv("NAOLIB_STOP_CODE"),
		Line:              os.Getenv("NAOLIB_LINE"),
		Direction:         direction,
		Limit:             limit,
		ShowTerminus:      departures.ParseBool(os.Getenv("NAOLIB_SHOW_TERMINUS")),
		OTelEnabled:       os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint:      getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", DefaultOTLPEndpoint),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Level returns the zerolog level for LogLevel, or info if it is unknown.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}

// Defaults returns the per-request defaults.
func (c Config) Defaults() departures.Defaults {
	return departures.Defaults{
		StopCode:     c.StopCode,
		Line:         c.Line,
		Direction:    transit.Direction(c.Direction),
		Limit:        c.Limit,
		ShowTerminus: c.ShowTerminus,
	}
}

// NaolibClient returns the upstream client settings. Registry, metrics and
// logger are left for the caller to fill in.
func (c Config) NaolibClient() naolib.ClientConfig {
	return naolib.ClientConfig{
		BaseURL:           c.BaseURL,
		StopsTimeout:      c.StopsTimeout,
		DeparturesTimeout: c.DeparturesTimeout,
	}
}

func intEnv(key string, defaultValue int) (int, error) {
	raw := getEnvOrDefault(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnvOrDefault(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
