package markflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/markflow/service/meta"
	"golang.org/x/text/language"
)

// Config is a serialisable representation of the service configuration. It can
// be populated from JSON or YAML; zero fields inherit DefaultConfig values.
type Config struct {
	StateTable      StateTableConfig `json:"stateTable" yaml:"stateTable"`
	Events          EventsConfig     `json:"events" yaml:"events"`
	Tracing         TracingConfig    `json:"tracing" yaml:"tracing"`
	Logging         LoggingConfig    `json:"logging" yaml:"logging"`
	DefaultLanguage string           `json:"defaultLanguage" yaml:"defaultLanguage"`
}

// StateTableConfig configures the SQLite state table, empty DSN disables it
type StateTableConfig struct {
	DSN string `json:"dsn" yaml:"dsn"`
}

// EventsConfig configures asynchronous event streaming
type EventsConfig struct {
	Stream bool `json:"stream" yaml:"stream"`
	Buffer int  `json:"buffer" yaml:"buffer"`
}

// TracingConfig configures OpenTelemetry tracing
type TracingConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	ServiceName string `json:"serviceName" yaml:"serviceName"`
	Version     string `json:"version" yaml:"version"`
	OutputFile  string `json:"outputFile" yaml:"outputFile"`
}

// LoggingConfig configures the default logger
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// DefaultConfig returns a Config populated with default values
func DefaultConfig() *Config {
	return &Config{
		Events: EventsConfig{Buffer: 256},
		Tracing: TracingConfig{
			ServiceName: "markflow",
			Version:     "dev",
		},
		Logging:         LoggingConfig{Level: "info", Format: "text"},
		DefaultLanguage: "en",
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Events.Stream && c.Events.Buffer <= 0 {
		errs = append(errs, fmt.Errorf("events.buffer must be > 0 when streaming"))
	}
	if c.Tracing.Enabled && strings.TrimSpace(c.Tracing.ServiceName) == "" {
		errs = append(errs, fmt.Errorf("tracing.serviceName was empty"))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format))
	}
	if c.DefaultLanguage != "" {
		if _, err := language.Parse(c.DefaultLanguage); err != nil {
			errs = append(errs, fmt.Errorf("defaultLanguage: %w", err))
		}
	}
	return errors.Join(errs...)
}

// LoadConfig loads config from URL (YAML or JSON) on top of DefaultConfig
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	ret := DefaultConfig()
	if err := meta.New(afs.New(), "").Load(ctx, URL, ret); err != nil {
		return nil, err
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}
