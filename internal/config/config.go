// Package config provides configuration management for the routemux
// gateway: YAML loading with environment expansion, validation, and file
// watching for hot reload.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root gateway configuration.
type Config struct {
	Gateway GatewaySettings   `yaml:"gateway"`
	Logging LoggingSettings   `yaml:"logging,omitempty"`
	Metrics MetricsSettings   `yaml:"metrics,omitempty"`
	Aliases map[string]string `yaml:"aliases,omitempty"`
	Routes  []Route           `yaml:"routes,omitempty"`
}

// GatewaySettings holds the HTTP listener configuration.
type GatewaySettings struct {
	Name            string             `yaml:"name,omitempty"`
	Listen          string             `yaml:"listen,omitempty"`
	ReadTimeout     Duration           `yaml:"readTimeout,omitempty"`
	WriteTimeout    Duration           `yaml:"writeTimeout,omitempty"`
	IdleTimeout     Duration           `yaml:"idleTimeout,omitempty"`
	ShutdownTimeout Duration           `yaml:"shutdownTimeout,omitempty"`
	RateLimit       *RateLimitSettings `yaml:"rateLimit,omitempty"`
}

// RateLimitSettings configures the token-bucket request limiter.
type RateLimitSettings struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty"`
	Burst             int     `yaml:"burst,omitempty"`
}

// LoggingSettings configures the structured logger.
type LoggingSettings struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	Output string `yaml:"output,omitempty"`
}

// MetricsSettings configures the Prometheus endpoint.
type MetricsSettings struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// Route binds one or more templates to an action. Exactly one of
// DirectResponse and Target must be set. Routes are matched in the order
// they appear, so more specific templates belong earlier in the list.
type Route struct {
	Name           string          `yaml:"name"`
	Templates      []string        `yaml:"templates"`
	DirectResponse *DirectResponse `yaml:"directResponse,omitempty"`
	Target         string          `yaml:"target,omitempty"`
}

// DirectResponse serves a fixed response. Body may reference path
// parameters as {name}; they are interpolated per request.
type DirectResponse struct {
	Status      int    `yaml:"status,omitempty"`
	ContentType string `yaml:"contentType,omitempty"`
	Body        string `yaml:"body,omitempty"`
}

// Duration wraps time.Duration so YAML can carry values like "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewaySettings{
			Name:            "routemux",
			Listen:          ":8080",
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			IdleTimeout:     Duration(120 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Logging: LoggingSettings{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsSettings{
			Enabled: true,
			Listen:  ":9090",
			Path:    "/metrics",
		},
	}
}

// applyDefaults fills unset fields from DefaultConfig.
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Gateway.Name == "" {
		c.Gateway.Name = def.Gateway.Name
	}
	if c.Gateway.Listen == "" {
		c.Gateway.Listen = def.Gateway.Listen
	}
	if c.Gateway.ReadTimeout == 0 {
		c.Gateway.ReadTimeout = def.Gateway.ReadTimeout
	}
	if c.Gateway.WriteTimeout == 0 {
		c.Gateway.WriteTimeout = def.Gateway.WriteTimeout
	}
	if c.Gateway.IdleTimeout == 0 {
		c.Gateway.IdleTimeout = def.Gateway.IdleTimeout
	}
	if c.Gateway.ShutdownTimeout == 0 {
		c.Gateway.ShutdownTimeout = def.Gateway.ShutdownTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.Logging.Output == "" {
		c.Logging.Output = def.Logging.Output
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = def.Metrics.Listen
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = def.Metrics.Path
	}
}
