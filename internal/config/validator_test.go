package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routemux/internal/util"
)

// validConfig returns a minimal configuration that passes validation.
func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Aliases = map[string]string{"id": "[0-9]+"}
	cfg.Routes = []Route{
		{
			Name:           "ping",
			Templates:      []string{"/ping"},
			DirectResponse: &DirectResponse{Status: 200, Body: "pong"},
		},
	}
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "empty listen",
			mutate:  func(c *Config) { c.Gateway.Listen = "" },
			wantErr: "gateway.listen",
		},
		{
			name: "rate limit without rate",
			mutate: func(c *Config) {
				c.Gateway.RateLimit = &RateLimitSettings{Enabled: true}
			},
			wantErr: "requestsPerSecond",
		},
		{
			name: "disabled rate limit ignored",
			mutate: func(c *Config) {
				c.Gateway.RateLimit = &RateLimitSettings{Enabled: false}
			},
		},
		{
			name:    "bad alias name",
			mutate:  func(c *Config) { c.Aliases["user id"] = "[0-9]+" },
			wantErr: "alias names",
		},
		{
			name:    "route without name",
			mutate:  func(c *Config) { c.Routes[0].Name = "" },
			wantErr: "routes[0].name",
		},
		{
			name: "duplicate route name",
			mutate: func(c *Config) {
				c.Routes = append(c.Routes, c.Routes[0])
			},
			wantErr: "duplicate route name",
		},
		{
			name:    "route without templates",
			mutate:  func(c *Config) { c.Routes[0].Templates = nil },
			wantErr: "at least one template",
		},
		{
			name:    "empty template",
			mutate:  func(c *Config) { c.Routes[0].Templates = []string{""} },
			wantErr: "routes[0].templates[0]",
		},
		{
			name: "both actions set",
			mutate: func(c *Config) {
				c.Routes[0].Target = "http://b:1"
			},
			wantErr: "exactly one",
		},
		{
			name: "no action set",
			mutate: func(c *Config) {
				c.Routes[0].DirectResponse = nil
			},
			wantErr: "exactly one",
		},
		{
			name: "bad status",
			mutate: func(c *Config) {
				c.Routes[0].DirectResponse.Status = 42
			},
			wantErr: "valid HTTP status",
		},
		{
			name: "relative target",
			mutate: func(c *Config) {
				c.Routes[0].DirectResponse = nil
				c.Routes[0].Target = "backend:8080"
			},
			wantErr: "absolute URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, util.ErrConfigInvalid))
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	t.Parallel()

	assert.Error(t, Validate(nil))
}
