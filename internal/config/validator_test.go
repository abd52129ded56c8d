package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avaweb/internal/util"
)

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(cfg *AppConfig)
		wantPath string
	}{
		{name: "valid defaults", mutate: func(*AppConfig) {}},
		{name: "missing apiVersion", mutate: func(c *AppConfig) { c.APIVersion = "" }, wantPath: "apiVersion"},
		{name: "wrong apiVersion", mutate: func(c *AppConfig) { c.APIVersion = "gateway/v1" }, wantPath: "apiVersion"},
		{name: "missing kind", mutate: func(c *AppConfig) { c.Kind = "" }, wantPath: "kind"},
		{name: "wrong kind", mutate: func(c *AppConfig) { c.Kind = "Gateway" }, wantPath: "kind"},
		{name: "missing name", mutate: func(c *AppConfig) { c.Metadata.Name = "" }, wantPath: "metadata.name"},
		{name: "bad port", mutate: func(c *AppConfig) { c.Spec.Server.Port = 70000 }, wantPath: "spec.server.port"},
		{name: "metrics port clash", mutate: func(c *AppConfig) { c.Spec.Metrics.Port = c.Spec.Server.Port }, wantPath: "spec.metrics.port"},
		{name: "metrics path", mutate: func(c *AppConfig) { c.Spec.Metrics.Path = "metrics" }, wantPath: "spec.metrics.path"},
		{name: "log level", mutate: func(c *AppConfig) { c.Spec.Logging.Level = "loud" }, wantPath: "spec.logging.level"},
		{name: "log format", mutate: func(c *AppConfig) { c.Spec.Logging.Format = "xml" }, wantPath: "spec.logging.format"},
		{name: "sampling rate", mutate: func(c *AppConfig) { c.Spec.Tracing.SamplingRate = 2 }, wantPath: "spec.tracing.samplingRate"},
		{name: "empty package", mutate: func(c *AppConfig) { c.Spec.ControllerPackages = []string{"/"} }, wantPath: "spec.controllerPackages[0]"},
		{
			name: "rate limit burst",
			mutate: func(c *AppConfig) {
				c.Spec.Filters.RateLimit = &RateLimitConfig{Enabled: true, RequestsPerSecond: 1}
			},
			wantPath: "spec.filters.rateLimit.burst",
		},
		{
			name: "disabled rate limit is not checked",
			mutate: func(c *AppConfig) {
				c.Spec.Filters.RateLimit = &RateLimitConfig{}
			},
		},
		{
			name: "circuit breaker timeout",
			mutate: func(c *AppConfig) {
				c.Spec.Filters.CircuitBreaker = &CircuitBreakerConfig{Enabled: true, Threshold: 3}
			},
			wantPath: "spec.filters.circuitBreaker.timeout",
		},
		{
			name:     "route path",
			mutate:   func(c *AppConfig) { c.Spec.Routes = []RouteConfig{{Path: "hello", Controller: "/hello"}} },
			wantPath: "spec.routes[0].path",
		},
		{
			name:     "route without controller",
			mutate:   func(c *AppConfig) { c.Spec.Routes = []RouteConfig{{Path: "/hello"}} },
			wantPath: "spec.routes[0].controller",
		},
		{
			name: "route controller conflict",
			mutate: func(c *AppConfig) {
				c.Spec.Routes = []RouteConfig{{Path: "/{controller}", Controller: "/hello"}}
			},
			wantPath: "spec.routes[0].controller",
		},
		{
			name: "route action conflict",
			mutate: func(c *AppConfig) {
				c.Spec.Routes = []RouteConfig{{Path: "/{controller}/{action}", Action: "show"}}
			},
			wantPath: "spec.routes[0].action",
		},
		{
			name: "route method",
			mutate: func(c *AppConfig) {
				c.Spec.Routes = []RouteConfig{{Path: "/{controller}", Methods: []string{"GET", "PATCH"}}}
			},
			wantPath: "spec.routes[0].methods[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.wantPath == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, util.ErrConfigInvalid)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantPath, verrs[0].Path)
		})
	}
}

func TestValidateConfig_Nil(t *testing.T) {
	t.Parallel()

	err := ValidateConfig(nil)
	require.Error(t, err)
	assert.Equal(t, "configuration is nil", err.Error())
}

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
	assert.Equal(t, "kind: kind is required", ValidationErrors{{Path: "kind", Message: "kind is required"}}.Error())
	assert.Equal(t,
		"2 validation errors:\n  1. a: x\n  2. y\n",
		ValidationErrors{{Path: "a", Message: "x"}, {Message: "y"}}.Error(),
	)
	assert.False(t, ValidationErrors{}.HasErrors())
}
