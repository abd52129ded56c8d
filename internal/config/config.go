package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Expected document header.
const (
	APIVersionPrefix  = "avaweb.io/"
	DefaultAPIVersion = APIVersionPrefix + "v1"
	KindApplication   = "Application"
)

// Server defaults.
const (
	DefaultPort            = 8080
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMetricsPath     = "/metrics"
	DefaultDebounceDelay   = 200 * time.Millisecond
)

// AppConfig is the root of an application configuration file.
type AppConfig struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Metadata   Metadata `yaml:"metadata"`
	Spec       AppSpec  `yaml:"spec"`
}

// Metadata identifies the application.
type Metadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

// AppSpec holds the application settings.
type AppSpec struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Tracing     TracingConfig     `yaml:"tracing"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Development DevelopmentConfig `yaml:"development"`
	Filters     FiltersConfig     `yaml:"filters"`

	// ControllerPackages declares sub-packages addressable as the first
	// path token of the convention route.
	ControllerPackages []string `yaml:"controllerPackages,omitempty"`

	// Routes are appended after the routes configured in code.
	Routes []RouteConfig `yaml:"routes,omitempty"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string   `yaml:"host,omitempty"`
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"readTimeout,omitempty"`
	WriteTimeout    Duration `yaml:"writeTimeout,omitempty"`
	IdleTimeout     Duration `yaml:"idleTimeout,omitempty"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout,omitempty"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output,omitempty"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	ServiceName  string  `yaml:"serviceName,omitempty"`
	OTLPEndpoint string  `yaml:"otlpEndpoint,omitempty"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
	// Port serves metrics on a separate listener when non-zero.
	Port int `yaml:"port,omitempty"`
}

// DevelopmentConfig enables development mode.
type DevelopmentConfig struct {
	// HotReload re-resolves the controller on every matched request.
	HotReload bool `yaml:"hotReload"`
	// WatchDirs are controller source directories whose changes are
	// reported to the reloader.
	WatchDirs     []string `yaml:"watchDirs,omitempty"`
	DebounceDelay Duration `yaml:"debounceDelay,omitempty"`
}

// FiltersConfig configures the built-in global filters.
type FiltersConfig struct {
	Timing         bool                  `yaml:"timing"`
	RequestID      bool                  `yaml:"requestId"`
	RateLimit      *RateLimitConfig      `yaml:"rateLimit,omitempty"`
	CircuitBreaker *CircuitBreakerConfig `yaml:"circuitBreaker,omitempty"`
}

// RateLimitConfig configures the global rate limit filter.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
	// Except lists controller paths ("/admin/users") the filter skips.
	Except []string `yaml:"except,omitempty"`
}

// CircuitBreakerConfig configures the global circuit breaker filter.
type CircuitBreakerConfig struct {
	Enabled bool `yaml:"enabled"`
	// Threshold is the number of consecutive failures that opens the circuit.
	Threshold int      `yaml:"threshold"`
	Timeout   Duration `yaml:"timeout"`
}

// RouteConfig declares a route template.
type RouteConfig struct {
	Path string `yaml:"path"`
	// Controller is a controller path such as "/admin/users". It must be
	// empty when Path contains {controller}.
	Controller string   `yaml:"controller,omitempty"`
	Action     string   `yaml:"action,omitempty"`
	Methods    []string `yaml:"methods,omitempty"`
}

// DefaultConfig returns the configuration used for unset fields.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		APIVersion: DefaultAPIVersion,
		Kind:       KindApplication,
		Metadata:   Metadata{Name: "avaweb"},
		Spec: AppSpec{
			Server: ServerConfig{
				Port:            DefaultPort,
				ReadTimeout:     Duration(DefaultReadTimeout),
				WriteTimeout:    Duration(DefaultWriteTimeout),
				IdleTimeout:     Duration(DefaultIdleTimeout),
				ShutdownTimeout: Duration(DefaultShutdownTimeout),
			},
			Logging: LoggingConfig{
				Level:  "info",
				Format: "json",
				Output: "stdout",
			},
			Tracing: TracingConfig{
				ServiceName:  "avaweb",
				SamplingRate: 1.0,
			},
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    DefaultMetricsPath,
			},
			Development: DevelopmentConfig{
				DebounceDelay: Duration(DefaultDebounceDelay),
			},
			Filters: FiltersConfig{
				Timing:    true,
				RequestID: true,
			},
		},
	}
}

// Duration is a time.Duration written in configuration files as a
// time.ParseDuration string ("300ms", "30s", "1h30m").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// OrDefault returns d, or def when d is zero.
func (d Duration) OrDefault(def time.Duration) time.Duration {
	if d == 0 {
		return def
	}
	return time.Duration(d)
}
