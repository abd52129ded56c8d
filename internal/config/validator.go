package config

import (
	"fmt"
	"strings"

	"github.com/vyrodovalexey/avaweb/internal/util"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Is makes validation failures match util.ErrConfigInvalid.
func (e ValidationErrors) Is(target error) bool {
	return target == util.ErrConfigInvalid
}

// HasErrors returns true if there are validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates application configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// ValidateConfig validates an application configuration.
func ValidateConfig(config *AppConfig) error {
	return NewValidator().Validate(config)
}

// Validate validates the configuration and returns every problem found.
func (v *Validator) Validate(config *AppConfig) error {
	v.errors = make(ValidationErrors, 0)

	if config == nil {
		v.addError("", "configuration is nil")
		return v.errors
	}

	v.validateRoot(config)
	if config.Metadata.Name == "" {
		v.addError("metadata.name", "name is required")
	}
	v.validateSpec(&config.Spec)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

func (v *Validator) validateRoot(config *AppConfig) {
	if config.APIVersion == "" {
		v.addError("apiVersion", "apiVersion is required")
	} else if !strings.HasPrefix(config.APIVersion, APIVersionPrefix) {
		v.addError("apiVersion", "apiVersion must start with '"+APIVersionPrefix+"'")
	}

	if config.Kind == "" {
		v.addError("kind", "kind is required")
	} else if config.Kind != KindApplication {
		v.addError("kind", "kind must be '"+KindApplication+"'")
	}
}

func (v *Validator) validateSpec(spec *AppSpec) {
	if err := util.ValidatePort(spec.Server.Port); err != nil {
		v.addError("spec.server.port", err.Error())
	}

	if spec.Metrics.Port != 0 {
		if err := util.ValidatePort(spec.Metrics.Port); err != nil {
			v.addError("spec.metrics.port", err.Error())
		} else if spec.Metrics.Port == spec.Server.Port {
			v.addError("spec.metrics.port", "must differ from spec.server.port")
		}
	}

	if spec.Metrics.Enabled && !strings.HasPrefix(spec.Metrics.Path, "/") {
		v.addError("spec.metrics.path", "path must start with '/'")
	}

	v.validateLogging(&spec.Logging)

	if err := util.ValidateSamplingRate(spec.Tracing.SamplingRate); err != nil {
		v.addError("spec.tracing.samplingRate", err.Error())
	}

	for i, pkg := range spec.ControllerPackages {
		if strings.Trim(pkg, "/") == "" {
			v.addError(fmt.Sprintf("spec.controllerPackages[%d]", i), "package name is required")
		}
	}

	v.validateFilters(&spec.Filters)

	for i := range spec.Routes {
		v.validateRoute(&spec.Routes[i], fmt.Sprintf("spec.routes[%d]", i))
	}
}

func (v *Validator) validateLogging(logging *LoggingConfig) {
	switch strings.ToLower(logging.Level) {
	case "debug", "info", "warn", "error", "":
	default:
		v.addError("spec.logging.level", "level must be debug, info, warn, or error")
	}

	switch logging.Format {
	case "json", "console", "":
	default:
		v.addError("spec.logging.format", "format must be json or console")
	}
}

func (v *Validator) validateFilters(filters *FiltersConfig) {
	if rl := filters.RateLimit; rl != nil && rl.Enabled {
		if rl.RequestsPerSecond <= 0 {
			v.addError("spec.filters.rateLimit.requestsPerSecond", "must be positive")
		}
		if rl.Burst <= 0 {
			v.addError("spec.filters.rateLimit.burst", "must be positive")
		}
		for i, c := range rl.Except {
			if err := util.ValidateRoutePath(c); err != nil {
				v.addError(fmt.Sprintf("spec.filters.rateLimit.except[%d]", i), err.Error())
			}
		}
	}

	if cb := filters.CircuitBreaker; cb != nil && cb.Enabled {
		if cb.Threshold <= 0 {
			v.addError("spec.filters.circuitBreaker.threshold", "must be positive")
		}
		if cb.Timeout <= 0 {
			v.addError("spec.filters.circuitBreaker.timeout", "must be positive")
		}
	}
}

func (v *Validator) validateRoute(route *RouteConfig, path string) {
	if err := util.ValidateRoutePath(route.Path); err != nil {
		v.addError(path+".path", err.Error())
		return
	}

	hasControllerSegment := strings.Contains(route.Path, "{controller}")
	switch {
	case route.Controller == "" && !hasControllerSegment:
		v.addError(path+".controller", "controller is required unless the path contains {controller}")
	case route.Controller != "" && hasControllerSegment:
		v.addError(path+".controller", "cannot combine {controller} segment and controller")
	}

	if route.Action != "" && strings.Contains(route.Path, "{action}") {
		v.addError(path+".action", "cannot combine {action} segment and action")
	}

	for i, m := range route.Methods {
		if err := util.ValidateHTTPMethod(m); err != nil {
			v.addError(fmt.Sprintf("%s.methods[%d]", path, i), err.Error())
		}
	}
}

// addError adds a validation error.
func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}
