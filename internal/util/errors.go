// Package util provides utility functions and types shared by the framework
// packages.
//
// # Error Conventions
//
// This project follows a standardized error pattern across all packages:
//
//   - Sentinel errors (errors.New) for well-known, stable conditions
//     that callers check with errors.Is(). Example: ErrClassLoad.
//   - Structured error types for context-rich errors that carry
//     additional fields (e.g., ConfigConflictError, ClassLoadError). Each
//     type implements Error(), Unwrap() (if wrapping), and Is().
//   - fmt.Errorf with %w for ad-hoc wrapping that adds context to an
//     existing error without introducing a new type.
//
// All custom error types must implement:
//
//	Error() string           – human-readable message
//	Unwrap() error           – if the type wraps another error
//	Is(target error) bool    – for errors.Is() compatibility
package util

import (
	"errors"
	"fmt"
	"time"
)

// Common sentinel errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrConfigInvalid  = errors.New("invalid configuration")
	ErrConfigConflict = errors.New("configuration conflict")
	ErrClassLoad      = errors.New("controller class load failure")
	ErrActionNotFound = errors.New("action not found")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrCircuitOpen    = errors.New("circuit breaker open")
)

// ConfigError represents a configuration-file related error.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error at %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ConfigError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok || errors.Is(e.Cause, target)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with a cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// ConfigConflictError is raised at bootstrap when two pieces of routing or
// filter configuration contradict each other, e.g. a {controller} segment
// combined with an explicit controller binding.
type ConfigConflictError struct {
	// Subject is the route template or DSL call that failed.
	Subject string
	Message string
}

// Error implements the error interface.
func (e *ConfigConflictError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("configuration conflict: %s. Failed: %s", e.Message, e.Subject)
	}
	return fmt.Sprintf("configuration conflict: %s", e.Message)
}

// Is checks if the error matches the target.
func (e *ConfigConflictError) Is(target error) bool {
	if target == ErrConfigConflict {
		return true
	}
	_, ok := target.(*ConfigConflictError)
	return ok
}

// NewConfigConflictError creates a new ConfigConflictError.
func NewConfigConflictError(subject, message string) *ConfigConflictError {
	return &ConfigConflictError{Subject: subject, Message: message}
}

// ClassLoadError is returned when a controller type cannot be resolved or
// instantiated.
type ClassLoadError struct {
	Controller string
	Cause      error
}

// Error implements the error interface.
func (e *ClassLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load controller %s: %v", e.Controller, e.Cause)
	}
	return fmt.Sprintf("failed to load controller %s", e.Controller)
}

// Unwrap returns the underlying error.
func (e *ClassLoadError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ClassLoadError) Is(target error) bool {
	if target == ErrClassLoad {
		return true
	}
	_, ok := target.(*ClassLoadError)
	return ok || errors.Is(e.Cause, target)
}

// NewClassLoadError creates a new ClassLoadError.
func NewClassLoadError(controller string, cause error) *ClassLoadError {
	return &ClassLoadError{Controller: controller, Cause: cause}
}

// ActionNotFoundError is returned when an action name does not resolve to a
// handler in the controller's action table.
type ActionNotFoundError struct {
	Controller string
	Action     string
}

// Error implements the error interface.
func (e *ActionNotFoundError) Error() string {
	return fmt.Sprintf("action %q not found in controller %s", e.Action, e.Controller)
}

// Is checks if the error matches the target.
func (e *ActionNotFoundError) Is(target error) bool {
	if target == ErrActionNotFound || target == ErrNotFound {
		return true
	}
	_, ok := target.(*ActionNotFoundError)
	return ok
}

// NewActionNotFoundError creates a new ActionNotFoundError.
func NewActionNotFoundError(controller, action string) *ActionNotFoundError {
	return &ActionNotFoundError{Controller: controller, Action: action}
}

// RouteNotFoundError represents a route not found error.
type RouteNotFoundError struct {
	Path   string
	Method string
}

// Error implements the error interface.
func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route found for %s %s", e.Method, e.Path)
}

// Is checks if the error matches the target.
func (e *RouteNotFoundError) Is(target error) bool {
	if target == ErrNotFound {
		return true
	}
	_, ok := target.(*RouteNotFoundError)
	return ok
}

// NewRouteNotFoundError creates a new RouteNotFoundError.
func NewRouteNotFoundError(method, path string) *RouteNotFoundError {
	return &RouteNotFoundError{Path: path, Method: method}
}

// RateLimitError represents a rate limit exceeded error.
type RateLimitError struct {
	Limit      int
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded (limit: %d, retry after: %v)", e.Limit, e.RetryAfter)
}

// Is checks if the error matches the target.
func (e *RateLimitError) Is(target error) bool {
	if target == ErrRateLimited {
		return true
	}
	_, ok := target.(*RateLimitError)
	return ok
}

// NewRateLimitError creates a new RateLimitError.
func NewRateLimitError(limit int, retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{Limit: limit, RetryAfter: retryAfter}
}

// CircuitOpenError represents a circuit breaker open error.
type CircuitOpenError struct {
	Name  string
	State string
}

// Error implements the error interface.
func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit breaker %s is %s", e.Name, e.State)
}

// Is checks if the error matches the target.
func (e *CircuitOpenError) Is(target error) bool {
	if target == ErrCircuitOpen {
		return true
	}
	_, ok := target.(*CircuitOpenError)
	return ok
}

// NewCircuitOpenError creates a new CircuitOpenError.
func NewCircuitOpenError(name, state string) *CircuitOpenError {
	return &CircuitOpenError{Name: name, State: state}
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsClientError returns true if the error should surface as a 4xx status.
func IsClientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrNotFound) {
		return true
	}

	return errors.Is(err, ErrRateLimited)
}

// IsServerError returns true if the error should surface as a 5xx status.
func IsServerError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrCircuitOpen) {
		return true
	}

	if errors.Is(err, ErrClassLoad) && !errors.Is(err, ErrNotFound) {
		return true
	}

	return errors.Is(err, ErrConfigInvalid)
}
