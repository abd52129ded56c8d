package util

import (
	"fmt"
	"strings"
)

// supportedMethods lists the HTTP methods a route may declare.
var supportedMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
}

// ValidatePort validates a port number.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got: %d", port)
	}
	return nil
}

// ValidateHTTPMethod validates that a route method is one the router supports.
func ValidateHTTPMethod(method string) error {
	if !supportedMethods[strings.ToUpper(method)] {
		return fmt.Errorf("unsupported HTTP method: %s", method)
	}
	return nil
}

// ValidateSamplingRate validates a trace sampling ratio (0-1).
func ValidateSamplingRate(rate float64) error {
	if rate < 0 || rate > 1 {
		return fmt.Errorf("sampling rate must be between 0 and 1, got: %v", rate)
	}
	return nil
}

// ValidateRoutePath validates a route template.
func ValidateRoutePath(path string) error {
	if path == "" {
		return fmt.Errorf("route path cannot be empty")
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("route path must start with '/': %s", path)
	}
	return nil
}

// ValidateNonEmpty validates that a string is not empty.
func ValidateNonEmpty(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	return nil
}
