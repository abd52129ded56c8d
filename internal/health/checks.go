package health

import (
	"fmt"
)

// Injector is the part of the filter registry the injection check needs.
type Injector interface {
	InjectFilters() error
}

// InjectionCheck reports unhealthy when the one-time filter injection
// failed. The pass runs on first use, so the check also warms it up.
func InjectionCheck(inj Injector) CheckFunc {
	return func() Check {
		if err := inj.InjectFilters(); err != nil {
			return Check{Status: StatusUnhealthy, Message: err.Error()}
		}
		return Check{Status: StatusHealthy}
	}
}

// RoutesCheck reports degraded when no route is configured and requests
// can only be served by convention.
func RoutesCheck(count func() int) CheckFunc {
	return func() Check {
		n := count()
		if n == 0 {
			return Check{Status: StatusDegraded, Message: "no configured routes, convention routing only"}
		}
		return Check{Status: StatusHealthy, Message: fmt.Sprintf("%d routes", n)}
	}
}

// ControllersCheck reports unhealthy when no controller is registered.
func ControllersCheck(count func() int) CheckFunc {
	return func() Check {
		n := count()
		if n == 0 {
			return Check{Status: StatusUnhealthy, Message: "no controllers registered"}
		}
		return Check{Status: StatusHealthy, Message: fmt.Sprintf("%d controllers", n)}
	}
}
