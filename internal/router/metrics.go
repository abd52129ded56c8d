package router

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// conventionLabel is the route label used for convention matches.
const conventionLabel = "convention"

// Match results.
const (
	resultMatched     = "matched"
	resultFallthrough = "fallthrough"
	resultNotFound    = "not_found"
	resultError       = "error"
)

// matchMetrics counts route match attempts by route template and result.
type matchMetrics struct {
	matches *prometheus.CounterVec
}

// newMatchMetrics creates the match counter and registers it with reg.
// When the counter is already registered the existing one is reused, so
// several routers may share a registry.
func newMatchMetrics(reg prometheus.Registerer) *matchMetrics {
	matches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "avaweb",
			Subsystem: "router",
			Name:      "matches_total",
			Help:      "Total number of route match results by route template",
		},
		[]string{"route", "result"},
	)

	if reg != nil {
		if err := reg.Register(matches); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
					matches = existing
				}
			}
		}
	}

	return &matchMetrics{matches: matches}
}

func (m *matchMetrics) record(route, result string) {
	m.matches.WithLabelValues(route, result).Inc()
}
