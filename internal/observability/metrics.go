package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UnmatchedController is the label value used for requests that did not
// resolve to a controller, keeping label cardinality bounded.
const UnmatchedController = "unmatched"

// Metrics holds all Prometheus metrics for request dispatch.
type Metrics struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	filterChainLength *prometheus.HistogramVec
	classLoadFailures *prometheus.CounterVec
	controllerReloads *prometheus.CounterVec
	panicsRecovered   prometheus.Counter
	buildInfo         *prometheus.GaugeVec
	registry          *prometheus.Registry
}

// NewMetrics creates a new Metrics instance backed by its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "avaweb"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of dispatched requests",
		},
		[]string{"method", "controller", "action", "status"},
	)

	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help: "Time spent running the filter chain " +
				"and action",
			Buckets: []float64{
				.001, .005, .01, .025, .05,
				.1, .25, .5, 1, 2.5, 5, 10,
			},
		},
		[]string{"controller", "action"},
	)

	m.filterChainLength = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_chain_length",
			Help:      "Number of filters resolved for a request",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
		[]string{"controller"},
	)

	m.classLoadFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "class_load_failures_total",
			Help: "Total number of controller " +
				"resolution failures",
		},
		[]string{"controller"},
	)

	m.controllerReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "controller_reloads_total",
			Help: "Total number of development-mode " +
				"controller re-instantiations",
		},
		[]string{"controller"},
	)

	m.panicsRecovered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panics_recovered_total",
			Help:      "Total number of panics recovered while serving requests",
		},
	)

	m.buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information for the application",
		},
		[]string{"version", "commit", "build_time"},
	)

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.filterChainLength,
		m.classLoadFailures,
		m.controllerReloads,
		m.panicsRecovered,
		m.buildInfo,
		collectors.NewGoCollector(),
	)

	return m
}

// RecordRequest records a dispatched request.
// controller must be a class name, never the raw path, to keep cardinality bounded.
func (m *Metrics) RecordRequest(method, controller, action string, status int, duration time.Duration) {
	if controller == "" {
		controller = UnmatchedController
	}
	m.requestsTotal.WithLabelValues(method, controller, action, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(controller, action).Observe(duration.Seconds())
}

// RecordFilterChain records the length of a resolved filter chain.
func (m *Metrics) RecordFilterChain(controller string, length int) {
	m.filterChainLength.WithLabelValues(controller).Observe(float64(length))
}

// RecordClassLoadFailure records a failed controller resolution.
func (m *Metrics) RecordClassLoadFailure(controller string) {
	m.classLoadFailures.WithLabelValues(controller).Inc()
}

// RecordReload records a development-mode controller re-instantiation.
func (m *Metrics) RecordReload(controller string) {
	m.controllerReloads.WithLabelValues(controller).Inc()
}

// RecordPanic records a recovered panic.
func (m *Metrics) RecordPanic() {
	m.panicsRecovered.Inc()
}

// SetBuildInfo sets the build information metric.
func (m *Metrics) SetBuildInfo(version, commit, buildTime string) {
	m.buildInfo.WithLabelValues(version, commit, buildTime).Set(1)
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(
		m.registry,
		promhttp.HandlerOpts{EnableOpenMetrics: true},
	)
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterCollector registers an additional collector with the custom
// registry so other packages (router match metrics) share /metrics.
func (m *Metrics) RegisterCollector(c prometheus.Collector) error {
	return m.registry.Register(c)
}
