package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vyrodovalexey/avaweb/internal/config"
	"github.com/vyrodovalexey/avaweb/internal/observability"
)

// defaultMetricsPort is used when metrics are enabled without a port.
const defaultMetricsPort = 9090

// newMetricsMux serves metrics and the health endpoints.
func (a *application) newMetricsMux() *http.ServeMux {
	path := a.config.Spec.Metrics.Path
	if path == "" {
		path = config.DefaultMetricsPath
	}

	mux := http.NewServeMux()
	mux.Handle(path, a.metrics.Handler())
	a.health.Register(mux)
	return mux
}

// startMetricsServerIfEnabled starts the metrics server if enabled.
func (a *application) startMetricsServerIfEnabled() {
	m := a.config.Spec.Metrics
	if !m.Enabled {
		return
	}

	port := m.Port
	if port == 0 {
		port = defaultMetricsPort
	}

	addr := fmt.Sprintf(":%d", port)
	a.logger.Info("starting metrics server", observability.String("address", addr))

	a.metricsServer = &http.Server{
		Addr:              addr,
		Handler:           a.newMetricsMux(),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	go func() {
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server error", observability.Error(err))
		}
	}()
}
