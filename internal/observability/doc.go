// Package observability provides logging, metrics, and tracing
// functionality for the framework.
//
// Structured logging goes through zap, request dispatch is measured
// with Prometheus collectors on a private registry, and the dispatcher
// opens one OpenTelemetry span per request.
//
// # Logging
//
//	logger, err := observability.NewLogger(observability.DefaultLogConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("route registered",
//	    observability.String("template", "/greeting/{id}"),
//	)
//
// # Metrics
//
//	metrics := observability.NewMetrics("avaweb")
//	mux.Handle("/metrics", metrics.Handler())
//
// # Tracing
//
//	tracer, err := observability.NewTracer(observability.TracerConfig{
//	    ServiceName:  "avaweb",
//	    OTLPEndpoint: "localhost:4317",
//	    Enabled:      true,
//	})
package observability
