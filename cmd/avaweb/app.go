package main

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/vyrodovalexey/avaweb/internal/bootstrap"
	"github.com/vyrodovalexey/avaweb/internal/config"
	"github.com/vyrodovalexey/avaweb/internal/controller"
	"github.com/vyrodovalexey/avaweb/internal/dispatch"
	"github.com/vyrodovalexey/avaweb/internal/filter"
	"github.com/vyrodovalexey/avaweb/internal/health"
	"github.com/vyrodovalexey/avaweb/internal/middleware"
	"github.com/vyrodovalexey/avaweb/internal/observability"
	"github.com/vyrodovalexey/avaweb/internal/registry"
	"github.com/vyrodovalexey/avaweb/internal/router"
)

// application holds all application components.
type application struct {
	config     *config.AppConfig
	logger     observability.Logger
	catalog    *controller.Catalog
	registry   *registry.Registry
	router     *router.Router
	devReload  *controller.DevReloader
	codeRoutes []*router.Route
	handler    http.Handler
	health     *health.Checker
	metrics    *observability.Metrics
	tracer     *observability.Tracer

	server        *http.Server
	metricsServer *http.Server
}

// newApplication wires the controllers, filters and routes described by cfg.
func newApplication(cfg *config.AppConfig, logger observability.Logger) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		catalog:  controller.NewCatalog(),
		registry: registry.New(registry.WithLogger(logger)),
		metrics:  observability.NewMetrics("avaweb"),
		health:   health.NewChecker(version),
	}
	app.metrics.SetBuildInfo(version, gitCommit, buildTime)

	tracer, err := observability.NewTracer(observability.TracerConfig{
		ServiceName:  cfg.Spec.Tracing.ServiceName,
		OTLPEndpoint: cfg.Spec.Tracing.OTLPEndpoint,
		SamplingRate: cfg.Spec.Tracing.SamplingRate,
		Enabled:      cfg.Spec.Tracing.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize tracer: %w", err)
	}
	app.tracer = tracer

	types := newDemoTypes()
	if err := app.catalog.Register(types.all()...); err != nil {
		return nil, err
	}
	for _, pkg := range cfg.Spec.ControllerPackages {
		app.catalog.AddPackage(pkg)
	}

	routerOpts := []router.Option{
		router.WithLogger(logger),
		router.WithMetrics(app.metrics),
	}
	if cfg.Spec.Development.HotReload {
		app.devReload = controller.NewDevReloader(app.catalog, controller.NewFactory(app.catalog),
			controller.WithReloadLogger(logger),
			controller.WithReloadHook(app.metrics.RecordReload),
		)
		routerOpts = append(routerOpts, router.WithReloader(app.devReload))
	}
	app.router = router.New(app.catalog, routerOpts...)

	app.registry.SetInjector(filter.NewStructInjector(logger, app.metrics))

	if err := bootstrap.Run(app.registry, app.router, logger,
		globalFilters(&cfg.Spec.Filters, app.catalog, logger),
		demoConfig(types),
		circuitBreakerConfig(cfg.Spec.Filters.CircuitBreaker, types),
	); err != nil {
		return nil, err
	}
	app.codeRoutes = app.router.Routes()

	if err := app.applyRoutes(cfg); err != nil {
		return nil, err
	}

	app.health.RegisterCheck("filters", health.InjectionCheck(app.registry))
	app.health.RegisterCheck("routes", health.RoutesCheck(func() int { return len(app.router.Routes()) }))
	app.health.RegisterCheck("controllers", health.ControllersCheck(func() int { return len(app.catalog.Types()) }))

	d := dispatch.New(app.router, app.registry,
		dispatch.WithLogger(logger),
		dispatch.WithMetrics(app.metrics),
		dispatch.WithTracer(app.tracer),
	)
	app.handler = middleware.Chain(d,
		middleware.Recovery(logger, app.metrics),
		middleware.RequestID(),
		middleware.Logging(logger),
	)

	return app, nil
}

// applyRoutes replaces the router's routes with the routes declared in code
// followed by the routes from cfg.
func (a *application) applyRoutes(cfg *config.AppConfig) error {
	fromConfig, err := bootstrap.RoutesFromConfig(cfg.Spec.Routes, a.catalog)
	if err != nil {
		return err
	}

	routes := make([]*router.Route, 0, len(a.codeRoutes)+len(fromConfig))
	routes = append(routes, a.codeRoutes...)
	routes = append(routes, fromConfig...)
	if err := a.router.Replace(routes); err != nil {
		return err
	}

	a.logger.Info("routes applied",
		observability.Int("code_routes", len(a.codeRoutes)),
		observability.Int("config_routes", len(fromConfig)),
	)
	return nil
}

// globalFilters registers the filters enabled in the configuration.
func globalFilters(cfg *config.FiltersConfig, catalog *controller.Catalog, logger observability.Logger) bootstrap.Config {
	return bootstrap.ConfigFunc(func(b *bootstrap.Builder) {
		if cfg.RequestID {
			b.AddGlobalFilters(filter.RequestID())
		}
		if cfg.Timing {
			b.AddGlobalFilters(filter.Timing(logger))
		}

		if rl := cfg.RateLimit; rl != nil && rl.Enabled {
			excluded := make([]*controller.Type, 0, len(rl.Except))
			for _, path := range rl.Except {
				t, err := catalog.LoadPath("/" + strings.Trim(path, "/"))
				if err != nil {
					logger.Warn("rate limit exclusion ignored",
						observability.String("controller", path),
						observability.Error(err),
					)
					continue
				}
				excluded = append(excluded, t)
			}
			b.AddGlobalFiltersExcept([]filter.Filter{filter.RateLimit(rl.RequestsPerSecond, rl.Burst)}, excluded...)
		}
	})
}

// demoConfig declares the demo routes and per-controller filters.
func demoConfig(types *demoTypes) bootstrap.Config {
	return bootstrap.ConfigFunc(func(b *bootstrap.Builder) {
		b.Route("/").To(types.hello)
		b.Route("/hi/{name}").To(types.hello).Action("hi").Get()
		b.Route("/greetings/{lang}/{id}").To(types.greeting).Action("show").Get()
		b.Route("/say/{action}/{id}").To(types.hello).Get()

		b.Add(&adminAuditFilter{}).To(types.users)
	})
}

// circuitBreakerConfig guards the photo mutations with a breaker when enabled.
func circuitBreakerConfig(cfg *config.CircuitBreakerConfig, types *demoTypes) bootstrap.Config {
	return bootstrap.ConfigFunc(func(b *bootstrap.Builder) {
		if cfg == nil || !cfg.Enabled {
			return
		}
		threshold := uint32(cfg.Threshold)
		cb := filter.CircuitBreaker("photos", gobreaker.Settings{
			Timeout: cfg.Timeout.Duration(),
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
		})
		b.Add(cb).To(types.photos).ForActions("create", "update", "destroy")
	})
}

// newServer creates the application HTTP server.
func newServer(cfg *config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout.OrDefault(config.DefaultReadTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout.OrDefault(config.DefaultWriteTimeout),
		IdleTimeout:       cfg.IdleTimeout.OrDefault(config.DefaultIdleTimeout),
	}
}
