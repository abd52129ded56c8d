// Package dispatch serves HTTP requests: it matches the request against the
// router, resolves the filter chain from the registry and runs the action
// inside it.
package dispatch

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/avaweb/internal/controller"
	"github.com/vyrodovalexey/avaweb/internal/observability"
	"github.com/vyrodovalexey/avaweb/internal/registry"
	"github.com/vyrodovalexey/avaweb/internal/router"
	"github.com/vyrodovalexey/avaweb/internal/util"
)

// Dispatcher is the http.Handler in front of the controllers.
type Dispatcher struct {
	router   *router.Router
	registry *registry.Registry
	logger   observability.Logger
	metrics  *observability.Metrics
	tracer   *observability.Tracer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMetrics enables dispatch metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithTracer enables a span per dispatched request.
func WithTracer(t *observability.Tracer) Option {
	return func(d *Dispatcher) {
		d.tracer = t
	}
}

// New creates a Dispatcher.
func New(rt *router.Router, reg *registry.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		router:   rt,
		registry: reg,
		logger:   observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ServeHTTP implements http.Handler.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sw := util.NewStatusCapturingResponseWriter(w)

	className, action := "", ""
	defer func() {
		if d.metrics != nil {
			d.metrics.RecordRequest(r.Method, className, action, sw.StatusCode, time.Since(start))
		}
	}()

	if err := d.registry.InjectFilters(); err != nil {
		d.fail(sw, r, err)
		return
	}

	out, err := d.router.Match(r.Context(), r.URL.Path, r.Method)
	if err != nil {
		d.fail(sw, r, err)
		return
	}
	className, action = out.Type.ClassName(), controller.NormalizeAction(out.Action)

	ctx := util.ContextWithTarget(r.Context(), className, action)
	ctx = util.ContextWithUserSegments(ctx, out.UserSegments)

	chain := d.registry.Chain(out.Type, out.Action)
	if d.metrics != nil {
		d.metrics.RecordFilterChain(className, len(chain))
	}

	var span trace.Span
	if d.tracer != nil {
		ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(r.Header))
		ctx, span = d.tracer.StartSpan(ctx, className+"#"+action,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				observability.AttrController.String(className),
				observability.AttrAction.String(action),
				observability.AttrRoute.String(routeLabel(out)),
				observability.AttrFilters.Int(len(chain)),
				attribute.String("http.request.method", r.Method),
			),
		)
		defer span.End()
	}
	r = r.WithContext(ctx)

	handler, err := out.Type.Lookup(out.Action)
	if err != nil {
		d.fail(sw, r, err)
		return
	}

	c := controller.NewContext(sw, r)
	c.Controller = out.Controller
	c.Type = out.Type
	c.Action = out.Action
	c.ID = out.ID
	if out.UserSegments != nil {
		c.UserSegments = out.UserSegments
	}

	if err := Execute(c, chain, handler); err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		d.fail(sw, r, err)
		return
	}

	d.logger.WithContext(ctx).Debug("request dispatched",
		observability.String("method", r.Method),
		observability.String("path", r.URL.Path),
		observability.Int("status", sw.StatusCode),
		observability.Int("filters", len(chain)),
	)
}

func (d *Dispatcher) fail(w *util.StatusCapturingResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	logger := d.logger.WithContext(r.Context())
	fields := []observability.Field{
		observability.String("method", r.Method),
		observability.String("path", r.URL.Path),
		observability.Int("status", status),
		observability.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
	} else {
		logger.Debug("request rejected", fields...)
	}
	writeError(w, r, status, err)
}

func routeLabel(out *router.Outcome) string {
	if out.Route == nil {
		return "convention"
	}
	return out.Route.Template()
}
