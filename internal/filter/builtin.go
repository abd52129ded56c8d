package filter

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/vyrodovalexey/avaweb/internal/controller"
	"github.com/vyrodovalexey/avaweb/internal/observability"
	"github.com/vyrodovalexey/avaweb/internal/util"
)

// timingStartKey is the Context value holding the Before timestamp.
const timingStartKey = "filter.timing.start"

// TimingFilter logs how long each action took.
type TimingFilter struct {
	Base
	logger observability.Logger
}

// Timing creates a filter logging action durations to logger.
func Timing(logger observability.Logger) *TimingFilter {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &TimingFilter{logger: logger}
}

// Before records the start time.
func (f *TimingFilter) Before(ctx *controller.Context) error {
	ctx.Assign(timingStartKey, time.Now())
	return nil
}

// After logs the elapsed time.
func (f *TimingFilter) After(ctx *controller.Context) error {
	f.logger.WithContext(ctx.Context()).Info("action completed",
		observability.String("controller", ctx.Type.ClassName()),
		observability.String("action", ctx.Action),
		observability.Duration("duration", f.elapsed(ctx)),
	)
	return nil
}

// OnException logs the failure with the elapsed time.
func (f *TimingFilter) OnException(ctx *controller.Context, err error) {
	f.logger.WithContext(ctx.Context()).Warn("action failed",
		observability.String("controller", ctx.Type.ClassName()),
		observability.String("action", ctx.Action),
		observability.Duration("duration", f.elapsed(ctx)),
		observability.Error(err),
	)
}

func (f *TimingFilter) elapsed(ctx *controller.Context) time.Duration {
	v, _ := ctx.Value(timingStartKey)
	start, ok := v.(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}

// RequestIDKey is the Context value holding the request ID.
const RequestIDKey = "request_id"

// requestIDHeader is the response header carrying the request ID.
const requestIDHeader = "X-Request-ID"

// RequestIDFilter exposes the request ID to actions. It reuses the ID put
// on the request context by the middleware and generates one otherwise.
type RequestIDFilter struct {
	Base
}

// RequestID creates a RequestIDFilter.
func RequestID() *RequestIDFilter {
	return &RequestIDFilter{}
}

// Before assigns the request ID and echoes it in the response headers.
func (f *RequestIDFilter) Before(ctx *controller.Context) error {
	id := util.RequestIDFromContext(ctx.Context())
	if id == "" {
		id = uuid.New().String()
	}
	ctx.Assign(RequestIDKey, id)
	if ctx.Response.Header().Get(requestIDHeader) == "" {
		ctx.Response.Header().Set(requestIDHeader, id)
	}
	return nil
}

// RateLimitFilter rejects actions once a token bucket is drained.
type RateLimitFilter struct {
	Base
	limiter *rate.Limiter
	burst   int
}

// RateLimit creates a filter allowing rps actions per second with the
// given burst. A non-positive rps disables limiting.
func RateLimit(rps float64, burst int) *RateLimitFilter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitFilter{
		limiter: rate.NewLimiter(limit, burst),
		burst:   burst,
	}
}

// Before takes a token or fails with a RateLimitError.
func (f *RateLimitFilter) Before(*controller.Context) error {
	if f.limiter.Allow() {
		return nil
	}
	return util.NewRateLimitError(f.burst, f.retryAfter())
}

func (f *RateLimitFilter) retryAfter() time.Duration {
	limit := f.limiter.Limit()
	if limit <= 0 || limit == rate.Inf {
		return time.Second
	}
	return time.Duration(float64(time.Second) / float64(limit))
}

// CircuitBreakerFilter stops invoking an action after repeated failures.
type CircuitBreakerFilter struct {
	Base
	name string
	cb   *gobreaker.CircuitBreaker
}

// CircuitBreaker creates a filter guarding actions with a gobreaker
// circuit breaker. An empty settings.Name is replaced by name.
func CircuitBreaker(name string, settings gobreaker.Settings) *CircuitBreakerFilter {
	if settings.Name == "" {
		settings.Name = name
	}
	return &CircuitBreakerFilter{
		name: settings.Name,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Around implements Around.
func (f *CircuitBreakerFilter) Around(_ *controller.Context, next func() error) error {
	_, err := f.cb.Execute(func() (interface{}, error) {
		return nil, next()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return util.NewCircuitOpenError(f.name, f.cb.State().String())
	}
	return err
}

// State returns the breaker state name.
func (f *CircuitBreakerFilter) State() string {
	return f.cb.State().String()
}
