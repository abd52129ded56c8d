package controller

import (
	"sync"
	"sync/atomic"

	"github.com/vyrodovalexey/avaweb/internal/observability"
)

// Reloader resolves the controller instance that serves a matched request.
// Production uses StaticReloader; development uses DevReloader, which
// re-resolves the type and creates a fresh instance on every match.
type Reloader interface {
	Resolve(t *Type) (*Type, Controller, error)
}

// StaticReloader creates one instance per controller class and reuses it.
type StaticReloader struct {
	mu        sync.Mutex
	instances map[string]Controller
}

// NewStaticReloader creates a StaticReloader.
func NewStaticReloader() *StaticReloader {
	return &StaticReloader{instances: make(map[string]Controller)}
}

// Resolve implements Reloader.
func (r *StaticReloader) Resolve(t *Type) (*Type, Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.ClassName()
	if c, ok := r.instances[name]; ok {
		return t, c, nil
	}

	c, err := t.Instantiate()
	if err != nil {
		return nil, nil, err
	}
	r.instances[name] = c
	return t, c, nil
}

// DevReloader looks the type up again through the Locator and asks the
// Factory for a fresh instance on every call, so types swapped into the
// catalog take effect without a restart.
type DevReloader struct {
	locator    Locator
	factory    Factory
	logger     observability.Logger
	generation atomic.Uint64
	onReload   func(className string)
}

// DevReloaderOption configures a DevReloader.
type DevReloaderOption func(*DevReloader)

// WithReloadLogger sets the logger.
func WithReloadLogger(logger observability.Logger) DevReloaderOption {
	return func(r *DevReloader) {
		r.logger = logger
	}
}

// WithReloadHook registers a callback invoked after each successful reload.
func WithReloadHook(fn func(className string)) DevReloaderOption {
	return func(r *DevReloader) {
		r.onReload = fn
	}
}

// NewDevReloader creates a DevReloader.
func NewDevReloader(locator Locator, factory Factory, opts ...DevReloaderOption) *DevReloader {
	r := &DevReloader{
		locator: locator,
		factory: factory,
		logger:  observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve implements Reloader.
func (r *DevReloader) Resolve(t *Type) (*Type, Controller, error) {
	name := t.ClassName()

	fresh, err := r.locator.Load(name)
	if err != nil {
		return nil, nil, err
	}

	c, err := r.factory.New(name)
	if err != nil {
		return nil, nil, err
	}

	r.logger.Debug("controller reloaded",
		observability.String("controller", name),
		observability.Uint64("generation", r.generation.Load()),
	)
	if r.onReload != nil {
		r.onReload(name)
	}
	return fresh, c, nil
}

// Bump records that controller sources changed and returns the new
// generation number.
func (r *DevReloader) Bump(reason string) uint64 {
	gen := r.generation.Add(1)
	r.logger.Info("controller sources changed",
		observability.String("reason", reason),
		observability.Uint64("generation", gen),
	)
	return gen
}

// Generation returns the current source generation.
func (r *DevReloader) Generation() uint64 {
	return r.generation.Load()
}
