// Package registry stores per-controller filter configuration and the
// global filter lists of an application, and resolves the filter chain
// for a controller action.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vyrodovalexey/avaweb/internal/controller"
	"github.com/vyrodovalexey/avaweb/internal/filter"
	"github.com/vyrodovalexey/avaweb/internal/observability"
)

// Registry is the controller registry of one application. It is populated
// at bootstrap and read concurrently while serving requests.
type Registry struct {
	logger observability.Logger

	mu       sync.RWMutex
	metaData map[string]*MetaData
	global   []*filter.List
	injector filter.Injector

	injectOnce sync.Once
	injectErr  error
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		logger:   observability.NopLogger(),
		metaData: make(map[string]*MetaData),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetInjector sets the dependency injector used by InjectFilters.
func (r *Registry) SetInjector(i filter.Injector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.injector = i
}

// Injector returns the configured injector, nil when none was set.
func (r *Registry) Injector() filter.Injector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.injector
}

// MetaData returns the record for controller type t, creating it on first
// use. Repeated calls for the same class return the same record.
func (r *Registry) MetaData(t *controller.Type) *MetaData {
	name := t.ClassName()

	r.mu.RLock()
	md, ok := r.metaData[name]
	r.mu.RUnlock()
	if ok {
		return md
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if md, ok = r.metaData[name]; ok {
		return md
	}
	md = newMetaData(name)
	r.metaData[name] = md
	return md
}

// lookup returns the record for className without creating it.
func (r *Registry) lookup(className string) *MetaData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.metaData[className]
}

// AddGlobalFilters appends a global filter list applied to every controller.
func (r *Registry) AddGlobalFilters(filters ...filter.Filter) {
	r.AddGlobalFiltersExcept(filters)
}

// AddGlobalFiltersExcept appends a global filter list applied to every
// controller except the excluded ones.
func (r *Registry) AddGlobalFiltersExcept(filters []filter.Filter, excluded ...*controller.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.global = append(r.global, filter.NewList(filters, excluded...))
}

// GlobalFilterLists returns the global filter lists in registration order.
func (r *Registry) GlobalFilterLists() []*filter.List {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*filter.List(nil), r.global...)
}

// Controllers returns the class names that have a record, sorted.
func (r *Registry) Controllers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.metaData))
	for name := range r.metaData {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InjectFilters runs the injector over every global and per-controller
// filter. Calls before an injector is set do nothing; after that the pass
// runs exactly once and its result is returned to every caller.
func (r *Registry) InjectFilters() error {
	inj := r.Injector()
	if inj == nil {
		return nil
	}

	r.injectOnce.Do(func() {
		r.injectErr = r.inject(inj)
	})
	return r.injectErr
}

func (r *Registry) inject(inj filter.Injector) error {
	count := 0
	for _, l := range r.GlobalFilterLists() {
		for _, f := range l.Filters() {
			if err := inj.InjectMembers(f); err != nil {
				return fmt.Errorf("inject global filter %T: %w", f, err)
			}
			count++
		}
	}

	for _, name := range r.Controllers() {
		for _, f := range r.lookup(name).Filters() {
			if err := inj.InjectMembers(f); err != nil {
				return fmt.Errorf("inject filter %T of %s: %w", f, name, err)
			}
			count++
		}
	}

	r.logger.Info("filters injected", observability.Int("filters", count))
	return nil
}

// Chain returns the filters to run around action of controller type t:
// global filters not excluding t, then filters registered for all of t's
// actions, then filters registered for this action.
func (r *Registry) Chain(t *controller.Type, action string) []filter.Filter {
	var chain []filter.Filter
	for _, l := range r.GlobalFilterLists() {
		if !l.Excludes(t) {
			chain = append(chain, l.Filters()...)
		}
	}

	if md := r.lookup(t.ClassName()); md != nil {
		chain = append(chain, md.ControllerFilters()...)
		chain = append(chain, md.ActionFilters(action)...)
	}
	return chain
}
