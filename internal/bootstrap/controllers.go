package bootstrap

import (
	"github.com/vyrodovalexey/avaweb/internal/controller"
	"github.com/vyrodovalexey/avaweb/internal/filter"
	"github.com/vyrodovalexey/avaweb/internal/registry"
	"github.com/vyrodovalexey/avaweb/internal/util"
)

// ControllerConfig wires filters to controllers at startup.
type ControllerConfig struct {
	registry *registry.Registry
}

// NewControllerConfig creates a ControllerConfig writing into reg.
func NewControllerConfig(reg *registry.Registry) *ControllerConfig {
	return &ControllerConfig{registry: reg}
}

// Add starts a filter registration: Add(filters...).To(controllers...),
// optionally narrowed with ForActions(actions...).
func (c *ControllerConfig) Add(filters ...filter.Filter) *FilterBuilder {
	return &FilterBuilder{
		registry: c.registry,
		filters:  filters,
	}
}

// AddGlobalFilters registers filters for every controller.
func (c *ControllerConfig) AddGlobalFilters(filters ...filter.Filter) {
	c.registry.AddGlobalFilters(filters...)
}

// AddGlobalFiltersExcept registers filters for every controller except the
// excluded ones.
func (c *ControllerConfig) AddGlobalFiltersExcept(filters []filter.Filter, excluded ...*controller.Type) {
	c.registry.AddGlobalFiltersExcept(filters, excluded...)
}

// boundRegistration remembers where To wrote the filters so ForActions
// can narrow them.
type boundRegistration struct {
	md  *registry.MetaData
	reg registry.Registration
}

// FilterBuilder is returned by ControllerConfig.Add.
type FilterBuilder struct {
	registry *registry.Registry
	filters  []filter.Filter
	bound    []boundRegistration
	toCalled bool
}

// To applies the filters to every action of the given controllers.
func (b *FilterBuilder) To(types ...*controller.Type) *FilterBuilder {
	b.toCalled = true
	for _, t := range types {
		md := b.registry.MetaData(t)
		b.bound = append(b.bound, boundRegistration{
			md:  md,
			reg: md.AddFilters(b.filters...),
		})
	}
	return b
}

// ForActions restricts the filters registered by To to the named actions.
// It panics with a *util.ConfigConflictError when To was not called first.
func (b *FilterBuilder) ForActions(actions ...string) {
	if !b.toCalled {
		panic(util.NewConfigConflictError("ForActions",
			"controllers not provided, call To(...) before ForActions(...)"))
	}
	for _, br := range b.bound {
		br.md.Narrow(br.reg, actions...)
	}
}
