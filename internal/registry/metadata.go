package registry

import (
	"sync"

	"github.com/vyrodovalexey/avaweb/internal/controller"
	"github.com/vyrodovalexey/avaweb/internal/filter"
)

// Registration identifies one AddFilters call on a MetaData.
type Registration uint64

// registration is a filter set scoped to all actions (actions == nil) or to
// the named actions.
type registration struct {
	id      Registration
	filters []filter.Filter
	actions map[string]struct{}
}

func (r *registration) appliesTo(action string) bool {
	_, ok := r.actions[controller.NormalizeAction(action)]
	return ok
}

// MetaData is the filter configuration of one controller class.
type MetaData struct {
	className string

	mu     sync.RWMutex
	nextID Registration
	regs   []*registration
}

func newMetaData(className string) *MetaData {
	return &MetaData{className: className}
}

// ClassName returns the controller class the record belongs to.
func (m *MetaData) ClassName() string {
	return m.className
}

// AddFilters registers filters for every action of the controller.
func (m *MetaData) AddFilters(filters ...filter.Filter) Registration {
	return m.add(filters, nil)
}

// AddActionFilters registers filters for the named actions only.
func (m *MetaData) AddActionFilters(filters []filter.Filter, actions ...string) Registration {
	return m.add(filters, actionSet(actions))
}

// Narrow restricts an existing registration to the named actions. It
// reports false when reg is unknown.
func (m *MetaData) Narrow(reg Registration, actions ...string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.regs {
		if r.id == reg {
			r.actions = actionSet(actions)
			return true
		}
	}
	return false
}

func (m *MetaData) add(filters []filter.Filter, actions map[string]struct{}) Registration {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.regs = append(m.regs, &registration{
		id:      m.nextID,
		filters: append([]filter.Filter(nil), filters...),
		actions: actions,
	})
	return m.nextID
}

// ControllerFilters returns the filters registered for all actions, in
// registration order.
func (m *MetaData) ControllerFilters() []filter.Filter {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []filter.Filter
	for _, r := range m.regs {
		if r.actions == nil {
			out = append(out, r.filters...)
		}
	}
	return out
}

// ActionFilters returns the filters scoped to action, in registration order.
func (m *MetaData) ActionFilters(action string) []filter.Filter {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []filter.Filter
	for _, r := range m.regs {
		if r.actions != nil && r.appliesTo(action) {
			out = append(out, r.filters...)
		}
	}
	return out
}

// Filters returns every registered filter regardless of scope.
func (m *MetaData) Filters() []filter.Filter {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []filter.Filter
	for _, r := range m.regs {
		out = append(out, r.filters...)
	}
	return out
}

func actionSet(actions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(actions))
	for _, a := range actions {
		set[controller.NormalizeAction(a)] = struct{}{}
	}
	return set
}
