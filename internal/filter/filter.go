// Package filter defines the cross-cutting handlers that run around
// controller actions, global filter lists, and filter dependency injection.
package filter

import (
	"github.com/vyrodovalexey/avaweb/internal/controller"
)

// Filter runs around a controller action. Before hooks run in chain order,
// After hooks in reverse order. OnException is called in reverse order on
// every filter whose Before ran when a later filter or the action failed.
//
// Filter instances are shared by concurrent requests; keep per-request
// state on the Context.
type Filter interface {
	Before(ctx *controller.Context) error
	After(ctx *controller.Context) error
	OnException(ctx *controller.Context, err error)
}

// Around is implemented by filters that need to wrap the action call
// itself, e.g. a circuit breaker. Around wrappers nest in chain order.
type Around interface {
	Around(ctx *controller.Context, next func() error) error
}

// Base provides no-op implementations for embedding.
type Base struct{}

// Before implements Filter.
func (Base) Before(*controller.Context) error { return nil }

// After implements Filter.
func (Base) After(*controller.Context) error { return nil }

// OnException implements Filter.
func (Base) OnException(*controller.Context, error) {}

// Funcs builds a Filter from plain functions; nil fields are no-ops.
type Funcs struct {
	BeforeFunc      func(ctx *controller.Context) error
	AfterFunc       func(ctx *controller.Context) error
	OnExceptionFunc func(ctx *controller.Context, err error)
}

// Before implements Filter.
func (f *Funcs) Before(ctx *controller.Context) error {
	if f.BeforeFunc == nil {
		return nil
	}
	return f.BeforeFunc(ctx)
}

// After implements Filter.
func (f *Funcs) After(ctx *controller.Context) error {
	if f.AfterFunc == nil {
		return nil
	}
	return f.AfterFunc(ctx)
}

// OnException implements Filter.
func (f *Funcs) OnException(ctx *controller.Context, err error) {
	if f.OnExceptionFunc != nil {
		f.OnExceptionFunc(ctx, err)
	}
}

// List is an ordered set of global filters plus the controller classes
// excluded from it. Exclusion compares class names, so a controller type
// swapped in by a development reload is still excluded.
type List struct {
	filters  []Filter
	excluded map[string]struct{}
}

// NewList creates a filter list.
func NewList(filters []Filter, excluded ...*controller.Type) *List {
	l := &List{
		filters:  append([]Filter(nil), filters...),
		excluded: make(map[string]struct{}, len(excluded)),
	}
	for _, t := range excluded {
		l.excluded[t.ClassName()] = struct{}{}
	}
	return l
}

// Filters returns the filters in invocation order.
func (l *List) Filters() []Filter {
	return append([]Filter(nil), l.filters...)
}

// Excludes reports whether the list skips controller type t.
func (l *List) Excludes(t *controller.Type) bool {
	_, ok := l.excluded[t.ClassName()]
	return ok
}

// Len returns the number of filters in the list.
func (l *List) Len() int {
	return len(l.filters)
}
