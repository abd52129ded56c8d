package controller

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vyrodovalexey/avaweb/internal/util"
)

// classSuffix is appended to the camelized controller name to form its
// class name.
const classSuffix = "Controller"

// DefaultAction is the action used when a route resolves no action name.
const DefaultAction = "index"

// Controller is an instance of a controller type. Actions receive it as
// their first argument.
type Controller interface{}

// Action handles a request for a resolved controller instance.
type Action func(c Controller, ctx *Context) error

// Bind adapts a typed action function to an Action.
func Bind[T Controller](fn func(T, *Context) error) Action {
	return func(c Controller, ctx *Context) error {
		typed, ok := c.(T)
		if !ok {
			return fmt.Errorf("controller %T cannot serve action bound to %T", c, *new(T))
		}
		return fn(typed, ctx)
	}
}

// Type describes a controller: its name, the package it lives in, how to
// create instances, and its action table. Types are built at bootstrap and
// read-only once registered.
type Type struct {
	name    string
	pkg     string
	newFn   func() Controller
	restful bool

	mu      sync.RWMutex
	actions map[string]Action
}

// TypeOption configures a Type.
type TypeOption func(*Type)

// InPackage places the controller in a sub-package, addressable as the
// first path token of the convention route ("/admin/users").
func InPackage(pkg string) TypeOption {
	return func(t *Type) {
		t.pkg = strings.Trim(pkg, "/")
	}
}

// Restful marks the controller as RESTful so the convention route maps
// HTTP methods to the standard resource actions.
func Restful() TypeOption {
	return func(t *Type) {
		t.restful = true
	}
}

// NewType creates a controller type. name may be given in any case style
// ("UserProfiles", "user_profiles", "user-profiles").
func NewType(name string, newFn func() Controller, opts ...TypeOption) *Type {
	t := &Type{
		name:    Underscore(strings.TrimSuffix(name, classSuffix)),
		newFn:   newFn,
		actions: make(map[string]Action),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Handle registers an action handler under the normalized action name.
func (t *Type) Handle(action string, fn Action) *Type {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.actions[NormalizeAction(action)] = fn
	return t
}

// Name returns the underscored controller name, e.g. "user_profiles".
func (t *Type) Name() string {
	return t.name
}

// Package returns the controller package, empty for top-level controllers.
func (t *Type) Package() string {
	return t.pkg
}

// Restful reports whether the controller follows RESTful conventions.
func (t *Type) Restful() bool {
	return t.restful
}

// ClassName returns the fully qualified class name,
// e.g. "admin.UserProfilesController".
func (t *Type) ClassName() string {
	simple := Camelize(t.name, true) + classSuffix
	if t.pkg == "" {
		return simple
	}
	return strings.ReplaceAll(t.pkg, "/", ".") + "." + simple
}

// Path returns the canonical controller path, e.g. "/admin/user_profiles".
func (t *Type) Path() string {
	if t.pkg == "" {
		return "/" + t.name
	}
	return "/" + t.pkg + "/" + t.name
}

// String implements fmt.Stringer.
func (t *Type) String() string {
	return t.ClassName()
}

// Lookup resolves an action name to its handler. Hyphenated, underscored
// and camel-cased spellings of the same name resolve identically.
func (t *Type) Lookup(action string) (Action, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	fn, ok := t.actions[NormalizeAction(action)]
	if !ok {
		return nil, util.NewActionNotFoundError(t.ClassName(), action)
	}
	return fn, nil
}

// HasAction reports whether the action resolves.
func (t *Type) HasAction(action string) bool {
	_, err := t.Lookup(action)
	return err == nil
}

// Actions returns the registered action names in sorted order.
func (t *Type) Actions() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.actions))
	for name := range t.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instantiate creates a fresh controller instance. A missing constructor,
// a nil result or a panicking constructor surfaces as a ClassLoadError.
func (t *Type) Instantiate() (c Controller, err error) {
	if t.newFn == nil {
		return nil, util.NewClassLoadError(t.ClassName(), fmt.Errorf("no constructor registered"))
	}

	defer func() {
		if r := recover(); r != nil {
			c = nil
			err = util.NewClassLoadError(t.ClassName(), fmt.Errorf("constructor panicked: %v", r))
		}
	}()

	c = t.newFn()
	if c == nil {
		return nil, util.NewClassLoadError(t.ClassName(), fmt.Errorf("constructor returned nil"))
	}
	return c, nil
}
