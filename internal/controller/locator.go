package controller

import (
	"sort"
	"strings"
	"sync"

	"github.com/vyrodovalexey/avaweb/internal/util"
)

// Locator maps request paths to controller class names and class names to
// controller types.
type Locator interface {
	// ClassName converts a controller path ("/admin/user_profiles") to a
	// class name ("admin.UserProfilesController").
	ClassName(path string) string

	// Load returns the type registered under className.
	Load(className string) (*Type, error)

	// Packages lists the known controller packages.
	Packages() []string
}

// Catalog is the in-process Locator: a set of controller types registered
// at bootstrap. Types may be replaced at runtime in development mode.
type Catalog struct {
	mu       sync.RWMutex
	types    map[string]*Type
	packages map[string]struct{}
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		types:    make(map[string]*Type),
		packages: make(map[string]struct{}),
	}
}

// Register adds controller types. Registering two types with the same class
// name is a configuration conflict.
func (c *Catalog) Register(types ...*Type) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range types {
		name := t.ClassName()
		if _, exists := c.types[name]; exists {
			return util.NewConfigConflictError(name, "controller registered twice")
		}
		c.types[name] = t
		if t.Package() != "" {
			c.packages[t.Package()] = struct{}{}
		}
	}
	return nil
}

// Replace swaps in a new definition for an already registered class name
// and returns the previous one. Used by development reload hooks.
func (c *Catalog) Replace(t *Type) (*Type, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := t.ClassName()
	prev, exists := c.types[name]
	if !exists {
		return nil, util.NewClassLoadError(name, util.ErrNotFound)
	}
	c.types[name] = t
	return prev, nil
}

// AddPackage declares a controller package that has no types yet.
func (c *Catalog) AddPackage(pkg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.packages[strings.Trim(pkg, "/")] = struct{}{}
}

// ClassName implements Locator.
func (c *Catalog) ClassName(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	last := len(parts) - 1
	parts[last] = Camelize(parts[last], true) + classSuffix
	return strings.Join(parts, ".")
}

// Load implements Locator.
func (c *Catalog) Load(className string) (*Type, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.types[className]
	if !ok {
		return nil, util.NewClassLoadError(className, util.ErrNotFound)
	}
	return t, nil
}

// LoadPath resolves a controller path straight to its type.
func (c *Catalog) LoadPath(path string) (*Type, error) {
	return c.Load(c.ClassName(path))
}

// Packages implements Locator.
func (c *Catalog) Packages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pkgs := make([]string, 0, len(c.packages))
	for p := range c.packages {
		pkgs = append(pkgs, p)
	}
	sort.Strings(pkgs)
	return pkgs
}

// Types returns the registered types sorted by class name.
func (c *Catalog) Types() []*Type {
	c.mu.RLock()
	defer c.mu.RUnlock()

	types := make([]*Type, 0, len(c.types))
	for _, t := range c.types {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].ClassName() < types[j].ClassName()
	})
	return types
}
