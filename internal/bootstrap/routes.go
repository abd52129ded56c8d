package bootstrap

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/vyrodovalexey/avaweb/internal/config"
	"github.com/vyrodovalexey/avaweb/internal/controller"
	"github.com/vyrodovalexey/avaweb/internal/router"
	"github.com/vyrodovalexey/avaweb/internal/util"
)

// RouteConfig collects routes in the order they are declared.
type RouteConfig struct {
	routes []*router.Route
}

// NewRouteConfig creates an empty RouteConfig.
func NewRouteConfig() *RouteConfig {
	return &RouteConfig{}
}

// Route declares a route and returns it for further configuration.
func (c *RouteConfig) Route(template string) *router.Route {
	r := router.NewRoute(template)
	c.routes = append(c.routes, r)
	return r
}

// Routes returns the declared routes.
func (c *RouteConfig) Routes() []*router.Route {
	return append([]*router.Route(nil), c.routes...)
}

// Apply adds the declared routes to rt.
func (c *RouteConfig) Apply(rt *router.Router) error {
	return rt.Add(c.routes...)
}

// RoutesFromConfig builds routes from configuration entries, resolving
// controller paths through locator.
func RoutesFromConfig(entries []config.RouteConfig, locator controller.Locator) ([]*router.Route, error) {
	routes := make([]*router.Route, 0, len(entries))
	for i := range entries {
		r, err := routeFromConfig(&entries[i], locator)
		if err != nil {
			return nil, fmt.Errorf("route %d (%s): %w", i, entries[i].Path, err)
		}
		routes = append(routes, r)
	}
	return routes, nil
}

func routeFromConfig(entry *config.RouteConfig, locator controller.Locator) (r *router.Route, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			conflict, ok := rec.(*util.ConfigConflictError)
			if !ok {
				panic(rec)
			}
			r, err = nil, conflict
		}
	}()

	r = router.NewRoute(entry.Path)

	if entry.Controller != "" {
		path := "/" + strings.Trim(entry.Controller, "/")
		t, err := locator.Load(locator.ClassName(path))
		if err != nil {
			return nil, err
		}
		r.To(t)
	}

	if entry.Action != "" {
		r.Action(entry.Action)
	}

	for _, m := range entry.Methods {
		switch strings.ToUpper(m) {
		case http.MethodGet:
			r.Get()
		case http.MethodPost:
			r.Post()
		case http.MethodPut:
			r.Put()
		case http.MethodDelete:
			r.Delete()
		default:
			return nil, util.NewConfigError("methods", "unsupported HTTP method: "+m)
		}
	}
	return r, nil
}
