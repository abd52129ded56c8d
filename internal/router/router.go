package router

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/vyrodovalexey/avaweb/internal/controller"
	"github.com/vyrodovalexey/avaweb/internal/observability"
	"github.com/vyrodovalexey/avaweb/internal/util"
)

// RESTful action names.
const (
	actionIndex    = "index"
	actionNewForm  = "new_form"
	actionCreate   = "create"
	actionShow     = "show"
	actionEditForm = "edit_form"
	actionUpdate   = "update"
	actionDestroy  = "destroy"
)

// Router resolves requests to controller actions. Configured routes are
// tried in registration order; when none applies the convention route
// /[package/]controller[/action[/id]] is used.
type Router struct {
	locator  controller.Locator
	reloader controller.Reloader
	logger   observability.Logger
	metrics  *observability.Metrics
	matches  *matchMetrics

	mu     sync.RWMutex
	routes []*Route
}

// Option configures a Router.
type Option func(*Router)

// WithReloader sets the strategy resolving controller instances after a
// match. The default creates one instance per type and keeps it.
func WithReloader(r controller.Reloader) Option {
	return func(rt *Router) {
		rt.reloader = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(rt *Router) {
		rt.logger = logger
	}
}

// WithMetrics records class load failures and route match counts in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(rt *Router) {
		rt.metrics = m
	}
}

// New creates a router resolving controllers through locator.
func New(locator controller.Locator, opts ...Option) *Router {
	rt := &Router{
		locator: locator,
		logger:  observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.reloader == nil {
		rt.reloader = controller.NewStaticReloader()
	}
	if rt.metrics != nil {
		rt.matches = newMatchMetrics(rt.metrics.Registry())
	} else {
		rt.matches = newMatchMetrics(nil)
	}
	return rt
}

// Add appends routes. A route with neither a bound controller nor a
// {controller} segment is rejected.
func (rt *Router) Add(routes ...*Route) error {
	for _, r := range routes {
		if err := r.validate(); err != nil {
			return err
		}
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.routes = append(rt.routes, routes...)
	return nil
}

// Replace swaps the whole route table, e.g. after the route file changed.
func (rt *Router) Replace(routes []*Route) error {
	for _, r := range routes {
		if err := r.validate(); err != nil {
			return err
		}
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.routes = append([]*Route(nil), routes...)
	return nil
}

// Routes returns a snapshot of the configured routes in match order.
func (rt *Router) Routes() []*Route {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return append([]*Route(nil), rt.routes...)
}

// Match resolves path and method to a controller instance and action.
// It returns *util.RouteNotFoundError or *util.ActionNotFoundError when
// nothing handles the request, and *util.ClassLoadError when the
// controller could not be loaded.
func (rt *Router) Match(ctx context.Context, path, method string) (*Outcome, error) {
	logger := rt.logger.WithContext(ctx)

	for _, r := range rt.Routes() {
		out, err := r.Match(path, method, rt.locator)
		if err != nil {
			rt.matches.record(r.template, resultError)
			return nil, rt.classLoadFailure(err)
		}
		if !out.Matched {
			continue
		}
		resolved, err := rt.resolve(out)
		if err != nil {
			rt.matches.record(r.template, resultError)
			return nil, err
		}
		if !resolved.Type.HasAction(resolved.Action) {
			rt.matches.record(r.template, resultFallthrough)
			logger.Debug("route matched but action is not defined, trying next route",
				observability.String("route", r.template),
				observability.String("controller", resolved.Type.ClassName()),
				observability.String("action", resolved.Action),
			)
			continue
		}
		rt.matches.record(r.template, resultMatched)
		return resolved, nil
	}

	out, err := rt.convention(path, method)
	if err != nil {
		result := resultNotFound
		if errors.Is(err, util.ErrClassLoad) && !errors.Is(err, util.ErrNotFound) {
			result = resultError
		}
		rt.matches.record(conventionLabel, result)
		return nil, rt.classLoadFailure(err)
	}
	rt.matches.record(conventionLabel, resultMatched)
	return rt.resolve(out)
}

// resolve obtains the controller instance through the reloader. The action
// is checked against the returned type, which may be newer than the one the
// route was bound to.
func (rt *Router) resolve(out Outcome) (*Outcome, error) {
	t, c, err := rt.reloader.Resolve(out.Type)
	if err != nil {
		if !errors.Is(err, util.ErrClassLoad) {
			err = util.NewClassLoadError(out.Type.ClassName(), err)
		}
		return nil, rt.classLoadFailure(err)
	}
	out.Type = t
	out.Controller = c
	return &out, nil
}

func (rt *Router) classLoadFailure(err error) error {
	var cle *util.ClassLoadError
	if errors.As(err, &cle) {
		rt.logger.Error("failed to load controller",
			observability.String("controller", cle.Controller),
			observability.Error(err),
		)
		if rt.metrics != nil {
			rt.metrics.RecordClassLoadFailure(cle.Controller)
		}
	}
	return err
}

// convention applies the default route. RESTful controllers map methods to
// resource actions; the others take /controller[/action[/id]].
func (rt *Router) convention(path, method string) (Outcome, error) {
	tokens := splitPath(path)
	if len(tokens) == 0 {
		return Outcome{}, util.NewRouteNotFoundError(method, path)
	}

	pkgLen := rt.packagePrefix(tokens)
	if pkgLen >= len(tokens) {
		return Outcome{}, util.NewRouteNotFoundError(method, path)
	}

	ctrlPath := "/" + strings.Join(tokens[:pkgLen+1], "/")
	t, err := rt.locator.Load(rt.locator.ClassName(ctrlPath))
	if err != nil {
		return Outcome{}, err
	}

	rest := tokens[pkgLen+1:]
	var (
		action, id string
		ok         bool
	)
	if t.Restful() {
		action, id, ok = restfulAction(rest, method)
	} else {
		action, id, ok = standardAction(rest)
	}
	if !ok {
		return Outcome{}, util.NewRouteNotFoundError(method, path)
	}
	if !t.HasAction(action) {
		return Outcome{}, util.NewActionNotFoundError(t.ClassName(), action)
	}
	return Outcome{
		Matched: true,
		Type:    t,
		Action:  action,
		ID:      id,
	}, nil
}

// packagePrefix returns how many leading tokens name a controller package.
// The longest registered package wins.
func (rt *Router) packagePrefix(tokens []string) int {
	pkgs := slices.Clone(rt.locator.Packages())
	sort.Slice(pkgs, func(i, j int) bool { return len(pkgs[i]) > len(pkgs[j]) })

	joined := strings.Join(tokens, "/") + "/"
	for _, pkg := range pkgs {
		if strings.HasPrefix(joined, pkg+"/") {
			return len(splitPath(pkg))
		}
	}
	return 0
}

func standardAction(rest []string) (action, id string, ok bool) {
	switch len(rest) {
	case 0:
		return controller.DefaultAction, "", true
	case 1:
		return rest[0], "", true
	case 2:
		return rest[0], rest[1], true
	default:
		return "", "", false
	}
}

func restfulAction(rest []string, method string) (action, id string, ok bool) {
	switch len(rest) {
	case 0:
		switch method {
		case http.MethodGet:
			return actionIndex, "", true
		case http.MethodPost:
			return actionCreate, "", true
		}
	case 1:
		if rest[0] == actionNewForm && method == http.MethodGet {
			return actionNewForm, "", true
		}
		switch method {
		case http.MethodGet:
			return actionShow, rest[0], true
		case http.MethodPut:
			return actionUpdate, rest[0], true
		case http.MethodDelete:
			return actionDestroy, rest[0], true
		}
	case 2:
		if rest[1] == actionEditForm && method == http.MethodGet {
			return actionEditForm, rest[0], true
		}
	}
	return "", "", false
}
