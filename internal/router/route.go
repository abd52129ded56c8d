package router

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/vyrodovalexey/avaweb/internal/controller"
	"github.com/vyrodovalexey/avaweb/internal/util"
)

// Outcome is the immutable result of matching one request. Matched is false
// when the route did not apply; the other fields are then zero.
type Outcome struct {
	Matched bool

	// Route is the route that produced the outcome, nil for convention matches.
	Route *Route

	Type       *controller.Type
	Controller controller.Controller
	Action     string
	ID         string

	// UserSegments holds the values of named {placeholder} segments.
	UserSegments map[string]string
}

// Route is an ordered list of segments bound to a controller. Routes are
// configured at bootstrap and read-only afterwards; Match never mutates them.
type Route struct {
	template  string
	segments  []Segment
	mandatory int
	methods   []string

	typ    *controller.Type
	action string
	id     string
	direct bool
}

// NewRoute parses a "/"-delimited template. Every template segment is
// mandatory.
func NewRoute(template string) *Route {
	tokens := splitPath(template)
	r := &Route{
		template: template,
		segments: make([]Segment, 0, len(tokens)),
	}
	for _, tok := range tokens {
		r.segments = append(r.segments, NewSegment(tok))
	}
	r.mandatory = len(r.segments)
	return r
}

// Direct builds a template-less route bound to a controller, action and id.
// It is used to invoke actions in tests.
func Direct(t *controller.Type, action, id string) *Route {
	if action == "" {
		action = controller.DefaultAction
	}
	return &Route{
		template: t.Path() + "#" + action,
		typ:      t,
		action:   action,
		id:       id,
		direct:   true,
	}
}

// To binds the route to a controller type. It panics with a
// *util.ConfigConflictError when the template has a {controller} segment.
func (r *Route) To(t *controller.Type) *Route {
	if t != nil && r.has(ControllerSegment) {
		panic(util.NewConfigConflictError(r.template,
			"cannot combine {controller} segment and To(...)"))
	}
	r.typ = t
	return r
}

// Action binds the route to a fixed action. It panics with a
// *util.ConfigConflictError when the template has an {action} segment.
func (r *Route) Action(name string) *Route {
	if name != "" && r.has(ActionSegment) {
		panic(util.NewConfigConflictError(r.template,
			"cannot combine {action} segment and Action(...)"))
	}
	r.action = name
	return r
}

// Get allows GET requests.
func (r *Route) Get() *Route { return r.allow(http.MethodGet) }

// Post allows POST requests.
func (r *Route) Post() *Route { return r.allow(http.MethodPost) }

// Put allows PUT requests.
func (r *Route) Put() *Route { return r.allow(http.MethodPut) }

// Delete allows DELETE requests.
func (r *Route) Delete() *Route { return r.allow(http.MethodDelete) }

func (r *Route) allow(method string) *Route {
	if !slices.Contains(r.methods, method) {
		r.methods = append(r.methods, method)
	}
	return r
}

// Template returns the template the route was built from.
func (r *Route) Template() string { return r.template }

// Segments returns a copy of the parsed segments.
func (r *Route) Segments() []Segment { return slices.Clone(r.segments) }

// Methods returns the declared methods. Empty means GET only.
func (r *Route) Methods() []string { return slices.Clone(r.methods) }

// Controller returns the bound controller type, nil when inferred from the path.
func (r *Route) Controller() *controller.Type { return r.typ }

// BoundAction returns the fixed action name, empty when none was set.
func (r *Route) BoundAction() string { return r.action }

// String implements fmt.Stringer.
func (r *Route) String() string {
	methods := "GET"
	if len(r.methods) > 0 {
		methods = strings.Join(r.methods, ",")
	}
	target := "{controller}"
	if r.typ != nil {
		target = r.typ.ClassName()
	}
	return fmt.Sprintf("%s %s -> %s", methods, r.template, target)
}

func (r *Route) has(kind SegmentKind) bool {
	for _, s := range r.segments {
		if s.kind == kind {
			return true
		}
	}
	return false
}

// validate reports routes that can never resolve a controller.
func (r *Route) validate() error {
	if r.direct {
		return util.NewConfigError("route "+r.template, "direct routes cannot be added to a router")
	}
	if r.typ == nil && !r.has(ControllerSegment) {
		return util.NewConfigError("route "+r.template,
			"no controller: bind one with To(...) or add a {controller} segment")
	}
	return nil
}

// Target returns the outcome of a direct route.
func (r *Route) Target() Outcome {
	return Outcome{
		Matched: true,
		Route:   r,
		Type:    r.typ,
		Action:  r.action,
		ID:      r.id,
	}
}

// Match tests the route against a request path and method. A false outcome
// with a nil error means the route does not apply. Controller inference
// through locator may fail with a *util.ClassLoadError, which is returned.
//
// Segments are evaluated left to right and evaluation stops at the first
// segment that does not match. The root route "/" matches any method.
func (r *Route) Match(uri, method string, locator controller.Locator) (Outcome, error) {
	if len(r.segments) == 0 {
		if r.direct {
			if !r.methodMatches(method) {
				return Outcome{}, nil
			}
			return r.Target(), nil
		}
		if uri != "/" {
			return Outcome{}, nil
		}
		return Outcome{
			Matched: true,
			Route:   r,
			Type:    r.typ,
			Action:  controller.DefaultAction,
		}, nil
	}

	tokens := splitPath(uri)
	if len(tokens) < r.mandatory || len(tokens) > len(r.segments) {
		return Outcome{}, nil
	}

	st := matchState{typ: r.typ, action: r.action, id: r.id}
	for i, tok := range tokens {
		ok, err := r.segments[i].match(tok, &st, locator)
		if err != nil {
			return Outcome{}, err
		}
		if !ok {
			return Outcome{}, nil
		}
	}

	if !r.methodMatches(method) {
		return Outcome{}, nil
	}

	if st.action == "" {
		st.action = controller.DefaultAction
	}
	return Outcome{
		Matched:      true,
		Route:        r,
		Type:         st.typ,
		Action:       st.action,
		ID:           st.id,
		UserSegments: st.user,
	}, nil
}

// methodMatches accepts GET when no method was declared, otherwise exactly
// the declared set.
func (r *Route) methodMatches(method string) bool {
	if len(r.methods) == 0 {
		return method == http.MethodGet
	}
	return slices.Contains(r.methods, method)
}
