package router

import (
	"regexp"
	"strings"

	"github.com/vyrodovalexey/avaweb/internal/controller"
)

// Reserved placeholder literals.
const (
	controllerToken = "{controller}"
	actionToken     = "{action}"
	idToken         = "{id}"
)

// namedPattern recognizes a generic {name} placeholder anywhere in the token.
var namedPattern = regexp.MustCompile(`\{.*\}`)

// SegmentKind classifies a route template token.
type SegmentKind int

// Segment kinds.
const (
	StaticSegment SegmentKind = iota
	ControllerSegment
	ActionSegment
	IDSegment
	NamedSegment
)

// String implements fmt.Stringer.
func (k SegmentKind) String() string {
	switch k {
	case StaticSegment:
		return "static"
	case ControllerSegment:
		return "controller"
	case ActionSegment:
		return "action"
	case IDSegment:
		return "id"
	case NamedSegment:
		return "named"
	default:
		return "unknown"
	}
}

// Segment is one "/"-delimited token of a route template. It is immutable
// once built.
type Segment struct {
	raw  string
	kind SegmentKind
	name string
}

// NewSegment classifies raw. The reserved placeholders are compared by exact
// equality; any other token containing a {name} pattern is a named
// placeholder; the rest is static text.
func NewSegment(raw string) Segment {
	s := Segment{raw: raw}
	switch raw {
	case controllerToken:
		s.kind = ControllerSegment
	case actionToken:
		s.kind = ActionSegment
	case idToken:
		s.kind = IDSegment
	default:
		if m := namedPattern.FindString(raw); m != "" {
			s.kind = NamedSegment
			s.name = m[1 : len(m)-1]
		}
	}
	return s
}

// Raw returns the template text of the segment.
func (s Segment) Raw() string { return s.raw }

// Kind returns the segment classification.
func (s Segment) Kind() SegmentKind { return s.kind }

// Name returns the placeholder name of a named segment.
func (s Segment) Name() string { return s.name }

// matchState collects the bindings of a single match attempt.
type matchState struct {
	typ    *controller.Type
	action string
	id     string
	user   map[string]string
}

// match tests one request token against the segment, recording bindings
// in st. A locator failure while inferring the controller is returned as is.
func (s Segment) match(token string, st *matchState, locator controller.Locator) (bool, error) {
	switch s.kind {
	case StaticSegment:
		return token == s.raw, nil

	case ControllerSegment:
		if st.typ != nil {
			return token == strings.TrimPrefix(st.typ.Path(), "/"), nil
		}
		t, err := locator.Load(locator.ClassName("/" + token))
		if err != nil {
			return false, err
		}
		st.typ = t
		return true, nil

	case ActionSegment:
		st.action = token
		return true, nil

	case IDSegment:
		st.id = token
		return true, nil

	case NamedSegment:
		if s.name == "" {
			return false, nil
		}
		if st.user == nil {
			st.user = make(map[string]string)
		}
		st.user[s.name] = token
		return true, nil
	}
	return false, nil
}

// splitPath splits a request path or template into its non-empty tokens.
func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}
