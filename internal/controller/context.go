package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// Context carries one request through the filter chain and the action.
type Context struct {
	Request  *http.Request
	Response http.ResponseWriter

	// Controller is the resolved instance; Type its descriptor.
	Controller Controller
	Type       *Type

	// Action is the action name as resolved by the route, before normalization.
	Action string

	// ID is the raw {id} path token, empty when the route had none.
	ID string

	// UserSegments holds the values bound by named {placeholder} segments.
	UserSegments map[string]string

	values map[string]any
}

// NewContext creates a request context.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{
		Request:      r,
		Response:     w,
		UserSegments: map[string]string{},
		values:       map[string]any{},
	}
}

// Context returns the request's context.Context.
func (c *Context) Context() context.Context {
	return c.Request.Context()
}

// Param returns a request parameter: "id" maps to the {id} segment, then
// named segments are consulted, then the query string.
func (c *Context) Param(name string) string {
	if name == "id" && c.ID != "" {
		return c.ID
	}
	if v, ok := c.UserSegments[name]; ok {
		return v
	}
	return c.Request.URL.Query().Get(name)
}

// Assign stores a value for downstream filters and views.
func (c *Context) Assign(key string, value any) {
	c.values[key] = value
}

// Value returns a value stored with Assign.
func (c *Context) Value(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Values returns all assigned values.
func (c *Context) Values() map[string]any {
	return c.values
}

// Status writes a bare status code.
func (c *Context) Status(status int) error {
	c.Response.WriteHeader(status)
	return nil
}

// Text writes a plain-text response.
func (c *Context) Text(status int, body string) error {
	c.Response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Response.WriteHeader(status)
	_, err := io.WriteString(c.Response, body)
	return err
}

// JSON writes v as a JSON response.
func (c *Context) JSON(status int, v any) error {
	c.Response.Header().Set("Content-Type", "application/json")
	c.Response.WriteHeader(status)
	return json.NewEncoder(c.Response).Encode(v)
}

// Redirect sends a redirect to location.
func (c *Context) Redirect(status int, location string) error {
	http.Redirect(c.Response, c.Request, location, status)
	return nil
}
