package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avaweb/internal/controller"
	"github.com/vyrodovalexey/avaweb/internal/util"
)

type testController struct{}

func noop(controller.Controller, *controller.Context) error { return nil }

func newTestType(name string, actions []string, opts ...controller.TypeOption) *controller.Type {
	t := controller.NewType(name, func() controller.Controller { return &testController{} }, opts...)
	for _, a := range actions {
		t.Handle(a, noop)
	}
	return t
}

// newTestCatalog registers hello, greeting, RESTful photos and admin/users.
func newTestCatalog(t *testing.T) (*controller.Catalog, map[string]*controller.Type) {
	t.Helper()

	types := map[string]*controller.Type{
		"hello":    newTestType("hello", []string{"index", "show", "hi", "show_user"}),
		"greeting": newTestType("greeting", []string{"index", "show"}),
		"photos": newTestType("photos", []string{
			"index", "new_form", "create", "show", "edit_form", "update", "destroy",
		}, controller.Restful()),
		"admin/users": newTestType("users", []string{"index", "show"}, controller.InPackage("admin")),
	}

	catalog := controller.NewCatalog()
	for _, typ := range types {
		require.NoError(t, catalog.Register(typ))
	}
	return catalog, types
}

// conflictOf runs fn and returns the *util.ConfigConflictError it panicked
// with, or nil.
func conflictOf(fn func()) (conflict *util.ConfigConflictError) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if ok {
				errors.As(err, &conflict)
			}
		}
	}()
	fn()
	return nil
}
