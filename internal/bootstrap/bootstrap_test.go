package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avaweb/internal/config"
	"github.com/vyrodovalexey/avaweb/internal/controller"
	"github.com/vyrodovalexey/avaweb/internal/filter"
	"github.com/vyrodovalexey/avaweb/internal/observability"
	"github.com/vyrodovalexey/avaweb/internal/registry"
	"github.com/vyrodovalexey/avaweb/internal/router"
	"github.com/vyrodovalexey/avaweb/internal/util"
)

type testController struct{}

func noop(controller.Controller, *controller.Context) error { return nil }

func newTestType(name string, actions ...string) *controller.Type {
	t := controller.NewType(name, func() controller.Controller { return &testController{} })
	for _, a := range actions {
		t.Handle(a, noop)
	}
	return t
}

type fixture struct {
	catalog  *controller.Catalog
	registry *registry.Registry
	router   *router.Router
	hello    *controller.Type
	greeting *controller.Type
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		catalog:  controller.NewCatalog(),
		registry: registry.New(),
		hello:    newTestType("hello", "index", "show", "hi"),
		greeting: newTestType("greeting", "index", "show"),
	}
	require.NoError(t, f.catalog.Register(f.hello, f.greeting))
	f.router = router.New(f.catalog)
	return f
}

func TestFilterBuilder_To(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	a, b := &filter.Funcs{}, &filter.Funcs{}

	NewControllerConfig(f.registry).Add(a, b).To(f.hello, f.greeting)

	for _, typ := range []*controller.Type{f.hello, f.greeting} {
		md := f.registry.MetaData(typ)
		require.Len(t, md.ControllerFilters(), 2, typ.ClassName())
		assert.Same(t, a, md.ControllerFilters()[0])
		assert.Same(t, b, md.ControllerFilters()[1])
		assert.Empty(t, md.ActionFilters("index"))
	}
}

func TestFilterBuilder_ForActions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	timing := &filter.Funcs{}

	NewControllerConfig(f.registry).Add(timing).To(f.hello).ForActions("show", "Hi")

	md := f.registry.MetaData(f.hello)
	assert.Empty(t, md.ControllerFilters())
	assert.Equal(t, []filter.Filter{timing}, md.ActionFilters("show"))
	assert.Equal(t, []filter.Filter{timing}, md.ActionFilters("hi"))
	assert.Empty(t, md.ActionFilters("index"))

	assert.Empty(t, f.registry.Chain(f.hello, "index"))
	assert.Len(t, f.registry.Chain(f.hello, "show"), 1)
}

func TestFilterBuilder_ForActionsWithoutTo(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	builder := NewControllerConfig(f.registry).Add(&filter.Funcs{})

	var conflict *util.ConfigConflictError
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			var ok bool
			conflict, ok = r.(*util.ConfigConflictError)
			require.True(t, ok, "panic value %T", r)
		}()
		builder.ForActions("index")
	}()

	assert.Contains(t, conflict.Error(), "call To(...) before ForActions(...)")
	assert.Empty(t, f.registry.Controllers())
}

func TestFilterBuilder_ForActionsAfterEmptyTo(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	assert.NotPanics(t, func() {
		NewControllerConfig(f.registry).Add(&filter.Funcs{}).To().ForActions("index")
	})
	assert.Empty(t, f.registry.Controllers())
}

func TestControllerConfig_GlobalFilters(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	all, some := &filter.Funcs{}, &filter.Funcs{}

	cc := NewControllerConfig(f.registry)
	cc.AddGlobalFilters(all)
	cc.AddGlobalFiltersExcept([]filter.Filter{some}, f.greeting)

	assert.Equal(t, []filter.Filter{all, some}, f.registry.Chain(f.hello, "index"))
	assert.Equal(t, []filter.Filter{all}, f.registry.Chain(f.greeting, "index"))
}

func TestRun(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	timing := &filter.Funcs{}

	err := Run(f.registry, f.router, observability.NopLogger(),
		ConfigFunc(func(b *Builder) {
			b.Add(timing).To(f.hello).ForActions("show")
		}),
		ConfigFunc(func(b *Builder) {
			b.Route("/greet/{id}").To(f.greeting).Action("show").Get()
			b.Route("/{controller}/{action}")
		}),
	)
	require.NoError(t, err)
	require.Len(t, f.router.Routes(), 2)

	out, err := f.router.Match(context.Background(), "/greet/7", http.MethodGet)
	require.NoError(t, err)
	assert.Equal(t, f.greeting, out.Type)
	assert.Equal(t, "show", out.Action)
	assert.Equal(t, "7", out.ID)

	assert.Len(t, f.registry.Chain(f.hello, "show"), 1)
}

func TestRun_ConfigConflict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		init func(f *fixture) ConfigFunc
	}{
		{
			name: "controller segment and To",
			init: func(f *fixture) ConfigFunc {
				return func(b *Builder) {
					b.Route("/{controller}/x").To(f.hello)
				}
			},
		},
		{
			name: "action segment and Action",
			init: func(*fixture) ConfigFunc {
				return func(b *Builder) {
					b.Route("/{controller}/{action}/x").Action("show")
				}
			},
		},
		{
			name: "ForActions before To",
			init: func(*fixture) ConfigFunc {
				return func(b *Builder) {
					b.Add(&filter.Funcs{}).ForActions("index")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			err := Run(f.registry, f.router, nil,
				ConfigFunc(func(b *Builder) {
					b.Route("/ok").To(f.hello)
				}),
				tt.init(f),
			)
			require.Error(t, err)
			assert.True(t, errors.Is(err, util.ErrConfigConflict))
			assert.Empty(t, f.router.Routes())
		})
	}
}

func TestRun_OtherPanicsPropagate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	assert.PanicsWithValue(t, "boom", func() {
		_ = Run(f.registry, f.router, nil, ConfigFunc(func(*Builder) {
			panic("boom")
		}))
	})
}

func TestRun_InvalidRoute(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	err := Run(f.registry, f.router, nil, ConfigFunc(func(b *Builder) {
		b.Route("/orphan/{id}")
	}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrConfigInvalid))
}

func TestRoutesFromConfig(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	routes, err := RoutesFromConfig([]config.RouteConfig{
		{Path: "/greeting/{id}", Controller: "/greeting", Action: "show", Methods: []string{"get", "POST"}},
		{Path: "/{controller}/{action}/{id}"},
	}, f.catalog)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.Equal(t, f.greeting, routes[0].Controller())
	assert.Equal(t, "show", routes[0].BoundAction())
	assert.Equal(t, []string{http.MethodGet, http.MethodPost}, routes[0].Methods())
	assert.Nil(t, routes[1].Controller())

	require.NoError(t, f.router.Replace(routes))
	out, err := f.router.Match(context.Background(), "/greeting/3", http.MethodPost)
	require.NoError(t, err)
	assert.Equal(t, "show", out.Action)
}

func TestRoutesFromConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entry   config.RouteConfig
		wantErr error
	}{
		{
			name:    "unknown controller",
			entry:   config.RouteConfig{Path: "/x", Controller: "missing"},
			wantErr: util.ErrNotFound,
		},
		{
			name:    "controller conflict",
			entry:   config.RouteConfig{Path: "/{controller}", Controller: "hello"},
			wantErr: util.ErrConfigConflict,
		},
		{
			name:    "action conflict",
			entry:   config.RouteConfig{Path: "/{controller}/{action}", Action: "show"},
			wantErr: util.ErrConfigConflict,
		},
		{
			name:    "unsupported method",
			entry:   config.RouteConfig{Path: "/x", Controller: "hello", Methods: []string{"PATCH"}},
			wantErr: util.ErrConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			routes, err := RoutesFromConfig([]config.RouteConfig{tt.entry}, f.catalog)
			require.Error(t, err)
			assert.Nil(t, routes)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
