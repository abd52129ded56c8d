// Package bootstrap runs application configuration code: filter wiring
// through the Add(...).To(...).ForActions(...) DSL and route declarations.
//
// Configuration mistakes such as combining a {controller} segment with
// To(...) panic at the offending call. Run turns those panics into an
// error so startup fails with a message instead of a stack trace.
package bootstrap

import (
	"github.com/vyrodovalexey/avaweb/internal/observability"
	"github.com/vyrodovalexey/avaweb/internal/registry"
	"github.com/vyrodovalexey/avaweb/internal/router"
	"github.com/vyrodovalexey/avaweb/internal/util"
)

// Builder is passed to Config.Init. It embeds both configuration DSLs.
type Builder struct {
	*ControllerConfig
	*RouteConfig
}

// Config is application configuration code.
type Config interface {
	Init(b *Builder)
}

// ConfigFunc adapts a function to Config.
type ConfigFunc func(b *Builder)

// Init implements Config.
func (f ConfigFunc) Init(b *Builder) {
	f(b)
}

// Run executes configs in order against reg, then adds the declared routes
// to rt. A *util.ConfigConflictError raised by any config is returned and
// nothing is added to rt; other panics propagate.
func Run(reg *registry.Registry, rt *router.Router, logger observability.Logger, configs ...Config) error {
	if logger == nil {
		logger = observability.NopLogger()
	}

	b := &Builder{
		ControllerConfig: NewControllerConfig(reg),
		RouteConfig:      NewRouteConfig(),
	}

	for _, cfg := range configs {
		if err := initConfig(cfg, b); err != nil {
			logger.Error("application configuration failed", observability.Error(err))
			return err
		}
	}

	if err := b.Apply(rt); err != nil {
		return err
	}

	logger.Info("application configured",
		observability.Int("routes", len(b.Routes())),
		observability.Int("global_filter_lists", len(reg.GlobalFilterLists())),
		observability.Int("controllers_with_filters", len(reg.Controllers())),
	)
	return nil
}

func initConfig(cfg Config, b *Builder) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			conflict, ok := rec.(*util.ConfigConflictError)
			if !ok {
				panic(rec)
			}
			err = conflict
		}
	}()

	cfg.Init(b)
	return nil
}
