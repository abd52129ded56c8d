package main

import (
	"context"

	"github.com/vyrodovalexey/avaweb/internal/config"
	"github.com/vyrodovalexey/avaweb/internal/observability"
)

// onConfigChange re-applies the routes of a reloaded configuration. Other
// settings take effect on restart.
func (a *application) onConfigChange(newCfg *config.AppConfig) {
	a.logger.Info("configuration changed, reloading routes")
	if err := a.applyRoutes(newCfg); err != nil {
		a.logger.Error("failed to reload routes, keeping previous routes", observability.Error(err))
		return
	}
	a.config.Spec.Routes = newCfg.Spec.Routes
}

// onSourceChange marks controller sources as changed in development mode.
func (a *application) onSourceChange(path string) {
	if a.devReload == nil {
		return
	}
	a.devReload.Bump(path)
}

// startConfigWatcher starts watching the configuration file and, in
// development mode, the controller source directories.
func (a *application) startConfigWatcher(configPath string) *config.Watcher {
	opts := []config.WatcherOption{
		config.WithLogger(a.logger),
		config.WithDebounceDelay(a.config.Spec.Development.DebounceDelay.OrDefault(config.DefaultDebounceDelay)),
		config.WithErrorCallback(func(err error) {
			a.logger.Warn("configuration reload rejected", observability.Error(err))
		}),
	}
	if a.devReload != nil && len(a.config.Spec.Development.WatchDirs) > 0 {
		opts = append(opts,
			config.WithSourceDirs(a.config.Spec.Development.WatchDirs...),
			config.WithSourceCallback(a.onSourceChange),
		)
	}

	watcher, err := config.NewWatcher(configPath, a.onConfigChange, opts...)
	if err != nil {
		a.logger.Warn("failed to create config watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(context.Background()); err != nil {
		a.logger.Warn("failed to start config watcher", observability.Error(err))
		_ = watcher.Stop()
		return nil
	}

	return watcher
}
