package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vyrodovalexey/avaweb/internal/config"
	"github.com/vyrodovalexey/avaweb/internal/observability"
)

// run serves until SIGINT or SIGTERM, then shuts down gracefully.
func run(app *application, configPath string) {
	logger := app.logger

	app.server = newServer(&app.config.Spec.Server, app.handler)
	go func() {
		logger.Info("starting server", observability.String("address", app.server.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", observability.Error(err))
		}
	}()

	app.startMetricsServerIfEnabled()
	watcher := app.startConfigWatcher(configPath)

	waitForShutdown(app, watcher)
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown.
func waitForShutdown(app *application, watcher *config.Watcher) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	app.logger.Info("received shutdown signal", observability.String("signal", sig.String()))

	app.shutdown(watcher)
}

func (a *application) shutdown(watcher *config.Watcher) {
	a.health.SetDraining()

	ctx, cancel := context.WithTimeout(context.Background(),
		a.config.Spec.Server.ShutdownTimeout.OrDefault(config.DefaultShutdownTimeout))
	defer cancel()

	if watcher != nil {
		_ = watcher.Stop()
	}

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.Error("failed to stop server gracefully", observability.Error(err))
		}
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.logger.Error("failed to stop metrics server gracefully", observability.Error(err))
		}
	}

	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Error("failed to shutdown tracer", observability.Error(err))
	}

	a.logger.Info("avaweb stopped")
}
