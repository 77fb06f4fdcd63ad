package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vyrodovalexey/routemux/internal/config"
	"github.com/vyrodovalexey/routemux/internal/observability"
)

// runGateway starts the servers and the config watcher, then blocks
// until a shutdown signal or a fatal server error.
func runGateway(app *application, configPath string, logger observability.Logger) {
	errCh := make(chan error, 2)

	go func() {
		errCh <- app.server.Start()
	}()

	if app.metricsServer != nil {
		go func() {
			logger.Info("metrics server starting",
				observability.String("listen", app.metricsServer.Addr))
			if err := app.metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	watcher := startConfigWatcher(app, configPath, logger)

	waitForShutdown(app, watcher, errCh, logger)
}

// waitForShutdown waits for a shutdown signal and performs graceful
// shutdown within the configured timeout.
func waitForShutdown(app *application, watcher *config.Watcher, errCh <-chan error, logger observability.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", observability.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", observability.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Gateway.ShutdownTimeout.Std())
	defer cancel()

	if watcher != nil {
		_ = watcher.Stop()
	}

	if app.metricsServer != nil {
		logger.Info("stopping metrics server")
		if err := app.metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to stop metrics server gracefully", observability.Error(err))
		}
	}

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to stop http server gracefully", observability.Error(err))
	}

	logger.Info("shutdown complete")
}
