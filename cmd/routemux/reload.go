package main

import (
	"context"

	"github.com/vyrodovalexey/routemux/internal/config"
	"github.com/vyrodovalexey/routemux/internal/observability"
	"github.com/vyrodovalexey/routemux/internal/server"
)

// startConfigWatcher wires hot reload: a change on disk rebuilds the
// route table and swaps it into the running server. A change that fails
// to load, validate or compile leaves the previous table serving.
func startConfigWatcher(app *application, configPath string, logger observability.Logger) *config.Watcher {
	watcher, err := config.NewWatcher(configPath,
		func(cfg *config.Config) { applyReload(app, cfg, logger) },
		config.WithLogger(logger),
		config.WithErrorCallback(func(err error) {
			app.metrics.RecordReload(false)
		}),
	)
	if err != nil {
		logger.Error("failed to create config watcher, hot reload disabled", observability.Error(err))
		return nil
	}

	if err := watcher.Start(context.Background()); err != nil {
		logger.Error("failed to start config watcher, hot reload disabled", observability.Error(err))
		return nil
	}

	logger.Info("config watcher started", observability.String("path", configPath))
	return watcher
}

// applyReload builds a route table from the reloaded configuration and
// swaps it in.
func applyReload(app *application, cfg *config.Config, logger observability.Logger) {
	routes, err := server.BuildRouteSet(cfg, logger)
	if err != nil {
		logger.Error("reloaded config produced an invalid route table, keeping previous",
			observability.Error(err))
		app.metrics.RecordReload(false)
		return
	}

	app.server.UpdateRoutes(routes)
	app.metrics.RecordReload(true)
	logger.Info("configuration reloaded",
		observability.Int("routes", len(cfg.Routes)),
		observability.Int("aliases", len(cfg.Aliases)),
	)
}
