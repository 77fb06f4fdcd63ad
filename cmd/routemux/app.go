package main

import (
	"net/http"
	"time"

	"github.com/vyrodovalexey/routemux/internal/config"
	"github.com/vyrodovalexey/routemux/internal/observability"
	"github.com/vyrodovalexey/routemux/internal/server"
)

// application holds all application components.
type application struct {
	config        *config.Config
	logger        observability.Logger
	metrics       *observability.Metrics
	server        *server.Server
	metricsServer *http.Server
}

// initApplication wires the metrics, route table and HTTP server.
func initApplication(cfg *config.Config, logger observability.Logger) *application {
	metrics := observability.NewMetrics("routemux")
	metrics.SetBuildInfo(version, gitCommit, buildTime)

	routes, err := server.BuildRouteSet(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build route table", observability.Error(err))
	}

	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: metrics,
		server:  server.New(cfg.Gateway, routes, logger, metrics),
	}

	if cfg.Metrics.Enabled {
		app.metricsServer = newMetricsServer(cfg.Metrics, metrics)
	}

	return app
}

// newMetricsServer builds the Prometheus endpoint server.
func newMetricsServer(cfg config.MetricsSettings, metrics *observability.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, metrics.Handler())

	return &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
