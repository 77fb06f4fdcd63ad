// Package server is the HTTP chassis around the router: it feeds request
// paths through the routing table and serves the configured actions.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/routemux/internal/config"
	"github.com/vyrodovalexey/routemux/internal/observability"
	"github.com/vyrodovalexey/routemux/internal/util"
)

// ginModeOnce ensures gin.SetMode is only called once to avoid race
// conditions.
var ginModeOnce sync.Once

// Server serves HTTP requests routed through a swappable RouteSet.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	routes     atomic.Pointer[RouteSet]
	logger     observability.Logger
	metrics    *observability.Metrics
}

// New creates an HTTP server that resolves requests against the given
// route set.
func New(cfg config.GatewaySettings, rs *RouteSet, logger observability.Logger, metrics *observability.Metrics) *Server {
	ginModeOnce.Do(func() {
		gin.SetMode(gin.ReleaseMode)
	})

	engine := gin.New()

	s := &Server{
		engine:  engine,
		logger:  logger,
		metrics: metrics,
	}
	s.routes.Store(rs)
	metrics.SetRoutesLoaded(rs.Router.Len())

	engine.Use(gin.Recovery())
	engine.Use(RequestID())
	engine.Use(AccessLog(logger))
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		engine.Use(RateLimit(cfg.RateLimit))
	}
	engine.NoRoute(s.handle)

	s.httpServer = &http.Server{
		Addr:         cfg.Listen,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout.Std(),
		WriteTimeout: cfg.WriteTimeout.Std(),
		IdleTimeout:  cfg.IdleTimeout.Std(),
	}

	return s
}

// handle resolves the request path and runs the matched route's action.
// Everything flows through here: the gin engine carries no routes of its
// own, so template semantics stay entirely inside the router.
func (s *Server) handle(c *gin.Context) {
	start := time.Now()
	rs := s.routes.Load()

	m, err := rs.Router.Resolve(c.Request.URL.Path)
	if err != nil {
		// No-match is an expected outcome, not a server failure.
		status := http.StatusNotFound
		if !util.IsNotFound(err) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		s.metrics.RecordRequest(c.Request.Method, observability.UnmatchedRoute, status, time.Since(start))
		return
	}

	action := rs.actions[m.Route.ID]
	action.run(c, m)
	s.metrics.RecordRequest(c.Request.Method, action.name, c.Writer.Status(), time.Since(start))
}

// UpdateRoutes atomically swaps in a new route set. In-flight requests
// keep the set they resolved against.
func (s *Server) UpdateRoutes(rs *RouteSet) {
	s.routes.Store(rs)
	s.metrics.SetRoutesLoaded(rs.Router.Len())
	s.logger.Info("route table updated", observability.Int("entries", rs.Router.Len()))
}

// Start runs the server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server starting", observability.String("listen", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully drains the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}
