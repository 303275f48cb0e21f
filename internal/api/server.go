// Package api serves the catalog, planner and lookups over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/litescript/ls-eclipses/internal/catalog"
	"github.com/litescript/ls-eclipses/internal/logging"
	"github.com/litescript/ls-eclipses/internal/lookup"
	"github.com/litescript/ls-eclipses/internal/plan"
	"github.com/litescript/ls-eclipses/internal/version"
)

// Deps are the services behind the API.
type Deps struct {
	Store     *catalog.Store
	Scheduler *plan.Scheduler
	Resolver  *lookup.Resolver
	Timeout   time.Duration // per lookup request
	Logger    *logging.Logger
	Now       func() time.Time
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	deps    Deps
	engine  *gin.Engine
	metrics *Metrics
}

// New constructs a server with routes and middleware.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Timeout <= 0 {
		deps.Timeout = lookup.DefaultTimeout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	s := &Server{deps: deps, engine: engine, metrics: NewMetrics()}

	engine.Use(gin.Recovery())
	engine.Use(s.metrics.Middleware())
	engine.Use(requestLogger(deps.Logger))

	s.registerRoutes()
	s.metrics.catalogStars.Set(float64(deps.Store.Len()))
	return s
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server on addr and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// WatchCatalog reloads the store whenever changes fires, until ctx is done
// or the channel closes.
func (s *Server) WatchCatalog(ctx context.Context, changes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			if err := s.deps.Store.Load(); err != nil {
				s.deps.Logger.Warn("reload catalog: %v", err)
				continue
			}
			s.metrics.catalogStars.Set(float64(s.deps.Store.Len()))
			s.deps.Logger.Info("catalog reloaded: %d stars", s.deps.Store.Len())
		}
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Version})
	})
	s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/stars", s.handleListStars)
		v1.POST("/stars", s.handleAddStar)
		v1.DELETE("/stars/:name", s.handleDeleteStar)
		v1.GET("/plan", s.handlePlan)
		v1.GET("/lookup/:name", s.handleLookup)
	}
}

func requestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s %d %s", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}
