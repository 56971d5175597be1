// Package server assembles the HTTP server: middleware, module routes, health and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/moviegraph/internal/api"
	"github.com/mantonx/moviegraph/internal/config"
	"github.com/mantonx/moviegraph/internal/metrics"
	"github.com/mantonx/moviegraph/internal/middleware"
	"github.com/mantonx/moviegraph/internal/modules/modulemanager"
	"gorm.io/gorm"
)

// ShutdownTimeout bounds graceful shutdown after the run context ends
const ShutdownTimeout = 10 * time.Second

// Options holds what the server is built from. Registry defaults to the global
// module registry; Metrics may be nil when metrics are disabled.
type Options struct {
	Config   *config.Config
	DB       *gorm.DB
	Registry *modulemanager.ModuleRegistry
	Logger   hclog.Logger
	Metrics  *metrics.Metrics
}

// Server is the HTTP front of the application
type Server struct {
	cfg      *config.Config
	db       *gorm.DB
	registry *modulemanager.ModuleRegistry
	log      hclog.Logger
	metrics  *metrics.Metrics
	router   *gin.Engine
	started  time.Time
}

// New loads every enabled module and builds the router
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("server requires a configuration")
	}
	if opts.DB == nil {
		return nil, errors.New("server requires a database connection")
	}

	s := &Server{
		cfg:      opts.Config,
		db:       opts.DB,
		registry: opts.Registry,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		started:  time.Now(),
	}
	if s.registry == nil {
		s.registry = modulemanager.Registry
	}
	if s.log == nil {
		s.log = hclog.NewNullLogger()
	}

	err := s.registry.LoadAll(&modulemanager.Environment{
		DB:      s.db,
		Config:  s.cfg,
		Logger:  s.log,
		Metrics: s.metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load modules: %w", err)
	}
	s.logModuleStatus()

	router, err := s.setupRouter()
	if err != nil {
		return nil, err
	}
	s.router = router
	return s, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:           net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port)),
		Handler:        s.router,
		ReadTimeout:    s.cfg.Server.ReadTimeout,
		WriteTimeout:   s.cfg.Server.WriteTimeout,
		MaxHeaderBytes: s.cfg.Server.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", "addr", srv.Addr, "graphql_path", s.cfg.GraphQL.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var errs []error
	select {
	case err := <-errCh:
		if err != nil {
			errs = append(errs, fmt.Errorf("server failed: %w", err))
		}
	case <-ctx.Done():
		s.log.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.registry.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("module shutdown: %w", err))
	}
	if err, ok := <-errCh; ok && err != nil {
		errs = append(errs, fmt.Errorf("server failed: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Server) setupRouter() (*gin.Engine, error) {
	switch s.cfg.Server.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(s.cfg.Server.Mode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(s.cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	r.Use(api.ErrorMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(s.log.Named("http"), healthPath, s.cfg.Metrics.Path))
	if s.metrics != nil {
		r.Use(middleware.Metrics(s.metrics))
	}
	if s.cfg.Server.EnableCORS {
		r.Use(middleware.CORS())
	}
	r.NoRoute(api.NotFoundHandler())

	s.setupRoutes(r)
	return r, nil
}

// logModuleStatus logs the loaded modules
func (s *Server) logModuleStatus() {
	for _, module := range s.registry.ListModules() {
		s.log.Info("module registered", "id", module.ID(), "name", module.Name(), "core", module.Core())
	}
}
