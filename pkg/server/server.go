package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"mercator-hq/gridexport/pkg/config"
	"mercator-hq/gridexport/pkg/export"
	"mercator-hq/gridexport/pkg/server/middleware"
	"mercator-hq/gridexport/pkg/store"
	"mercator-hq/gridexport/pkg/telemetry/health"
	"mercator-hq/gridexport/pkg/telemetry/metrics"
	"mercator-hq/gridexport/pkg/telemetry/tracing"
)

// Dependencies are the components the server routes to.
type Dependencies struct {
	Registry *Registry
	Store    *store.Store
	Exporter *export.Exporter

	// Metrics is optional. MetricsPath defaults to "/metrics".
	Metrics     *metrics.Collector
	MetricsPath string

	// Health is optional; a checker without checks is used when nil.
	Health  *health.Checker
	Version health.VersionInfo
}

// Server is the HTTP server for grid pages and exports.
type Server struct {
	config       config.ServerConfig
	deps         Dependencies
	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new server.
func NewServer(cfg config.ServerConfig, deps Dependencies) *Server {
	if deps.Health == nil {
		deps.Health = health.New(0)
	}
	if deps.MetricsPath == "" {
		deps.MetricsPath = config.DefaultMetricsPath
	}
	return &Server{
		config: cfg,
		deps:   deps,
	}
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		_ = ln.Close()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting grid server", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		s.mu.RUnlock()
		if !running {
			return
		}

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx := ctx
		if s.config.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
			defer cancel()
		}

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("grid server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the listening address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	var recorder middleware.Recorder
	if s.deps.Metrics != nil {
		recorder = s.deps.Metrics
	}
	r.Use(middleware.Recovery, tracing.HTTPMiddleware, middleware.RequestID, middleware.Logging(recorder))

	grids := NewGridHandler(s.deps.Registry, s.deps.Store, s.deps.Exporter)
	r.Get("/grids", grids.IndexHandler())
	r.Method(http.MethodGet, "/grids/{"+middleware.GridIDParam+"}", grids)

	s.deps.Health.Mount(r, s.deps.Version)

	if s.deps.Metrics != nil && s.deps.Metrics.Enabled() {
		r.Method(http.MethodGet, s.deps.MetricsPath, s.deps.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, http.StatusNotFound, "not found")
	})
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
