// Package api implements the knapset HTTP API.
//
// # Endpoints
//
//	POST /v1/solve       solve a JSON instance; returns the archived run
//	GET  /v1/runs        list archived runs (?instance=, ?limit=)
//	GET  /v1/runs/{id}   fetch one run
//	POST /v1/verify      check a proposed vertex set against an instance
//	GET  /healthz        liveness probe
//	GET  /metrics        Prometheus metrics
//
// /v1/solve accepts the optional query parameters time_limit (a Go duration
// such as "30s") and max_steps. A search stopped by either limit still
// answers 200 with "optimal": false.
//
// Errors are JSON objects {"error": CODE, "message": text} with the status
// derived from the error code.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/knapset/pkg/metrics"
	"github.com/matzehuels/knapset/pkg/pipeline"
	"github.com/matzehuels/knapset/pkg/store"
)

// DefaultMaxBodyBytes caps request bodies when Options.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 8 << 20

// Options configures a Server.
type Options struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Defaults applies to every solve; query parameters override the limits.
	Defaults pipeline.Options

	MaxBodyBytes int64
}

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults pipeline.Options
	maxBody  int64
	router   chi.Router
}

// New creates a server. Runner and Store are required.
func New(opts Options) (*Server, error) {
	if opts.Runner == nil {
		return nil, errors.New("api: runner is required")
	}
	if opts.Store == nil {
		return nil, errors.New("api: store is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	s := &Server{
		runner:   opts.Runner,
		store:    opts.Store,
		logger:   opts.Logger,
		defaults: opts.Defaults,
		maxBody:  opts.MaxBodyBytes,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	// observe wraps Recoverer so recovered panics are counted as 500s.
	r.Use(middleware.RequestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Post("/verify", s.handleVerify)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{
			Error:   "METHOD_NOT_ALLOWED",
			Message: fmt.Sprintf("%s not allowed on %s", r.Method, r.URL.Path),
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenOptions configures ListenAndServe.
type ListenOptions struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, opts ListenOptions) error {
	srv := &http.Server{
		Addr:         opts.Addr,
		Handler:      s,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	return <-errCh
}
