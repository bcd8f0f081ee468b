// Package server exposes the planning pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                          liveness probe
//	POST /v1/plans                         plan a cell, archive and return the result
//	GET  /v1/plans                         list archived plans
//	GET  /v1/plans/{id}                    fetch one archived plan
//	GET  /v1/plans/{id}/artifacts/{format} render one artifact for an archived plan
//
// Error responses carry the structured error code from pkg/errors, mapped
// onto HTTP status codes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jmorra/clampgen/pkg/pipeline"
	"github.com/jmorra/clampgen/pkg/store"
)

// Config configures the server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// TechData is the technology document served plans are computed
	// against.
	TechData []byte

	// Runner executes the plan/render pipeline. Required.
	Runner *pipeline.Runner

	// Store archives planning results. Defaults to an in-memory store.
	Store store.Store

	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Server handles plan requests against a fixed technology document.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates a server from the config.
func New(cfg Config) *Server {
	if cfg.Store == nil {
		cfg.Store = store.NewMemory()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Server{
		cfg:    cfg,
		runner: cfg.Runner,
		store:  cfg.Store,
		logger: cfg.Logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/plans", s.handleCreatePlan)
		r.Get("/plans", s.handleListPlans)
		r.Get("/plans/{id}", s.handleGetPlan)
		r.Get("/plans/{id}/artifacts/{format}", s.handleGetArtifact)
	})
	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
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
