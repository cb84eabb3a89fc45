// Package server hosts the portal and edge HTTP servers.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bobmcallan/hedge-portal/internal/app"
	"github.com/bobmcallan/hedge-portal/internal/common"
	"github.com/bobmcallan/hedge-portal/internal/metrics"
)

// Server manages an HTTP server and its routes.
type Server struct {
	app     *app.App
	router  *http.ServeMux
	server  *http.Server
	logger  *common.Logger
	metrics *metrics.Recorder
	name    string
}

// New creates the portal HTTP server for application.
func New(application *app.App) *Server {
	s := &Server{
		app:     application,
		logger:  application.Logger,
		metrics: application.Metrics,
		name:    "portal",
	}

	s.router = s.setupRoutes()

	var handler http.Handler = s.router
	if s.metrics != nil {
		handler = s.metrics.Middleware(handler)
	}

	addr := fmt.Sprintf("%s:%d", application.Config.Server.Host, application.Config.Server.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.withMiddleware(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: application.Config.Engine.GetTimeout() + 30*time.Second, // analyses can take minutes
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// NewEdge creates the edge HTTP server for e.
func NewEdge(e *app.Edge) *Server {
	s := &Server{
		logger:  e.Logger,
		metrics: e.Metrics,
		name:    "edge",
	}

	var handler http.Handler = edgeRoutes(e.Config.Edge.StaticPrefix, e.Dispatcher)
	if s.metrics != nil {
		handler = s.metrics.Middleware(handler)
	}

	addr := fmt.Sprintf("%s:%d", e.Config.Edge.Host, e.Config.Edge.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.withEdgeMiddleware(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// NewEdgeMetrics creates the listener that exposes the edge's Prometheus
// metrics. The edge port itself answers every path through the dispatcher, so
// metrics live on edge.metrics_port. It returns nil when metrics are disabled
// or the port is 0.
func NewEdgeMetrics(e *app.Edge) *Server {
	if e.Metrics == nil || e.Config.Edge.MetricsPort == 0 {
		return nil
	}

	s := &Server{
		logger:  e.Logger,
		metrics: e.Metrics,
		name:    "edge-metrics",
	}

	s.router = http.NewServeMux()
	s.router.Handle(e.Config.Metrics.Path, e.Metrics.Handler())

	addr := fmt.Sprintf("%s:%d", e.Config.Edge.Host, e.Config.Edge.MetricsPort)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().
		Str("server", s.name).
		Str("address", s.server.Addr).
		Str("url", fmt.Sprintf("http://%s", s.server.Addr)).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Str("server", s.name).Msg("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Str("server", s.name).Msg("HTTP server stopped")
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}
