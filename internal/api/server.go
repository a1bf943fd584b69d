// Package api exposes the analytics dashboard over HTTP: snapshots, on-demand
// scoring, deliverability risk, coaching scores, and the lead inbox.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Server represents the API server.
type Server struct {
	handler  *chi.Mux
	handlers *Handlers
	server   *http.Server
}

// NewServer creates an API server with all routes configured.
func NewServer(h *Handlers, allowedOrigins []string) *Server {
	return &Server{
		handler:  SetupRoutes(h, allowedOrigins),
		handlers: h,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}
