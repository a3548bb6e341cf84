package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"dappshell/internal/appstate"
	"dappshell/internal/storage"
	"dappshell/internal/view"
)

// Server represents the HTTP server
// Serves the page shell, health checks, Prometheus metrics and the probe API
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	repository storage.Repository
	store      *appstate.Store
	shell      *view.Shell
	info       Info
}

// Info describes the node the process is connected to, for display only
type Info struct {
	RPCURL    string
	ChainKind string
}

// NewServer creates a new server instance
func NewServer(port int, repository storage.Repository, store *appstate.Store, shell *view.Shell, info Info) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		mux:        mux,
		repository: repository,
		store:      store,
		shell:      shell,
		info:       info,
	}

	s.registerRoutes()

	return s
}

// registerRoutes sets up all HTTP routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", s.handleMetrics())

	s.mux.HandleFunc("GET /state", s.handleState)
	s.mux.HandleFunc("GET /probes", s.handleListProbes)
	s.mux.HandleFunc("GET /probes/latest", s.handleLatestProbe)
}

// Handler returns the root handler (for testing)
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until Shutdown is called
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	slog.Info("HTTP server starting",
		"addr", listener.Addr().String(),
		"endpoints", []string{"/", "/health", "/metrics", "/state", "/probes"},
	)

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
// Waits for active connections to close or context to timeout
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("HTTP server shutting down...")
	return s.httpServer.Shutdown(ctx)
}
