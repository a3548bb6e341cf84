package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"dappshell/internal/models"
	"dappshell/internal/storage"
	"dappshell/internal/view"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// handleIndex renders the page shell
// GET / - intro, setup, demo and footer regions
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data := view.Data{
		RPCURL:    s.info.RPCURL,
		ChainKind: s.info.ChainKind,
		State:     s.store.Snapshot().View(),
	}

	latest, err := s.repository.LatestProbeOutcome(ctx)
	switch {
	case err == nil:
		data.Latest = latest
	case !errors.Is(err, storage.ErrNotFound):
		// The shell still renders, the demo region just lacks the status
		slog.Warn("Failed to load latest probe outcome", "error", err)
	}

	var buf bytes.Buffer
	if err := s.shell.RenderHTML(&buf, data); err != nil {
		slog.Error("Failed to render shell", "error", err)
		s.sendError(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleHealth returns health status
// GET /health - Health check for monitoring systems
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := models.HealthResponse{
		Status:          "healthy",
		Service:         "dappshell",
		Storage:         "ok",
		ContractPresent: s.store.Snapshot().HasContract(),
	}

	code := http.StatusOK
	if err := s.repository.Ping(r.Context()); err != nil {
		health.Status = "degraded"
		health.Storage = err.Error()
		code = http.StatusServiceUnavailable
	}

	s.sendJSON(w, health, code)
}

// handleMetrics returns Prometheus metrics
// GET /metrics - Prometheus scraping endpoint
func (s *Server) handleMetrics() http.Handler {
	return promhttp.Handler()
}

// handleState returns the shared state
// GET /state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, s.store.Snapshot().View(), http.StatusOK)
}

// handleListProbes lists recent probe outcomes
// GET /probes?limit=20&offset=0
func (s *Server) handleListProbes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 20 // default
	if limitStr := query.Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	offset := 0
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	outcomes, err := s.repository.ListProbeOutcomes(r.Context(), limit, offset)
	if err != nil {
		slog.Error("Failed to list probe outcomes", "error", err)
		s.sendError(w, "Failed to list probe outcomes", http.StatusInternalServerError)
		return
	}
	if outcomes == nil {
		outcomes = []*models.ProbeOutcome{}
	}

	s.sendJSON(w, models.ProbeListResponse{
		Probes: outcomes,
		Count:  len(outcomes),
		Limit:  limit,
		Offset: offset,
	}, http.StatusOK)
}

// handleLatestProbe returns the most recent probe outcome
// GET /probes/latest
func (s *Server) handleLatestProbe(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.repository.LatestProbeOutcome(r.Context())
	if errors.Is(err, storage.ErrNotFound) {
		s.sendError(w, "No probe has run yet", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Failed to get latest probe outcome", "error", err)
		s.sendError(w, "Failed to get latest probe outcome", http.StatusInternalServerError)
		return
	}

	s.sendJSON(w, outcome, http.StatusOK)
}

func (s *Server) sendJSON(w http.ResponseWriter, body any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, message string, code int) {
	s.sendJSON(w, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	}, code)
}
