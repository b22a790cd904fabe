package handlers

import (
	"log/slog"
	"net/http"
)

// HealthHandler serves the liveness probe.
type HealthHandler struct {
	logger  *slog.Logger
	version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *slog.Logger, version string) *HealthHandler {
	return &HealthHandler{logger: logger, version: version}
}

// Health handles GET /api/v1/health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(h.logger, w, map[string]string{
		"status":  "ok",
		"version": h.version,
	}, http.StatusOK)
}
