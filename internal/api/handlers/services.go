package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aegis-aio/shellder/internal/inspector"
)

// ServiceHandler handles per-service classification requests.
type ServiceHandler struct {
	inspector *inspector.Inspector
	logger    *slog.Logger
}

// NewServiceHandler creates a new service handler.
func NewServiceHandler(insp *inspector.Inspector, logger *slog.Logger) *ServiceHandler {
	return &ServiceHandler{
		inspector: insp,
		logger:    logger,
	}
}

// List handles GET /v1/services - lists containers with error and startup counts.
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.inspector.Status(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		WriteRuntimeError(w, r, "Failed to list containers")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"services": statuses,
	})
}

// Counts handles GET /v1/services/{name}/counts.
func (h *ServiceHandler) Counts(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	result, err := h.inspector.Counts(r.Context(), name)
	if err != nil {
		h.logger.Warn("failed to count service log", "error", err, "service", name)
		WriteInspectError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// Search handles GET /v1/services/{name}/search?q=pattern. A malformed
// pattern is not an error: the result is marked invalid with no matches.
func (h *ServiceHandler) Search(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	pattern := r.URL.Query().Get("q")

	result, err := h.inspector.Search(r.Context(), name, pattern)
	if err != nil {
		h.logger.Warn("failed to search service log", "error", err, "service", name)
		WriteInspectError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
