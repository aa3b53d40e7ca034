package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/aegis-aio/shellder/internal/api/errors"
	"github.com/aegis-aio/shellder/internal/browser"
	"github.com/aegis-aio/shellder/internal/inspector"
	"github.com/aegis-aio/shellder/internal/sessions"
)

// SnapshotHandler serves numbered browsing sessions. Each session pins one
// log snapshot so that sequence numbers and line ordinals stay valid across
// requests.
type SnapshotHandler struct {
	inspector *inspector.Inspector
	store     *sessions.Store
	logger    *slog.Logger
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(insp *inspector.Inspector, store *sessions.Store, logger *slog.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		inspector: insp,
		store:     store,
		logger:    logger,
	}
}

// Create handles POST /v1/services/{name}/snapshots.
func (h *SnapshotHandler) Create(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	session, err := h.inspector.Session(r.Context(), name)
	if err != nil {
		h.logger.Warn("failed to snapshot service", "error", err, "service", name)
		WriteInspectError(w, r, err)
		return
	}

	snap := session.Snapshot()
	if !snap.Available() {
		WriteJSON(w, http.StatusOK, map[string]any{
			"service":   name,
			"available": false,
			"state":     snap.Container.State,
		})
		return
	}

	info := h.store.Put(session)
	h.logger.Debug("session created", "snapshot_id", info.ID, "service", name, "entries", info.Entries)

	WriteJSON(w, http.StatusCreated, map[string]any{
		"snapshot":  info,
		"available": true,
		"lines":     snap.Len(),
		"tags":      session.Counts(),
	})
}

// Page handles GET /v1/snapshots/{id}/pages/{page}.
func (h *SnapshotHandler) Page(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	n, ok := intParam(chi.URLParam(r, "page"), 1)
	if !ok {
		WriteBadRequest(w, r, "page", "must be an integer")
		return
	}

	page, err := session.Page(n)
	if errors.Is(err, browser.ErrPageOutOfRange) {
		WriteError(w, r, apierrors.NewOutOfRangeError("page out of range").WithDetails(map[string]any{
			"pages": session.Pages(),
		}))
		return
	}

	WriteJSON(w, http.StatusOK, page)
}

// Context handles GET /v1/snapshots/{id}/context?seq=N&radius=R.
func (h *SnapshotHandler) Context(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	if query.Get("seq") == "" {
		WriteBadRequest(w, r, "seq", "is required")
		return
	}
	seq, ok := intParam(query.Get("seq"), 0)
	if !ok {
		WriteBadRequest(w, r, "seq", "must be an integer")
		return
	}
	radius, ok := intParam(query.Get("radius"), browser.DefaultRadius)
	if !ok {
		WriteBadRequest(w, r, "radius", "must be an integer")
		return
	}

	view, err := session.Context(seq, radius)
	if errors.Is(err, browser.ErrEntryOutOfRange) {
		WriteError(w, r, apierrors.NewOutOfRangeError("entry out of range").WithDetails(map[string]any{
			"entries": session.Len(),
		}))
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

// Delete handles DELETE /v1/snapshots/{id}.
func (h *SnapshotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(id); err != nil {
		WriteNotFound(w, r, "Snapshot not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SnapshotHandler) session(w http.ResponseWriter, r *http.Request) (*browser.Session, bool) {
	id := chi.URLParam(r, "id")
	session, err := h.store.Get(id)
	if err != nil {
		WriteNotFound(w, r, "Snapshot not found or expired")
		return nil, false
	}
	return session, true
}
