// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// AutoSyncHandler handles expiry cleanup requests.
type AutoSyncHandler struct {
	deps Dependencies
}

// NewAutoSyncHandler creates a new auto-sync handler.
func NewAutoSyncHandler(deps Dependencies) *AutoSyncHandler {
	return &AutoSyncHandler{deps: deps}
}

// autoSyncResponse is the auto-sync result envelope.
type autoSyncResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandleAutoSync handles POST /api/v1/events/auto-sync requests. The body is
// empty; the operation drops the caller's already-ended events.
func (h *AutoSyncHandler) HandleAutoSync(w http.ResponseWriter, r *http.Request) {
	const op = "api.auto_sync"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	userID, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", NewKind(op, ErrUnauthorized))
		return
	}

	if _, err := h.deps.AutoSync(r.Context(), userID); err != nil {
		writeJSON(w, http.StatusOK, autoSyncResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, autoSyncResponse{
		Success: true,
		Message: "Auto sync completed successfully",
	})
}
