// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/folloapp/calendar-backend/internal/domain/model"
)

// SyncHandler handles full-replace event sync requests.
type SyncHandler struct {
	deps Dependencies
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(deps Dependencies) *SyncHandler {
	return &SyncHandler{deps: deps}
}

// syncRequest mirrors the POST /events/sync body: the client's complete,
// ordered event set.
type syncRequest struct {
	Events []eventInput `json:"events"`
}

// syncResponse is the sync result envelope.
type syncResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	SyncedCount int    `json:"synced_count"`
}

// HandleSync handles POST /api/v1/events/sync requests. A batch that fails
// validation or storage leaves the previous event set untouched and is
// reported with success=false rather than a transport error.
func (h *SyncHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	const op = "api.sync_events"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	userID, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", NewKind(op, ErrUnauthorized))
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	inputs := make([]model.EventInput, len(req.Events))
	for i, e := range req.Events {
		inputs[i] = e.toModel()
	}

	count, err := h.deps.SyncEvents(r.Context(), userID, inputs)
	if err != nil {
		writeJSON(w, http.StatusOK, syncResponse{
			Success:     false,
			Message:     err.Error(),
			SyncedCount: 0,
		})
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{
		Success:     true,
		Message:     fmt.Sprintf("Successfully synced %d events", count),
		SyncedCount: count,
	})
}
