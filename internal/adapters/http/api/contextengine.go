// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/folloapp/calendar-backend/internal/domain/contextengine"
)

// ContextHandler handles context engine requests.
type ContextHandler struct {
	deps Dependencies
}

// NewContextHandler creates a new context engine handler.
func NewContextHandler(deps Dependencies) *ContextHandler {
	return &ContextHandler{deps: deps}
}

// contextRequest mirrors the POST /context/engine body.
type contextRequest struct {
	Trigger  string                 `json:"trigger"`
	Snapshot contextengine.Snapshot `json:"snapshot"`
}

// HandleEngine handles POST /api/v1/context/engine requests. The mobile
// client always receives a well-formed outcome object; internal failures
// come back as decision=error, never as a transport-level fault.
func (h *ContextHandler) HandleEngine(w http.ResponseWriter, r *http.Request) {
	const op = "api.context_engine"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	userID, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", NewKind(op, ErrUnauthorized))
		return
	}

	var req contextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	out := h.deps.ProcessContext(r.Context(), userID, contextengine.Trigger(req.Trigger), req.Snapshot)
	writeJSON(w, http.StatusOK, out)
}
