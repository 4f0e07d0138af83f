// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"

	ics "github.com/arran4/golang-ical"

	"github.com/folloapp/calendar-backend/internal/domain/model"
)

// UpcomingHandler handles upcoming-window read requests.
type UpcomingHandler struct {
	deps Dependencies
}

// NewUpcomingHandler creates a new upcoming handler.
func NewUpcomingHandler(deps Dependencies) *UpcomingHandler {
	return &UpcomingHandler{deps: deps}
}

// upcomingResponse is the upcoming query envelope.
type upcomingResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Events  []eventResponse `json:"events"`
	Message string          `json:"message,omitempty"`
}

// parseDays reads the optional ?days=N parameter. Zero means "use the
// server default"; a present but malformed value is a client error.
func parseDays(r *http.Request) (int, error) {
	daysStr := r.URL.Query().Get("days")
	if daysStr == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(daysStr)
	if err != nil || days < 1 {
		return 0, fmt.Errorf("%w: days must be a positive integer", ErrBadRequest)
	}
	return days, nil
}

// HandleUpcoming handles GET /api/v1/events/upcoming?days=N requests.
func (h *UpcomingHandler) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	const op = "api.upcoming_events"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", NewKind(op, ErrUnauthorized))
		return
	}
	days, err := parseDays(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}

	events, err := h.deps.UpcomingEvents(r.Context(), userID, days)
	if err != nil {
		writeJSON(w, http.StatusOK, upcomingResponse{
			Success: false,
			Count:   0,
			Events:  []eventResponse{},
			Message: err.Error(),
		})
		return
	}

	out := make([]eventResponse, len(events))
	for i, ev := range events {
		out[i] = toEventResponse(ev)
	}
	writeJSON(w, http.StatusOK, upcomingResponse{
		Success: true,
		Count:   len(out),
		Events:  out,
		Message: fmt.Sprintf("Found %d upcoming events", len(out)),
	})
}

// HandleUpcomingICS handles GET /api/v1/events/upcoming.ics?days=N requests,
// rendering the same window as an iCalendar feed for subscription clients.
func (h *UpcomingHandler) HandleUpcomingICS(w http.ResponseWriter, r *http.Request) {
	const op = "api.upcoming_ics"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", NewKind(op, ErrUnauthorized))
		return
	}
	days, err := parseDays(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}

	events, err := h.deps.UpcomingEvents(r.Context(), userID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	_, _ = w.Write([]byte(renderICS(events)))
}

// renderICS builds an iCalendar document from stored events.
func renderICS(events []model.Event) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//folloapp//calendar-backend//EN")

	for _, ev := range events {
		ve := cal.AddEvent(ev.ID)
		ve.SetSummary(ev.Title)
		ve.SetStartAt(ev.StartAt)
		ve.SetEndAt(ev.EndAt)
		ve.SetDtStampTime(ev.UpdatedAt)
		if ev.Location != nil && *ev.Location != "" {
			ve.SetLocation(*ev.Location)
		}
		if ev.Notes != nil && *ev.Notes != "" {
			ve.SetDescription(*ev.Notes)
		}
	}
	return cal.Serialize()
}
