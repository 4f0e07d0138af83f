// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/folloapp/calendar-backend/internal/adapters/auth"
	"github.com/folloapp/calendar-backend/internal/domain/contextengine"
	"github.com/folloapp/calendar-backend/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SyncEvents installs the batch as the user's complete event set.
	SyncEvents(ctx context.Context, userID int64, inputs []model.EventInput) (int, error)

	// UpcomingEvents reads the forward-looking window. days <= 0 selects
	// the server default.
	UpcomingEvents(ctx context.Context, userID int64, days int) ([]model.Event, error)

	// AutoSync drops the user's already-ended events.
	AutoSync(ctx context.Context, userID int64) (int64, error)

	// ProcessContext evaluates a trigger and snapshot. Never errors; failures
	// surface inside the outcome.
	ProcessContext(ctx context.Context, userID int64, trigger contextengine.Trigger, snap contextengine.Snapshot) contextengine.Outcome
}

// Server wires HTTP routes for the business API.
type Server struct {
	resolver        auth.Resolver
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	syncHandler     *SyncHandler
	upcomingHandler *UpcomingHandler
	autoSyncHandler *AutoSyncHandler
	contextHandler  *ContextHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, resolver auth.Resolver, statsProvider StatsProvider) *Server {
	return &Server{
		resolver:        resolver,
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		syncHandler:     NewSyncHandler(deps),
		upcomingHandler: NewUpcomingHandler(deps),
		autoSyncHandler: NewAutoSyncHandler(deps),
		contextHandler:  NewContextHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/v1/events/sync",
		MetricsMiddleware(s.authenticated(s.syncHandler.HandleSync), "events_sync"))
	mux.HandleFunc("/api/v1/events/upcoming",
		MetricsMiddleware(s.authenticated(s.upcomingHandler.HandleUpcoming), "events_upcoming"))
	mux.HandleFunc("/api/v1/events/upcoming.ics",
		MetricsMiddleware(s.authenticated(s.upcomingHandler.HandleUpcomingICS), "events_upcoming_ics"))
	mux.HandleFunc("/api/v1/events/auto-sync",
		MetricsMiddleware(s.authenticated(s.autoSyncHandler.HandleAutoSync), "events_auto_sync"))
	mux.HandleFunc("/api/v1/context/engine",
		MetricsMiddleware(s.authenticated(s.contextHandler.HandleEngine), "context_engine"))
}

// eventInput mirrors one element of the sync request body.
type eventInput struct {
	SourceEventID string  `json:"source_event_id"`
	Title         string  `json:"title"`
	StartAt       string  `json:"start_at"`
	EndAt         string  `json:"end_at"`
	State         string  `json:"state"`
	EventType     *string `json:"event_type,omitempty"`
	Location      *string `json:"location,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	IsAllDay      *bool   `json:"is_all_day,omitempty"`
	Timezone      *string `json:"timezone,omitempty"`
}

func (e eventInput) toModel() model.EventInput {
	return model.EventInput{
		SourceEventID: e.SourceEventID,
		Title:         e.Title,
		StartAt:       e.StartAt,
		EndAt:         e.EndAt,
		State:         e.State,
		EventType:     e.EventType,
		Location:      e.Location,
		Notes:         e.Notes,
		IsAllDay:      e.IsAllDay,
		Timezone:      e.Timezone,
	}
}

// eventResponse serializes every persisted field with ISO-8601 timestamps.
type eventResponse struct {
	ID            string  `json:"id"`
	UserID        int64   `json:"user_id"`
	SourceEventID string  `json:"source_event_id"`
	Title         string  `json:"title"`
	StartAt       string  `json:"start_at"`
	EndAt         string  `json:"end_at"`
	State         string  `json:"state"`
	EventType     *string `json:"event_type"`
	Location      *string `json:"location"`
	Notes         *string `json:"notes"`
	IsAllDay      *bool   `json:"is_all_day"`
	Timezone      *string `json:"timezone"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func toEventResponse(ev model.Event) eventResponse {
	return eventResponse{
		ID:            ev.ID,
		UserID:        ev.UserID,
		SourceEventID: ev.SourceEventID,
		Title:         ev.Title,
		StartAt:       model.FormatTimestamp(ev.StartAt),
		EndAt:         model.FormatTimestamp(ev.EndAt),
		State:         ev.State,
		EventType:     ev.EventType,
		Location:      ev.Location,
		Notes:         ev.Notes,
		IsAllDay:      ev.IsAllDay,
		Timezone:      ev.Timezone,
		CreatedAt:     model.FormatTimestamp(ev.CreatedAt),
		UpdatedAt:     model.FormatTimestamp(ev.UpdatedAt),
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
