// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	repository "github.com/folloapp/calendar-backend/internal/adapters/repository"
	"github.com/folloapp/calendar-backend/internal/domain/contextengine"
	"github.com/folloapp/calendar-backend/internal/domain/model"
	"github.com/folloapp/calendar-backend/pkg/logger"
	"github.com/folloapp/calendar-backend/pkg/metrics"
)

// Default query window bounds.
const (
	defaultWindowDays = 5
	defaultMaxWindow  = 31
)

// Service implements the API dependencies for the calendar backend.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	engine *contextengine.Engine

	// Configuration
	dbPath            string
	defaultWindowDays int
	maxWindowDays     int

	// now is swappable for tests.
	now func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects a pre-opened event store. When unset, Start opens a
// sqlite store at the configured path.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithEngine injects a configured context engine.
func WithEngine(engine *contextengine.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithDBPath sets the sqlite database path used when no store is injected.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithDefaultWindowDays sets the upcoming window used when the caller
// passes no explicit day count.
func WithDefaultWindowDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.defaultWindowDays = days
		}
	}
}

// WithMaxWindowDays caps the upcoming window a caller may request.
func WithMaxWindowDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.maxWindowDays = days
		}
	}
}

// WithClock overrides the time source. Test helper.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dbPath:            "calendar.db",
		defaultWindowDays: defaultWindowDays,
		maxWindowDays:     defaultMaxWindow,
		now:               time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		store, err := repository.Open(s.dbPath)
		if err != nil {
			return fmt.Errorf("open event store: %w", err)
		}
		s.store = store
		s.logger.Info(ctx, "using sqlite event store", logger.String("path", s.dbPath))
	}

	if s.engine == nil {
		s.engine = contextengine.New()
	}

	s.started = true
	s.logger.Info(ctx, "calendar service started",
		logger.Int("defaultWindowDays", s.defaultWindowDays),
		logger.Int("maxWindowDays", s.maxWindowDays),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(context.Background(), "closing event store failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "calendar service stopped")
}

// SyncEvents reconciles the user's stored events with the submitted batch
// using the full-replace strategy. The whole batch is validated before any
// write; one malformed element aborts the sync with nothing changed. An
// empty batch is a valid "clear all events" request.
func (s *Service) SyncEvents(ctx context.Context, userID int64, inputs []model.EventInput) (int, error) {
	prepared := make([]model.Event, 0, len(inputs))
	for i, in := range inputs {
		start, end, err := in.Validate()
		if err != nil {
			metrics.RecordSyncFailure()
			return 0, fmt.Errorf("event %d (%s): %w", i, in.SourceEventID, err)
		}
		prepared = append(prepared, model.Event{
			SourceEventID: in.SourceEventID,
			Title:         in.Title,
			StartAt:       start,
			EndAt:         end,
			State:         in.StateOrDefault(),
			EventType:     in.EventType,
			Location:      in.Location,
			Notes:         in.Notes,
			IsAllDay:      in.IsAllDay,
			Timezone:      in.Timezone,
		})
	}

	count, err := s.store.ReplaceAll(ctx, userID, prepared)
	if err != nil {
		metrics.RecordSyncFailure()
		return 0, fmt.Errorf("reconcile events: %w", err)
	}

	metrics.RecordSyncBatch()
	metrics.RecordEventsSynced(count)
	s.logger.Info(ctx, "synced events",
		logger.Int("count", count),
		logger.Any("userID", userID),
	)
	return count, nil
}

// UpcomingEvents returns the user's events starting inside the inclusive
// [now, now+days] window, ordered by start time. days <= 0 selects the
// configured default; days above the cap is clamped.
func (s *Service) UpcomingEvents(ctx context.Context, userID int64, days int) ([]model.Event, error) {
	if days <= 0 {
		days = s.defaultWindowDays
	}
	if days > s.maxWindowDays {
		days = s.maxWindowDays
	}
	now := s.now().UTC()
	events, err := s.store.Upcoming(ctx, userID, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, fmt.Errorf("query upcoming events: %w", err)
	}
	return events, nil
}

// AutoSync removes the user's events that have already ended and reports
// how many rows were dropped.
func (s *Service) AutoSync(ctx context.Context, userID int64) (int64, error) {
	deleted, err := s.store.DeleteExpired(ctx, userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("cleanup expired events: %w", err)
	}
	metrics.RecordEventsDeleted(deleted)
	s.logger.Info(ctx, "auto sync cleaned up past events",
		logger.Int("deleted", int(deleted)),
		logger.Any("userID", userID),
	)
	return deleted, nil
}

// PurgeExpired removes expired events for every user. Driven by the cron
// sweep, not by client requests.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.store.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge expired events: %w", err)
	}
	metrics.RecordEventsDeleted(deleted)
	return deleted, nil
}

// ProcessContext evaluates a context snapshot. It always returns a
// well-formed outcome; engine failures surface as a decision=error outcome
// rather than an error return.
func (s *Service) ProcessContext(ctx context.Context, userID int64, trigger contextengine.Trigger, snap contextengine.Snapshot) contextengine.Outcome {
	out := s.engine.Evaluate(trigger, snap)
	metrics.RecordDecision(string(trigger), string(out.Decision))
	s.logger.Info(ctx, "context engine decision",
		logger.String("trigger", string(trigger)),
		logger.String("decision", string(out.Decision)),
		logger.Any("userID", userID),
	)
	return out
}

// ListEvents returns every stored event for the user in start order.
func (s *Service) ListEvents(ctx context.Context, userID int64) ([]model.Event, error) {
	events, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// UpdateEventState sets the state of a single event.
func (s *Service) UpdateEventState(ctx context.Context, id, state string) (model.Event, error) {
	ev, err := s.store.UpdateState(ctx, id, state)
	if err != nil {
		return model.Event{}, fmt.Errorf("update event state: %w", err)
	}
	return ev, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":           s.started,
		"defaultWindowDays": s.defaultWindowDays,
		"maxWindowDays":     s.maxWindowDays,
	}

	if s.started {
		if total, err := s.store.TotalCount(context.Background()); err == nil {
			stats["totalEvents"] = total
			metrics.UpdateTotalEvents(total)
		}
	}

	return stats
}
