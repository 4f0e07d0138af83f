// Package repository defines the event store interface and its sqlite
// implementation.
package repository

import (
	"context"
	"time"

	"github.com/folloapp/calendar-backend/internal/domain/model"
)

// Store provides durable per-user event storage. All methods are safe for
// concurrent use; operations for different users never interact.
type Store interface {
	// ReplaceAll atomically deletes every event owned by userID and inserts
	// the given batch, assigning fresh identities. Either the whole batch is
	// visible afterwards or the prior state is left intact. Returns the
	// number of events installed, which always equals len(events) on success.
	ReplaceAll(ctx context.Context, userID int64, events []model.Event) (int, error)

	// Create inserts a single event for userID and returns it with identity
	// and server timestamps assigned.
	Create(ctx context.Context, userID int64, ev model.Event) (model.Event, error)

	// GetByID returns the event with the given id.
	// Returns ErrNotFound if no such event exists.
	GetByID(ctx context.Context, id string) (model.Event, error)

	// GetBySourceID returns userID's event with the given source_event_id.
	// Returns ErrNotFound if no such event exists.
	GetBySourceID(ctx context.Context, userID int64, sourceEventID string) (model.Event, error)

	// ListByUser returns all of userID's events ordered by start_at ascending.
	ListByUser(ctx context.Context, userID int64) ([]model.Event, error)

	// Upcoming returns userID's events with from <= start_at <= to, ordered
	// by start_at ascending. Both boundaries are inclusive.
	Upcoming(ctx context.Context, userID int64, from, to time.Time) ([]model.Event, error)

	// DeleteExpired removes userID's events with end_at strictly before now
	// in one transaction and returns the number of rows removed.
	DeleteExpired(ctx context.Context, userID int64, now time.Time) (int64, error)

	// PurgeExpired removes expired events across all users. Used by the
	// periodic sweep; per-request cleanup goes through DeleteExpired.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)

	// UpdateState sets the state of the event with the given id and returns
	// the updated event. Returns ErrNotFound if no such event exists.
	UpdateState(ctx context.Context, id, state string) (model.Event, error)

	// Count returns the number of events owned by userID.
	Count(ctx context.Context, userID int64) (int, error)

	// TotalCount returns the number of events across all users.
	TotalCount(ctx context.Context) (int, error)

	// Close releases the underlying database handle.
	Close() error
}
