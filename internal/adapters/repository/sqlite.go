package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "embed"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/folloapp/calendar-backend/internal/domain/model"
	"github.com/folloapp/calendar-backend/pkg/metrics"
)

//go:embed schema.sql
var schemaSQL string

const eventColumns = `id, user_id, source_event_id, title, start_at, end_at, state,
	event_type, location, notes, is_all_day, timezone, created_at, updated_at`

// SQLiteStore implements Store on a local sqlite database. WAL mode allows
// concurrent reads during writes; a single writer connection avoids
// SQLITE_BUSY on the write path.
type SQLiteStore struct {
	db *sql.DB
}

// Option applies a configuration option when opening a SQLiteStore.
type Option func(*openConfig)

type openConfig struct {
	busyTimeout time.Duration
}

// WithBusyTimeout sets the sqlite busy timeout for lock contention.
func WithBusyTimeout(d time.Duration) Option {
	return func(c *openConfig) {
		if d > 0 {
			c.busyTimeout = d
		}
	}
}

// Open creates or opens the event database at path and applies pragmas and
// the schema. Safe to call on an existing database. Use ":memory:" for an
// ephemeral store in tests.
func Open(path string, opts ...Option) (*SQLiteStore, error) {
	cfg := &openConfig{busyTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// sqlite supports one writer at a time; a single pooled connection also
	// keeps :memory: databases on one schema.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout.Milliseconds()),
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return ErrStoreClosed
	}
	return s.db.Close()
}

// ReplaceAll implements the full-replace reconciliation: delete every event
// owned by userID, insert the batch, commit once. A failure anywhere rolls
// the whole transaction back, leaving the prior set visible.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, userID int64, events []model.Event) (int, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE user_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("clear events: %w", err)
	}

	now := time.Now().UTC()
	installed := 0
	for _, ev := range events {
		if err := insertEvent(ctx, tx, userID, ev, now); err != nil {
			return 0, err
		}
		installed++
	}
	if installed != len(events) {
		return 0, fmt.Errorf("%w: %d != %d", ErrCountDrift, installed, len(events))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit replace: %w", err)
	}
	return installed, nil
}

// Create inserts a single event outside of a sync batch.
func (s *SQLiteStore) Create(ctx context.Context, userID int64, ev model.Event) (model.Event, error) {
	now := time.Now().UTC()
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, ev.SourceEventID, ev.Title,
		ev.StartAt.UTC().UnixNano(), ev.EndAt.UTC().UnixNano(), ev.State,
		ev.EventType, ev.Location, ev.Notes, ev.IsAllDay, ev.Timezone,
		now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return model.Event{}, fmt.Errorf("create event: %w", err)
	}
	return s.GetByID(ctx, id)
}

// insertEvent writes one batch element inside the replace transaction,
// assigning a fresh identity. Client ids are never reused as primary keys.
func insertEvent(ctx context.Context, tx *sql.Tx, userID int64, ev model.Event, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, ev.SourceEventID, ev.Title,
		ev.StartAt.UTC().UnixNano(), ev.EndAt.UTC().UnixNano(), ev.State,
		ev.EventType, ev.Location, ev.Notes, ev.IsAllDay, ev.Timezone,
		now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert event %q: %w", ev.SourceEventID, err)
	}
	return nil
}

// GetByID returns the event with the given id.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (model.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	return scanEvent(row)
}

// GetBySourceID returns userID's event carrying the given source id.
func (s *SQLiteStore) GetBySourceID(ctx context.Context, userID int64, sourceEventID string) (model.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE user_id = ? AND source_event_id = ?`, userID, sourceEventID)
	return scanEvent(row)
}

// ListByUser returns all events for a user ordered by start time.
func (s *SQLiteStore) ListByUser(ctx context.Context, userID int64) ([]model.Event, error) {
	return s.queryEvents(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE user_id = ?
		ORDER BY start_at ASC, id ASC`, userID)
}

// Upcoming returns events inside the inclusive [from, to] start window.
func (s *SQLiteStore) Upcoming(ctx context.Context, userID int64, from, to time.Time) ([]model.Event, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()
	return s.queryEvents(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE user_id = ? AND start_at >= ? AND start_at <= ?
		ORDER BY start_at ASC, id ASC`,
		userID, from.UTC().UnixNano(), to.UTC().UnixNano())
}

// DeleteExpired removes the user's events that ended strictly before now.
// An event ending exactly now survives one more cycle.
func (s *SQLiteStore) DeleteExpired(ctx context.Context, userID int64, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM events WHERE user_id = ? AND end_at < ?`,
		userID, now.UTC().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("delete expired: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired count: %w", err)
	}
	return n, nil
}

// PurgeExpired removes expired events for every user.
func (s *SQLiteStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM events WHERE end_at < ?`, now.UTC().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("purge expired: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge expired count: %w", err)
	}
	return n, nil
}

// UpdateState sets a single event's state, the only per-field mutation the
// model allows.
func (s *SQLiteStore) UpdateState(ctx context.Context, id, state string) (model.Event, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET state = ?, updated_at = ? WHERE id = ?`,
		state, time.Now().UTC().UnixNano(), id)
	if err != nil {
		return model.Event{}, fmt.Errorf("update state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Event{}, fmt.Errorf("update state count: %w", err)
	}
	if n == 0 {
		return model.Event{}, fmt.Errorf("update state %q: %w", id, ErrNotFound)
	}
	return s.GetByID(ctx, id)
}

// Count returns the number of events owned by userID.
func (s *SQLiteStore) Count(ctx context.Context, userID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// TotalCount returns the number of events across all users.
func (s *SQLiteStore) TotalCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count all events: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) queryEvents(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(sc scanner) (model.Event, error) {
	var (
		ev               model.Event
		startNs, endNs   int64
		createdNs, updNs int64
		eventType        sql.NullString
		location         sql.NullString
		notes            sql.NullString
		isAllDay         sql.NullBool
		timezone         sql.NullString
	)
	err := sc.Scan(
		&ev.ID, &ev.UserID, &ev.SourceEventID, &ev.Title,
		&startNs, &endNs, &ev.State,
		&eventType, &location, &notes, &isAllDay, &timezone,
		&createdNs, &updNs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrNotFound
	}
	if err != nil {
		return model.Event{}, fmt.Errorf("scan event: %w", err)
	}

	ev.StartAt = time.Unix(0, startNs).UTC()
	ev.EndAt = time.Unix(0, endNs).UTC()
	ev.CreatedAt = time.Unix(0, createdNs).UTC()
	ev.UpdatedAt = time.Unix(0, updNs).UTC()
	if eventType.Valid {
		ev.EventType = &eventType.String
	}
	if location.Valid {
		ev.Location = &location.String
	}
	if notes.Valid {
		ev.Notes = &notes.String
	}
	if isAllDay.Valid {
		ev.IsAllDay = &isAllDay.Bool
	}
	if timezone.Valid {
		ev.Timezone = &timezone.String
	}
	return ev, nil
}
