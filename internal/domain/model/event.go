// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultState is assigned to events synced without an explicit state.
const DefaultState = "pending"

// Event is a persisted calendar event owned by exactly one user.
// ID is assigned by the store on insert and never reused across syncs;
// SourceEventID correlates the row with the client calendar's own id and
// is unique only per user.
type Event struct {
	ID            string
	UserID        int64
	SourceEventID string
	Title         string
	StartAt       time.Time
	EndAt         time.Time
	State         string
	EventType     *string
	Location      *string
	Notes         *string
	IsAllDay      *bool
	Timezone      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EventInput is one element of a client-submitted sync batch. Timestamps
// arrive as ISO-8601 strings and are parsed during validation.
type EventInput struct {
	SourceEventID string
	Title         string
	StartAt       string
	EndAt         string
	State         string
	EventType     *string
	Location      *string
	Notes         *string
	IsAllDay      *bool
	Timezone      *string
}

// Sentinel kinds for model validation errors.
var (
	ErrMissingField     = errors.New("missing required event field")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidRange     = errors.New("start_at is after end_at")
)

// timestampLayouts are accepted on input. RFC 3339 is canonical; the
// zone-less layout covers clients that submit naive local times, which
// are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses an ISO-8601 timestamp string.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// FormatTimestamp renders a timestamp in the canonical wire form.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Validate checks required fields and parses both timestamps. It returns
// the parsed range so callers do not parse twice. Any failure here must
// abort the whole sync batch, never a single element.
func (in EventInput) Validate() (start, end time.Time, err error) {
	switch {
	case strings.TrimSpace(in.SourceEventID) == "":
		return start, end, fmt.Errorf("%w: source_event_id", ErrMissingField)
	case strings.TrimSpace(in.Title) == "":
		return start, end, fmt.Errorf("%w: title", ErrMissingField)
	}
	if start, err = ParseTimestamp(in.StartAt); err != nil {
		return start, end, fmt.Errorf("start_at: %w", err)
	}
	if end, err = ParseTimestamp(in.EndAt); err != nil {
		return start, end, fmt.Errorf("end_at: %w", err)
	}
	if start.After(end) {
		return start, end, fmt.Errorf("%w: %s > %s", ErrInvalidRange, in.StartAt, in.EndAt)
	}
	return start, end, nil
}

// StateOrDefault returns the submitted state or DefaultState when empty.
func (in EventInput) StateOrDefault() string {
	if strings.TrimSpace(in.State) == "" {
		return DefaultState
	}
	return in.State
}
