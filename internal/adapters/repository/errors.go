package repository

import "errors"

// Sentinel kinds for event store errors.
var (
	ErrNotFound    = errors.New("event not found")
	ErrCountDrift  = errors.New("installed count does not match batch length")
	ErrStoreClosed = errors.New("store is closed")
)
