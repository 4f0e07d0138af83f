// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Layer file and env overrides in Load.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the sqlite database location. ":memory:" keeps events
	// in-process only.
	DBPath string `koanf:"db_path"`

	// DefaultWindowDays is the upcoming query window when the client does
	// not pass ?days=N.
	DefaultWindowDays int `koanf:"default_window_days"`

	// MaxWindowDays caps GET /events/upcoming?days.
	MaxWindowDays int `koanf:"max_window_days"`

	// CleanupSchedule is a cron expression for the periodic expiry sweep.
	// Empty disables the sweep; cleanup then only runs via POST /auto-sync.
	CleanupSchedule string `koanf:"cleanup_schedule"`

	// AuthTokens maps static bearer tokens to user ids. This is the seam
	// where a real token verifier plugs in; the map form exists for dev
	// and test deployments.
	AuthTokens map[string]int64 `koanf:"auth_tokens"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		DBPath:            "calendar.db",
		DefaultWindowDays: 5,
		MaxWindowDays:     31,
		CleanupSchedule:   "",
		AuthTokens:        map[string]int64{},
	}
}
