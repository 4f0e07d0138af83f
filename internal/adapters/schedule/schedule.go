// Package schedule runs the periodic expiry sweep on a cron schedule.
// The core itself has no background work; this adapter is the external
// scheduler that drives cleanup between client-initiated auto-syncs.
package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/folloapp/calendar-backend/pkg/logger"
)

// ErrInvalidSchedule reports an unparseable cron expression.
var ErrInvalidSchedule = errors.New("invalid cleanup schedule")

// Sweeper is the slice of the application service the sweep needs.
type Sweeper interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Runner owns the cron instance.
type Runner struct {
	cron *cron.Cron
	log  logger.Logger
}

// New builds a Runner that invokes sweeper on the given cron spec.
// Standard five-field cron syntax, e.g. "*/15 * * * *".
func New(ctx context.Context, spec string, sweeper Sweeper, log logger.Logger) (*Runner, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		deleted, err := sweeper.PurgeExpired(ctx)
		if err != nil {
			log.Error(ctx, "scheduled expiry sweep failed", logger.Error(err))
			return
		}
		log.Info(ctx, "scheduled expiry sweep completed", logger.Int("deleted", int(deleted)))
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSchedule, spec, err)
	}
	return &Runner{cron: c, log: log}, nil
}

// Start begins scheduling. Non-blocking.
func (r *Runner) Start() {
	r.cron.Start()
}

// Stop halts scheduling and waits for a running sweep to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}
