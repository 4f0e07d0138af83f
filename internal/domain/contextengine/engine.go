// Package contextengine maps a trigger and a device context snapshot to a
// decision with an optional notification payload.
//
// The engine is a flat dispatch over the trigger, pure and synchronous: no
// I/O, no state between calls, deterministic for the same inputs. It is the
// replaceable policy seam of the service; a future learned policy only has
// to satisfy the same Decide signature.
package contextengine

import "fmt"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLocationCopy overrides the notification copy for location triggers.
func WithLocationCopy(title, actionLabel string) Option {
	return func(e *Engine) {
		if title != "" {
			e.locationTitle = title
		}
		if actionLabel != "" {
			e.locationAction = actionLabel
		}
	}
}

// WithReminderCopy overrides the notification copy for time-based triggers.
func WithReminderCopy(title, actionLabel string) Option {
	return func(e *Engine) {
		if title != "" {
			e.reminderTitle = title
		}
		if actionLabel != "" {
			e.reminderAction = actionLabel
		}
	}
}

// WithWellnessCopy overrides the notification copy for health triggers.
func WithWellnessCopy(title, body, actionLabel string) Option {
	return func(e *Engine) {
		if title != "" {
			e.wellnessTitle = title
		}
		if body != "" {
			e.wellnessBody = body
		}
		if actionLabel != "" {
			e.wellnessAction = actionLabel
		}
	}
}

// Engine evaluates context snapshots. Zero dependencies; construct once and
// share freely across goroutines.
type Engine struct {
	locationTitle  string
	locationAction string
	reminderTitle  string
	reminderAction string
	wellnessTitle  string
	wellnessBody   string
	wellnessAction string
}

// New creates an Engine with default notification copy.
func New(opts ...Option) *Engine {
	e := &Engine{
		locationTitle:  "Upcoming event",
		locationAction: "View details",
		reminderTitle:  "Event reminder",
		reminderAction: "Get ready",
		wellnessTitle:  "Wellness check",
		wellnessBody:   "Consider taking a short break and checking in on how you feel",
		wellnessAction: "Learn more",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide maps (trigger, snapshot) to an outcome per the fixed policy table.
// A recognized trigger whose snapshot lacks the fields it depends on
// degrades to no_action rather than failing; context is best-effort.
func (e *Engine) Decide(trigger Trigger, snap Snapshot) Outcome {
	switch trigger {
	case TriggerLocationChange:
		if len(snap.CalendarEvents) == 0 {
			return Outcome{Decision: DecisionNoAction}
		}
		next := snap.CalendarEvents[0]
		return Outcome{
			Decision:  DecisionNotify,
			Reasoning: fmt.Sprintf("User arrived at location, upcoming event: %s", next.Title),
			Notification: &Notification{
				Priority:    PriorityNormal,
				Title:       e.locationTitle,
				Body:        fmt.Sprintf("Your event '%s' is coming up", next.Title),
				ActionLabel: e.locationAction,
			},
		}

	case TriggerTimeBased:
		if len(snap.CalendarEvents) == 0 {
			return Outcome{Decision: DecisionNoAction}
		}
		next := snap.CalendarEvents[0]
		return Outcome{
			Decision:  DecisionNotify,
			Reasoning: fmt.Sprintf("Time-based reminder for: %s", next.Title),
			Notification: &Notification{
				Priority:    PriorityHigh,
				Title:       e.reminderTitle,
				Body:        fmt.Sprintf("Your event '%s' starts in 15 minutes", next.Title),
				ActionLabel: e.reminderAction,
			},
		}

	case TriggerActivityChange:
		if snap.Motion == nil || snap.Motion.ActivityType == "" {
			return Outcome{Decision: DecisionNoAction}
		}
		return Outcome{
			Decision:  DecisionMonitor,
			Reasoning: fmt.Sprintf("Activity changed to: %s", snap.Motion.ActivityType),
		}

	case TriggerHealthAlert:
		if snap.Health == nil {
			return Outcome{Decision: DecisionNoAction}
		}
		return Outcome{
			Decision:  DecisionNotify,
			Reasoning: "Health data requires attention",
			Notification: &Notification{
				Priority:    PriorityHigh,
				Title:       e.wellnessTitle,
				Body:        e.wellnessBody,
				ActionLabel: e.wellnessAction,
			},
		}

	default:
		return Outcome{
			Decision:  DecisionNoAction,
			Reasoning: fmt.Sprintf("Unknown trigger type: %s", trigger),
		}
	}
}

// Evaluate wraps Decide with a panic boundary. Callers always receive a
// well-formed outcome; an unexpected processing failure becomes a
// decision=error outcome carrying the detail as reasoning.
func (e *Engine) Evaluate(trigger Trigger, snap Snapshot) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{
				Decision:  DecisionError,
				Reasoning: fmt.Sprintf("context evaluation failed: %v", r),
			}
		}
	}()
	return e.Decide(trigger, snap)
}
