package contextengine

// Trigger names the class of situational change that prompted an engine
// call. The set is closed; anything else resolves to DecisionNoAction.
type Trigger string

// Recognized triggers.
const (
	TriggerLocationChange Trigger = "location_change"
	TriggerTimeBased      Trigger = "time_based"
	TriggerActivityChange Trigger = "activity_change"
	TriggerHealthAlert    Trigger = "health_alert"
)

// Decision is the action label produced by the engine.
type Decision string

// Possible decisions.
const (
	DecisionNotify   Decision = "notify"
	DecisionMonitor  Decision = "monitor"
	DecisionNoAction Decision = "no_action"
	DecisionError    Decision = "error"
)

// Notification priorities.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// LocationData is a device-reported position fix.
type LocationData struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// MotionData is a device-reported activity classification.
type MotionData struct {
	ActivityType string   `json:"activity_type,omitempty"`
	Confidence   *float64 `json:"confidence,omitempty"`
	Steps        *int64   `json:"steps,omitempty"`
	Timestamp    string   `json:"timestamp,omitempty"`
}

// HealthData is a device-reported health sample.
type HealthData struct {
	HeartRate    *float64 `json:"heart_rate,omitempty"`
	StepCount    *int64   `json:"step_count,omitempty"`
	ActiveEnergy *float64 `json:"active_energy,omitempty"`
	Timestamp    string   `json:"timestamp,omitempty"`
}

// CalendarEvent is an upcoming event as seen by the device, not a stored
// row. Ordering is caller-determined; the engine always reads index 0.
type CalendarEvent struct {
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Location string `json:"location,omitempty"`
	IsAllDay bool   `json:"is_all_day"`
}

// Snapshot bundles the device-observed signals submitted with a trigger.
// Every field except Timestamp is optional; the engine degrades to
// no_action when the field a trigger depends on is absent.
type Snapshot struct {
	Timestamp      string          `json:"timestamp"`
	Location       *LocationData   `json:"location,omitempty"`
	Motion         *MotionData     `json:"motion,omitempty"`
	Health         *HealthData     `json:"health,omitempty"`
	CalendarEvents []CalendarEvent `json:"calendar_events,omitempty"`
	UserInfo       map[string]any  `json:"user_info,omitempty"`
	RecentStatus   []string        `json:"recent_status,omitempty"`
}

// Notification is the user-facing payload attached to a notify decision.
type Notification struct {
	Priority    string `json:"priority,omitempty"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	ActionLabel string `json:"action_label,omitempty"`
}

// Outcome is the engine's verdict. Notification is non-nil exactly when
// Decision is DecisionNotify.
type Outcome struct {
	Decision     Decision      `json:"decision"`
	Reasoning    string        `json:"reasoning,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
}
