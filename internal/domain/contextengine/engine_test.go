package contextengine_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/folloapp/calendar-backend/internal/domain/contextengine"
)

func snapshotWithEvents(titles ...string) contextengine.Snapshot {
	events := make([]contextengine.CalendarEvent, len(titles))
	for i, title := range titles {
		events[i] = contextengine.CalendarEvent{
			Title: title,
			Start: "2026-09-01T10:00:00Z",
			End:   "2026-09-01T11:00:00Z",
		}
	}
	return contextengine.Snapshot{
		Timestamp:      "2026-09-01T09:45:00Z",
		CalendarEvents: events,
	}
}

func TestEngine_Decide(t *testing.T) {
	Convey("Given a context engine", t, func() {
		engine := contextengine.New()

		Convey("When a location change arrives with calendar events", func() {
			out := engine.Decide(contextengine.TriggerLocationChange, snapshotWithEvents("Team Sync", "Later Meeting"))

			Convey("Then it should notify about the first listed event", func() {
				So(out.Decision, ShouldEqual, contextengine.DecisionNotify)
				So(out.Reasoning, ShouldContainSubstring, "Team Sync")
				So(out.Notification, ShouldNotBeNil)
				So(out.Notification.Priority, ShouldEqual, contextengine.PriorityNormal)
				So(out.Notification.Body, ShouldContainSubstring, "Team Sync")
			})
		})

		Convey("When a location change arrives without calendar events", func() {
			out := engine.Decide(contextengine.TriggerLocationChange, contextengine.Snapshot{Timestamp: "2026-09-01T09:45:00Z"})

			Convey("Then it should degrade to no_action without a notification", func() {
				So(out.Decision, ShouldEqual, contextengine.DecisionNoAction)
				So(out.Notification, ShouldBeNil)
			})
		})

		Convey("When a time-based trigger arrives with calendar events", func() {
			out := engine.Decide(contextengine.TriggerTimeBased, snapshotWithEvents("Standup"))

			Convey("Then it should notify with high priority and a 15-minute framing", func() {
				So(out.Decision, ShouldEqual, contextengine.DecisionNotify)
				So(out.Notification, ShouldNotBeNil)
				So(out.Notification.Priority, ShouldEqual, contextengine.PriorityHigh)
				So(out.Notification.Body, ShouldContainSubstring, "Standup")
				So(out.Notification.Body, ShouldContainSubstring, "15 minutes")
			})
		})

		Convey("When a time-based trigger arrives with an empty snapshot", func() {
			out := engine.Decide(contextengine.TriggerTimeBased, contextengine.Snapshot{})

			Convey("Then it should degrade to no_action", func() {
				So(out.Decision, ShouldEqual, contextengine.DecisionNoAction)
				So(out.Notification, ShouldBeNil)
			})
		})

		Convey("When an activity change arrives with motion data", func() {
			snap := contextengine.Snapshot{
				Timestamp: "2026-09-01T09:45:00Z",
				Motion:    &contextengine.MotionData{ActivityType: "running"},
			}
			out := engine.Decide(contextengine.TriggerActivityChange, snap)

			Convey("Then it should monitor without a notification", func() {
				So(out.Decision, ShouldEqual, contextengine.DecisionMonitor)
				So(out.Reasoning, ShouldContainSubstring, "running")
				So(out.Notification, ShouldBeNil)
			})
		})

		Convey("When an activity change arrives without motion data", func() {
			out := engine.Decide(contextengine.TriggerActivityChange, contextengine.Snapshot{})

			Convey("Then it should degrade to no_action", func() {
				So(out.Decision, ShouldEqual, contextengine.DecisionNoAction)
			})
		})

		Convey("When an activity change arrives with motion but no activity type", func() {
			snap := contextengine.Snapshot{Motion: &contextengine.MotionData{}}
			out := engine.Decide(contextengine.TriggerActivityChange, snap)

			Convey("Then it should degrade to no_action", func() {
				So(out.Decision, ShouldEqual, contextengine.DecisionNoAction)
			})
		})

		Convey("When a health alert arrives with health data", func() {
			hr := 128.0
			snap := contextengine.Snapshot{
				Timestamp: "2026-09-01T09:45:00Z",
				Health:    &contextengine.HealthData{HeartRate: &hr},
			}
			out := engine.Decide(contextengine.TriggerHealthAlert, snap)

			Convey("Then it should notify with a high-priority wellness message", func() {
				So(out.Decision, ShouldEqual, contextengine.DecisionNotify)
				So(out.Notification, ShouldNotBeNil)
				So(out.Notification.Priority, ShouldEqual, contextengine.PriorityHigh)
			})
		})

		Convey("When a health alert arrives without health data", func() {
			out := engine.Decide(contextengine.TriggerHealthAlert, contextengine.Snapshot{})

			Convey("Then it should degrade to no_action", func() {
				So(out.Decision, ShouldEqual, contextengine.DecisionNoAction)
			})
		})

		Convey("When an unknown trigger arrives", func() {
			out := engine.Decide(contextengine.Trigger("bogus_trigger"), snapshotWithEvents("Anything"))

			Convey("Then it should resolve to no_action and name the trigger", func() {
				So(out.Decision, ShouldEqual, contextengine.DecisionNoAction)
				So(out.Reasoning, ShouldContainSubstring, "bogus_trigger")
				So(out.Notification, ShouldBeNil)
			})
		})

		Convey("When the same inputs are evaluated twice", func() {
			snap := snapshotWithEvents("Repeatable")
			first := engine.Decide(contextengine.TriggerLocationChange, snap)
			second := engine.Decide(contextengine.TriggerLocationChange, snap)

			Convey("Then the outcomes should be identical", func() {
				So(second, ShouldResemble, first)
			})
		})
	})
}

func TestEngine_Options(t *testing.T) {
	Convey("Given an engine with overridden notification copy", t, func() {
		engine := contextengine.New(
			contextengine.WithReminderCopy("Heads up", "On my way"),
			contextengine.WithWellnessCopy("Take care", "Slow down for a moment", "Got it"),
		)

		Convey("When a time-based trigger fires", func() {
			out := engine.Decide(contextengine.TriggerTimeBased, snapshotWithEvents("Demo"))

			Convey("Then the custom copy should be used", func() {
				So(out.Notification.Title, ShouldEqual, "Heads up")
				So(out.Notification.ActionLabel, ShouldEqual, "On my way")
			})
		})

		Convey("When a health alert fires", func() {
			snap := contextengine.Snapshot{Health: &contextengine.HealthData{}}
			out := engine.Decide(contextengine.TriggerHealthAlert, snap)

			Convey("Then the custom wellness copy should be used", func() {
				So(out.Notification.Title, ShouldEqual, "Take care")
				So(out.Notification.Body, ShouldEqual, "Slow down for a moment")
			})
		})
	})
}

func TestEngine_Evaluate(t *testing.T) {
	Convey("Given the panic boundary", t, func() {
		engine := contextengine.New()

		Convey("When evaluating a normal request", func() {
			out := engine.Evaluate(contextengine.TriggerLocationChange, snapshotWithEvents("Safe"))

			Convey("Then it should behave exactly like Decide", func() {
				So(out.Decision, ShouldEqual, contextengine.DecisionNotify)
			})
		})
	})
}
