package service_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	repository "github.com/folloapp/calendar-backend/internal/adapters/repository"
	service "github.com/folloapp/calendar-backend/internal/app"
	"github.com/folloapp/calendar-backend/internal/domain/contextengine"
	"github.com/folloapp/calendar-backend/internal/domain/model"
	"github.com/folloapp/calendar-backend/pkg/logger"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*service.Service, repository.Store) {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}
	store, err := repository.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	svc := service.New(
		service.WithStore(store),
		service.WithClock(func() time.Time { return testNow }),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	return svc, store
}

func input(sourceID, title, start, end string) model.EventInput {
	return model.EventInput{
		SourceEventID: sourceID,
		Title:         title,
		StartAt:       start,
		EndAt:         end,
	}
}

func TestService_SyncEvents(t *testing.T) {
	Convey("Given a running calendar service", t, func() {
		ctx := context.Background()
		svc, _ := newTestService(t)

		batch := []model.EventInput{
			input("a", "Team Sync", "2026-09-01T14:00:00Z", "2026-09-01T15:00:00Z"),
			input("b", "Gym", "2026-09-02T18:00:00Z", "2026-09-02T19:00:00Z"),
		}

		Convey("When syncing a valid batch", func() {
			count, err := svc.SyncEvents(ctx, 1, batch)

			Convey("Then the count should match and the events should be stored", func() {
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 2)
				events, err := svc.ListEvents(ctx, 1)
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 2)
				So(events[0].State, ShouldEqual, model.DefaultState)
			})
		})

		Convey("When one element has a malformed timestamp", func() {
			_, err := svc.SyncEvents(ctx, 1, batch)
			So(err, ShouldBeNil)

			bad := []model.EventInput{
				input("c", "Fine", "2026-09-03T10:00:00Z", "2026-09-03T11:00:00Z"),
				input("d", "Broken", "not-a-timestamp", "2026-09-03T12:00:00Z"),
			}
			_, err = svc.SyncEvents(ctx, 1, bad)

			Convey("Then the whole batch should fail and prior state should survive", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, model.ErrInvalidTimestamp)
				events, listErr := svc.ListEvents(ctx, 1)
				So(listErr, ShouldBeNil)
				So(events, ShouldHaveLength, 2)
				So(events[0].SourceEventID, ShouldEqual, "a")
			})
		})

		Convey("When syncing an empty batch", func() {
			_, err := svc.SyncEvents(ctx, 1, batch)
			So(err, ShouldBeNil)
			count, err := svc.SyncEvents(ctx, 1, nil)

			Convey("Then it should clear all events and return zero", func() {
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 0)
				events, listErr := svc.ListEvents(ctx, 1)
				So(listErr, ShouldBeNil)
				So(events, ShouldBeEmpty)
			})
		})

		Convey("When another user syncs", func() {
			_, err := svc.SyncEvents(ctx, 1, batch)
			So(err, ShouldBeNil)
			_, err = svc.SyncEvents(ctx, 2, []model.EventInput{
				input("z", "Other", "2026-09-01T09:00:00Z", "2026-09-01T10:00:00Z"),
			})
			So(err, ShouldBeNil)

			Convey("Then the first user's events should be untouched", func() {
				events, err := svc.ListEvents(ctx, 1)
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 2)
			})
		})
	})
}

func TestService_UpcomingEvents(t *testing.T) {
	Convey("Given stored events around the default window", t, func() {
		ctx := context.Background()
		svc, _ := newTestService(t)

		boundary := testNow.AddDate(0, 0, 5)
		batch := []model.EventInput{
			input("past", "Earlier Today", "2026-09-01T08:00:00Z", "2026-09-01T09:00:00Z"),
			input("soon", "This Afternoon", "2026-09-01T15:00:00Z", "2026-09-01T16:00:00Z"),
			input("edge", "Window Edge", boundary.Format(time.RFC3339), boundary.Add(time.Hour).Format(time.RFC3339)),
			input("far", "Too Far", "2026-09-10T12:00:00Z", "2026-09-10T13:00:00Z"),
		}
		_, err := svc.SyncEvents(ctx, 1, batch)
		So(err, ShouldBeNil)

		Convey("When querying with the default window", func() {
			events, err := svc.UpcomingEvents(ctx, 1, 0)

			Convey("Then only events inside [now, now+5d] should be returned, in order", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 2)
				So(events[0].SourceEventID, ShouldEqual, "soon")
				So(events[1].SourceEventID, ShouldEqual, "edge")
			})
		})

		Convey("When querying with a wider window", func() {
			events, err := svc.UpcomingEvents(ctx, 1, 15)

			Convey("Then the far event should appear too", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 3)
			})
		})

		Convey("When requesting a window above the cap", func() {
			events, err := svc.UpcomingEvents(ctx, 1, 1000)

			Convey("Then the configured maximum should bound the query", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 3)
			})
		})
	})
}

func TestService_AutoSync(t *testing.T) {
	Convey("Given events on both sides of now", t, func() {
		ctx := context.Background()
		svc, _ := newTestService(t)

		batch := []model.EventInput{
			input("gone", "Finished", "2026-09-01T08:00:00Z", "2026-09-01T09:00:00Z"),
			input("ending", "Ends Now", "2026-09-01T11:00:00Z", "2026-09-01T12:00:00Z"),
			input("ahead", "Later", "2026-09-01T15:00:00Z", "2026-09-01T16:00:00Z"),
		}
		_, err := svc.SyncEvents(ctx, 1, batch)
		So(err, ShouldBeNil)

		Convey("When running auto-sync", func() {
			deleted, err := svc.AutoSync(ctx, 1)

			Convey("Then only strictly-ended events should be removed", func() {
				So(err, ShouldBeNil)
				So(deleted, ShouldEqual, 1)
				events, listErr := svc.ListEvents(ctx, 1)
				So(listErr, ShouldBeNil)
				So(events, ShouldHaveLength, 2)
			})

			Convey("Then a second run should remove nothing", func() {
				So(err, ShouldBeNil)
				again, err := svc.AutoSync(ctx, 1)
				So(err, ShouldBeNil)
				So(again, ShouldEqual, 0)
			})
		})

		Convey("When purging for all users", func() {
			_, err := svc.SyncEvents(ctx, 2, []model.EventInput{
				input("stale", "Stale", "2026-09-01T06:00:00Z", "2026-09-01T07:00:00Z"),
			})
			So(err, ShouldBeNil)

			deleted, err := svc.PurgeExpired(ctx)

			Convey("Then expired events of every user should be dropped", func() {
				So(err, ShouldBeNil)
				So(deleted, ShouldEqual, 2)
			})
		})
	})
}

func TestService_ProcessContext(t *testing.T) {
	Convey("Given a running service", t, func() {
		ctx := context.Background()
		svc, _ := newTestService(t)

		Convey("When processing a location change with an upcoming event", func() {
			snap := contextengine.Snapshot{
				Timestamp: "2026-09-01T12:00:00Z",
				CalendarEvents: []contextengine.CalendarEvent{
					{Title: "Team Sync", Start: "2026-09-01T12:15:00Z", End: "2026-09-01T13:00:00Z"},
				},
			}
			out := svc.ProcessContext(ctx, 1, contextengine.TriggerLocationChange, snap)

			Convey("Then the outcome should notify about the event", func() {
				So(out.Decision, ShouldEqual, contextengine.DecisionNotify)
				So(out.Notification, ShouldNotBeNil)
				So(out.Notification.Body, ShouldContainSubstring, "Team Sync")
			})
		})

		Convey("When processing an unknown trigger", func() {
			out := svc.ProcessContext(ctx, 1, contextengine.Trigger("made_up"), contextengine.Snapshot{})

			Convey("Then the outcome should be a well-formed no_action", func() {
				So(out.Decision, ShouldEqual, contextengine.DecisionNoAction)
				So(out.Reasoning, ShouldContainSubstring, "made_up")
			})
		})
	})
}

func TestService_UpdateEventState(t *testing.T) {
	Convey("Given a stored event", t, func() {
		ctx := context.Background()
		svc, _ := newTestService(t)

		_, err := svc.SyncEvents(ctx, 1, []model.EventInput{
			input("a", "Team Sync", "2026-09-01T14:00:00Z", "2026-09-01T15:00:00Z"),
		})
		So(err, ShouldBeNil)
		events, err := svc.ListEvents(ctx, 1)
		So(err, ShouldBeNil)

		Convey("When updating its state", func() {
			updated, err := svc.UpdateEventState(ctx, events[0].ID, "confirmed")

			Convey("Then the new state should persist", func() {
				So(err, ShouldBeNil)
				So(updated.State, ShouldEqual, "confirmed")
			})
		})

		Convey("When updating an unknown event", func() {
			_, err := svc.UpdateEventState(ctx, "missing", "confirmed")

			Convey("Then it should report not found", func() {
				So(err, ShouldWrap, repository.ErrNotFound)
			})
		})
	})
}
