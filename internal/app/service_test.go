package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/whalechillz/go-singsing-sub000/internal/adapters/repository"
	"github.com/whalechillz/go-singsing-sub000/internal/app"
	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
	"github.com/whalechillz/go-singsing-sub000/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const tour = "t1"

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func testStore() *repository.MemStore {
	return repository.NewMemStore(
		repository.WithParticipants(tour, []model.Participant{
			{ID: "p1", Name: "Kim Minsoo", Team: "A", Gender: "M"},
			{ID: "p2", Name: "Lee Jiyeon", Team: "A", Gender: "F"},
			{ID: "p3", Name: "Park Hyunwoo", Team: "B", Gender: "M"},
		}),
		repository.WithSlots(tour, []model.Slot{
			{ID: "s1", TourID: tour, Date: "2025-06-11", Course: "Pine", Teeoff: "07:30", Capacity: 2},
			{ID: "s2", TourID: tour, Date: "2025-06-11", Course: "Pine", Teeoff: "07:38", Capacity: 2},
			{ID: "s3", TourID: tour, Date: "2025-06-12", Course: "Lake", Teeoff: "07:30", Capacity: 4},
		}),
	)
}

func startService(store repository.Store) *app.Service {
	svc := app.New(app.WithTourID(tour), app.WithStore(store))
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

// flakyStore fails edge primitives after a set number of calls, standing
// in for a store that dies mid-batch.
type flakyStore struct {
	*repository.MemStore
	failAfter int
	calls     int
}

func (f *flakyStore) InsertEdge(ctx context.Context, tourID, participantID, slotID string) error {
	f.calls++
	if f.calls > f.failAfter {
		return fmt.Errorf("connection reset")
	}
	return f.MemStore.InsertEdge(ctx, tourID, participantID, slotID)
}

func (f *flakyStore) DeleteEdge(ctx context.Context, tourID, participantID, slotID string) error {
	f.calls++
	if f.calls > f.failAfter {
		return fmt.Errorf("connection reset")
	}
	return f.MemStore.DeleteEdge(ctx, tourID, participantID, slotID)
}

func TestServiceToggle(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		store := testStore()
		svc := startService(store)

		Convey("When toggling a participant onto a slot", func() {
			res, err := svc.Toggle(ctx, "p1", "s1")

			Convey("Then the edge is persisted and projected", func() {
				So(err, ShouldBeNil)
				So(res.Applied, ShouldEqual, 1)
				edges, _ := store.ListEdges(ctx, tour)
				So(edges, ShouldResemble, []model.Edge{{ParticipantID: "p1", SlotID: "s1"}})
			})

			Convey("And toggling again removes it everywhere", func() {
				res2, err := svc.Toggle(ctx, "p1", "s1")
				So(err, ShouldBeNil)
				So(res2.Applied, ShouldEqual, 1)
				edges, _ := store.ListEdges(ctx, tour)
				So(edges, ShouldBeEmpty)
			})
		})

		Convey("When toggling into a full slot", func() {
			_, _ = svc.Toggle(ctx, "p1", "s1")
			_, _ = svc.Toggle(ctx, "p2", "s1")
			_, err := svc.Toggle(ctx, "p3", "s1")

			Convey("Then validation fails with zero side effects", func() {
				So(err, ShouldNotBeNil)
				edges, _ := store.ListEdges(ctx, tour)
				So(edges, ShouldHaveLength, 2)
			})
		})

		Convey("When a command is issued before Start", func() {
			cold := app.New(app.WithTourID(tour), app.WithStore(testStore()))
			_, err := cold.Toggle(ctx, "p1", "s1")
			So(errors.Is(err, app.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestServiceBulkAndAuto(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		store := testStore()
		svc := startService(store)

		Convey("When auto-assigning a fresh tour", func() {
			res, err := svc.AutoAssign(ctx)

			Convey("Then everyone gets a slot on every date", func() {
				So(err, ShouldBeNil)
				So(res.Applied, ShouldEqual, 6) // 3 participants x 2 dates
				edges, _ := store.ListEdges(ctx, tour)
				So(edges, ShouldHaveLength, 6)
			})

			Convey("And a second auto-assign changes nothing", func() {
				res2, err := svc.AutoAssign(ctx)
				So(err, ShouldBeNil)
				So(res2.Applied, ShouldEqual, 0)
			})
		})

		Convey("When bulk-assigning a participant already booked on a date", func() {
			_, _ = svc.Toggle(ctx, "p1", "s2")
			res, err := svc.BulkAssign(ctx, []string{"p1", "p2"}, nil, true)

			Convey("Then the booked date is skipped for that participant only", func() {
				So(err, ShouldBeNil)
				So(res.Applied, ShouldEqual, 3)
				So(res.Skipped, ShouldResemble, []model.Skip{
					{ParticipantID: "p1", Date: "2025-06-11", Reason: model.SkipAlreadyAssigned},
				})
			})
		})
	})
}

func TestServiceMoveAndClear(t *testing.T) {
	ctx := context.Background()

	Convey("Given a tour with a full group in one slot", t, func() {
		store := testStore()
		svc := startService(store)
		_, _ = svc.Toggle(ctx, "p1", "s1")
		_, _ = svc.Toggle(ctx, "p2", "s1")

		Convey("When moving the group to a free slot", func() {
			res, err := svc.MoveGroup(ctx, "s1", "s2")

			Convey("Then the whole group relocates", func() {
				So(err, ShouldBeNil)
				So(res.Applied, ShouldEqual, 2)
				view, _ := svc.View(ctx)
				So(view[0].Slots[0].Occupancy, ShouldEqual, 0) // s1
				So(view[0].Slots[1].Occupancy, ShouldEqual, 2) // s2
			})
		})

		Convey("When clearing a date", func() {
			_, _ = svc.Toggle(ctx, "p3", "s3")
			res, err := svc.ClearDate(ctx, "2025-06-11")

			Convey("Then only that date's edges vanish", func() {
				So(err, ShouldBeNil)
				So(res.Applied, ShouldEqual, 2)
				edges, _ := store.ListEdges(ctx, tour)
				So(edges, ShouldResemble, []model.Edge{{ParticipantID: "p3", SlotID: "s3"}})
			})
		})
	})
}

func TestServiceAdjustSchedule(t *testing.T) {
	ctx := context.Background()

	Convey("Given a group booked on both dates", t, func() {
		store := testStore()
		svc := startService(store)
		_, _ = svc.Toggle(ctx, "p1", "s1")
		_, _ = svc.Toggle(ctx, "p2", "s1")
		_, _ = svc.Toggle(ctx, "p1", "s3")
		_, _ = svc.Toggle(ctx, "p2", "s3")

		Convey("When adjusting one date and leaving the other in place", func() {
			res, err := svc.AdjustGroupSchedule(ctx, []string{"p1", "p2"}, map[string]string{
				"2025-06-11": "s2",
				"2025-06-12": "s3",
			})

			Convey("Then the moved date relocates and the no-op is skipped", func() {
				So(err, ShouldBeNil)
				So(res.Applied, ShouldEqual, 2)
				So(res.Skipped, ShouldResemble, []model.Skip{
					{Date: "2025-06-12", Reason: model.SkipNoChange},
				})
				view, _ := svc.View(ctx)
				So(view[0].Slots[1].Occupancy, ShouldEqual, 2) // s2
			})
		})

		Convey("When one date cannot fit the group", func() {
			_, _ = svc.Toggle(ctx, "p3", "s2")
			res, err := svc.AdjustGroupSchedule(ctx, []string{"p1", "p2"}, map[string]string{
				"2025-06-11": "s2", // capacity 2, one seat taken
			})

			Convey("Then the date is reported as a warning, not committed", func() {
				So(err, ShouldBeNil)
				So(res.Applied, ShouldEqual, 0)
				So(res.Warnings, ShouldHaveLength, 1)
			})
		})
	})
}

func TestServicePersistenceFailure(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store that dies mid-batch", t, func() {
		flaky := &flakyStore{MemStore: testStore(), failAfter: 2}
		svc := startService(flaky)

		Convey("When a bulk assignment is cut short", func() {
			res, err := svc.BulkAssign(ctx, []string{"p1", "p2"}, nil, true)

			Convey("Then the failure is reported as a persistence failure", func() {
				So(errors.Is(err, app.ErrPersistenceFailure), ShouldBeTrue)
				So(res.Applied, ShouldEqual, 0)
			})

			Convey("And the ledger matches the store exactly", func() {
				So(err, ShouldNotBeNil)
				stored, _ := flaky.MemStore.ListEdges(ctx, tour)
				view, _ := svc.View(ctx)
				total := 0
				for _, day := range view {
					for _, sv := range day.Slots {
						total += sv.Occupancy
					}
				}
				So(total, ShouldEqual, len(stored))
			})
		})
	})

	Convey("Given a foreign writer touching the tour", t, func() {
		flaky := &flakyStore{MemStore: testStore(), failAfter: 1}
		svc := startService(flaky)
		_ = svc // started against the flaky wrapper

		// An edge appears behind the service's back.
		So(flaky.MemStore.InsertEdge(ctx, tour, "p3", "s3"), ShouldBeNil)

		Convey("When a failing command forces a reload", func() {
			_, err := svc.BulkAssign(ctx, []string{"p1", "p2"}, nil, true)

			Convey("Then the reload flags the stale state", func() {
				So(errors.Is(err, app.ErrPersistenceFailure), ShouldBeTrue)
				So(errors.Is(err, app.ErrStaleState), ShouldBeTrue)
			})
		})
	})
}

func TestServiceRefreshAndStats(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		store := testStore()
		svc := startService(store)

		Convey("When edges change behind the service and Refresh runs", func() {
			So(store.InsertEdge(ctx, tour, "p1", "s1"), ShouldBeNil)
			So(svc.Refresh(ctx), ShouldBeNil)

			Convey("Then the view reflects the store", func() {
				view, _ := svc.View(ctx)
				So(view[0].Slots[0].Occupancy, ShouldEqual, 1)
				So(view[0].Slots[0].Occupants[0].Name, ShouldEqual, "Kim Minsoo")
			})
		})

		Convey("When reading stats", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["participants"], ShouldEqual, 3)
			So(stats["slots"], ShouldEqual, 3)
		})

		Convey("When importing roster rows", func() {
			n, err := svc.ImportRoster(ctx, []model.Participant{
				{ID: "p9", Name: "Choi Soyeon", Team: "C"},
			})

			Convey("Then the roster grows", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
				So(svc.GetStats()["participants"], ShouldEqual, 4)
			})
		})
	})
}
