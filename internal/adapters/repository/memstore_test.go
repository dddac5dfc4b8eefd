package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/whalechillz/go-singsing-sub000/internal/adapters/repository"
	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemStoreEdges(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store := repository.NewMemStore()

		Convey("When inserting an edge", func() {
			err := store.InsertEdge(ctx, "t1", "p1", "s1")

			Convey("Then it is listed", func() {
				So(err, ShouldBeNil)
				edges, err := store.ListEdges(ctx, "t1")
				So(err, ShouldBeNil)
				So(edges, ShouldResemble, []model.Edge{{ParticipantID: "p1", SlotID: "s1"}})
			})

			Convey("And inserting the same edge again reports a duplicate", func() {
				So(errors.Is(store.InsertEdge(ctx, "t1", "p1", "s1"), repository.ErrEdgeExists), ShouldBeTrue)
			})

			Convey("And another tour does not see it", func() {
				edges, err := store.ListEdges(ctx, "t2")
				So(err, ShouldBeNil)
				So(edges, ShouldBeEmpty)
			})
		})

		Convey("When deleting an edge that was never inserted", func() {
			err := store.DeleteEdge(ctx, "t1", "p1", "s1")

			Convey("Then the miss is reported", func() {
				So(errors.Is(err, repository.ErrEdgeMissing), ShouldBeTrue)
			})
		})

		Convey("When inserting edges out of order", func() {
			So(store.InsertEdge(ctx, "t1", "p2", "s1"), ShouldBeNil)
			So(store.InsertEdge(ctx, "t1", "p1", "s2"), ShouldBeNil)
			So(store.InsertEdge(ctx, "t1", "p1", "s1"), ShouldBeNil)

			Convey("Then listing returns them sorted", func() {
				edges, err := store.ListEdges(ctx, "t1")
				So(err, ShouldBeNil)
				So(edges, ShouldResemble, []model.Edge{
					{ParticipantID: "p1", SlotID: "s1"},
					{ParticipantID: "p1", SlotID: "s2"},
					{ParticipantID: "p2", SlotID: "s1"},
				})
			})
		})
	})
}

func TestMemStoreSeedingAndUpserts(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store seeded through options", t, func() {
		store := repository.NewMemStore(
			repository.WithParticipants("t1", []model.Participant{{ID: "p1", Name: "Kim Minsoo"}}),
			repository.WithSlots("t1", []model.Slot{{ID: "s1", TourID: "t1", Date: "2025-06-11", Teeoff: "07:30", Capacity: 4}}),
			repository.WithInitialEdges("t1", []model.Edge{{ParticipantID: "p1", SlotID: "s1"}}),
		)

		Convey("Then the seeded state is visible", func() {
			ps, _ := store.ListParticipants(ctx, "t1")
			ss, _ := store.ListSlots(ctx, "t1")
			es, _ := store.ListEdges(ctx, "t1")
			So(ps, ShouldHaveLength, 1)
			So(ss, ShouldHaveLength, 1)
			So(es, ShouldHaveLength, 1)
		})

		Convey("When upserting an existing participant", func() {
			err := store.UpsertParticipant(ctx, "t1", model.Participant{ID: "p1", Name: "Kim Minsoo", Team: "A"})

			Convey("Then the row is replaced, not duplicated", func() {
				So(err, ShouldBeNil)
				ps, _ := store.ListParticipants(ctx, "t1")
				So(ps, ShouldHaveLength, 1)
				So(ps[0].Team, ShouldEqual, "A")
			})
		})

		Convey("When upserting a new slot", func() {
			err := store.UpsertSlot(ctx, model.Slot{ID: "s2", TourID: "t1", Date: "2025-06-11", Teeoff: "07:38", Capacity: 4})

			Convey("Then the schedule grows", func() {
				So(err, ShouldBeNil)
				ss, _ := store.ListSlots(ctx, "t1")
				So(ss, ShouldHaveLength, 2)
			})
		})
	})
}
