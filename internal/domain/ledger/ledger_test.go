package ledger_test

import (
	"testing"

	"github.com/whalechillz/go-singsing-sub000/internal/domain/ledger"
	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLedger(t *testing.T) {
	Convey("Given an empty ledger", t, func() {
		led := ledger.New()

		Convey("Then it holds no edges", func() {
			So(led.Len(), ShouldEqual, 0)
			So(led.Edges(), ShouldBeEmpty)
			So(led.Occupancy("s1"), ShouldEqual, 0)
		})

		Convey("When adding an edge", func() {
			changed := led.Add("p1", "s1")

			Convey("Then both indexes see it", func() {
				So(changed, ShouldBeTrue)
				So(led.Has("p1", "s1"), ShouldBeTrue)
				So(led.SlotsOf("p1"), ShouldResemble, []string{"s1"})
				So(led.ParticipantsOn("s1"), ShouldResemble, []string{"p1"})
				So(led.Occupancy("s1"), ShouldEqual, 1)
			})

			Convey("And adding it again is a no-op", func() {
				So(led.Add("p1", "s1"), ShouldBeFalse)
				So(led.Len(), ShouldEqual, 1)
			})

			Convey("And removing it empties the ledger", func() {
				So(led.Remove("p1", "s1"), ShouldBeTrue)
				So(led.Len(), ShouldEqual, 0)
				So(led.Assigned("p1"), ShouldBeFalse)
			})
		})

		Convey("When removing a non-existent edge", func() {
			Convey("Then nothing changes", func() {
				So(led.Remove("p1", "s1"), ShouldBeFalse)
				So(led.Len(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a seeded ledger", t, func() {
		led := ledger.New(ledger.WithEdges([]model.Edge{
			{ParticipantID: "p1", SlotID: "s1"},
			{ParticipantID: "p2", SlotID: "s1"},
			{ParticipantID: "p1", SlotID: "s2"},
		}))

		Convey("Then occupancy is derived from the edge set", func() {
			So(led.Len(), ShouldEqual, 3)
			So(led.Occupancy("s1"), ShouldEqual, 2)
			So(led.Occupancy("s2"), ShouldEqual, 1)
			So(led.SlotsOf("p1"), ShouldResemble, []string{"s1", "s2"})
		})

		Convey("When applying a delta", func() {
			led.Apply(model.Delta{
				Removes: []model.Edge{{ParticipantID: "p1", SlotID: "s1"}},
				Adds:    []model.Edge{{ParticipantID: "p3", SlotID: "s1"}},
			})

			Convey("Then exactly that delta is reflected", func() {
				So(led.Has("p1", "s1"), ShouldBeFalse)
				So(led.Has("p3", "s1"), ShouldBeTrue)
				So(led.Occupancy("s1"), ShouldEqual, 2)
				So(led.Len(), ShouldEqual, 3)
			})
		})

		Convey("When cloning", func() {
			clone := led.Clone()
			clone.Add("p9", "s9")

			Convey("Then the original is unaffected", func() {
				So(clone.Len(), ShouldEqual, 4)
				So(led.Len(), ShouldEqual, 3)
				So(led.Has("p9", "s9"), ShouldBeFalse)
			})
		})

		Convey("Then Edges returns a stable order", func() {
			So(led.Edges(), ShouldResemble, []model.Edge{
				{ParticipantID: "p1", SlotID: "s1"},
				{ParticipantID: "p1", SlotID: "s2"},
				{ParticipantID: "p2", SlotID: "s1"},
			})
		})
	})
}
