package seed_test

import (
	"context"
	"testing"

	"github.com/whalechillz/go-singsing-sub000/internal/adapters/repository"
	"github.com/whalechillz/go-singsing-sub000/internal/seed"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerator(t *testing.T) {
	Convey("Given a generator with a small configuration", t, func() {
		gen := seed.NewGenerator(
			seed.WithTourID("t1"),
			seed.WithParticipants(8),
			seed.WithDates([]string{"2025-06-11", "2025-06-12"}),
			seed.WithCourses([]string{"Pine"}),
			seed.WithTeeTimes([]string{"07:30", "07:38"}),
			seed.WithCapacity(4),
			seed.WithSeed(7),
		)

		Convey("When generating the roster", func() {
			roster := gen.Roster()

			Convey("Then it has the requested size with unique ids", func() {
				So(roster, ShouldHaveLength, 8)
				seen := make(map[string]bool)
				for _, p := range roster {
					So(p.ID, ShouldNotBeEmpty)
					So(seen[p.ID], ShouldBeFalse)
					seen[p.ID] = true
					So(p.Name, ShouldNotBeEmpty)
					So(p.Gender, ShouldBeIn, "M", "F")
				}
			})

			Convey("And teams rotate evenly", func() {
				So(roster[0].Team, ShouldEqual, "A")
				So(roster[4].Team, ShouldEqual, "A")
			})
		})

		Convey("When generating the slot grid", func() {
			slots := gen.Slots()

			Convey("Then it is dates x courses x tee times", func() {
				So(slots, ShouldHaveLength, 4) // 2 dates x 1 course x 2 times
				So(slots[0].Date, ShouldEqual, "2025-06-11")
				So(slots[0].Teeoff, ShouldEqual, "07:30")
				So(slots[3].Date, ShouldEqual, "2025-06-12")
				for _, s := range slots {
					So(s.TourID, ShouldEqual, "t1")
					So(s.Capacity, ShouldEqual, 4)
				}
			})
		})

		Convey("When populating a store", func() {
			store := repository.NewMemStore()
			nRoster, nSlots, err := gen.Populate(context.Background(), store)

			Convey("Then the store holds the generated tour", func() {
				So(err, ShouldBeNil)
				So(nRoster, ShouldEqual, 8)
				So(nSlots, ShouldEqual, 4)
				ps, _ := store.ListParticipants(context.Background(), "t1")
				ss, _ := store.ListSlots(context.Background(), "t1")
				So(ps, ShouldHaveLength, 8)
				So(ss, ShouldHaveLength, 4)
			})
		})
	})

	Convey("Given a fixed seed", t, func() {
		a := seed.NewGenerator(seed.WithSeed(42), seed.WithParticipants(5))
		b := seed.NewGenerator(seed.WithSeed(42), seed.WithParticipants(5))

		Convey("Then rosters are reproducible apart from the random ids", func() {
			ra, rb := a.Roster(), b.Roster()
			So(ra, ShouldHaveLength, len(rb))
			for i := range ra {
				So(ra[i].Name, ShouldEqual, rb[i].Name)
				So(ra[i].Phone, ShouldEqual, rb[i].Phone)
			}
		})
	})
}
