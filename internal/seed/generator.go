// Package seed generates demo tours: a roster, a tee-time slot grid, and
// optionally a first-fit pre-assignment. Used by cmd/seed-tour for demos
// and manual load testing.
package seed

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/whalechillz/go-singsing-sub000/internal/adapters/repository"
	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
)

var (
	surnames   = []string{"Kim", "Lee", "Park", "Choi", "Jung", "Kang", "Cho", "Yoon", "Jang", "Lim"}
	givenNames = []string{"Minsoo", "Jiyeon", "Hyunwoo", "Soyeon", "Donghyun", "Eunji", "Taeyang", "Mira", "Sungjin", "Hana"}
	teams      = []string{"A", "B", "C", "D"}
)

// Generator builds deterministic demo data for one tour.
type Generator struct {
	tourID       string
	participants int
	dates        []string
	courses      []string
	teeTimes     []string
	capacity     int
	rng          *rand.Rand
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithTourID sets the generated tour id.
func WithTourID(id string) Option {
	return func(g *Generator) {
		if id != "" {
			g.tourID = id
		}
	}
}

// WithParticipants sets the roster size.
func WithParticipants(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.participants = n
		}
	}
}

// WithDates sets the tour dates (YYYY-MM-DD, ascending).
func WithDates(dates []string) Option {
	return func(g *Generator) {
		if len(dates) > 0 {
			g.dates = dates
		}
	}
}

// WithCourses sets the course labels.
func WithCourses(courses []string) Option {
	return func(g *Generator) {
		if len(courses) > 0 {
			g.courses = courses
		}
	}
}

// WithTeeTimes sets the tee-off times per course per day.
func WithTeeTimes(times []string) Option {
	return func(g *Generator) {
		if len(times) > 0 {
			g.teeTimes = times
		}
	}
}

// WithCapacity sets the per-slot capacity.
func WithCapacity(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.capacity = n
		}
	}
}

// WithSeed fixes the random source for reproducible rosters.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// NewGenerator creates a generator with demo defaults.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		tourID:       "demo-tour",
		participants: 28,
		dates:        []string{"2025-06-11", "2025-06-12", "2025-06-13"},
		courses:      []string{"Pine", "Lake"},
		teeTimes:     []string{"07:30", "07:38", "07:46", "07:54"},
		capacity:     4,
		rng:          rand.New(rand.NewSource(42)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TourID returns the id demo data is generated under.
func (g *Generator) TourID() string {
	return g.tourID
}

// Roster generates the demo participants.
func (g *Generator) Roster() []model.Participant {
	out := make([]model.Participant, 0, g.participants)
	for i := 0; i < g.participants; i++ {
		gender := "M"
		if g.rng.Intn(2) == 0 {
			gender = "F"
		}
		out = append(out, model.Participant{
			ID:     uuid.NewString(),
			Name:   surnames[g.rng.Intn(len(surnames))] + " " + givenNames[g.rng.Intn(len(givenNames))],
			Phone:  fmt.Sprintf("010-%04d-%04d", g.rng.Intn(10000), g.rng.Intn(10000)),
			Team:   teams[i%len(teams)],
			Gender: gender,
		})
	}
	return out
}

// Slots generates the demo slot grid: dates x courses x tee times.
func (g *Generator) Slots() []model.Slot {
	var out []model.Slot
	for _, date := range g.dates {
		for _, course := range g.courses {
			for _, tee := range g.teeTimes {
				out = append(out, model.Slot{
					ID:       uuid.NewString(),
					TourID:   g.tourID,
					Date:     date,
					Course:   course,
					Teeoff:   tee,
					Capacity: g.capacity,
				})
			}
		}
	}
	return out
}

// Populate writes a generated tour into the store. The store must accept
// roster and schedule writes.
func (g *Generator) Populate(ctx context.Context, store repository.Store) (int, int, error) {
	pw, ok := store.(repository.ParticipantWriter)
	if !ok {
		return 0, 0, fmt.Errorf("store does not accept participant writes")
	}
	sw, ok := store.(repository.SlotWriter)
	if !ok {
		return 0, 0, fmt.Errorf("store does not accept slot writes")
	}

	roster := g.Roster()
	for _, p := range roster {
		if err := pw.UpsertParticipant(ctx, g.tourID, p); err != nil {
			return 0, 0, fmt.Errorf("seed participant: %w", err)
		}
	}
	slots := g.Slots()
	for _, s := range slots {
		if err := sw.UpsertSlot(ctx, s); err != nil {
			return 0, 0, fmt.Errorf("seed slot: %w", err)
		}
	}
	return len(roster), len(slots), nil
}
