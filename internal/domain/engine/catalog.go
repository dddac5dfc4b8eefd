package engine

import (
	"cmp"
	"slices"

	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
)

// Catalog is the read-mostly slot collection for a tour, grouped by date.
// Slots within a day are held in first-fit scan order: tee-off time, then
// course, then id, so the packing order is stable across runs.
type Catalog struct {
	byID   map[string]model.Slot
	byDate map[string][]model.Slot
	dates  []string // ascending
}

// NewCatalog builds a catalog from the tour's slots.
func NewCatalog(slots []model.Slot) *Catalog {
	c := &Catalog{
		byID:   make(map[string]model.Slot, len(slots)),
		byDate: make(map[string][]model.Slot),
	}
	for _, s := range slots {
		c.byID[s.ID] = s
		c.byDate[s.Date] = append(c.byDate[s.Date], s)
	}
	for date, day := range c.byDate {
		slices.SortFunc(day, func(a, b model.Slot) int {
			if v := cmp.Compare(a.Teeoff, b.Teeoff); v != 0 {
				return v
			}
			if v := cmp.Compare(a.Course, b.Course); v != 0 {
				return v
			}
			return cmp.Compare(a.ID, b.ID)
		})
		c.dates = append(c.dates, date)
	}
	slices.Sort(c.dates)
	return c
}

// Slot looks up a slot by id.
func (c *Catalog) Slot(id string) (model.Slot, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Dates returns every distinct date, ascending.
func (c *Catalog) Dates() []string {
	return slices.Clone(c.dates)
}

// SlotsOn returns the date's slots in scan order.
func (c *Catalog) SlotsOn(date string) []model.Slot {
	return c.byDate[date]
}

// Len returns the number of slots in the catalog.
func (c *Catalog) Len() int {
	return len(c.byID)
}
