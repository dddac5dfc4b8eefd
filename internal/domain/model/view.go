package model

// Occupant is one row in a slot's occupant list, shaped for the printable
// tee-sheet layer (name, team, gender only).
type Occupant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Team   string `json:"team,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// SlotView is a slot together with its live occupant list. Occupancy is
// always derived from the edge set, never stored independently.
type SlotView struct {
	Slot      Slot       `json:"slot"`
	Occupants []Occupant `json:"occupants"`
	Occupancy int        `json:"occupancy"`
}

// Remaining returns the free seats left in the slot.
func (v SlotView) Remaining() int {
	return v.Slot.Capacity - v.Occupancy
}

// DayView groups a date's slots in tee-off order for rendering.
type DayView struct {
	Date  string     `json:"date"`
	Slots []SlotView `json:"slots"`
}
