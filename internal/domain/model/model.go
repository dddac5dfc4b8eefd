// Package model contains domain models passed between layers.
package model

// Participant represents one tour member on the roster. Participants are
// created externally (roster import); the assignment core only reads them
// and manages their edges.
type Participant struct {
	ID     string // opaque id
	Name   string
	Phone  string
	Team   string
	Gender string // optional tag, e.g. "M" / "F"; empty when unknown
}

// Slot is a bookable (date, course, tee-off) unit with a fixed capacity.
// Capacity never changes after schedule setup.
type Slot struct {
	ID       string
	TourID   string
	Date     string // calendar day key, YYYY-MM-DD; lexical order == chronological order
	Course   string
	Teeoff   string // HH:MM, used for stable first-fit ordering within a day
	Capacity int
}

// Edge is an assignment of one participant to one slot. It is the only
// entity the assignment core creates or destroys.
type Edge struct {
	ParticipantID string `json:"participant_id"`
	SlotID        string `json:"slot_id"`
}

// Delta is a validated set of edge changes computed against a ledger
// snapshot. Removes are applied before adds so a relocation frees its
// source before filling its target.
type Delta struct {
	Adds    []Edge
	Removes []Edge
}

// Empty reports whether the delta changes nothing.
func (d Delta) Empty() bool {
	return len(d.Adds) == 0 && len(d.Removes) == 0
}

// Size returns the number of store primitives the delta will issue.
func (d Delta) Size() int {
	return len(d.Adds) + len(d.Removes)
}

// Skip reasons attached to unfulfilled participant/date combinations.
const (
	SkipAlreadyAssigned = "already_assigned"
	SkipNoCapacity      = "no_capacity"
	SkipNoChange        = "no_change"
)

// Skip records one participant/date combination a command left unfulfilled.
// Skips are not errors; callers compare Applied against their expectation.
type Skip struct {
	ParticipantID string `json:"participant_id,omitempty"`
	Date          string `json:"date,omitempty"`
	Reason        string `json:"reason"`
}

// CommandResult is returned by every assignment command.
type CommandResult struct {
	Applied  int      `json:"applied"`
	Skipped  []Skip   `json:"skipped,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Merge folds another result into r (used by multi-date commands that
// commit each date independently).
func (r *CommandResult) Merge(other CommandResult) {
	r.Applied += other.Applied
	r.Skipped = append(r.Skipped, other.Skipped...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}
