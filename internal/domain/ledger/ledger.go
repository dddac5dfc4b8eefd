// Package ledger holds the in-memory assignment edge set, indexed both by
// participant and by slot. It is a dumb, consistent set: add/remove are
// idempotent and no capacity or per-day rules are checked here. Validation
// lives in the engine; the service serializes access.
package ledger

import (
	"sort"

	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
)

// Ledger is the canonical in-memory edge set. Not safe for concurrent use;
// the owning service guards it.
type Ledger struct {
	byParticipant map[string]map[string]struct{} // participant id -> slot ids
	bySlot        map[string]map[string]struct{} // slot id -> participant ids
	count         int
}

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithEdges seeds the ledger with an initial edge set.
func WithEdges(edges []model.Edge) Option {
	return func(l *Ledger) {
		for _, e := range edges {
			l.Add(e.ParticipantID, e.SlotID)
		}
	}
}

// New creates an empty ledger, applying any options.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		byParticipant: make(map[string]map[string]struct{}),
		bySlot:        make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add inserts the edge if absent. Returns true if the ledger changed.
func (l *Ledger) Add(participantID, slotID string) bool {
	if l.Has(participantID, slotID) {
		return false
	}
	if l.byParticipant[participantID] == nil {
		l.byParticipant[participantID] = make(map[string]struct{})
	}
	if l.bySlot[slotID] == nil {
		l.bySlot[slotID] = make(map[string]struct{})
	}
	l.byParticipant[participantID][slotID] = struct{}{}
	l.bySlot[slotID][participantID] = struct{}{}
	l.count++
	return true
}

// Remove deletes the edge if present. Returns true if the ledger changed.
func (l *Ledger) Remove(participantID, slotID string) bool {
	if !l.Has(participantID, slotID) {
		return false
	}
	delete(l.byParticipant[participantID], slotID)
	if len(l.byParticipant[participantID]) == 0 {
		delete(l.byParticipant, participantID)
	}
	delete(l.bySlot[slotID], participantID)
	if len(l.bySlot[slotID]) == 0 {
		delete(l.bySlot, slotID)
	}
	l.count--
	return true
}

// Has reports whether the (participant, slot) edge exists.
func (l *Ledger) Has(participantID, slotID string) bool {
	_, ok := l.byParticipant[participantID][slotID]
	return ok
}

// SlotsOf returns the slot ids a participant is assigned to, sorted.
func (l *Ledger) SlotsOf(participantID string) []string {
	return sortedKeys(l.byParticipant[participantID])
}

// ParticipantsOn returns the participant ids assigned to a slot, sorted.
func (l *Ledger) ParticipantsOn(slotID string) []string {
	return sortedKeys(l.bySlot[slotID])
}

// Occupancy returns the live edge count for a slot.
func (l *Ledger) Occupancy(slotID string) int {
	return len(l.bySlot[slotID])
}

// Assigned reports whether the participant holds any edge at all.
func (l *Ledger) Assigned(participantID string) bool {
	return len(l.byParticipant[participantID]) > 0
}

// Len returns the total number of edges.
func (l *Ledger) Len() int {
	return l.count
}

// Edges returns every edge, ordered by participant then slot id.
func (l *Ledger) Edges() []model.Edge {
	out := make([]model.Edge, 0, l.count)
	for _, pid := range sortedKeys(l.byParticipant) {
		for _, sid := range sortedKeys(l.byParticipant[pid]) {
			out = append(out, model.Edge{ParticipantID: pid, SlotID: sid})
		}
	}
	return out
}

// Apply mutates the ledger with exactly the given delta, removes first.
// Idempotent by construction of Add/Remove.
func (l *Ledger) Apply(d model.Delta) {
	for _, e := range d.Removes {
		l.Remove(e.ParticipantID, e.SlotID)
	}
	for _, e := range d.Adds {
		l.Add(e.ParticipantID, e.SlotID)
	}
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	return New(WithEdges(l.Edges()))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
