// Package engine computes assignment deltas for a tour. Every operation
// plans against a ledger snapshot and validates before anything is handed
// to persistence: a returned error means no delta and no side effects.
package engine

import (
	"fmt"
	"slices"

	"github.com/whalechillz/go-singsing-sub000/internal/domain/ledger"
	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
)

// AssignMode selects the date range for BulkAssign.
type AssignMode string

// Assignment modes.
const (
	ModeAllDates AssignMode = "all"
	ModeSpecific AssignMode = "specific"
)

// Plan is a validated delta plus the bookkeeping the caller reports back.
// Applied is filled in by the caller once persistence confirms the delta.
type Plan struct {
	Delta  model.Delta
	Result model.CommandResult
}

// DatePlan is one independently-committed relocation inside a schedule
// adjustment. Err is a validation failure for that date only.
type DatePlan struct {
	Date string
	Plan Plan
	Err  error
}

// Engine plans allocation operations against a slot catalog.
type Engine struct {
	catalog *Catalog
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// New creates an engine over the given catalog.
func New(catalog *Catalog, opts ...Option) *Engine {
	e := &Engine{catalog: catalog}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog exposes the engine's slot catalog to read-only consumers.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Toggle flips the (participant, slot) edge. Removing always succeeds;
// adding requires free capacity. Per-day exclusivity is deliberately NOT
// enforced here (the per-slot add button allows a manual double booking);
// an existing same-day edge is reported as a warning instead. Bulk and
// auto assignment do enforce it.
func (e *Engine) Toggle(led *ledger.Ledger, participantID, slotID string) (Plan, error) {
	slot, ok := e.catalog.Slot(slotID)
	if !ok {
		return Plan{}, fmt.Errorf("toggle %s: %w", slotID, ErrUnknownSlot)
	}

	if led.Has(participantID, slotID) {
		return Plan{
			Delta: model.Delta{Removes: []model.Edge{{ParticipantID: participantID, SlotID: slotID}}},
		}, nil
	}

	if led.Occupancy(slotID) >= slot.Capacity {
		return Plan{}, fmt.Errorf("toggle %s (capacity %d): %w", slotID, slot.Capacity, ErrCapacityExceeded)
	}

	plan := Plan{
		Delta: model.Delta{Adds: []model.Edge{{ParticipantID: participantID, SlotID: slotID}}},
	}
	if other, ok := e.slotOn(led, participantID, slot.Date); ok {
		plan.Result.Warnings = append(plan.Result.Warnings,
			fmt.Sprintf("participant %s already holds slot %s on %s", participantID, other, slot.Date))
	}
	return plan, nil
}

// BulkAssign packs participants into the target dates first-fit. A
// participant already holding any slot on a date is skipped for that date;
// a date with no free slot leaves the combination unfulfilled. Neither is
// an error: callers compare Applied against their expected maximum.
func (e *Engine) BulkAssign(led *ledger.Ledger, participantIDs []string, dates []string, mode AssignMode) (Plan, error) {
	if mode == ModeAllDates {
		dates = e.catalog.Dates()
	}
	return e.pack(led, participantIDs, dates), nil
}

// AutoAssign packs every fully-unassigned participant (zero edges across
// the tour) into all dates, first-fit. Partial fills are acceptable.
func (e *Engine) AutoAssign(led *ledger.Ledger, roster []model.Participant) (Plan, error) {
	var candidates []string
	for _, p := range roster {
		if !led.Assigned(p.ID) {
			candidates = append(candidates, p.ID)
		}
	}
	return e.pack(led, candidates, e.catalog.Dates()), nil
}

// pack is the shared first-fit loop: dates ascending, slots in scan order,
// assign to the first slot with remaining capacity. Occupancy and per-day
// holdings are tracked tentatively so the plan is valid as a whole.
func (e *Engine) pack(led *ledger.Ledger, participantIDs []string, dates []string) Plan {
	var plan Plan
	occ := make(map[string]int)
	for _, pid := range participantIDs {
		for _, date := range sortedDates(dates) {
			if e.hasSlotOn(led, &plan.Delta, pid, date) {
				plan.Result.Skipped = append(plan.Result.Skipped,
					model.Skip{ParticipantID: pid, Date: date, Reason: model.SkipAlreadyAssigned})
				continue
			}
			placed := false
			for _, slot := range e.catalog.SlotsOn(date) {
				if _, seen := occ[slot.ID]; !seen {
					occ[slot.ID] = led.Occupancy(slot.ID)
				}
				if occ[slot.ID] >= slot.Capacity {
					continue
				}
				occ[slot.ID]++
				plan.Delta.Adds = append(plan.Delta.Adds, model.Edge{ParticipantID: pid, SlotID: slot.ID})
				placed = true
				break
			}
			if !placed {
				plan.Result.Skipped = append(plan.Result.Skipped,
					model.Skip{ParticipantID: pid, Date: date, Reason: model.SkipNoCapacity})
			}
		}
	}
	return plan
}

// MoveGroup relocates every occupant of fromSlot to toSlot. All-or-nothing
// precondition: the target must have headroom for the whole group.
func (e *Engine) MoveGroup(led *ledger.Ledger, fromSlotID, toSlotID string) (Plan, error) {
	if _, ok := e.catalog.Slot(fromSlotID); !ok {
		return Plan{}, fmt.Errorf("move from %s: %w", fromSlotID, ErrUnknownSlot)
	}
	target, ok := e.catalog.Slot(toSlotID)
	if !ok {
		return Plan{}, fmt.Errorf("move to %s: %w", toSlotID, ErrUnknownSlot)
	}

	movers := led.ParticipantsOn(fromSlotID)
	if len(movers) == 0 {
		return Plan{}, fmt.Errorf("move from %s: %w", fromSlotID, ErrEmptySource)
	}
	if fromSlotID == toSlotID {
		return Plan{Result: model.CommandResult{
			Skipped: []model.Skip{{Date: target.Date, Reason: model.SkipNoChange}},
		}}, nil
	}
	if free := target.Capacity - led.Occupancy(toSlotID); free < len(movers) {
		return Plan{}, fmt.Errorf("move %d into %s (%d free): %w",
			len(movers), toSlotID, target.Capacity-led.Occupancy(toSlotID), ErrInsufficientCapacity)
	}

	var plan Plan
	for _, pid := range movers {
		plan.Delta.Removes = append(plan.Delta.Removes, model.Edge{ParticipantID: pid, SlotID: fromSlotID})
		plan.Delta.Adds = append(plan.Delta.Adds, model.Edge{ParticipantID: pid, SlotID: toSlotID})
	}
	return plan, nil
}

// AdjustGroupSchedule plans one relocation per target date for exactly the
// given participants. Each date is an independent unit: the caller commits
// them one by one and a failure on one date does not undo the others.
// Dates where nobody needs to move come back as no-op plans.
func (e *Engine) AdjustGroupSchedule(led *ledger.Ledger, participantIDs []string, targets map[string]string) []DatePlan {
	plans := make([]DatePlan, 0, len(targets))
	for _, date := range sortedDates(mapKeys(targets)) {
		plans = append(plans, e.adjustDate(led, participantIDs, date, targets[date]))
	}
	return plans
}

func (e *Engine) adjustDate(led *ledger.Ledger, participantIDs []string, date, targetSlotID string) DatePlan {
	dp := DatePlan{Date: date}

	target, ok := e.catalog.Slot(targetSlotID)
	if !ok {
		dp.Err = fmt.Errorf("adjust %s to %s: %w", date, targetSlotID, ErrUnknownSlot)
		return dp
	}
	if target.Date != date {
		dp.Err = fmt.Errorf("adjust %s to %s (on %s): %w", date, targetSlotID, target.Date, ErrDateMismatch)
		return dp
	}

	// Split the group into members already in the target and members that
	// need relocating from their current slot on this date (if any).
	inTarget := 0
	type move struct{ pid, from string }
	var moves []move
	for _, pid := range participantIDs {
		if led.Has(pid, targetSlotID) {
			inTarget++
			continue
		}
		from, _ := e.slotOn(led, pid, date)
		moves = append(moves, move{pid: pid, from: from})
	}
	if len(moves) == 0 {
		dp.Plan.Result.Skipped = append(dp.Plan.Result.Skipped,
			model.Skip{Date: date, Reason: model.SkipNoChange})
		return dp
	}

	// Members of the group already in the target do not count against the
	// headroom the group needs.
	headroom := target.Capacity - (led.Occupancy(targetSlotID) - inTarget)
	if headroom < len(participantIDs) {
		dp.Err = fmt.Errorf("adjust %s: need %d seats in %s, %d free: %w",
			date, len(participantIDs), targetSlotID, headroom, ErrInsufficientCapacity)
		return dp
	}

	for _, m := range moves {
		if m.from != "" {
			dp.Plan.Delta.Removes = append(dp.Plan.Delta.Removes, model.Edge{ParticipantID: m.pid, SlotID: m.from})
		}
		dp.Plan.Delta.Adds = append(dp.Plan.Delta.Adds, model.Edge{ParticipantID: m.pid, SlotID: targetSlotID})
	}
	return dp
}

// ClearDate removes every edge on the date's slots. Clearing an empty
// date is a no-op, never an error.
func (e *Engine) ClearDate(led *ledger.Ledger, date string) (Plan, error) {
	var plan Plan
	for _, slot := range e.catalog.SlotsOn(date) {
		for _, pid := range led.ParticipantsOn(slot.ID) {
			plan.Delta.Removes = append(plan.Delta.Removes, model.Edge{ParticipantID: pid, SlotID: slot.ID})
		}
	}
	return plan, nil
}

// slotOn returns the slot id the participant holds on the date, if any.
// With a manual double booking in place the first slot in scan order wins.
func (e *Engine) slotOn(led *ledger.Ledger, participantID, date string) (string, bool) {
	for _, slot := range e.catalog.SlotsOn(date) {
		if led.Has(participantID, slot.ID) {
			return slot.ID, true
		}
	}
	return "", false
}

// hasSlotOn checks the ledger and the tentative adds of an in-flight plan.
func (e *Engine) hasSlotOn(led *ledger.Ledger, delta *model.Delta, participantID, date string) bool {
	if _, ok := e.slotOn(led, participantID, date); ok {
		return true
	}
	for _, add := range delta.Adds {
		if add.ParticipantID != participantID {
			continue
		}
		if slot, ok := e.catalog.Slot(add.SlotID); ok && slot.Date == date {
			return true
		}
	}
	return false
}

func sortedDates(dates []string) []string {
	out := make([]string, 0, len(dates))
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

func mapKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
