// Package app provides the tee-time assignment service: it wires the slot
// catalog, the roster, the assignment ledger and the allocation engine to
// a persistent edge store, and exposes the command API the console calls.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/whalechillz/go-singsing-sub000/internal/adapters/repository"
	"github.com/whalechillz/go-singsing-sub000/internal/domain/engine"
	"github.com/whalechillz/go-singsing-sub000/internal/domain/ledger"
	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
	"github.com/whalechillz/go-singsing-sub000/pkg/logger"
	"github.com/whalechillz/go-singsing-sub000/pkg/metrics"
)

// Service owns the canonical in-memory assignment state for one tour and
// serializes every mutation through validate -> persist -> project. Only
// the engine's confirmed deltas (or a full reload) ever touch the ledger.
type Service struct {
	mu sync.RWMutex

	tourID string
	store  repository.Store
	coord  *coordinator

	catalog *engine.Catalog
	engine  *engine.Engine
	led     *ledger.Ledger
	roster  []model.Participant
	byID    map[string]model.Participant

	started bool
	reloads int

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTourID sets the tour this service manages.
func WithTourID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.tourID = id
		}
	}
}

// WithStore sets the backing edge store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs a Service. A store must be supplied before Start.
func New(opts ...Option) *Service {
	s := &Service{
		tourID: "default",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the roster, the slot catalog, and the edge set from the
// store and builds the in-memory state.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
		s.log.Warn(ctx, "no store configured, using in-memory store")
	}
	s.coord = &coordinator{store: s.store, tourID: s.tourID, log: s.log}

	if err := s.loadRosterLocked(ctx); err != nil {
		return err
	}
	slots, err := s.store.ListSlots(ctx, s.tourID)
	if err != nil {
		return fmt.Errorf("load slots: %w", err)
	}
	edges, err := s.store.ListEdges(ctx, s.tourID)
	if err != nil {
		return fmt.Errorf("load edges: %w", err)
	}

	s.catalog = engine.NewCatalog(slots)
	s.engine = engine.New(s.catalog)
	s.led = ledger.New(ledger.WithEdges(edges))
	s.started = true

	metrics.UpdateTrackedParticipants(len(s.roster))
	metrics.UpdateTrackedSlots(s.catalog.Len())
	metrics.UpdateTrackedEdges(s.led.Len())

	s.log.Info(ctx, "assignment service started",
		logger.String("tour", s.tourID),
		logger.Int("participants", len(s.roster)),
		logger.Int("slots", s.catalog.Len()),
		logger.Int("edges", s.led.Len()),
	)
	return nil
}

// Stop releases the store if it owns external resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.started = false
	s.log.Info(context.Background(), "assignment service stopped")
}

func (s *Service) loadRosterLocked(ctx context.Context) error {
	roster, err := s.store.ListParticipants(ctx, s.tourID)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	s.roster = roster
	s.byID = make(map[string]model.Participant, len(roster))
	for _, p := range roster {
		s.byID[p.ID] = p
	}
	return nil
}

// Toggle flips one (participant, slot) edge.
func (s *Service) Toggle(ctx context.Context, participantID, slotID string) (model.CommandResult, error) {
	return s.run(ctx, "toggle", func() (engine.Plan, error) {
		return s.engine.Toggle(s.led, participantID, slotID)
	})
}

// BulkAssign packs the participants into the given dates first-fit; with
// allDates every catalog date is targeted.
func (s *Service) BulkAssign(ctx context.Context, participantIDs, dates []string, allDates bool) (model.CommandResult, error) {
	mode := engine.ModeSpecific
	if allDates {
		mode = engine.ModeAllDates
	}
	return s.run(ctx, "bulk_assign", func() (engine.Plan, error) {
		return s.engine.BulkAssign(s.led, participantIDs, dates, mode)
	})
}

// AutoAssign packs every fully-unassigned participant into all dates.
func (s *Service) AutoAssign(ctx context.Context) (model.CommandResult, error) {
	return s.run(ctx, "auto_assign", func() (engine.Plan, error) {
		return s.engine.AutoAssign(s.led, s.roster)
	})
}

// MoveGroup relocates every occupant of one slot to another, all or nothing.
func (s *Service) MoveGroup(ctx context.Context, fromSlotID, toSlotID string) (model.CommandResult, error) {
	return s.run(ctx, "move_group", func() (engine.Plan, error) {
		return s.engine.MoveGroup(s.led, fromSlotID, toSlotID)
	})
}

// ClearDate removes every assignment on the given date.
func (s *Service) ClearDate(ctx context.Context, date string) (model.CommandResult, error) {
	return s.run(ctx, "clear_date", func() (engine.Plan, error) {
		return s.engine.ClearDate(s.led, date)
	})
}

// AdjustGroupSchedule relocates exactly the given participants per date.
// Dates commit independently in ascending order: a validation failure on
// one date is reported and skipped, and a persistence failure stops the
// remaining dates after the ledger has been resynchronized. Dates already
// committed are not rolled back.
func (s *Service) AdjustGroupSchedule(ctx context.Context, participantIDs []string, targets map[string]string) (model.CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() {
		metrics.ObserveCommandDuration("adjust_schedule", time.Since(start).Seconds())
	}()

	var res model.CommandResult
	if !s.started {
		return res, ErrNotStarted
	}

	for _, dp := range s.engine.AdjustGroupSchedule(s.led, participantIDs, targets) {
		if dp.Err != nil {
			metrics.RecordValidationRejected(errorKind(dp.Err))
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", dp.Date, dp.Err))
			continue
		}
		dateRes, err := s.commitLocked(ctx, dp.Plan)
		res.Merge(dateRes)
		if err != nil {
			metrics.RecordCommand("adjust_schedule", "persistence_error")
			return res, err
		}
	}
	metrics.RecordCommand("adjust_schedule", "ok")
	return res, nil
}

// Refresh discards the in-memory ledger and rebuilds it from the store.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	edges, err := s.coord.reload(ctx)
	if err != nil {
		return err
	}
	s.led = ledger.New(ledger.WithEdges(edges))
	s.reloads++
	metrics.UpdateTrackedEdges(s.led.Len())
	s.log.Info(ctx, "ledger refreshed from store", logger.Int("edges", s.led.Len()))
	return nil
}

// ImportRoster persists imported participants and reloads the roster.
func (s *Service) ImportRoster(ctx context.Context, participants []model.Participant) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return 0, ErrNotStarted
	}
	writer, ok := s.store.(repository.ParticipantWriter)
	if !ok {
		return 0, ErrImportUnsupported
	}
	for i, p := range participants {
		if err := writer.UpsertParticipant(ctx, s.tourID, p); err != nil {
			return i, fmt.Errorf("import participant %s: %w", p.Name, err)
		}
	}
	if err := s.loadRosterLocked(ctx); err != nil {
		return len(participants), err
	}
	metrics.UpdateTrackedParticipants(len(s.roster))
	s.log.Info(ctx, "roster imported",
		logger.Int("imported", len(participants)),
		logger.Int("roster", len(s.roster)))
	return len(participants), nil
}

// run executes a single-plan command under the service lock.
func (s *Service) run(ctx context.Context, command string, plan func() (engine.Plan, error)) (model.CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() {
		metrics.ObserveCommandDuration(command, time.Since(start).Seconds())
	}()

	if !s.started {
		return model.CommandResult{}, ErrNotStarted
	}

	p, err := plan()
	if err != nil {
		metrics.RecordCommand(command, "validation_error")
		metrics.RecordValidationRejected(errorKind(err))
		return model.CommandResult{}, err
	}

	res, err := s.commitLocked(ctx, p)
	if err != nil {
		metrics.RecordCommand(command, "persistence_error")
		return res, err
	}
	metrics.RecordCommand(command, "ok")
	return res, nil
}

// commitLocked persists a validated plan and projects it onto the ledger.
// On a store failure the ledger is rebuilt from the store wholesale; no
// in-memory rollback of a partially applied delta is attempted.
func (s *Service) commitLocked(ctx context.Context, p engine.Plan) (model.CommandResult, error) {
	res := p.Result
	if p.Delta.Empty() {
		return res, nil
	}

	if _, err := s.coord.apply(ctx, p.Delta); err != nil {
		s.log.Error(ctx, "delta aborted, resynchronizing", logger.Error(err))
		return res, s.resyncLocked(ctx, p.Delta, err)
	}

	s.led.Apply(p.Delta)
	res.Applied = appliedCount(p.Delta)
	metrics.RecordEdgesAdded(len(p.Delta.Adds))
	metrics.RecordEdgesRemoved(len(p.Delta.Removes))
	metrics.UpdateTrackedEdges(s.led.Len())
	return res, nil
}

// resyncLocked reloads the ledger after an aborted delta and reports
// whether the store held foreign writes beyond the delta itself.
func (s *Service) resyncLocked(ctx context.Context, aborted model.Delta, cause error) error {
	edges, err := s.coord.reload(ctx)
	if err != nil {
		// The store is unreachable; keep the pre-command ledger, which is
		// the last state the store confirmed in full.
		return errors.Join(ErrPersistenceFailure, cause, err)
	}

	old := s.led
	s.led = ledger.New(ledger.WithEdges(edges))
	s.reloads++
	metrics.UpdateTrackedEdges(s.led.Len())

	if foreign := foreignWrites(old, s.led, aborted); foreign {
		metrics.RecordStaleState()
		s.log.Warn(ctx, "reload revealed foreign writes", logger.String("tour", s.tourID))
		return errors.Join(ErrPersistenceFailure, ErrStaleState, cause)
	}
	return errors.Join(ErrPersistenceFailure, cause)
}

// foreignWrites reports whether fresh differs from old in any edge the
// aborted delta did not touch.
func foreignWrites(old, fresh *ledger.Ledger, aborted model.Delta) bool {
	touched := make(map[model.Edge]struct{}, aborted.Size())
	for _, e := range aborted.Adds {
		touched[e] = struct{}{}
	}
	for _, e := range aborted.Removes {
		touched[e] = struct{}{}
	}
	for _, e := range old.Edges() {
		if _, ok := touched[e]; ok {
			continue
		}
		if !fresh.Has(e.ParticipantID, e.SlotID) {
			return true
		}
	}
	for _, e := range fresh.Edges() {
		if _, ok := touched[e]; ok {
			continue
		}
		if !old.Has(e.ParticipantID, e.SlotID) {
			return true
		}
	}
	return false
}

// appliedCount reports the edge changes a command is credited with:
// assignments created when the delta adds, removals otherwise.
func appliedCount(d model.Delta) int {
	if len(d.Adds) > 0 {
		return len(d.Adds)
	}
	return len(d.Removes)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, engine.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, engine.ErrInsufficientCapacity):
		return "insufficient_capacity"
	case errors.Is(err, engine.ErrEmptySource):
		return "empty_source"
	case errors.Is(err, engine.ErrUnknownSlot):
		return "unknown_slot"
	case errors.Is(err, engine.ErrDateMismatch):
		return "date_mismatch"
	default:
		return "other"
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started": s.started,
		"tour_id": s.tourID,
	}
	if s.started {
		stats["participants"] = len(s.roster)
		stats["slots"] = s.catalog.Len()
		stats["edges"] = s.led.Len()
		stats["dates"] = len(s.catalog.Dates())
		stats["reloads"] = s.reloads
	}
	return stats
}
