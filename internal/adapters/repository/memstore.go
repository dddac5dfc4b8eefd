package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
)

// MemStore is an in-memory Store used by tests, demos, and single-session
// runs. Safe for concurrent use.
type MemStore struct {
	mu           sync.RWMutex
	participants map[string][]model.Participant // tour id -> roster
	slots        map[string][]model.Slot        // tour id -> slots
	edges        map[string]map[model.Edge]struct{}
}

// MemOption applies a configuration option to the MemStore.
type MemOption func(*MemStore)

// WithParticipants seeds a tour's roster.
func WithParticipants(tourID string, ps []model.Participant) MemOption {
	return func(m *MemStore) {
		m.participants[tourID] = append(m.participants[tourID], ps...)
	}
}

// WithSlots seeds a tour's slot schedule.
func WithSlots(tourID string, ss []model.Slot) MemOption {
	return func(m *MemStore) {
		m.slots[tourID] = append(m.slots[tourID], ss...)
	}
}

// WithInitialEdges seeds a tour's edge set.
func WithInitialEdges(tourID string, es []model.Edge) MemOption {
	return func(m *MemStore) {
		for _, e := range es {
			m.edgeSet(tourID)[e] = struct{}{}
		}
	}
}

// NewMemStore creates an empty in-memory store, applying any options.
func NewMemStore(opts ...MemOption) *MemStore {
	m := &MemStore{
		participants: make(map[string][]model.Participant),
		slots:        make(map[string][]model.Slot),
		edges:        make(map[string]map[model.Edge]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemStore) edgeSet(tourID string) map[model.Edge]struct{} {
	if m.edges[tourID] == nil {
		m.edges[tourID] = make(map[model.Edge]struct{})
	}
	return m.edges[tourID]
}

// InsertEdge implements Store.
func (m *MemStore) InsertEdge(_ context.Context, tourID, participantID, slotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := model.Edge{ParticipantID: participantID, SlotID: slotID}
	set := m.edgeSet(tourID)
	if _, ok := set[e]; ok {
		return ErrEdgeExists
	}
	set[e] = struct{}{}
	return nil
}

// DeleteEdge implements Store.
func (m *MemStore) DeleteEdge(_ context.Context, tourID, participantID, slotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := model.Edge{ParticipantID: participantID, SlotID: slotID}
	set := m.edgeSet(tourID)
	if _, ok := set[e]; !ok {
		return ErrEdgeMissing
	}
	delete(set, e)
	return nil
}

// ListEdges implements Store. Edges come back in a stable order.
func (m *MemStore) ListEdges(_ context.Context, tourID string) ([]model.Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Edge, 0, len(m.edges[tourID]))
	for e := range m.edges[tourID] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ParticipantID != out[j].ParticipantID {
			return out[i].ParticipantID < out[j].ParticipantID
		}
		return out[i].SlotID < out[j].SlotID
	})
	return out, nil
}

// ListParticipants implements Store.
func (m *MemStore) ListParticipants(_ context.Context, tourID string) ([]model.Participant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Participant, len(m.participants[tourID]))
	copy(out, m.participants[tourID])
	return out, nil
}

// ListSlots implements Store.
func (m *MemStore) ListSlots(_ context.Context, tourID string) ([]model.Slot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Slot, len(m.slots[tourID]))
	copy(out, m.slots[tourID])
	return out, nil
}

// UpsertParticipant implements ParticipantWriter.
func (m *MemStore) UpsertParticipant(_ context.Context, tourID string, p model.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.participants[tourID] {
		if existing.ID == p.ID {
			m.participants[tourID][i] = p
			return nil
		}
	}
	m.participants[tourID] = append(m.participants[tourID], p)
	return nil
}

// UpsertSlot implements SlotWriter.
func (m *MemStore) UpsertSlot(_ context.Context, s model.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.slots[s.TourID] {
		if existing.ID == s.ID {
			m.slots[s.TourID][i] = s
			return nil
		}
	}
	m.slots[s.TourID] = append(m.slots[s.TourID], s)
	return nil
}
