// Package repository defines the persistent store contract for tours:
// participants, slots, and the assignment edges between them. Edge
// primitives are idempotent at the contract level — a duplicate insert
// reports ErrEdgeExists and a missing delete reports ErrEdgeMissing, both
// of which mean the desired end state already holds.
package repository

import (
	"context"

	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
)

// Store provides read/write access to a tour's assignment state.
type Store interface {
	// InsertEdge creates the edge. Returns ErrEdgeExists if it is already
	// present (the store's unique constraint is the authority).
	InsertEdge(ctx context.Context, tourID, participantID, slotID string) error

	// DeleteEdge removes the edge. Returns ErrEdgeMissing if absent.
	DeleteEdge(ctx context.Context, tourID, participantID, slotID string) error

	// ListEdges returns every edge of the tour.
	ListEdges(ctx context.Context, tourID string) ([]model.Edge, error)

	// ListParticipants returns the tour roster.
	ListParticipants(ctx context.Context, tourID string) ([]model.Participant, error)

	// ListSlots returns the tour's tee-time slots.
	ListSlots(ctx context.Context, tourID string) ([]model.Slot, error)
}

// ParticipantWriter is implemented by stores that accept roster imports.
type ParticipantWriter interface {
	UpsertParticipant(ctx context.Context, tourID string, p model.Participant) error
}

// SlotWriter is implemented by stores that accept schedule setup.
type SlotWriter interface {
	UpsertSlot(ctx context.Context, s model.Slot) error
}
