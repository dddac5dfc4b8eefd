package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/whalechillz/go-singsing-sub000/internal/adapters/repository"
	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
	"github.com/whalechillz/go-singsing-sub000/pkg/logger"
	"github.com/whalechillz/go-singsing-sub000/pkg/metrics"
)

// coordinator applies validated deltas to the backing store as a sequence
// of idempotent primitives. Removes go first so a relocation frees its
// source before filling its target. On the first real failure it stops
// issuing primitives; the service then reloads the ledger wholesale.
//
// Duplicate-insert and missing-delete responses are success: the edge is
// already in the desired end state (this is also what resolves two retried
// inserts racing at the store — both land on the same row).
type coordinator struct {
	store  repository.Store
	tourID string
	log    logger.Logger
}

// apply issues the delta's primitives in order. Returns the number of
// primitives whose end state is confirmed; err is non-nil if the batch
// was cut short.
func (c *coordinator) apply(ctx context.Context, d model.Delta) (int, error) {
	confirmed := 0
	for _, e := range d.Removes {
		err := c.store.DeleteEdge(ctx, c.tourID, e.ParticipantID, e.SlotID)
		if err != nil && !errors.Is(err, repository.ErrEdgeMissing) {
			metrics.RecordStoreFailure()
			return confirmed, fmt.Errorf("delete edge (%s, %s): %w", e.ParticipantID, e.SlotID, err)
		}
		confirmed++
	}
	for _, e := range d.Adds {
		err := c.store.InsertEdge(ctx, c.tourID, e.ParticipantID, e.SlotID)
		if errors.Is(err, repository.ErrEdgeExists) {
			c.log.Debug(ctx, "duplicate edge insert resolved as success",
				logger.String("participant", e.ParticipantID),
				logger.String("slot", e.SlotID))
			err = nil
		}
		if err != nil {
			metrics.RecordStoreFailure()
			return confirmed, fmt.Errorf("insert edge (%s, %s): %w", e.ParticipantID, e.SlotID, err)
		}
		confirmed++
	}
	return confirmed, nil
}

// reload rebuilds the full edge set from the store.
func (c *coordinator) reload(ctx context.Context) ([]model.Edge, error) {
	edges, err := c.store.ListEdges(ctx, c.tourID)
	if err != nil {
		return nil, fmt.Errorf("reload edges: %w", err)
	}
	metrics.RecordReload()
	return edges, nil
}
