// Package finance implements the safety guard, section P&L, period cost
// breakdown, section insight ranking, and period closing.
package finance

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avicole/farmledger/internal/domain/models"
)

// GuardStore is the subset of the ledger store the safety guard reads.
type GuardStore interface {
	ListBatchesBySection(ctx context.Context, sectionID primitive.ObjectID) ([]models.Batch, error)
	CountIncompleteByBatches(ctx context.Context, batchIDs []primitive.ObjectID) (int64, error)
	CountOpenExpenseIncidentsBySection(ctx context.Context, sectionID primitive.ObjectID) (int64, error)
}

// Guard is the single source of truth for "does this section have unresolved
// financial obligations". Every component deciding whether a section's
// finances can be computed or closed calls it rather than re-deriving the
// checks.
type Guard struct {
	store GuardStore
}

// NewGuard wires a safety guard instance.
func NewGuard(store GuardStore) *Guard {
	return &Guard{store: store}
}

// HasUnresolvedOperations reports whether the section holds any unresolved
// obligation: an INCOMPLETE chick-out on one of its batches, or an
// expense-requiring incident with no expense attached. Either alone blocks.
func (g *Guard) HasUnresolvedOperations(ctx context.Context, sectionID primitive.ObjectID) (bool, error) {
	batches, err := g.store.ListBatchesBySection(ctx, sectionID)
	if err != nil {
		return false, err
	}
	return g.HasUnresolvedForBatches(ctx, sectionID, batchIDs(batches))
}

// HasUnresolvedForBatches is the bulk variant for callers that already hold
// the section's batches.
func (g *Guard) HasUnresolvedForBatches(ctx context.Context, sectionID primitive.ObjectID, batchIDs []primitive.ObjectID) (bool, error) {
	incomplete, err := g.store.CountIncompleteByBatches(ctx, batchIDs)
	if err != nil {
		return false, err
	}
	if incomplete > 0 {
		return true, nil
	}

	openIncidents, err := g.store.CountOpenExpenseIncidentsBySection(ctx, sectionID)
	if err != nil {
		return false, err
	}
	return openIncidents > 0, nil
}

func batchIDs(batches []models.Batch) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(batches))
	for _, batch := range batches {
		ids = append(ids, batch.ID)
	}
	return ids
}
