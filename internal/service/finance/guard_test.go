package finance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGuardCleanSection(t *testing.T) {
	store := newFakeStore()
	sectionID := store.addSection("B1")
	batchID := store.addBatch(sectionID, 1000)
	store.addCompleteChickOut(batchID, 500, 1000000)
	store.addIncident(sectionID, true, objectIDPtr(primitive.NewObjectID())) // settled
	store.addIncident(sectionID, false, nil)                                 // no expense owed

	guard := NewGuard(store)
	blocked, err := guard.HasUnresolvedOperations(context.Background(), sectionID)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestGuardBlockedByIncompleteChickOut(t *testing.T) {
	store := newFakeStore()
	sectionID := store.addSection("B1")
	batchID := store.addBatch(sectionID, 1000)
	store.addCompleteChickOut(batchID, 500, 1000000)
	store.addIncompleteChickOut(batchID, 200)

	guard := NewGuard(store)
	blocked, err := guard.HasUnresolvedOperations(context.Background(), sectionID)
	require.NoError(t, err)
	assert.True(t, blocked, "an INCOMPLETE chick-out alone must block")
}

func TestGuardBlockedByOpenExpenseIncident(t *testing.T) {
	store := newFakeStore()
	sectionID := store.addSection("B1")
	store.addIncident(sectionID, true, nil)

	guard := NewGuard(store)
	blocked, err := guard.HasUnresolvedOperations(context.Background(), sectionID)
	require.NoError(t, err)
	assert.True(t, blocked, "an expense-owing incident alone must block")
}

func TestGuardIgnoresOtherSections(t *testing.T) {
	store := newFakeStore()
	sectionID := store.addSection("B1")
	otherID := store.addSection("B2")
	otherBatch := store.addBatch(otherID, 500)
	store.addIncompleteChickOut(otherBatch, 100)
	store.addIncident(otherID, true, nil)

	guard := NewGuard(store)
	blocked, err := guard.HasUnresolvedOperations(context.Background(), sectionID)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func objectIDPtr(id primitive.ObjectID) *primitive.ObjectID { return &id }
