package finance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avicole/farmledger/internal/domain/apperr"
	"github.com/avicole/farmledger/internal/domain/models"
)

func TestSectionPLEmptySection(t *testing.T) {
	store := newFakeStore()
	sectionID := store.addSection("B1")
	svc := newTestService(store)

	pl, err := svc.SectionPL(context.Background(), sectionID)
	require.NoError(t, err)

	assert.Equal(t, 0.0, pl.TotalRevenue, "absence of revenue is not an error")
	assert.Equal(t, 0.0, pl.TotalExpenses)
	assert.Equal(t, 0.0, pl.Profit)
	assert.False(t, pl.IsProfitable)
	assert.Nil(t, pl.Metrics.CostPerAliveChick)
	assert.Nil(t, pl.Metrics.RevenuePerSoldChick)
	assert.Nil(t, pl.Metrics.ProfitPerSoldChick)
}

func TestSectionPLComputesTotalsAndMetrics(t *testing.T) {
	store := newFakeStore()
	sectionID := store.addSection("B1")
	periodID := store.addActivePeriod(sectionID)
	batchID := store.addBatch(sectionID, 2000)
	store.addCompleteChickOut(batchID, 3000, 9000000)
	store.addCompleteChickOut(batchID, 1000, 2500000)
	store.addExpense(periodID, &sectionID, models.CategoryFeed, 4000000)
	store.addExpense(periodID, &sectionID, models.CategoryWater, 500000)
	svc := newTestService(store)

	pl, err := svc.SectionPL(context.Background(), sectionID)
	require.NoError(t, err)

	assert.Equal(t, 11500000.0, pl.TotalRevenue)
	assert.Equal(t, 4500000.0, pl.TotalExpenses)
	assert.Equal(t, 7000000.0, pl.Profit)
	assert.True(t, pl.IsProfitable)

	require.NotNil(t, pl.Metrics.CostPerAliveChick)
	assert.Equal(t, 2250.0, *pl.Metrics.CostPerAliveChick) // 4,500,000 / 2,000
	require.NotNil(t, pl.Metrics.RevenuePerSoldChick)
	assert.Equal(t, 2875.0, *pl.Metrics.RevenuePerSoldChick) // 11,500,000 / 4,000
	require.NotNil(t, pl.Metrics.ProfitPerSoldChick)
	assert.Equal(t, 1750.0, *pl.Metrics.ProfitPerSoldChick)
}

func TestSectionPLBreakEvenIsNotProfitable(t *testing.T) {
	store := newFakeStore()
	sectionID := store.addSection("B1")
	periodID := store.addActivePeriod(sectionID)
	batchID := store.addBatch(sectionID, 100)
	store.addCompleteChickOut(batchID, 100, 250000)
	store.addExpense(periodID, &sectionID, models.CategoryFeed, 250000)
	svc := newTestService(store)

	pl, err := svc.SectionPL(context.Background(), sectionID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pl.Profit)
	assert.False(t, pl.IsProfitable, "break-even is not profitable")
}

func TestSectionPLBlockedByIncompleteChickOut(t *testing.T) {
	store := newFakeStore()
	sectionID := store.addSection("B1")
	batchID := store.addBatch(sectionID, 100)
	store.addCompleteChickOut(batchID, 500, 1000000)
	store.addIncompleteChickOut(batchID, 100)
	svc := newTestService(store)

	_, err := svc.SectionPL(context.Background(), sectionID)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, "section has unresolved financial operations", err.Error())
}

func TestSectionPLBlockedByOpenIncident(t *testing.T) {
	store := newFakeStore()
	sectionID := store.addSection("B1")
	store.addIncident(sectionID, true, nil)
	svc := newTestService(store)

	_, err := svc.SectionPL(context.Background(), sectionID)
	assert.True(t, apperr.IsConflict(err))
}

func TestSectionPLNotFound(t *testing.T) {
	svc := newTestService(newFakeStore())
	_, err := svc.SectionPL(context.Background(), primitive.NewObjectID())
	assert.True(t, apperr.IsNotFound(err))
}

func TestSectionPLIsIdempotent(t *testing.T) {
	store := newFakeStore()
	sectionID := store.addSection("B1")
	periodID := store.addActivePeriod(sectionID)
	batchID := store.addBatch(sectionID, 750)
	store.addCompleteChickOut(batchID, 1250, 3375000)
	store.addExpense(periodID, &sectionID, models.CategoryMedicine, 120000.55)
	svc := newTestService(store)

	first, err := svc.SectionPL(context.Background(), sectionID)
	require.NoError(t, err)
	second, err := svc.SectionPL(context.Background(), sectionID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAllSectionsPLForPeriodIsolatesFailures(t *testing.T) {
	store := newFakeStore()
	healthyID := store.addSection("B1")
	blockedID := store.addSection("B2")
	periodID := store.addActivePeriod(healthyID, blockedID)

	healthyBatch := store.addBatch(healthyID, 100)
	store.addCompleteChickOut(healthyBatch, 100, 500000)
	blockedBatch := store.addBatch(blockedID, 100)
	store.addIncompleteChickOut(blockedBatch, 50)

	svc := newTestService(store)
	outcomes, err := svc.AllSectionsPLForPeriod(context.Background(), periodID)
	require.NoError(t, err, "one blocked section must not abort the batch")
	require.Len(t, outcomes, 2)

	assert.NotNil(t, outcomes[0].PL)
	assert.Empty(t, outcomes[0].Error)
	assert.Nil(t, outcomes[1].PL)
	assert.Equal(t, "section has unresolved financial operations", outcomes[1].Error)
}

func TestAllSectionsPLForPeriodAllFailed(t *testing.T) {
	store := newFakeStore()
	firstID := store.addSection("B1")
	secondID := store.addSection("B2")
	periodID := store.addActivePeriod(firstID, secondID)
	store.addIncident(firstID, true, nil)
	store.addIncident(secondID, true, nil)

	svc := newTestService(store)
	_, err := svc.AllSectionsPLForPeriod(context.Background(), periodID)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestAllSectionsPLForPeriodNotFound(t *testing.T) {
	svc := newTestService(newFakeStore())
	_, err := svc.AllSectionsPLForPeriod(context.Background(), primitive.NewObjectID())
	assert.True(t, apperr.IsNotFound(err))
}
