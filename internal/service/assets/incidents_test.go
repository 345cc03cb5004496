package assets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avicole/farmledger/internal/domain/apperr"
	"github.com/avicole/farmledger/internal/domain/models"
)

func seedAssetInSection(store *fakeStore, sectionID primitive.ObjectID) models.Asset {
	asset, _ := store.InsertAsset(context.Background(), models.Asset{
		Name:      "brooder",
		Status:    models.AssetActive,
		SectionID: &sectionID,
	})
	return asset
}

func TestReportIncidentCopiesSection(t *testing.T) {
	store := newFakeStore()
	sectionID, _ := seedSectionWithActivePeriod(store)
	asset := seedAssetInSection(store, sectionID)
	svc := NewService(store, &fakePoster{}, nil)

	incident, err := svc.ReportIncident(context.Background(), ReportIncidentInput{
		AssetID:         asset.ID,
		Description:     "belt snapped on line 2",
		RequiresExpense: true,
		Reporter:        "tech-1",
	})
	require.NoError(t, err)

	assert.False(t, incident.Resolved)
	assert.Nil(t, incident.ExpenseID)
	require.NotNil(t, incident.SectionID)
	assert.Equal(t, sectionID, *incident.SectionID)
}

func TestReportIncidentValidation(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakePoster{}, nil)

	_, err := svc.ReportIncident(context.Background(), ReportIncidentInput{
		AssetID:     primitive.NewObjectID(),
		Description: "bad",
	})
	assert.True(t, apperr.IsInvalidArgument(err))

	_, err = svc.ReportIncident(context.Background(), ReportIncidentInput{
		AssetID:     primitive.NewObjectID(),
		Description: "motor overheating",
	})
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreateRepairExpenseResolvesIncidentExactlyOnce(t *testing.T) {
	store := newFakeStore()
	sectionID, periodID := seedSectionWithActivePeriod(store)
	asset := seedAssetInSection(store, sectionID)
	poster := &fakePoster{}
	svc := NewService(store, poster, nil)

	incident, err := svc.ReportIncident(context.Background(), ReportIncidentInput{
		AssetID:         asset.ID,
		Description:     "pump seal leaking",
		RequiresExpense: true,
		Reporter:        "tech-1",
	})
	require.NoError(t, err)

	expense, err := svc.CreateRepairExpense(context.Background(), CreateRepairExpenseInput{
		IncidentID:  incident.ID,
		Amount:      75000,
		Description: "replacement seal kit",
		Actor:       "manager-1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryAssetRepair, expense.Category)
	assert.Equal(t, periodID, expense.PeriodID)

	stored := store.incidents[incident.ID]
	assert.True(t, stored.Resolved)
	require.NotNil(t, stored.ExpenseID)
	require.NotNil(t, stored.PeriodID)
	assert.Equal(t, periodID, *stored.PeriodID)

	// Second attempt always fails the at-most-one guard.
	_, err = svc.CreateRepairExpense(context.Background(), CreateRepairExpenseInput{
		IncidentID:  incident.ID,
		Amount:      500,
		Description: "duplicate attempt",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, "incident already has an expense attached", err.Error())
	assert.Len(t, poster.posted, 1)
}

func TestCreateRepairExpenseFailures(t *testing.T) {
	store := newFakeStore()
	sectionID, _ := seedSectionWithActivePeriod(store)
	asset := seedAssetInSection(store, sectionID)
	svc := NewService(store, &fakePoster{}, nil)

	t.Run("incident not found", func(t *testing.T) {
		_, err := svc.CreateRepairExpense(context.Background(), CreateRepairExpenseInput{
			IncidentID: primitive.NewObjectID(), Amount: 100, Description: "valid text",
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("incident does not require an expense", func(t *testing.T) {
		incident, err := svc.ReportIncident(context.Background(), ReportIncidentInput{
			AssetID: asset.ID, Description: "loose bolt on frame", RequiresExpense: false,
		})
		require.NoError(t, err)

		_, err = svc.CreateRepairExpense(context.Background(), CreateRepairExpenseInput{
			IncidentID: incident.ID, Amount: 100, Description: "valid text",
		})
		require.Error(t, err)
		assert.True(t, apperr.IsConflict(err))
		assert.Equal(t, "incident does not require an expense", err.Error())
	})

	t.Run("short description", func(t *testing.T) {
		incident, err := svc.ReportIncident(context.Background(), ReportIncidentInput{
			AssetID: asset.ID, Description: "fan blade cracked", RequiresExpense: true,
		})
		require.NoError(t, err)

		_, err = svc.CreateRepairExpense(context.Background(), CreateRepairExpenseInput{
			IncidentID: incident.ID, Amount: 100, Description: "abc",
		})
		assert.True(t, apperr.IsInvalidArgument(err))
	})

	t.Run("section without active period", func(t *testing.T) {
		bareSectionID := primitive.NewObjectID()
		store.sections[bareSectionID] = models.Section{ID: bareSectionID}
		bareAsset := seedAssetInSection(store, bareSectionID)

		incident, err := svc.ReportIncident(context.Background(), ReportIncidentInput{
			AssetID: bareAsset.ID, Description: "drinker valve stuck", RequiresExpense: true,
		})
		require.NoError(t, err)

		_, err = svc.CreateRepairExpense(context.Background(), CreateRepairExpenseInput{
			IncidentID: incident.ID, Amount: 100, Description: "valve replacement",
		})
		require.Error(t, err)
		assert.True(t, apperr.IsConflict(err))
		assert.Equal(t, "section has no active period", err.Error())
	})

	t.Run("unsectioned incident needs explicit period", func(t *testing.T) {
		sharedAsset, _ := store.InsertAsset(context.Background(), models.Asset{Status: models.AssetActive})
		incident, err := svc.ReportIncident(context.Background(), ReportIncidentInput{
			AssetID: sharedAsset.ID, Description: "generator misfiring", RequiresExpense: true,
		})
		require.NoError(t, err)

		_, err = svc.CreateRepairExpense(context.Background(), CreateRepairExpenseInput{
			IncidentID: incident.ID, Amount: 100, Description: "spark plug set",
		})
		assert.True(t, apperr.IsInvalidArgument(err))
	})
}

func TestResolveIncidentDirectly(t *testing.T) {
	store := newFakeStore()
	sectionID, _ := seedSectionWithActivePeriod(store)
	asset := seedAssetInSection(store, sectionID)
	svc := NewService(store, &fakePoster{}, nil)

	incident, err := svc.ReportIncident(context.Background(), ReportIncidentInput{
		AssetID: asset.ID, Description: "hinge squeaking badly", RequiresExpense: false,
	})
	require.NoError(t, err)

	require.NoError(t, svc.ResolveIncident(context.Background(), incident.ID, "tech-1"))
	assert.True(t, store.incidents[incident.ID].Resolved)

	err = svc.ResolveIncident(context.Background(), incident.ID, "tech-1")
	assert.True(t, apperr.IsConflict(err))
}

func TestResolveIncidentRefusesOpenExpenseObligation(t *testing.T) {
	store := newFakeStore()
	sectionID, _ := seedSectionWithActivePeriod(store)
	asset := seedAssetInSection(store, sectionID)
	svc := NewService(store, &fakePoster{}, nil)

	incident, err := svc.ReportIncident(context.Background(), ReportIncidentInput{
		AssetID: asset.ID, Description: "conveyor motor burned", RequiresExpense: true,
	})
	require.NoError(t, err)

	err = svc.ResolveIncident(context.Background(), incident.ID, "tech-1")
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.False(t, store.incidents[incident.ID].Resolved)
}
