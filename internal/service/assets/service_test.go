package assets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avicole/farmledger/internal/domain/apperr"
	"github.com/avicole/farmledger/internal/domain/models"
	"github.com/avicole/farmledger/internal/service/ledger"
)

type fakeStore struct {
	assets    map[primitive.ObjectID]models.Asset
	incidents map[primitive.ObjectID]models.TechnicalIncident
	sections  map[primitive.ObjectID]models.Section
	periods   map[primitive.ObjectID]models.Period
	history   []models.AssetHistory
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		assets:    map[primitive.ObjectID]models.Asset{},
		incidents: map[primitive.ObjectID]models.TechnicalIncident{},
		sections:  map[primitive.ObjectID]models.Section{},
		periods:   map[primitive.ObjectID]models.Period{},
	}
}

func (f *fakeStore) InsertAsset(_ context.Context, asset models.Asset) (models.Asset, error) {
	asset.ID = primitive.NewObjectID()
	f.assets[asset.ID] = asset
	return asset, nil
}

func (f *fakeStore) FindAssetByID(_ context.Context, id primitive.ObjectID) (*models.Asset, error) {
	asset, ok := f.assets[id]
	if !ok {
		return nil, nil
	}
	return &asset, nil
}

func (f *fakeStore) UpdateAssetStatus(_ context.Context, id primitive.ObjectID, from, to models.AssetStatus) (bool, error) {
	asset, ok := f.assets[id]
	if !ok || asset.Status != from {
		return false, nil
	}
	asset.Status = to
	f.assets[id] = asset
	return true, nil
}

func (f *fakeStore) InsertAssetHistory(_ context.Context, entry models.AssetHistory) error {
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeStore) InsertIncident(_ context.Context, incident models.TechnicalIncident) (models.TechnicalIncident, error) {
	incident.ID = primitive.NewObjectID()
	f.incidents[incident.ID] = incident
	return incident, nil
}

func (f *fakeStore) FindIncidentByID(_ context.Context, id primitive.ObjectID) (*models.TechnicalIncident, error) {
	incident, ok := f.incidents[id]
	if !ok {
		return nil, nil
	}
	return &incident, nil
}

func (f *fakeStore) AttachIncidentExpense(_ context.Context, incidentID, expenseID, periodID primitive.ObjectID, at time.Time) (bool, error) {
	incident, ok := f.incidents[incidentID]
	if !ok || incident.ExpenseID != nil {
		return false, nil
	}
	incident.ExpenseID = &expenseID
	incident.PeriodID = &periodID
	incident.Resolved = true
	incident.ResolvedAt = &at
	f.incidents[incidentID] = incident
	return true, nil
}

func (f *fakeStore) ResolveIncident(_ context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	incident, ok := f.incidents[id]
	if !ok || incident.Resolved {
		return false, nil
	}
	incident.Resolved = true
	incident.ResolvedAt = &at
	f.incidents[id] = incident
	return true, nil
}

func (f *fakeStore) FindSectionByID(_ context.Context, id primitive.ObjectID) (*models.Section, error) {
	section, ok := f.sections[id]
	if !ok {
		return nil, nil
	}
	return &section, nil
}

func (f *fakeStore) FindPeriodByID(_ context.Context, id primitive.ObjectID) (*models.Period, error) {
	period, ok := f.periods[id]
	if !ok {
		return nil, nil
	}
	return &period, nil
}

type fakePoster struct {
	posted []ledger.PostExpenseInput
	err    error
}

func (f *fakePoster) PostExpense(_ context.Context, input ledger.PostExpenseInput) (models.PeriodExpense, error) {
	if f.err != nil {
		return models.PeriodExpense{}, f.err
	}
	f.posted = append(f.posted, input)
	return models.PeriodExpense{
		ID:       primitive.NewObjectID(),
		PeriodID: input.PeriodID,
		Category: input.Category,
		Amount:   input.Amount,
	}, nil
}

func floatPtr(v float64) *float64 { return &v }

func seedSectionWithActivePeriod(store *fakeStore) (primitive.ObjectID, primitive.ObjectID) {
	periodID := primitive.NewObjectID()
	store.periods[periodID] = models.Period{
		ID:        periodID,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:    models.PeriodActive,
	}
	sectionID := primitive.NewObjectID()
	store.sections[sectionID] = models.Section{ID: sectionID, Name: "B1", ActivePeriodID: &periodID}
	return sectionID, periodID
}

func TestCreateAssetPurchasePairing(t *testing.T) {
	svc := NewService(newFakeStore(), &fakePoster{}, nil)

	_, err := svc.CreateAsset(context.Background(), CreateAssetInput{Name: "pump", IsNewPurchase: true})
	assert.True(t, apperr.IsInvalidArgument(err))

	_, err = svc.CreateAsset(context.Background(), CreateAssetInput{Name: "pump", PurchaseCost: floatPtr(100)})
	assert.True(t, apperr.IsInvalidArgument(err))

	_, err = svc.CreateAsset(context.Background(), CreateAssetInput{Name: "pump", IsNewPurchase: true, PurchaseCost: floatPtr(-5)})
	assert.True(t, apperr.IsInvalidArgument(err))
}

func TestCreateAssetPostsCapitalExpense(t *testing.T) {
	store := newFakeStore()
	sectionID, periodID := seedSectionWithActivePeriod(store)
	poster := &fakePoster{}
	svc := NewService(store, poster, nil)

	result, err := svc.CreateAsset(context.Background(), CreateAssetInput{
		Name:          "feeder line",
		Category:      "feeding",
		SectionID:     &sectionID,
		IsNewPurchase: true,
		PurchaseCost:  floatPtr(500000),
		Actor:         "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, models.AssetActive, result.Asset.Status)
	require.NotNil(t, result.Asset.PurchasePeriodID)
	assert.Equal(t, periodID, *result.Asset.PurchasePeriodID)
	assert.False(t, result.PurchaseSkipped)
	require.NotNil(t, result.Expense)

	require.Len(t, poster.posted, 1)
	assert.Equal(t, models.CategoryAssetPurchase, poster.posted[0].Category)
	assert.Equal(t, 500000.0, poster.posted[0].Amount)
	assert.Equal(t, periodID, poster.posted[0].PeriodID)
}

func TestCreateAssetSoftSkipWithoutActivePeriod(t *testing.T) {
	store := newFakeStore()
	sectionID := primitive.NewObjectID()
	store.sections[sectionID] = models.Section{ID: sectionID, Name: "B2"}
	poster := &fakePoster{}
	svc := NewService(store, poster, nil)

	result, err := svc.CreateAsset(context.Background(), CreateAssetInput{
		Name:          "water tank",
		SectionID:     &sectionID,
		IsNewPurchase: true,
		PurchaseCost:  floatPtr(500000),
	})
	require.NoError(t, err)

	assert.Equal(t, models.AssetActive, result.Asset.Status)
	assert.Nil(t, result.Asset.PurchasePeriodID)
	assert.True(t, result.PurchaseSkipped)
	assert.Nil(t, result.Expense)
	assert.Empty(t, poster.posted, "no expense may be posted on the soft-skip path")
}

func TestCreateAssetSoftSkipWhenAssignedPeriodClosed(t *testing.T) {
	store := newFakeStore()
	periodID := primitive.NewObjectID()
	store.periods[periodID] = models.Period{ID: periodID, Status: models.PeriodClosed}
	sectionID := primitive.NewObjectID()
	store.sections[sectionID] = models.Section{ID: sectionID, ActivePeriodID: &periodID}
	poster := &fakePoster{}
	svc := NewService(store, poster, nil)

	result, err := svc.CreateAsset(context.Background(), CreateAssetInput{
		Name:          "fan",
		SectionID:     &sectionID,
		IsNewPurchase: true,
		PurchaseCost:  floatPtr(2000),
	})
	require.NoError(t, err)
	assert.True(t, result.PurchaseSkipped)
	assert.Empty(t, poster.posted)
}

func TestCreateAssetSharedPurchaseRequiresExplicitPeriod(t *testing.T) {
	store := newFakeStore()
	poster := &fakePoster{}
	svc := NewService(store, poster, nil)

	_, err := svc.CreateAsset(context.Background(), CreateAssetInput{
		Name:          "generator",
		IsNewPurchase: true,
		PurchaseCost:  floatPtr(900000),
	})
	assert.True(t, apperr.IsInvalidArgument(err))

	missing := primitive.NewObjectID()
	_, err = svc.CreateAsset(context.Background(), CreateAssetInput{
		Name:          "generator",
		IsNewPurchase: true,
		PurchaseCost:  floatPtr(900000),
		PeriodID:      &missing,
	})
	assert.True(t, apperr.IsNotFound(err))

	closedID := primitive.NewObjectID()
	store.periods[closedID] = models.Period{ID: closedID, Status: models.PeriodClosed}
	_, err = svc.CreateAsset(context.Background(), CreateAssetInput{
		Name:          "generator",
		IsNewPurchase: true,
		PurchaseCost:  floatPtr(900000),
		PeriodID:      &closedID,
	})
	assert.True(t, apperr.IsConflict(err))
	assert.Empty(t, store.assets, "failed purchases must not create assets")
}

func TestUpdateAssetStatusAppendsHistory(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakePoster{}, nil)

	created, err := store.InsertAsset(context.Background(), models.Asset{Status: models.AssetActive})
	require.NoError(t, err)

	updated, err := svc.UpdateAssetStatus(context.Background(), created.ID, models.AssetBroken, "tech-1")
	require.NoError(t, err)
	assert.Equal(t, models.AssetBroken, updated.Status)

	require.Len(t, store.history, 1)
	assert.Equal(t, models.AssetActive, store.history[0].OldStatus)
	assert.Equal(t, models.AssetBroken, store.history[0].NewStatus)
	assert.Equal(t, "tech-1", store.history[0].ChangedBy)

	_, err = svc.UpdateAssetStatus(context.Background(), created.ID, models.AssetBroken, "tech-1")
	assert.True(t, apperr.IsConflict(err))
	assert.Len(t, store.history, 1)
}
