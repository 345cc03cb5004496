package finance

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avicole/farmledger/internal/domain/models"
)

// fakeStore is an in-memory ledger store for the finance computations.
type fakeStore struct {
	periods   map[primitive.ObjectID]models.Period
	sections  map[primitive.ObjectID]models.Section
	batches   []models.Batch
	chickOuts []models.ChickOut
	incidents []models.TechnicalIncident
	expenses  []models.PeriodExpense
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		periods:  map[primitive.ObjectID]models.Period{},
		sections: map[primitive.ObjectID]models.Section{},
	}
}

func (f *fakeStore) FindPeriodByID(_ context.Context, id primitive.ObjectID) (*models.Period, error) {
	period, ok := f.periods[id]
	if !ok {
		return nil, nil
	}
	return &period, nil
}

func (f *fakeStore) InsertPeriod(_ context.Context, period models.Period) (models.Period, error) {
	if period.ID.IsZero() {
		period.ID = primitive.NewObjectID()
	}
	f.periods[period.ID] = period
	return period, nil
}

func (f *fakeStore) ClosePeriod(_ context.Context, id primitive.ObjectID, actor string, at time.Time) (bool, error) {
	period, ok := f.periods[id]
	if !ok || period.Status != models.PeriodActive {
		return false, nil
	}
	period.Status = models.PeriodClosed
	period.ClosedBy = actor
	period.ClosedAt = &at
	f.periods[id] = period
	return true, nil
}

func (f *fakeStore) FindSectionByID(_ context.Context, id primitive.ObjectID) (*models.Section, error) {
	section, ok := f.sections[id]
	if !ok {
		return nil, nil
	}
	return &section, nil
}

func (f *fakeStore) ListSectionsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Section, error) {
	var out []models.Section
	for _, id := range ids {
		if section, ok := f.sections[id]; ok {
			out = append(out, section)
		}
	}
	return out, nil
}

func (f *fakeStore) ListBatchesBySection(_ context.Context, sectionID primitive.ObjectID) ([]models.Batch, error) {
	var out []models.Batch
	for _, batch := range f.batches {
		if batch.SectionID == sectionID {
			out = append(out, batch)
		}
	}
	return out, nil
}

func (f *fakeStore) ListChickOutsByBatches(_ context.Context, ids []primitive.ObjectID) ([]models.ChickOut, error) {
	var out []models.ChickOut
	for _, chickOut := range f.chickOuts {
		for _, id := range ids {
			if chickOut.BatchID == id {
				out = append(out, chickOut)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) CountIncompleteByBatches(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	var count int64
	for _, chickOut := range f.chickOuts {
		if chickOut.Status != models.ChickOutIncomplete {
			continue
		}
		for _, id := range ids {
			if chickOut.BatchID == id {
				count++
			}
		}
	}
	return count, nil
}

func (f *fakeStore) CountOpenExpenseIncidentsBySection(_ context.Context, sectionID primitive.ObjectID) (int64, error) {
	var count int64
	for _, incident := range f.incidents {
		if incident.RequiresExpense && incident.ExpenseID == nil &&
			incident.SectionID != nil && *incident.SectionID == sectionID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) ListExpensesBySection(_ context.Context, sectionID primitive.ObjectID) ([]models.PeriodExpense, error) {
	var out []models.PeriodExpense
	for _, expense := range f.expenses {
		if expense.SectionID != nil && *expense.SectionID == sectionID {
			out = append(out, expense)
		}
	}
	return out, nil
}

func (f *fakeStore) ListExpensesByPeriod(_ context.Context, periodID primitive.ObjectID) ([]models.PeriodExpense, error) {
	var out []models.PeriodExpense
	for _, expense := range f.expenses {
		if expense.PeriodID == periodID {
			out = append(out, expense)
		}
	}
	return out, nil
}

// Fixture helpers.

func newTestService(store *fakeStore) *Service {
	return NewService(store, NewGuard(store), nil)
}

func (f *fakeStore) addSection(name string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.sections[id] = models.Section{ID: id, Name: name}
	return id
}

func (f *fakeStore) addBatch(sectionID primitive.ObjectID, alive int) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.batches = append(f.batches, models.Batch{ID: id, SectionID: sectionID, AliveCount: alive})
	return id
}

func (f *fakeStore) addCompleteChickOut(batchID primitive.ObjectID, count int, revenue float64) {
	f.chickOuts = append(f.chickOuts, models.ChickOut{
		ID:      primitive.NewObjectID(),
		BatchID: batchID,
		Count:   count,
		Status:  models.ChickOutComplete,
		Settlement: &models.ChickOutSettlement{
			TotalRevenue: revenue,
		},
	})
}

func (f *fakeStore) addIncompleteChickOut(batchID primitive.ObjectID, count int) {
	f.chickOuts = append(f.chickOuts, models.ChickOut{
		ID:      primitive.NewObjectID(),
		BatchID: batchID,
		Count:   count,
		Status:  models.ChickOutIncomplete,
	})
}

func (f *fakeStore) addIncident(sectionID primitive.ObjectID, requiresExpense bool, expenseID *primitive.ObjectID) {
	f.incidents = append(f.incidents, models.TechnicalIncident{
		ID:              primitive.NewObjectID(),
		SectionID:       &sectionID,
		RequiresExpense: requiresExpense,
		ExpenseID:       expenseID,
	})
}

func (f *fakeStore) addExpense(periodID primitive.ObjectID, sectionID *primitive.ObjectID, category models.ExpenseCategory, amount float64) {
	f.expenses = append(f.expenses, models.PeriodExpense{
		ID:       primitive.NewObjectID(),
		PeriodID: periodID,
		SectionID: sectionID,
		Category: category,
		Amount:   amount,
	})
}

func (f *fakeStore) addActivePeriod(sectionIDs ...primitive.ObjectID) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.periods[id] = models.Period{
		ID:         id,
		Name:       "cycle",
		StartDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:     models.PeriodActive,
		SectionIDs: sectionIDs,
	}
	return id
}
