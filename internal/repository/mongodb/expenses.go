package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avicole/farmledger/internal/domain/models"
)

// InsertExpense appends one immutable ledger entry.
func (r *Repository) InsertExpense(ctx context.Context, expense models.PeriodExpense) (models.PeriodExpense, error) {
	if expense.ID.IsZero() {
		expense.ID = primitive.NewObjectID()
	}
	if _, err := r.db.Collection(collExpenses).InsertOne(ctx, expense); err != nil {
		return models.PeriodExpense{}, fmt.Errorf("failed to insert expense: %w", err)
	}
	return expense, nil
}

// ListExpensesByPeriod returns every ledger entry posted to the period.
func (r *Repository) ListExpensesByPeriod(ctx context.Context, periodID primitive.ObjectID) ([]models.PeriodExpense, error) {
	return r.listExpenses(ctx, bson.M{"period_id": periodID})
}

// ListExpensesBySection returns every ledger entry linked to the section.
func (r *Repository) ListExpensesBySection(ctx context.Context, sectionID primitive.ObjectID) ([]models.PeriodExpense, error) {
	return r.listExpenses(ctx, bson.M{"section_id": sectionID})
}

func (r *Repository) listExpenses(ctx context.Context, filter bson.M) ([]models.PeriodExpense, error) {
	cursor, err := r.db.Collection(collExpenses).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	var expenses []models.PeriodExpense
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, fmt.Errorf("failed to decode expenses: %w", err)
	}
	return expenses, nil
}
