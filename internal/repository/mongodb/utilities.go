package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/avicole/farmledger/internal/domain/models"
)

// InsertUtilityExpense writes a derived utility expense and its raw
// consumption record in one multi-document transaction: both land or neither
// does. The session is ended on every exit path; WithTransaction aborts on
// callback error.
func (r *Repository) InsertUtilityExpense(ctx context.Context, expense models.PeriodExpense, cost models.UtilityCost) (models.PeriodExpense, models.UtilityCost, error) {
	if expense.ID.IsZero() {
		expense.ID = primitive.NewObjectID()
	}
	if cost.ID.IsZero() {
		cost.ID = primitive.NewObjectID()
	}
	cost.ExpenseID = expense.ID

	session, err := r.client.StartSession()
	if err != nil {
		return models.PeriodExpense{}, models.UtilityCost{}, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.db.Collection(collExpenses).InsertOne(sc, expense); err != nil {
			return nil, fmt.Errorf("failed to insert utility expense: %w", err)
		}
		if _, err := r.db.Collection(collUtilityCosts).InsertOne(sc, cost); err != nil {
			return nil, fmt.Errorf("failed to insert utility cost record: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return models.PeriodExpense{}, models.UtilityCost{}, err
	}

	return expense, cost, nil
}
