package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/avicole/farmledger/internal/domain/models"
)

// InsertPeriod persists a new accounting period.
func (r *Repository) InsertPeriod(ctx context.Context, period models.Period) (models.Period, error) {
	if period.ID.IsZero() {
		period.ID = primitive.NewObjectID()
	}
	if _, err := r.db.Collection(collPeriods).InsertOne(ctx, period); err != nil {
		return models.Period{}, fmt.Errorf("failed to insert period: %w", err)
	}
	return period, nil
}

// FindPeriodByID returns the period, or nil when it does not exist.
func (r *Repository) FindPeriodByID(ctx context.Context, id primitive.ObjectID) (*models.Period, error) {
	var period models.Period
	err := r.db.Collection(collPeriods).FindOne(ctx, bson.M{"_id": id}).Decode(&period)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find period: %w", err)
	}
	return &period, nil
}

// ListActivePeriods returns every period still accepting ledger entries.
func (r *Repository) ListActivePeriods(ctx context.Context) ([]models.Period, error) {
	cursor, err := r.db.Collection(collPeriods).Find(ctx, bson.M{"status": models.PeriodActive})
	if err != nil {
		return nil, fmt.Errorf("failed to list active periods: %w", err)
	}
	defer cursor.Close(ctx)

	var periods []models.Period
	if err := cursor.All(ctx, &periods); err != nil {
		return nil, fmt.Errorf("failed to decode periods: %w", err)
	}
	return periods, nil
}

// ClosePeriod flips an ACTIVE period to CLOSED. Returns false when the period
// was not ACTIVE anymore (or does not exist), so a concurrent second close
// loses the race instead of double-closing.
func (r *Repository) ClosePeriod(ctx context.Context, id primitive.ObjectID, actor string, at time.Time) (bool, error) {
	res, err := r.db.Collection(collPeriods).UpdateOne(ctx,
		bson.M{"_id": id, "status": models.PeriodActive},
		bson.M{"$set": bson.M{
			"status":    models.PeriodClosed,
			"closed_at": at,
			"closed_by": actor,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to close period: %w", err)
	}
	return res.MatchedCount == 1, nil
}
