package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/avicole/farmledger/internal/domain/models"
)

// InsertChickOut persists a new INCOMPLETE chick-out.
func (r *Repository) InsertChickOut(ctx context.Context, chickOut models.ChickOut) (models.ChickOut, error) {
	if chickOut.ID.IsZero() {
		chickOut.ID = primitive.NewObjectID()
	}
	if _, err := r.db.Collection(collChickOuts).InsertOne(ctx, chickOut); err != nil {
		return models.ChickOut{}, fmt.Errorf("failed to insert chick-out: %w", err)
	}
	return chickOut, nil
}

// FindChickOutByID returns the chick-out, or nil when it does not exist.
func (r *Repository) FindChickOutByID(ctx context.Context, id primitive.ObjectID) (*models.ChickOut, error) {
	var chickOut models.ChickOut
	err := r.db.Collection(collChickOuts).FindOne(ctx, bson.M{"_id": id}).Decode(&chickOut)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find chick-out: %w", err)
	}
	return &chickOut, nil
}

// CompleteChickOut writes the settlement and flips the status in one document
// write. The status filter makes completion terminal: once COMPLETE the
// settlement is immutable and a second completion matches nothing.
func (r *Repository) CompleteChickOut(ctx context.Context, id primitive.ObjectID, settlement models.ChickOutSettlement) (bool, error) {
	res, err := r.db.Collection(collChickOuts).UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ChickOutIncomplete},
		bson.M{"$set": bson.M{
			"status":     models.ChickOutComplete,
			"settlement": settlement,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to complete chick-out: %w", err)
	}
	return res.MatchedCount == 1, nil
}

// ListChickOutsByBatches returns every chick-out recorded against the batches.
func (r *Repository) ListChickOutsByBatches(ctx context.Context, batchIDs []primitive.ObjectID) ([]models.ChickOut, error) {
	if len(batchIDs) == 0 {
		return nil, nil
	}
	cursor, err := r.db.Collection(collChickOuts).Find(ctx, bson.M{"batch_id": bson.M{"$in": batchIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to query chick-outs: %w", err)
	}
	var chickOuts []models.ChickOut
	if err := cursor.All(ctx, &chickOuts); err != nil {
		return nil, fmt.Errorf("failed to decode chick-outs: %w", err)
	}
	return chickOuts, nil
}

// CountIncompleteByBatches counts INCOMPLETE chick-outs over the batches.
func (r *Repository) CountIncompleteByBatches(ctx context.Context, batchIDs []primitive.ObjectID) (int64, error) {
	if len(batchIDs) == 0 {
		return 0, nil
	}
	count, err := r.db.Collection(collChickOuts).CountDocuments(ctx, bson.M{
		"batch_id": bson.M{"$in": batchIDs},
		"status":   models.ChickOutIncomplete,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count incomplete chick-outs: %w", err)
	}
	return count, nil
}
