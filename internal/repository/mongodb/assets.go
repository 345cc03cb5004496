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

// InsertAsset persists a new piece of equipment.
func (r *Repository) InsertAsset(ctx context.Context, asset models.Asset) (models.Asset, error) {
	if asset.ID.IsZero() {
		asset.ID = primitive.NewObjectID()
	}
	if _, err := r.db.Collection(collAssets).InsertOne(ctx, asset); err != nil {
		return models.Asset{}, fmt.Errorf("failed to insert asset: %w", err)
	}
	return asset, nil
}

// FindAssetByID returns the asset, or nil when it does not exist.
func (r *Repository) FindAssetByID(ctx context.Context, id primitive.ObjectID) (*models.Asset, error) {
	var asset models.Asset
	err := r.db.Collection(collAssets).FindOne(ctx, bson.M{"_id": id}).Decode(&asset)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find asset: %w", err)
	}
	return &asset, nil
}

// UpdateAssetStatus moves the asset from one status to another. Returns false
// when the asset no longer carries the expected current status.
func (r *Repository) UpdateAssetStatus(ctx context.Context, id primitive.ObjectID, from models.AssetStatus, to models.AssetStatus) (bool, error) {
	res, err := r.db.Collection(collAssets).UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update asset status: %w", err)
	}
	return res.MatchedCount == 1, nil
}

// InsertAssetHistory appends one audit entry for a status change.
func (r *Repository) InsertAssetHistory(ctx context.Context, entry models.AssetHistory) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if _, err := r.db.Collection(collAssetHistory).InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert asset history: %w", err)
	}
	return nil
}
