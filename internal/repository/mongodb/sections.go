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

// FindSectionByID returns the section, or nil when it does not exist.
func (r *Repository) FindSectionByID(ctx context.Context, id primitive.ObjectID) (*models.Section, error) {
	var section models.Section
	err := r.db.Collection(collSections).FindOne(ctx, bson.M{"_id": id}).Decode(&section)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find section: %w", err)
	}
	return &section, nil
}

// ListSectionsByIDs returns the sections matching the given ids.
func (r *Repository) ListSectionsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Section, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.db.Collection(collSections).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to query sections: %w", err)
	}
	var sections []models.Section
	if err := cursor.All(ctx, &sections); err != nil {
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}
	return sections, nil
}

// FindBatchByID returns the batch, or nil when it does not exist.
func (r *Repository) FindBatchByID(ctx context.Context, id primitive.ObjectID) (*models.Batch, error) {
	var batch models.Batch
	err := r.db.Collection(collBatches).FindOne(ctx, bson.M{"_id": id}).Decode(&batch)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find batch: %w", err)
	}
	return &batch, nil
}

// ListBatchesBySection returns every batch grown in the section.
func (r *Repository) ListBatchesBySection(ctx context.Context, sectionID primitive.ObjectID) ([]models.Batch, error) {
	cursor, err := r.db.Collection(collBatches).Find(ctx, bson.M{"section_id": sectionID})
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	var batches []models.Batch
	if err := cursor.All(ctx, &batches); err != nil {
		return nil, fmt.Errorf("failed to decode batches: %w", err)
	}
	return batches, nil
}
