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

// InsertIncident persists a new technical incident.
func (r *Repository) InsertIncident(ctx context.Context, incident models.TechnicalIncident) (models.TechnicalIncident, error) {
	if incident.ID.IsZero() {
		incident.ID = primitive.NewObjectID()
	}
	if _, err := r.db.Collection(collIncidents).InsertOne(ctx, incident); err != nil {
		return models.TechnicalIncident{}, fmt.Errorf("failed to insert incident: %w", err)
	}
	return incident, nil
}

// FindIncidentByID returns the incident, or nil when it does not exist.
func (r *Repository) FindIncidentByID(ctx context.Context, id primitive.ObjectID) (*models.TechnicalIncident, error) {
	var incident models.TechnicalIncident
	err := r.db.Collection(collIncidents).FindOne(ctx, bson.M{"_id": id}).Decode(&incident)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find incident: %w", err)
	}
	return &incident, nil
}

// AttachIncidentExpense links the repair expense to the incident and marks it
// resolved in one document write. The expense_id null filter is the
// at-most-one-expense guard: a concurrent second attach matches nothing and
// returns false instead of double-linking.
func (r *Repository) AttachIncidentExpense(ctx context.Context, incidentID primitive.ObjectID, expenseID primitive.ObjectID, periodID primitive.ObjectID, at time.Time) (bool, error) {
	res, err := r.db.Collection(collIncidents).UpdateOne(ctx,
		bson.M{"_id": incidentID, "expense_id": nil},
		bson.M{"$set": bson.M{
			"expense_id":  expenseID,
			"period_id":   periodID,
			"resolved":    true,
			"resolved_at": at,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to attach incident expense: %w", err)
	}
	return res.MatchedCount == 1, nil
}

// ResolveIncident flips the resolved flag directly. Returns false when the
// incident was already resolved or does not exist.
func (r *Repository) ResolveIncident(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	res, err := r.db.Collection(collIncidents).UpdateOne(ctx,
		bson.M{"_id": id, "resolved": false},
		bson.M{"$set": bson.M{"resolved": true, "resolved_at": at}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to resolve incident: %w", err)
	}
	return res.MatchedCount == 1, nil
}

// CountOpenExpenseIncidentsBySection counts incidents that still owe a repair
// expense for the section. Scoped by section id, never a full scan.
func (r *Repository) CountOpenExpenseIncidentsBySection(ctx context.Context, sectionID primitive.ObjectID) (int64, error) {
	count, err := r.db.Collection(collIncidents).CountDocuments(ctx, bson.M{
		"section_id":       sectionID,
		"requires_expense": true,
		"expense_id":       nil,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count open incidents: %w", err)
	}
	return count, nil
}
