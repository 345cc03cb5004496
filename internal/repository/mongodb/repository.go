// Package mongodb implements the ledger store on MongoDB. Cross-document
// invariants are enforced with conditional single-document updates
// (check-then-act filters), not schema constraints; the only multi-document
// transaction is utility cost recording.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	collPeriods      = "periods"
	collExpenses     = "period_expenses"
	collSections     = "sections"
	collBatches      = "batches"
	collAssets       = "assets"
	collAssetHistory = "asset_history"
	collIncidents    = "technical_incidents"
	collChickOuts    = "chick_outs"
	collUtilityCosts = "utility_costs"
)

// Repository is the MongoDB-backed ledger store.
type Repository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewRepository connects to MongoDB and verifies the connection.
func NewRepository(ctx context.Context, uri string, dbName string) (*Repository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
