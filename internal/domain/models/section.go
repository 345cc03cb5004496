package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Section is a physical growing unit (barn). The financial engine reads it
// but does not own its lifecycle. At most one active period and one active
// batch at a time.
type Section struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name           string              `bson:"name" json:"name"`
	ActivePeriodID *primitive.ObjectID `bson:"active_period_id,omitempty" json:"active_period_id,omitempty"`
	ActiveBatchID  *primitive.ObjectID `bson:"active_batch_id,omitempty" json:"active_batch_id,omitempty"`
}

// Batch is one generation of chicks grown in a section. AliveCount is the
// current live population; the P&L calculator uses it as the per-unit cost
// denominator.
type Batch struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SectionID  primitive.ObjectID `bson:"section_id" json:"section_id"`
	Name       string             `bson:"name" json:"name"`
	StartCount int                `bson:"start_count" json:"start_count"`
	AliveCount int                `bson:"alive_count" json:"alive_count"`
	StartedAt  time.Time          `bson:"started_at" json:"started_at"`
}
