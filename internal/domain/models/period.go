package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PeriodStatus is the lifecycle state of an accounting window.
type PeriodStatus string

const (
	PeriodActive PeriodStatus = "ACTIVE"
	PeriodClosed PeriodStatus = "CLOSED"
)

// Period is an accounting window. Expenses may only be posted while the
// period is ACTIVE and dated on or after StartDate. The ACTIVE to CLOSED
// transition happens exactly once and only when no associated section holds
// unresolved financial obligations.
type Period struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name       string               `bson:"name" json:"name"`
	StartDate  time.Time            `bson:"start_date" json:"start_date"`
	Status     PeriodStatus         `bson:"status" json:"status"`
	SectionIDs []primitive.ObjectID `bson:"section_ids" json:"section_ids"`
	CreatedBy  string               `bson:"created_by" json:"created_by"`
	CreatedAt  time.Time            `bson:"created_at" json:"created_at"`
	ClosedAt   *time.Time           `bson:"closed_at,omitempty" json:"closed_at,omitempty"`
	ClosedBy   string               `bson:"closed_by,omitempty" json:"closed_by,omitempty"`
}

// IsActive reports whether the period still accepts ledger entries.
func (p Period) IsActive() bool {
	return p.Status == PeriodActive
}
