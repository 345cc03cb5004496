package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TechnicalIncident is a reported fault on an asset. SectionID is copied from
// the asset at creation time so the safety guard can scan incidents by section
// without joining through assets. ExpenseID holds at most one repair expense;
// an unresolved incident with RequiresExpense set blocks its section's
// financial summaries.
type TechnicalIncident struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AssetID         primitive.ObjectID  `bson:"asset_id" json:"asset_id"`
	SectionID       *primitive.ObjectID `bson:"section_id,omitempty" json:"section_id,omitempty"`
	ReportedBy      string              `bson:"reported_by" json:"reported_by"`
	Description     string              `bson:"description" json:"description"`
	RequiresExpense bool                `bson:"requires_expense" json:"requires_expense"`
	Resolved        bool                `bson:"resolved" json:"resolved"`
	PeriodID        *primitive.ObjectID `bson:"period_id,omitempty" json:"period_id,omitempty"`
	ExpenseID       *primitive.ObjectID `bson:"expense_id,omitempty" json:"expense_id,omitempty"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
	ResolvedAt      *time.Time          `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}
