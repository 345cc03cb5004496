package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExpenseCategory enumerates the ledger's cost categories.
type ExpenseCategory string

const (
	CategoryElectricity   ExpenseCategory = "ELECTRICITY"
	CategoryWater         ExpenseCategory = "WATER"
	CategoryFeed          ExpenseCategory = "FEED"
	CategoryMedicine      ExpenseCategory = "MEDICINE"
	CategoryFixedLabor    ExpenseCategory = "FIXED_LABOR"
	CategoryDailyLabor    ExpenseCategory = "DAILY_LABOR"
	CategoryMaintenance   ExpenseCategory = "MAINTENANCE"
	CategoryTransport     ExpenseCategory = "TRANSPORT"
	CategoryAssetPurchase ExpenseCategory = "ASSET_PURCHASE"
	CategoryAssetRepair   ExpenseCategory = "ASSET_REPAIR"
	CategoryOther         ExpenseCategory = "OTHER"
)

// ExpenseCategories lists every valid category.
var ExpenseCategories = []ExpenseCategory{
	CategoryElectricity,
	CategoryWater,
	CategoryFeed,
	CategoryMedicine,
	CategoryFixedLabor,
	CategoryDailyLabor,
	CategoryMaintenance,
	CategoryTransport,
	CategoryAssetPurchase,
	CategoryAssetRepair,
	CategoryOther,
}

// Valid reports whether the category is one of the known values.
func (c ExpenseCategory) Valid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Expense source tags distinguish operator entries from derived ones.
const (
	ExpenseSourceManual  = "manual"
	ExpenseSourceDerived = "derived"
)

// PeriodExpense is one immutable monetary ledger entry against a period.
// Entries are never updated after creation; compensating behavior is an
// offsetting entry.
type PeriodExpense struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PeriodID    primitive.ObjectID  `bson:"period_id" json:"period_id"`
	Category    ExpenseCategory     `bson:"category" json:"category"`
	Amount      float64             `bson:"amount" json:"amount"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	ExpenseDate time.Time           `bson:"expense_date" json:"expense_date"`
	SectionID   *primitive.ObjectID `bson:"section_id,omitempty" json:"section_id,omitempty"`
	AssetID     *primitive.ObjectID `bson:"asset_id,omitempty" json:"asset_id,omitempty"`
	IncidentID  *primitive.ObjectID `bson:"incident_id,omitempty" json:"incident_id,omitempty"`
	BatchID     *primitive.ObjectID `bson:"batch_id,omitempty" json:"batch_id,omitempty"`
	Quantity    *float64            `bson:"quantity,omitempty" json:"quantity,omitempty"`
	UnitCost    *float64            `bson:"unit_cost,omitempty" json:"unit_cost,omitempty"`
	Source      string              `bson:"source" json:"source"`
	CreatedBy   string              `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
}
