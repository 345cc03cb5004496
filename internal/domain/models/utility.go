package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UtilityKind distinguishes the two metered consumptions.
type UtilityKind string

const (
	UtilityWater       UtilityKind = "WATER"
	UtilityElectricity UtilityKind = "ELECTRICITY"
)

// UtilityCost is the raw consumption record behind a derived utility expense.
// It is written in the same store transaction as its expense so the pair is
// all-or-nothing.
type UtilityCost struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind           UtilityKind        `bson:"kind" json:"kind"`
	PeriodID       primitive.ObjectID `bson:"period_id" json:"period_id"`
	SectionID      primitive.ObjectID `bson:"section_id" json:"section_id"`
	SourceReportID primitive.ObjectID `bson:"source_report_id" json:"source_report_id"`
	Quantity       float64            `bson:"quantity" json:"quantity"`
	UnitTariff     float64            `bson:"unit_tariff" json:"unit_tariff"`
	Amount         float64            `bson:"amount" json:"amount"`
	Date           time.Time          `bson:"date" json:"date"`
	ExpenseID      primitive.ObjectID `bson:"expense_id" json:"expense_id"`
	CreatedBy      string             `bson:"created_by" json:"created_by"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
