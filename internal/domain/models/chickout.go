package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChickOutStatus is the two-phase state of a livestock removal.
type ChickOutStatus string

const (
	ChickOutIncomplete ChickOutStatus = "INCOMPLETE"
	ChickOutComplete   ChickOutStatus = "COMPLETE"
)

// ChickOutSettlement holds the financial phase of a chick-out. It exists iff
// the chick-out is COMPLETE, so "revenue fields only valid when COMPLETE" is a
// structural property rather than a convention on optional fields.
type ChickOutSettlement struct {
	TotalWeightKg float64   `bson:"total_weight_kg" json:"total_weight_kg"`
	WastePercent  float64   `bson:"waste_percent" json:"waste_percent"`
	PricePerKg    float64   `bson:"price_per_kg" json:"price_per_kg"`
	TotalRevenue  float64   `bson:"total_revenue" json:"total_revenue"`
	SettledAt     time.Time `bson:"settled_at" json:"settled_at"`
}

// ChickOut records livestock removed from a batch for sale: the operational
// phase first (count, date, identifiers), the financial phase at completion.
// An INCOMPLETE chick-out is an unresolved obligation for its section.
type ChickOut struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	BatchID    primitive.ObjectID  `bson:"batch_id" json:"batch_id"`
	Date       time.Time           `bson:"date" json:"date"`
	Count      int                 `bson:"count" json:"count"`
	VehicleID  string              `bson:"vehicle_id,omitempty" json:"vehicle_id,omitempty"`
	MachineID  string              `bson:"machine_id,omitempty" json:"machine_id,omitempty"`
	IsFinal    bool                `bson:"is_final" json:"is_final"`
	Status     ChickOutStatus      `bson:"status" json:"status"`
	Settlement *ChickOutSettlement `bson:"settlement,omitempty" json:"settlement,omitempty"`
	CreatedBy  string              `bson:"created_by" json:"created_by"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
}
