package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssetStatus is the operational state of a piece of equipment.
type AssetStatus string

const (
	AssetActive         AssetStatus = "ACTIVE"
	AssetBroken         AssetStatus = "BROKEN"
	AssetRepaired       AssetStatus = "REPAIRED"
	AssetDecommissioned AssetStatus = "DECOMMISSIONED"
)

// ValidAssetStatus reports whether s is a known asset status.
func ValidAssetStatus(s AssetStatus) bool {
	switch s {
	case AssetActive, AssetBroken, AssetRepaired, AssetDecommissioned:
		return true
	}
	return false
}

// GeoPoint is an optional GPS position for field equipment.
type GeoPoint struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Asset is a piece of equipment. PurchaseCost is present iff IsNewPurchase is
// true; PurchasePeriodID records the period the capital expense was posted to
// and stays nil when the purchase was soft-skipped.
type Asset struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name             string              `bson:"name" json:"name"`
	Category         string              `bson:"category" json:"category"`
	SectionID        *primitive.ObjectID `bson:"section_id,omitempty" json:"section_id,omitempty"`
	Status           AssetStatus         `bson:"status" json:"status"`
	Location         *GeoPoint           `bson:"location,omitempty" json:"location,omitempty"`
	IsNewPurchase    bool                `bson:"is_new_purchase" json:"is_new_purchase"`
	PurchaseCost     *float64            `bson:"purchase_cost,omitempty" json:"purchase_cost,omitempty"`
	PurchasePeriodID *primitive.ObjectID `bson:"purchase_period_id,omitempty" json:"purchase_period_id,omitempty"`
	CreatedBy        string              `bson:"created_by" json:"created_by"`
	CreatedAt        time.Time           `bson:"created_at" json:"created_at"`
}

// AssetHistory is one append-only audit entry recorded on every asset status
// change.
type AssetHistory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID   primitive.ObjectID `bson:"asset_id" json:"asset_id"`
	OldStatus AssetStatus        `bson:"old_status" json:"old_status"`
	NewStatus AssetStatus        `bson:"new_status" json:"new_status"`
	ChangedBy string             `bson:"changed_by" json:"changed_by"`
	ChangedAt time.Time          `bson:"changed_at" json:"changed_at"`
}
