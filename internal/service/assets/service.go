// Package assets implements equipment acquisition, incident reporting, and
// the repair-expense flow that resolves expense-requiring incidents.
package assets

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/avicole/farmledger/internal/domain/apperr"
	"github.com/avicole/farmledger/internal/domain/models"
	"github.com/avicole/farmledger/internal/service/ledger"
)

const minDescriptionLen = 5

// Store is the subset of the ledger store the asset flow needs.
type Store interface {
	InsertAsset(ctx context.Context, asset models.Asset) (models.Asset, error)
	FindAssetByID(ctx context.Context, id primitive.ObjectID) (*models.Asset, error)
	UpdateAssetStatus(ctx context.Context, id primitive.ObjectID, from models.AssetStatus, to models.AssetStatus) (bool, error)
	InsertAssetHistory(ctx context.Context, entry models.AssetHistory) error
	InsertIncident(ctx context.Context, incident models.TechnicalIncident) (models.TechnicalIncident, error)
	FindIncidentByID(ctx context.Context, id primitive.ObjectID) (*models.TechnicalIncident, error)
	AttachIncidentExpense(ctx context.Context, incidentID primitive.ObjectID, expenseID primitive.ObjectID, periodID primitive.ObjectID, at time.Time) (bool, error)
	ResolveIncident(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
	FindSectionByID(ctx context.Context, id primitive.ObjectID) (*models.Section, error)
	FindPeriodByID(ctx context.Context, id primitive.ObjectID) (*models.Period, error)
}

// ExpensePoster posts capital and repair entries through the ledger service
// so period gating is enforced in one place.
type ExpensePoster interface {
	PostExpense(ctx context.Context, input ledger.PostExpenseInput) (models.PeriodExpense, error)
}

// Service implements the asset acquisition and repair flow.
type Service struct {
	store  Store
	poster ExpensePoster
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new asset service instance.
func NewService(store Store, poster ExpensePoster, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		poster: poster,
		logger: logger,
		now:    time.Now,
	}
}

// CreateAssetInput describes a new piece of equipment.
type CreateAssetInput struct {
	Name          string
	Category      string
	SectionID     *primitive.ObjectID
	Location      *models.GeoPoint
	IsNewPurchase bool
	PurchaseCost  *float64
	PeriodID      *primitive.ObjectID
	Actor         string
}

// CreateAssetResult is the created asset plus what happened to its capital
// expense. PurchaseSkipped marks the deliberate soft-skip path: a new
// purchase whose section had no ACTIVE period is created without an expense.
type CreateAssetResult struct {
	Asset           models.Asset
	Expense         *models.PeriodExpense
	PurchaseSkipped bool
}

// CreateAsset validates the purchase pairing, resolves the posting period,
// and creates the asset. For a sectioned new purchase the section's active
// period is resolved automatically; when none is ACTIVE the asset is still
// created and the expense is skipped. A sectionless new purchase requires an
// explicit ACTIVE period.
func (s *Service) CreateAsset(ctx context.Context, input CreateAssetInput) (CreateAssetResult, error) {
	if input.IsNewPurchase && input.PurchaseCost == nil {
		return CreateAssetResult{}, apperr.InvalidArgument("purchase cost is required for a new purchase")
	}
	if !input.IsNewPurchase && input.PurchaseCost != nil {
		return CreateAssetResult{}, apperr.InvalidArgument("purchase cost is only allowed for a new purchase")
	}
	if input.PurchaseCost != nil && *input.PurchaseCost <= 0 {
		return CreateAssetResult{}, apperr.InvalidArgument("purchase cost must be positive")
	}

	var postingPeriod *models.Period
	purchaseSkipped := false

	if input.IsNewPurchase {
		switch {
		case input.SectionID != nil:
			period, err := s.resolveSectionActivePeriod(ctx, *input.SectionID)
			if err != nil {
				return CreateAssetResult{}, err
			}
			if period == nil {
				// Soft skip: asset lands without its capital expense.
				purchaseSkipped = true
			}
			postingPeriod = period
		case input.PeriodID == nil:
			return CreateAssetResult{}, apperr.InvalidArgument("period id is required for a shared asset purchase")
		default:
			period, err := s.store.FindPeriodByID(ctx, *input.PeriodID)
			if err != nil {
				return CreateAssetResult{}, err
			}
			if period == nil {
				return CreateAssetResult{}, apperr.NotFound("period %s not found", input.PeriodID.Hex())
			}
			if !period.IsActive() {
				return CreateAssetResult{}, apperr.Conflict("cannot post to closed period")
			}
			postingPeriod = period
		}
	}

	asset := models.Asset{
		Name:          input.Name,
		Category:      input.Category,
		SectionID:     input.SectionID,
		Status:        models.AssetActive,
		Location:      input.Location,
		IsNewPurchase: input.IsNewPurchase,
		PurchaseCost:  input.PurchaseCost,
		CreatedBy:     input.Actor,
		CreatedAt:     s.now().UTC(),
	}
	if postingPeriod != nil {
		asset.PurchasePeriodID = &postingPeriod.ID
	}

	created, err := s.store.InsertAsset(ctx, asset)
	if err != nil {
		return CreateAssetResult{}, err
	}

	if purchaseSkipped {
		s.logger.Info("asset purchase expense skipped, no active period",
			zap.String("asset_id", created.ID.Hex()),
			zap.String("section_id", input.SectionID.Hex()))
		return CreateAssetResult{Asset: created, PurchaseSkipped: true}, nil
	}

	if postingPeriod == nil {
		return CreateAssetResult{Asset: created}, nil
	}

	expense, err := s.poster.PostExpense(ctx, ledger.PostExpenseInput{
		PeriodID:    postingPeriod.ID,
		Category:    models.CategoryAssetPurchase,
		Amount:      *input.PurchaseCost,
		Date:        s.now().UTC(),
		Description: "purchase: " + input.Name,
		SectionID:   input.SectionID,
		AssetID:     &created.ID,
		Actor:       input.Actor,
	})
	if err != nil {
		return CreateAssetResult{}, err
	}

	return CreateAssetResult{Asset: created, Expense: &expense}, nil
}

// resolveSectionActivePeriod returns the section's currently ACTIVE period,
// or nil when the section has none assigned or the assigned one is closed.
func (s *Service) resolveSectionActivePeriod(ctx context.Context, sectionID primitive.ObjectID) (*models.Period, error) {
	section, err := s.store.FindSectionByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, apperr.NotFound("section %s not found", sectionID.Hex())
	}
	if section.ActivePeriodID == nil {
		return nil, nil
	}
	period, err := s.store.FindPeriodByID(ctx, *section.ActivePeriodID)
	if err != nil {
		return nil, err
	}
	if period == nil || !period.IsActive() {
		return nil, nil
	}
	return period, nil
}

// UpdateAssetStatus transitions the asset and appends an audit entry.
func (s *Service) UpdateAssetStatus(ctx context.Context, assetID primitive.ObjectID, newStatus models.AssetStatus, actor string) (models.Asset, error) {
	if !models.ValidAssetStatus(newStatus) {
		return models.Asset{}, apperr.InvalidArgument("unknown asset status %q", newStatus)
	}

	asset, err := s.store.FindAssetByID(ctx, assetID)
	if err != nil {
		return models.Asset{}, err
	}
	if asset == nil {
		return models.Asset{}, apperr.NotFound("asset %s not found", assetID.Hex())
	}
	if asset.Status == newStatus {
		return models.Asset{}, apperr.Conflict("asset is already %s", newStatus)
	}

	updated, err := s.store.UpdateAssetStatus(ctx, assetID, asset.Status, newStatus)
	if err != nil {
		return models.Asset{}, err
	}
	if !updated {
		return models.Asset{}, apperr.Conflict("asset status changed concurrently")
	}

	entry := models.AssetHistory{
		AssetID:   assetID,
		OldStatus: asset.Status,
		NewStatus: newStatus,
		ChangedBy: actor,
		ChangedAt: s.now().UTC(),
	}
	if err := s.store.InsertAssetHistory(ctx, entry); err != nil {
		return models.Asset{}, err
	}

	asset.Status = newStatus
	return *asset, nil
}

func validDescription(description string) bool {
	return len(strings.TrimSpace(description)) >= minDescriptionLen
}
