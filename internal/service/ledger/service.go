// Package ledger implements expense posting against accounting periods and
// the derivation of utility costs from raw consumption readings.
package ledger

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/avicole/farmledger/internal/domain/apperr"
	"github.com/avicole/farmledger/internal/domain/models"
)

// Store is the subset of the ledger store the posting service needs.
type Store interface {
	FindPeriodByID(ctx context.Context, id primitive.ObjectID) (*models.Period, error)
	InsertExpense(ctx context.Context, expense models.PeriodExpense) (models.PeriodExpense, error)
	InsertUtilityExpense(ctx context.Context, expense models.PeriodExpense, cost models.UtilityCost) (models.PeriodExpense, models.UtilityCost, error)
}

// Tariffs are the injected per-unit utility prices.
type Tariffs struct {
	WaterPerM3        float64
	ElectricityPerKWh float64
}

// Service posts ledger entries. Entries are immutable once created; there is
// no rollback path, compensating behavior is an offsetting entry.
type Service struct {
	store   Store
	tariffs Tariffs
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a new posting service instance.
func NewService(store Store, tariffs Tariffs, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		tariffs: tariffs,
		logger:  logger,
		now:     time.Now,
	}
}

// PostExpenseInput carries one manual ledger entry.
type PostExpenseInput struct {
	PeriodID    primitive.ObjectID
	Category    models.ExpenseCategory
	Amount      float64
	Date        time.Time
	Description string
	SectionID   *primitive.ObjectID
	AssetID     *primitive.ObjectID
	IncidentID  *primitive.ObjectID
	BatchID     *primitive.ObjectID
	Actor       string
}

// PostExpense appends one immutable ledger entry to an ACTIVE period.
func (s *Service) PostExpense(ctx context.Context, input PostExpenseInput) (models.PeriodExpense, error) {
	if err := s.checkPostable(ctx, input.PeriodID, input.Category, input.Amount, input.Date); err != nil {
		return models.PeriodExpense{}, err
	}

	expense := models.PeriodExpense{
		PeriodID:    input.PeriodID,
		Category:    input.Category,
		Amount:      input.Amount,
		Description: input.Description,
		ExpenseDate: input.Date,
		SectionID:   input.SectionID,
		AssetID:     input.AssetID,
		IncidentID:  input.IncidentID,
		BatchID:     input.BatchID,
		Source:      models.ExpenseSourceManual,
		CreatedBy:   input.Actor,
		CreatedAt:   s.now().UTC(),
	}

	created, err := s.store.InsertExpense(ctx, expense)
	if err != nil {
		return models.PeriodExpense{}, err
	}

	s.logger.Info("expense posted",
		zap.String("period_id", input.PeriodID.Hex()),
		zap.String("category", string(input.Category)),
		zap.Float64("amount", input.Amount))

	return created, nil
}

// checkPostable re-runs the period gating guard right before every write that
// depends on it. The period must exist, be ACTIVE, and cover the entry date.
func (s *Service) checkPostable(ctx context.Context, periodID primitive.ObjectID, category models.ExpenseCategory, amount float64, date time.Time) error {
	if !category.Valid() {
		return apperr.InvalidArgument("unknown expense category %q", category)
	}
	if amount <= 0 {
		return apperr.InvalidArgument("expense amount must be positive")
	}

	period, err := s.store.FindPeriodByID(ctx, periodID)
	if err != nil {
		return err
	}
	if period == nil {
		return apperr.NotFound("period %s not found", periodID.Hex())
	}
	if !period.IsActive() {
		return apperr.Conflict("cannot post to closed period")
	}
	if date.Before(period.StartDate) {
		return apperr.InvalidArgument("expense date precedes period start")
	}
	return nil
}
