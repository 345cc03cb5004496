package ledger

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/avicole/farmledger/internal/domain/apperr"
	"github.com/avicole/farmledger/internal/domain/models"
	"github.com/avicole/farmledger/pkg/money"
)

// DeriveUtilityInput carries one raw consumption reading from a daily report.
type DeriveUtilityInput struct {
	PeriodID       primitive.ObjectID
	SectionID      primitive.ObjectID
	Quantity       float64
	Date           time.Time
	SourceReportID primitive.ObjectID
	Actor          string
}

// DeriveWaterCost converts a water consumption reading into a categorized
// ledger entry at the injected tariff. Callers invoke this as a best-effort
// side channel from report ingestion: on failure they log and continue, a
// failed utility posting never blocks report creation.
func (s *Service) DeriveWaterCost(ctx context.Context, input DeriveUtilityInput) (models.PeriodExpense, error) {
	return s.deriveUtilityCost(ctx, models.UtilityWater, models.CategoryWater, s.tariffs.WaterPerM3, input)
}

// DeriveElectricityCost is the electricity counterpart of DeriveWaterCost.
func (s *Service) DeriveElectricityCost(ctx context.Context, input DeriveUtilityInput) (models.PeriodExpense, error) {
	return s.deriveUtilityCost(ctx, models.UtilityElectricity, models.CategoryElectricity, s.tariffs.ElectricityPerKWh, input)
}

func (s *Service) deriveUtilityCost(ctx context.Context, kind models.UtilityKind, category models.ExpenseCategory, tariff float64, input DeriveUtilityInput) (models.PeriodExpense, error) {
	if input.Quantity <= 0 {
		return models.PeriodExpense{}, apperr.InvalidArgument("utility quantity must be positive")
	}
	if tariff <= 0 {
		return models.PeriodExpense{}, apperr.InvalidArgument("no tariff configured for %s", kind)
	}

	amount := money.Mul(input.Quantity, tariff)
	if err := s.checkPostable(ctx, input.PeriodID, category, amount, input.Date); err != nil {
		return models.PeriodExpense{}, err
	}

	quantity := input.Quantity
	unitCost := tariff
	now := s.now().UTC()

	expense := models.PeriodExpense{
		PeriodID:    input.PeriodID,
		Category:    category,
		Amount:      amount,
		ExpenseDate: input.Date,
		SectionID:   &input.SectionID,
		Quantity:    &quantity,
		UnitCost:    &unitCost,
		Source:      models.ExpenseSourceDerived,
		CreatedBy:   input.Actor,
		CreatedAt:   now,
	}
	cost := models.UtilityCost{
		Kind:           kind,
		PeriodID:       input.PeriodID,
		SectionID:      input.SectionID,
		SourceReportID: input.SourceReportID,
		Quantity:       input.Quantity,
		UnitTariff:     tariff,
		Amount:         amount,
		Date:           input.Date,
		CreatedBy:      input.Actor,
		CreatedAt:      now,
	}

	// Expense and consumption record commit together or not at all.
	created, _, err := s.store.InsertUtilityExpense(ctx, expense, cost)
	if err != nil {
		return models.PeriodExpense{}, err
	}

	s.logger.Info("utility cost derived",
		zap.String("kind", string(kind)),
		zap.String("section_id", input.SectionID.Hex()),
		zap.Float64("quantity", input.Quantity),
		zap.Float64("amount", amount))

	return created, nil
}
