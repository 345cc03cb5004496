package assets

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/avicole/farmledger/internal/domain/apperr"
	"github.com/avicole/farmledger/internal/domain/models"
	"github.com/avicole/farmledger/internal/service/ledger"
)

// ReportIncidentInput describes a fault observed on an asset.
type ReportIncidentInput struct {
	AssetID         primitive.ObjectID
	Description     string
	RequiresExpense bool
	Reporter        string
}

// ReportIncident records an unresolved technical incident, copying the
// asset's section so downstream guards can scan by section directly.
func (s *Service) ReportIncident(ctx context.Context, input ReportIncidentInput) (models.TechnicalIncident, error) {
	if !validDescription(input.Description) {
		return models.TechnicalIncident{}, apperr.InvalidArgument("description must be at least %d characters", minDescriptionLen)
	}

	asset, err := s.store.FindAssetByID(ctx, input.AssetID)
	if err != nil {
		return models.TechnicalIncident{}, err
	}
	if asset == nil {
		return models.TechnicalIncident{}, apperr.NotFound("asset %s not found", input.AssetID.Hex())
	}

	incident := models.TechnicalIncident{
		AssetID:         input.AssetID,
		SectionID:       asset.SectionID,
		ReportedBy:      input.Reporter,
		Description:     input.Description,
		RequiresExpense: input.RequiresExpense,
		Resolved:        false,
		CreatedAt:       s.now().UTC(),
	}

	created, err := s.store.InsertIncident(ctx, incident)
	if err != nil {
		return models.TechnicalIncident{}, err
	}

	s.logger.Info("incident reported",
		zap.String("incident_id", created.ID.Hex()),
		zap.String("asset_id", input.AssetID.Hex()),
		zap.Bool("requires_expense", input.RequiresExpense))

	return created, nil
}

// CreateRepairExpenseInput describes the repair cost settling an incident.
type CreateRepairExpenseInput struct {
	IncidentID  primitive.ObjectID
	Amount      float64
	Description string
	PeriodID    *primitive.ObjectID
	Actor       string
}

// CreateRepairExpense posts the repair cost and resolves the incident.
// At most one repair expense per incident: the attach step is a conditional
// write on expense_id being unset, so a retried or concurrent caller fails
// the guard instead of double-posting.
func (s *Service) CreateRepairExpense(ctx context.Context, input CreateRepairExpenseInput) (models.PeriodExpense, error) {
	if input.Amount <= 0 {
		return models.PeriodExpense{}, apperr.InvalidArgument("repair amount must be positive")
	}
	if !validDescription(input.Description) {
		return models.PeriodExpense{}, apperr.InvalidArgument("description must be at least %d characters", minDescriptionLen)
	}

	incident, err := s.store.FindIncidentByID(ctx, input.IncidentID)
	if err != nil {
		return models.PeriodExpense{}, err
	}
	if incident == nil {
		return models.PeriodExpense{}, apperr.NotFound("incident %s not found", input.IncidentID.Hex())
	}
	if !incident.RequiresExpense {
		return models.PeriodExpense{}, apperr.Conflict("incident does not require an expense")
	}
	if incident.ExpenseID != nil {
		return models.PeriodExpense{}, apperr.Conflict("incident already has an expense attached")
	}

	period, err := s.resolveRepairPeriod(ctx, incident, input.PeriodID)
	if err != nil {
		return models.PeriodExpense{}, err
	}

	expense, err := s.poster.PostExpense(ctx, ledger.PostExpenseInput{
		PeriodID:    period.ID,
		Category:    models.CategoryAssetRepair,
		Amount:      input.Amount,
		Date:        s.now().UTC(),
		Description: input.Description,
		SectionID:   incident.SectionID,
		AssetID:     &incident.AssetID,
		IncidentID:  &incident.ID,
		Actor:       input.Actor,
	})
	if err != nil {
		return models.PeriodExpense{}, err
	}

	attached, err := s.store.AttachIncidentExpense(ctx, incident.ID, expense.ID, period.ID, s.now().UTC())
	if err != nil {
		return models.PeriodExpense{}, err
	}
	if !attached {
		// Lost the race to a concurrent attach. The expense above is already
		// posted; the operator settles it with an offsetting entry.
		return models.PeriodExpense{}, apperr.Conflict("incident already has an expense attached")
	}

	s.logger.Info("repair expense posted",
		zap.String("incident_id", incident.ID.Hex()),
		zap.String("expense_id", expense.ID.Hex()),
		zap.Float64("amount", input.Amount))

	return expense, nil
}

// resolveRepairPeriod picks the posting period for a repair: the incident
// section's active period when the incident is sectioned, otherwise an
// explicit ACTIVE period from the caller.
func (s *Service) resolveRepairPeriod(ctx context.Context, incident *models.TechnicalIncident, explicit *primitive.ObjectID) (*models.Period, error) {
	if incident.SectionID != nil {
		section, err := s.store.FindSectionByID(ctx, *incident.SectionID)
		if err != nil {
			return nil, err
		}
		if section == nil {
			return nil, apperr.NotFound("section %s not found", incident.SectionID.Hex())
		}
		if section.ActivePeriodID == nil {
			return nil, apperr.Conflict("section has no active period")
		}
		period, err := s.store.FindPeriodByID(ctx, *section.ActivePeriodID)
		if err != nil {
			return nil, err
		}
		if period == nil {
			return nil, apperr.NotFound("period %s not found", section.ActivePeriodID.Hex())
		}
		if !period.IsActive() {
			return nil, apperr.Conflict("cannot post to closed period")
		}
		return period, nil
	}

	if explicit == nil {
		return nil, apperr.InvalidArgument("period id is required for an unsectioned incident")
	}
	period, err := s.store.FindPeriodByID(ctx, *explicit)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, apperr.NotFound("period %s not found", explicit.Hex())
	}
	if !period.IsActive() {
		return nil, apperr.Conflict("cannot post to closed period")
	}
	return period, nil
}

// ResolveIncident flips the resolved flag on an incident that does not owe a
// repair expense. Expense-requiring incidents resolve only through
// CreateRepairExpense.
func (s *Service) ResolveIncident(ctx context.Context, incidentID primitive.ObjectID, actor string) error {
	incident, err := s.store.FindIncidentByID(ctx, incidentID)
	if err != nil {
		return err
	}
	if incident == nil {
		return apperr.NotFound("incident %s not found", incidentID.Hex())
	}
	if incident.RequiresExpense && incident.ExpenseID == nil {
		return apperr.Conflict("incident requires a repair expense to be resolved")
	}

	resolved, err := s.store.ResolveIncident(ctx, incidentID, s.now().UTC())
	if err != nil {
		return err
	}
	if !resolved {
		return apperr.Conflict("incident is already resolved")
	}

	s.logger.Info("incident resolved",
		zap.String("incident_id", incidentID.Hex()),
		zap.String("actor", actor))
	return nil
}
