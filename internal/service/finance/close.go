package finance

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/avicole/farmledger/internal/domain/apperr"
	"github.com/avicole/farmledger/internal/domain/models"
)

// CreatePeriodInput describes a new accounting window.
type CreatePeriodInput struct {
	Name       string
	StartDate  time.Time
	SectionIDs []primitive.ObjectID
	Actor      string
}

// CreatePeriod opens a new ACTIVE period.
func (s *Service) CreatePeriod(ctx context.Context, input CreatePeriodInput) (models.Period, error) {
	if input.Name == "" {
		return models.Period{}, apperr.InvalidArgument("period name is required")
	}
	if input.StartDate.IsZero() {
		return models.Period{}, apperr.InvalidArgument("period start date is required")
	}

	period := models.Period{
		Name:       input.Name,
		StartDate:  input.StartDate,
		Status:     models.PeriodActive,
		SectionIDs: input.SectionIDs,
		CreatedBy:  input.Actor,
		CreatedAt:  s.now().UTC(),
	}
	created, err := s.store.InsertPeriod(ctx, period)
	if err != nil {
		return models.Period{}, err
	}

	s.logger.Info("period opened",
		zap.String("period_id", created.ID.Hex()),
		zap.String("name", input.Name))
	return created, nil
}

// ClosePeriod transitions a period ACTIVE to CLOSED, exactly once and only
// when no associated section holds unresolved obligations. The guard is
// re-run right before the conditional close write.
func (s *Service) ClosePeriod(ctx context.Context, periodID primitive.ObjectID, actor string) (models.Period, error) {
	period, err := s.store.FindPeriodByID(ctx, periodID)
	if err != nil {
		return models.Period{}, err
	}
	if period == nil {
		return models.Period{}, apperr.NotFound("period %s not found", periodID.Hex())
	}
	if !period.IsActive() {
		return models.Period{}, apperr.Conflict("period is already closed")
	}

	for _, sectionID := range period.SectionIDs {
		blocked, err := s.guard.HasUnresolvedOperations(ctx, sectionID)
		if err != nil {
			return models.Period{}, err
		}
		if blocked {
			return models.Period{}, apperr.Conflict("cannot close period with unresolved operations")
		}
	}

	closedAt := s.now().UTC()
	closed, err := s.store.ClosePeriod(ctx, periodID, actor, closedAt)
	if err != nil {
		return models.Period{}, err
	}
	if !closed {
		return models.Period{}, apperr.Conflict("period is already closed")
	}

	s.logger.Info("period closed",
		zap.String("period_id", periodID.Hex()),
		zap.String("actor", actor))

	period.Status = models.PeriodClosed
	period.ClosedAt = &closedAt
	period.ClosedBy = actor
	return *period, nil
}
