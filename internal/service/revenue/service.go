// Package revenue implements the two-phase chick-out state machine:
// operational recording first, financial settlement second.
package revenue

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/avicole/farmledger/internal/domain/apperr"
	"github.com/avicole/farmledger/internal/domain/models"
	"github.com/avicole/farmledger/pkg/money"
)

// Store is the subset of the ledger store the revenue flow needs.
type Store interface {
	FindBatchByID(ctx context.Context, id primitive.ObjectID) (*models.Batch, error)
	InsertChickOut(ctx context.Context, chickOut models.ChickOut) (models.ChickOut, error)
	FindChickOutByID(ctx context.Context, id primitive.ObjectID) (*models.ChickOut, error)
	CompleteChickOut(ctx context.Context, id primitive.ObjectID, settlement models.ChickOutSettlement) (bool, error)
}

// Service records chick-out sales. Completion is the only place revenue
// numbers are written; settled chick-outs are immutable history.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new revenue service instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// CreateChickOutInput is the operational phase of a livestock removal.
type CreateChickOutInput struct {
	BatchID   primitive.ObjectID
	Date      time.Time
	Count     int
	VehicleID string
	MachineID string
	IsFinal   bool
	Actor     string
}

// CreateChickOut records an INCOMPLETE chick-out. Until completion the
// chick-out blocks its section's financial summaries.
func (s *Service) CreateChickOut(ctx context.Context, input CreateChickOutInput) (models.ChickOut, error) {
	if input.Count <= 0 {
		return models.ChickOut{}, apperr.InvalidArgument("chick-out count must be positive")
	}

	batch, err := s.store.FindBatchByID(ctx, input.BatchID)
	if err != nil {
		return models.ChickOut{}, err
	}
	if batch == nil {
		return models.ChickOut{}, apperr.NotFound("batch %s not found", input.BatchID.Hex())
	}

	chickOut := models.ChickOut{
		BatchID:   input.BatchID,
		Date:      input.Date,
		Count:     input.Count,
		VehicleID: input.VehicleID,
		MachineID: input.MachineID,
		IsFinal:   input.IsFinal,
		Status:    models.ChickOutIncomplete,
		CreatedBy: input.Actor,
		CreatedAt: s.now().UTC(),
	}

	created, err := s.store.InsertChickOut(ctx, chickOut)
	if err != nil {
		return models.ChickOut{}, err
	}

	s.logger.Info("chick-out recorded",
		zap.String("chick_out_id", created.ID.Hex()),
		zap.String("batch_id", input.BatchID.Hex()),
		zap.Int("count", input.Count),
		zap.Bool("is_final", input.IsFinal))

	return created, nil
}

// CompleteChickOutInput is the financial phase of a chick-out.
type CompleteChickOutInput struct {
	ChickOutID    primitive.ObjectID
	TotalWeightKg float64
	WastePercent  float64
	PricePerKg    float64
}

// CompleteChickOut settles an INCOMPLETE chick-out, computing
// totalRevenue = weight x (1 - waste/100) x price. Terminal: a completed
// chick-out cannot be completed again.
func (s *Service) CompleteChickOut(ctx context.Context, input CompleteChickOutInput) (models.ChickOut, error) {
	if input.TotalWeightKg <= 0 {
		return models.ChickOut{}, apperr.InvalidArgument("total weight must be positive")
	}
	if input.WastePercent < 0 || input.WastePercent > 100 {
		return models.ChickOut{}, apperr.InvalidArgument("waste percent must be between 0 and 100")
	}
	if input.PricePerKg < 0 {
		return models.ChickOut{}, apperr.InvalidArgument("price per kg must not be negative")
	}

	chickOut, err := s.store.FindChickOutByID(ctx, input.ChickOutID)
	if err != nil {
		return models.ChickOut{}, err
	}
	if chickOut == nil {
		return models.ChickOut{}, apperr.NotFound("chick-out %s not found", input.ChickOutID.Hex())
	}
	if chickOut.Status == models.ChickOutComplete {
		return models.ChickOut{}, apperr.Conflict("chick-out already completed")
	}

	settlement := models.ChickOutSettlement{
		TotalWeightKg: input.TotalWeightKg,
		WastePercent:  input.WastePercent,
		PricePerKg:    input.PricePerKg,
		TotalRevenue:  money.Mul(input.TotalWeightKg, 1-input.WastePercent/100, input.PricePerKg),
		SettledAt:     s.now().UTC(),
	}

	completed, err := s.store.CompleteChickOut(ctx, input.ChickOutID, settlement)
	if err != nil {
		return models.ChickOut{}, err
	}
	if !completed {
		return models.ChickOut{}, apperr.Conflict("chick-out already completed")
	}

	s.logger.Info("chick-out settled",
		zap.String("chick_out_id", input.ChickOutID.Hex()),
		zap.Float64("total_revenue", settlement.TotalRevenue))

	chickOut.Status = models.ChickOutComplete
	chickOut.Settlement = &settlement
	return *chickOut, nil
}
