package finance

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/avicole/farmledger/internal/domain/models"
)

// Store is the subset of the ledger store the finance computations read,
// plus the period close write. Every query is scoped by a reference id.
type Store interface {
	GuardStore
	FindSectionByID(ctx context.Context, id primitive.ObjectID) (*models.Section, error)
	ListSectionsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Section, error)
	FindPeriodByID(ctx context.Context, id primitive.ObjectID) (*models.Period, error)
	ListExpensesBySection(ctx context.Context, sectionID primitive.ObjectID) ([]models.PeriodExpense, error)
	ListExpensesByPeriod(ctx context.Context, periodID primitive.ObjectID) ([]models.PeriodExpense, error)
	ListChickOutsByBatches(ctx context.Context, batchIDs []primitive.ObjectID) ([]models.ChickOut, error)
	ClosePeriod(ctx context.Context, id primitive.ObjectID, actor string, at time.Time) (bool, error)
	InsertPeriod(ctx context.Context, period models.Period) (models.Period, error)
}

// Service is stateless per request; no financial totals are cached across
// calls.
type Service struct {
	store  Store
	guard  *Guard
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new finance service instance.
func NewService(store Store, guard *Guard, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		guard:  guard,
		logger: logger,
		now:    time.Now,
	}
}
