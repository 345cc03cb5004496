package finance

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avicole/farmledger/internal/domain/apperr"
	"github.com/avicole/farmledger/internal/domain/models"
	"github.com/avicole/farmledger/pkg/money"
)

// CategoryCost is one category's share of a cost scope.
type CategoryCost struct {
	Category   models.ExpenseCategory `json:"category"`
	Amount     float64                `json:"amount"`
	Percentage float64                `json:"percentage"`
}

// CostBreakdown is the categorized cost composition of a scope.
type CostBreakdown struct {
	Total      float64        `json:"total"`
	Categories []CategoryCost `json:"categories"`
}

// CostBreakdown aggregates the period's ledger entries by category. Every
// category appears, including zero-amount ones; a zero period total yields
// 0%% everywhere, never NaN.
func (s *Service) CostBreakdown(ctx context.Context, periodID primitive.ObjectID) (CostBreakdown, error) {
	period, err := s.store.FindPeriodByID(ctx, periodID)
	if err != nil {
		return CostBreakdown{}, err
	}
	if period == nil {
		return CostBreakdown{}, apperr.NotFound("period %s not found", periodID.Hex())
	}

	expenses, err := s.store.ListExpensesByPeriod(ctx, periodID)
	if err != nil {
		return CostBreakdown{}, err
	}
	return buildBreakdown(expenses), nil
}

func buildBreakdown(expenses []models.PeriodExpense) CostBreakdown {
	totals := make(map[models.ExpenseCategory]float64, len(models.ExpenseCategories))
	var total float64
	for _, expense := range expenses {
		totals[expense.Category] += expense.Amount
		total += expense.Amount
	}
	total = money.Round2(total)

	categories := make([]CategoryCost, 0, len(models.ExpenseCategories))
	for _, category := range models.ExpenseCategories {
		amount := money.Round2(totals[category])
		categories = append(categories, CategoryCost{
			Category:   category,
			Amount:     amount,
			Percentage: money.Percentage(amount, total),
		})
	}

	// Descending by amount; equal amounts settle alphabetically so the
	// ordering is deterministic regardless of store iteration order.
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Amount != categories[j].Amount {
			return categories[i].Amount > categories[j].Amount
		}
		return categories[i].Category < categories[j].Category
	})

	return CostBreakdown{Total: total, Categories: categories}
}

// mainCostDriver picks the largest-amount category of a breakdown. The
// breakdown is already sorted with the alphabetical tie-break, so the first
// entry wins. Empty when the scope has no spend at all.
func mainCostDriver(breakdown CostBreakdown) models.ExpenseCategory {
	if breakdown.Total == 0 || len(breakdown.Categories) == 0 {
		return ""
	}
	return breakdown.Categories[0].Category
}
