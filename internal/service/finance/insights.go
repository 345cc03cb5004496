package finance

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avicole/farmledger/internal/domain/apperr"
	"github.com/avicole/farmledger/internal/domain/models"
)

// PerformanceStatus classifies a section's standing within its period.
type PerformanceStatus string

const (
	StatusTopPerformer    PerformanceStatus = "TOP_PERFORMER"
	StatusGood            PerformanceStatus = "GOOD"
	StatusAverage         PerformanceStatus = "AVERAGE"
	StatusUnderperforming PerformanceStatus = "UNDERPERFORMING"
	StatusLossMaking      PerformanceStatus = "LOSS_MAKING"
)

// SectionInsight is one section's analytics row.
type SectionInsight struct {
	SectionID      primitive.ObjectID     `json:"section_id"`
	SectionName    string                 `json:"section_name"`
	PL             SectionPL              `json:"pl"`
	Breakdown      CostBreakdown          `json:"breakdown"`
	MainCostDriver models.ExpenseCategory `json:"main_cost_driver,omitempty"`
	Rank           int                    `json:"rank"`
	Status         PerformanceStatus      `json:"status"`
}

// PeriodAnalytics is the period-level insight result. When any section's P&L
// is blocked the whole call reports Blocked with the failure message instead
// of a partial table; analysis must not paper over a blocked section by
// omitting it.
type PeriodAnalytics struct {
	PeriodID  primitive.ObjectID `json:"period_id"`
	Blocked   bool               `json:"blocked"`
	Message   string             `json:"message,omitempty"`
	Breakdown CostBreakdown      `json:"breakdown"`
	Sections  []SectionInsight   `json:"sections"`
}

// PeriodAnalytics ranks the period's sections by profit and classifies each
// into a performance tier.
func (s *Service) PeriodAnalytics(ctx context.Context, periodID primitive.ObjectID) (PeriodAnalytics, error) {
	period, err := s.store.FindPeriodByID(ctx, periodID)
	if err != nil {
		return PeriodAnalytics{}, err
	}
	if period == nil {
		return PeriodAnalytics{}, apperr.NotFound("period %s not found", periodID.Hex())
	}

	periodExpenses, err := s.store.ListExpensesByPeriod(ctx, periodID)
	if err != nil {
		return PeriodAnalytics{}, err
	}
	result := PeriodAnalytics{
		PeriodID:  periodID,
		Breakdown: buildBreakdown(periodExpenses),
	}

	sections, err := s.store.ListSectionsByIDs(ctx, period.SectionIDs)
	if err != nil {
		return PeriodAnalytics{}, err
	}

	insights := make([]SectionInsight, 0, len(sections))
	for _, section := range sections {
		pl, err := s.sectionPL(ctx, section)
		if err != nil {
			if apperr.KindOf(err) == 0 {
				// Store failures propagate; only engine verdicts block.
				return PeriodAnalytics{}, err
			}
			result.Blocked = true
			result.Message = section.Name + ": " + err.Error()
			result.Sections = nil
			return result, nil
		}

		sectionExpenses, err := s.store.ListExpensesBySection(ctx, section.ID)
		if err != nil {
			return PeriodAnalytics{}, err
		}
		breakdown := buildBreakdown(sectionExpenses)

		insights = append(insights, SectionInsight{
			SectionID:      section.ID,
			SectionName:    section.Name,
			PL:             pl,
			Breakdown:      breakdown,
			MainCostDriver: mainCostDriver(breakdown),
		})
	}

	rankInsights(insights)
	result.Sections = insights
	return result, nil
}

// rankInsights orders by profit descending (rank 1 = highest) and assigns
// tiers: negative profit is LOSS_MAKING regardless of rank, the rest bucket
// by rank percentile (20%% top, 20%% good, 30%% average, rest under).
func rankInsights(insights []SectionInsight) {
	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].PL.Profit > insights[j].PL.Profit
	})

	total := len(insights)
	for i := range insights {
		rank := i + 1
		insights[i].Rank = rank
		insights[i].Status = classify(insights[i].PL.Profit, rank, total)
	}
}

func classify(profit float64, rank int, total int) PerformanceStatus {
	if profit < 0 {
		return StatusLossMaking
	}
	percentile := float64(rank) / float64(total)
	switch {
	case percentile <= 0.2:
		return StatusTopPerformer
	case percentile <= 0.4:
		return StatusGood
	case percentile <= 0.7:
		return StatusAverage
	default:
		return StatusUnderperforming
	}
}
