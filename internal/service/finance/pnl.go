package finance

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avicole/farmledger/internal/domain/apperr"
	"github.com/avicole/farmledger/internal/domain/models"
	"github.com/avicole/farmledger/pkg/money"
)

// PLMetrics are normalized per-unit figures. Each is nil when its denominator
// is zero: a fully-sold or not-yet-started section has no meaningful ratio and
// must not read as "zero cost".
type PLMetrics struct {
	CostPerAliveChick   *float64 `json:"cost_per_alive_chick"`
	RevenuePerSoldChick *float64 `json:"revenue_per_sold_chick"`
	ProfitPerSoldChick  *float64 `json:"profit_per_sold_chick"`
}

// SectionPL is the profit-and-loss summary of one section.
type SectionPL struct {
	SectionID     primitive.ObjectID `json:"section_id"`
	SectionName   string             `json:"section_name"`
	TotalRevenue  float64            `json:"total_revenue"`
	TotalExpenses float64            `json:"total_expenses"`
	Profit        float64            `json:"profit"`
	IsProfitable  bool               `json:"is_profitable"`
	Metrics       PLMetrics          `json:"metrics"`
}

// SectionPL computes the section's P&L. A section holding unresolved
// obligations fails with Conflict rather than reporting partial numbers.
func (s *Service) SectionPL(ctx context.Context, sectionID primitive.ObjectID) (SectionPL, error) {
	section, err := s.store.FindSectionByID(ctx, sectionID)
	if err != nil {
		return SectionPL{}, err
	}
	if section == nil {
		return SectionPL{}, apperr.NotFound("section %s not found", sectionID.Hex())
	}
	return s.sectionPL(ctx, *section)
}

func (s *Service) sectionPL(ctx context.Context, section models.Section) (SectionPL, error) {
	batches, err := s.store.ListBatchesBySection(ctx, section.ID)
	if err != nil {
		return SectionPL{}, err
	}
	ids := batchIDs(batches)

	blocked, err := s.guard.HasUnresolvedForBatches(ctx, section.ID, ids)
	if err != nil {
		return SectionPL{}, err
	}
	if blocked {
		return SectionPL{}, apperr.Conflict("section has unresolved financial operations")
	}

	chickOuts, err := s.store.ListChickOutsByBatches(ctx, ids)
	if err != nil {
		return SectionPL{}, err
	}
	var totalRevenue float64
	var soldChicks int
	for _, chickOut := range chickOuts {
		if chickOut.Status != models.ChickOutComplete || chickOut.Settlement == nil {
			continue
		}
		totalRevenue += chickOut.Settlement.TotalRevenue
		soldChicks += chickOut.Count
	}

	expenses, err := s.store.ListExpensesBySection(ctx, section.ID)
	if err != nil {
		return SectionPL{}, err
	}
	var totalExpenses float64
	for _, expense := range expenses {
		totalExpenses += expense.Amount
	}

	var aliveChicks int
	for _, batch := range batches {
		aliveChicks += batch.AliveCount
	}

	totalRevenue = money.Round2(totalRevenue)
	totalExpenses = money.Round2(totalExpenses)
	profit := money.Round2(totalRevenue - totalExpenses)

	return SectionPL{
		SectionID:     section.ID,
		SectionName:   section.Name,
		TotalRevenue:  totalRevenue,
		TotalExpenses: totalExpenses,
		Profit:        profit,
		IsProfitable:  profit > 0,
		Metrics: PLMetrics{
			CostPerAliveChick:   money.Ratio(totalExpenses, float64(aliveChicks)),
			RevenuePerSoldChick: money.Ratio(totalRevenue, float64(soldChicks)),
			ProfitPerSoldChick:  money.Ratio(profit, float64(soldChicks)),
		},
	}, nil
}

// SectionPLOutcome is one section's result within a bulk computation.
type SectionPLOutcome struct {
	SectionID   primitive.ObjectID `json:"section_id"`
	SectionName string             `json:"section_name"`
	PL          *SectionPL         `json:"pl,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// AllSectionsPLForPeriod computes P&L independently for every section
// assigned to the period. One section's failure does not abort the batch;
// an error is surfaced only when every section failed.
func (s *Service) AllSectionsPLForPeriod(ctx context.Context, periodID primitive.ObjectID) ([]SectionPLOutcome, error) {
	period, err := s.store.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, apperr.NotFound("period %s not found", periodID.Hex())
	}

	sections, err := s.store.ListSectionsByIDs(ctx, period.SectionIDs)
	if err != nil {
		return nil, err
	}

	outcomes := make([]SectionPLOutcome, 0, len(sections))
	failures := 0
	var messages []string
	for _, section := range sections {
		outcome := SectionPLOutcome{SectionID: section.ID, SectionName: section.Name}
		pl, err := s.sectionPL(ctx, section)
		if err != nil {
			failures++
			outcome.Error = err.Error()
			messages = append(messages, section.Name+": "+err.Error())
		} else {
			outcome.PL = &pl
		}
		outcomes = append(outcomes, outcome)
	}

	if len(sections) > 0 && failures == len(sections) {
		return nil, apperr.Conflict("all sections failed: %s", strings.Join(messages, "; "))
	}
	return outcomes, nil
}
