// Package sheets exports analytics snapshots to a Google Sheets spreadsheet
// used by the operations team as a lightweight dashboard.
package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/avicole/farmledger/internal/service/finance"
)

const (
	dateLayout        = "2006-01-02"
	costSnapshotRange = "CostBreakdown!A:E"
	rankingRange      = "SectionRanking!A:F"
	valueInputOption  = "USER_ENTERED"
	insertRowsOption  = "INSERT_ROWS"
)

// Config contains configuration required to interact with Google Sheets.
type Config struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Exporter appends analytics rows to the operations spreadsheet.
type Exporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewExporter builds a Google Sheets backed analytics exporter.
func NewExporter(ctx context.Context, cfg Config, logger *zap.Logger) (*Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &Exporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendCostBreakdown appends one row per category of a period's cost
// composition.
func (e *Exporter) AppendCostBreakdown(ctx context.Context, day time.Time, periodName string, breakdown finance.CostBreakdown) error {
	rows := make([][]interface{}, 0, len(breakdown.Categories))
	for _, category := range breakdown.Categories {
		rows = append(rows, []interface{}{
			day.Format(dateLayout),
			periodName,
			string(category.Category),
			category.Amount,
			category.Percentage,
		})
	}
	return e.appendRows(ctx, costSnapshotRange, rows)
}

// AppendSectionRanking appends one row per section of a period's insight
// table.
func (e *Exporter) AppendSectionRanking(ctx context.Context, day time.Time, periodName string, insights []finance.SectionInsight) error {
	rows := make([][]interface{}, 0, len(insights))
	for _, insight := range insights {
		rows = append(rows, []interface{}{
			day.Format(dateLayout),
			periodName,
			insight.SectionName,
			insight.Rank,
			insight.PL.Profit,
			string(insight.Status),
		})
	}
	return e.appendRows(ctx, rankingRange, rows)
}

func (e *Exporter) appendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	payload := &sheetsapi.ValueRange{Values: rows}
	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, sheetRange, payload).
		ValueInputOption(valueInputOption).
		InsertDataOption(insertRowsOption).
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append rows into range %s: %w", sheetRange, err)
	}

	e.logger.Debug("rows appended to sheet", zap.String("range", sheetRange), zap.Int("rows", len(rows)))
	return nil
}
