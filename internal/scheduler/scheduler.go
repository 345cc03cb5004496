// Package scheduler runs the daily financial watch: it sweeps every active
// period, computes its analytics, pushes a digest of blocked sections to the
// operator webhook and exports the day's numbers to the dashboard
// spreadsheet.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/avicole/farmledger/internal/domain/models"
	"github.com/avicole/farmledger/internal/repository/sheets"
	"github.com/avicole/farmledger/internal/service/finance"
	"github.com/avicole/farmledger/pkg/clients/alerting"
)

const sweepTimeout = 2 * time.Minute

// PeriodStore lists the periods the watch has to visit.
type PeriodStore interface {
	ListActivePeriods(ctx context.Context) ([]models.Period, error)
}

// Analytics is the slice of the finance service the watch consumes.
type Analytics interface {
	PeriodAnalytics(ctx context.Context, periodID primitive.ObjectID) (finance.PeriodAnalytics, error)
}

// Scheduler manages the recurring financial watch job.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	store     PeriodStore
	analytics Analytics
	alerter   *alerting.Client
	exporter  *sheets.Exporter
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a scheduler. The exporter may be nil when no
// spreadsheet is configured; the sweep then only alerts.
func NewScheduler(schedule string, store PeriodStore, analytics Analytics, alerter *alerting.Client, exporter *sheets.Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(),
		schedule:  schedule,
		store:     store,
		analytics: analytics,
		alerter:   alerter,
		exporter:  exporter,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the financial watch and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runFinancialWatch); err != nil {
		s.logger.Error("failed to schedule financial watch", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runFinancialWatch() {
	s.logger.Info("running financial watch")
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	periods, err := s.store.ListActivePeriods(ctx)
	if err != nil {
		s.logger.Error("failed to list active periods", zap.Error(err))
		return
	}

	var blocked []string
	for _, period := range periods {
		analytics, err := s.analytics.PeriodAnalytics(ctx, period.ID)
		if err != nil {
			s.logger.Error("financial watch failed for period",
				zap.String("period", period.Name), zap.Error(err))
			continue
		}

		if analytics.Blocked {
			blocked = append(blocked, fmt.Sprintf("%s: %s", period.Name, analytics.Message))
			continue
		}

		s.exportSnapshot(ctx, period.Name, analytics)
	}

	if len(blocked) > 0 {
		digest := "periods with unresolved financial operations:\n" + strings.Join(blocked, "\n")
		s.alerter.Notify(ctx, digest)
		s.logger.Warn("financial watch found blocked periods", zap.Int("count", len(blocked)))
	} else {
		s.logger.Info("financial watch completed", zap.Int("periods", len(periods)))
	}
}

func (s *Scheduler) exportSnapshot(ctx context.Context, periodName string, analytics finance.PeriodAnalytics) {
	if s.exporter == nil {
		return
	}

	day := s.now()
	if err := s.exporter.AppendCostBreakdown(ctx, day, periodName, analytics.Breakdown); err != nil {
		s.logger.Error("failed to export cost breakdown", zap.String("period", periodName), zap.Error(err))
	}
	if err := s.exporter.AppendSectionRanking(ctx, day, periodName, analytics.Sections); err != nil {
		s.logger.Error("failed to export section ranking", zap.String("period", periodName), zap.Error(err))
	}
}
