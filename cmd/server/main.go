package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/avicole/farmledger/internal/config"
	"github.com/avicole/farmledger/internal/repository/mongodb"
	"github.com/avicole/farmledger/internal/repository/sheets"
	"github.com/avicole/farmledger/internal/scheduler"
	"github.com/avicole/farmledger/internal/server/handlers"
	"github.com/avicole/farmledger/internal/server/router"
	assetssvc "github.com/avicole/farmledger/internal/service/assets"
	financesvc "github.com/avicole/farmledger/internal/service/finance"
	ledgersvc "github.com/avicole/farmledger/internal/service/ledger"
	revenuesvc "github.com/avicole/farmledger/internal/service/revenue"
	"github.com/avicole/farmledger/pkg/clients/alerting"
	"github.com/avicole/farmledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	alertClient := alerting.NewClient(alerting.Config{
		WebhookURL: cfg.Alerting.WebhookURL,
		AuthToken:  cfg.Alerting.AuthToken,
	}, baseLogger.Named("clients.alerting"))

	tariffs := ledgersvc.Tariffs{
		WaterPerM3:        cfg.Tariffs.WaterPerM3,
		ElectricityPerKWh: cfg.Tariffs.ElectricityPerKWh,
	}
	ledgerSvc := ledgersvc.NewService(mongoRepo, tariffs, baseLogger.Named("svc.ledger"))
	assetsSvc := assetssvc.NewService(mongoRepo, ledgerSvc, baseLogger.Named("svc.assets"))
	revenueSvc := revenuesvc.NewService(mongoRepo, baseLogger.Named("svc.revenue"))
	guard := financesvc.NewGuard(mongoRepo)
	financeSvc := financesvc.NewService(mongoRepo, guard, baseLogger.Named("svc.finance"))

	ledgerHandler := handlers.NewLedgerHandler(ledgerSvc, alertClient, baseLogger.Named("handlers.ledger"))
	assetsHandler := handlers.NewAssetsHandler(assetsSvc, baseLogger.Named("handlers.assets"))
	revenueHandler := handlers.NewRevenueHandler(revenueSvc, baseLogger.Named("handlers.revenue"))
	financeHandler := handlers.NewFinanceHandler(financeSvc, baseLogger.Named("handlers.finance"))
	engine := router.New(ledgerHandler, assetsHandler, revenueHandler, financeHandler, baseLogger.Named("router"))

	var exporter *sheets.Exporter
	if cfg.SheetsEnabled() {
		exporter, err = sheets.NewExporter(context.Background(), sheets.Config{
			CredentialsPath: cfg.Sheets.CredentialsPath,
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		}, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("spreadsheet export enabled")
	} else {
		baseLogger.Warn("spreadsheet export disabled, no credentials configured")
	}

	sched := scheduler.NewScheduler(cfg.Scheduler.CronSchedule, mongoRepo, financeSvc, alertClient, exporter, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
