package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avicole/farmledger/internal/server/handlers"
)

// New wires the Gin engine with all routes and middlewares.
func New(
	ledgerHandler *handlers.LedgerHandler,
	assetsHandler *handlers.AssetsHandler,
	revenueHandler *handlers.RevenueHandler,
	financeHandler *handlers.FinanceHandler,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	// Periods and the expense ledger.
	r.POST("/periods", financeHandler.CreatePeriod)
	r.POST("/periods/:id/close", financeHandler.ClosePeriod)
	r.POST("/periods/:id/expenses", ledgerHandler.PostExpense)
	r.POST("/utility-costs/water", ledgerHandler.DeriveWaterCost)
	r.POST("/utility-costs/electricity", ledgerHandler.DeriveElectricityCost)

	// Assets and technical incidents.
	r.POST("/assets", assetsHandler.CreateAsset)
	r.POST("/assets/:id/status", assetsHandler.UpdateAssetStatus)
	r.POST("/incidents", assetsHandler.ReportIncident)
	r.POST("/incidents/:id/repair-expense", assetsHandler.CreateRepairExpense)
	r.POST("/incidents/:id/resolve", assetsHandler.ResolveIncident)

	// Revenue.
	r.POST("/chick-outs", revenueHandler.CreateChickOut)
	r.POST("/chick-outs/:id/complete", revenueHandler.CompleteChickOut)

	// Reporting.
	r.GET("/sections/:id/pl", financeHandler.SectionPL)
	r.GET("/periods/:id/pl", financeHandler.AllSectionsPL)
	r.GET("/periods/:id/breakdown", financeHandler.CostBreakdown)
	r.GET("/periods/:id/analytics", financeHandler.PeriodAnalytics)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
