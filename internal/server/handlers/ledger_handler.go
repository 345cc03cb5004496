package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/avicole/farmledger/internal/domain/models"
	"github.com/avicole/farmledger/internal/service/ledger"
	"github.com/avicole/farmledger/pkg/clients/alerting"
)

// LedgerHandler exposes expense posting and utility derivation.
type LedgerHandler struct {
	svc     *ledger.Service
	alerter *alerting.Client
	logger  *zap.Logger
}

// NewLedgerHandler constructs the HTTP handler adapter.
func NewLedgerHandler(svc *ledger.Service, alerter *alerting.Client, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{svc: svc, alerter: alerter, logger: logger}
}

type postExpenseRequest struct {
	Category    string    `json:"category" binding:"required"`
	Amount      float64   `json:"amount" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Description string    `json:"description"`
	SectionID   string    `json:"section_id"`
	AssetID     string    `json:"asset_id"`
	BatchID     string    `json:"batch_id"`
}

// PostExpense appends a manual ledger entry to a period.
func (h *LedgerHandler) PostExpense(c *gin.Context) {
	periodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req postExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sectionID, err := parseOptionalID(req.SectionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section_id"})
		return
	}
	assetID, err := parseOptionalID(req.AssetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset_id"})
		return
	}
	batchID, err := parseOptionalID(req.BatchID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch_id"})
		return
	}

	expense, err := h.svc.PostExpense(c.Request.Context(), ledger.PostExpenseInput{
		PeriodID:    periodID,
		Category:    models.ExpenseCategory(req.Category),
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
		SectionID:   sectionID,
		AssetID:     assetID,
		BatchID:     batchID,
		Actor:       actor(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

type deriveUtilityRequest struct {
	PeriodID       string    `json:"period_id" binding:"required"`
	SectionID      string    `json:"section_id" binding:"required"`
	Quantity       float64   `json:"quantity" binding:"required"`
	Date           time.Time `json:"date" binding:"required"`
	SourceReportID string    `json:"source_report_id" binding:"required"`
}

// DeriveWaterCost converts a water reading into a ledger entry. Best-effort:
// a failed derivation is logged and pushed to the alert sink, and the caller
// gets 202 so report ingestion is never blocked by it.
func (h *LedgerHandler) DeriveWaterCost(c *gin.Context) {
	h.deriveUtility(c, models.UtilityWater)
}

// DeriveElectricityCost is the electricity counterpart of DeriveWaterCost.
func (h *LedgerHandler) DeriveElectricityCost(c *gin.Context) {
	h.deriveUtility(c, models.UtilityElectricity)
}

func (h *LedgerHandler) deriveUtility(c *gin.Context, kind models.UtilityKind) {
	var req deriveUtilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	periodID, err := primitive.ObjectIDFromHex(req.PeriodID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_id"})
		return
	}
	sectionID, err := primitive.ObjectIDFromHex(req.SectionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section_id"})
		return
	}
	reportID, err := primitive.ObjectIDFromHex(req.SourceReportID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source_report_id"})
		return
	}

	input := ledger.DeriveUtilityInput{
		PeriodID:       periodID,
		SectionID:      sectionID,
		Quantity:       req.Quantity,
		Date:           req.Date,
		SourceReportID: reportID,
		Actor:          actor(c),
	}

	var expense models.PeriodExpense
	if kind == models.UtilityWater {
		expense, err = h.svc.DeriveWaterCost(c.Request.Context(), input)
	} else {
		expense, err = h.svc.DeriveElectricityCost(c.Request.Context(), input)
	}
	if err != nil {
		h.logger.Warn("utility derivation failed",
			zap.String("kind", string(kind)),
			zap.String("source_report_id", req.SourceReportID),
			zap.Error(err))
		h.alerter.Notify(c.Request.Context(), "utility derivation failed for report "+req.SourceReportID+": "+err.Error())
		c.JSON(http.StatusAccepted, gin.H{"status": "derivation skipped", "reason": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, expense)
}
