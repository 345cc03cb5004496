package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avicole/farmledger/internal/domain/models"
	"github.com/avicole/farmledger/internal/service/assets"
)

// AssetsHandler exposes asset acquisition, incident reporting, and the repair
// flow.
type AssetsHandler struct {
	svc    *assets.Service
	logger *zap.Logger
}

// NewAssetsHandler constructs the HTTP handler adapter.
func NewAssetsHandler(svc *assets.Service, logger *zap.Logger) *AssetsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetsHandler{svc: svc, logger: logger}
}

type createAssetRequest struct {
	Name          string           `json:"name" binding:"required"`
	Category      string           `json:"category" binding:"required"`
	SectionID     string           `json:"section_id"`
	Location      *models.GeoPoint `json:"location"`
	IsNewPurchase bool             `json:"is_new_purchase"`
	PurchaseCost  *float64         `json:"purchase_cost"`
	PeriodID      string           `json:"period_id"`
}

// CreateAsset creates equipment, posting the capital expense when a period
// resolves.
func (h *AssetsHandler) CreateAsset(c *gin.Context) {
	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sectionID, err := parseOptionalID(req.SectionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section_id"})
		return
	}
	periodID, err := parseOptionalID(req.PeriodID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_id"})
		return
	}

	result, err := h.svc.CreateAsset(c.Request.Context(), assets.CreateAssetInput{
		Name:          req.Name,
		Category:      req.Category,
		SectionID:     sectionID,
		Location:      req.Location,
		IsNewPurchase: req.IsNewPurchase,
		PurchaseCost:  req.PurchaseCost,
		PeriodID:      periodID,
		Actor:         actor(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"asset":            result.Asset,
		"expense":          result.Expense,
		"purchase_skipped": result.PurchaseSkipped,
	})
}

type updateAssetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAssetStatus transitions equipment state, appending an audit entry.
func (h *AssetsHandler) UpdateAssetStatus(c *gin.Context) {
	assetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateAssetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	asset, err := h.svc.UpdateAssetStatus(c.Request.Context(), assetID, models.AssetStatus(req.Status), actor(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

type reportIncidentRequest struct {
	AssetID         string `json:"asset_id" binding:"required"`
	Description     string `json:"description" binding:"required"`
	RequiresExpense bool   `json:"requires_expense"`
}

// ReportIncident records a fault on an asset.
func (h *AssetsHandler) ReportIncident(c *gin.Context) {
	var req reportIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	assetID, err := parseOptionalID(req.AssetID)
	if err != nil || assetID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset_id"})
		return
	}

	incident, err := h.svc.ReportIncident(c.Request.Context(), assets.ReportIncidentInput{
		AssetID:         *assetID,
		Description:     req.Description,
		RequiresExpense: req.RequiresExpense,
		Reporter:        actor(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, incident)
}

type repairExpenseRequest struct {
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description" binding:"required"`
	PeriodID    string  `json:"period_id"`
}

// CreateRepairExpense settles an expense-requiring incident.
func (h *AssetsHandler) CreateRepairExpense(c *gin.Context) {
	incidentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req repairExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	periodID, err := parseOptionalID(req.PeriodID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_id"})
		return
	}

	expense, err := h.svc.CreateRepairExpense(c.Request.Context(), assets.CreateRepairExpenseInput{
		IncidentID:  incidentID,
		Amount:      req.Amount,
		Description: req.Description,
		PeriodID:    periodID,
		Actor:       actor(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// ResolveIncident flips the resolved flag on an incident owing no expense.
func (h *AssetsHandler) ResolveIncident(c *gin.Context) {
	incidentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.ResolveIncident(c.Request.Context(), incidentID, actor(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
