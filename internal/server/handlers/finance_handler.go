package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/avicole/farmledger/internal/service/finance"
)

// FinanceHandler exposes the read-side computations and period lifecycle.
type FinanceHandler struct {
	svc    *finance.Service
	logger *zap.Logger
}

// NewFinanceHandler constructs the HTTP handler adapter.
func NewFinanceHandler(svc *finance.Service, logger *zap.Logger) *FinanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceHandler{svc: svc, logger: logger}
}

type createPeriodRequest struct {
	Name       string    `json:"name" binding:"required"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	SectionIDs []string  `json:"section_ids"`
}

// CreatePeriod opens a new accounting window.
func (h *FinanceHandler) CreatePeriod(c *gin.Context) {
	var req createPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sectionIDs := make([]primitive.ObjectID, 0, len(req.SectionIDs))
	for _, raw := range req.SectionIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section id " + raw})
			return
		}
		sectionIDs = append(sectionIDs, id)
	}

	period, err := h.svc.CreatePeriod(c.Request.Context(), finance.CreatePeriodInput{
		Name:       req.Name,
		StartDate:  req.StartDate,
		SectionIDs: sectionIDs,
		Actor:      actor(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, period)
}

// ClosePeriod transitions a period to CLOSED when nothing blocks it.
func (h *FinanceHandler) ClosePeriod(c *gin.Context) {
	periodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	period, err := h.svc.ClosePeriod(c.Request.Context(), periodID, actor(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, period)
}

// SectionPL returns one section's profit-and-loss summary.
func (h *FinanceHandler) SectionPL(c *gin.Context) {
	sectionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	pl, err := h.svc.SectionPL(c.Request.Context(), sectionID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pl)
}

// AllSectionsPL returns the per-section P&L table for a period.
func (h *FinanceHandler) AllSectionsPL(c *gin.Context) {
	periodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	outcomes, err := h.svc.AllSectionsPLForPeriod(c.Request.Context(), periodID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": outcomes})
}

// CostBreakdown returns the period's categorized cost composition.
func (h *FinanceHandler) CostBreakdown(c *gin.Context) {
	periodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	breakdown, err := h.svc.CostBreakdown(c.Request.Context(), periodID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// PeriodAnalytics returns the ranked section insight table. A blocked period
// is a 200 with a blocked result object, not an HTTP error.
func (h *FinanceHandler) PeriodAnalytics(c *gin.Context) {
	periodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	analytics, err := h.svc.PeriodAnalytics(c.Request.Context(), periodID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
