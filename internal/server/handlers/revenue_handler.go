package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avicole/farmledger/internal/service/revenue"
)

// RevenueHandler exposes the chick-out state machine.
type RevenueHandler struct {
	svc    *revenue.Service
	logger *zap.Logger
}

// NewRevenueHandler constructs the HTTP handler adapter.
func NewRevenueHandler(svc *revenue.Service, logger *zap.Logger) *RevenueHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RevenueHandler{svc: svc, logger: logger}
}

type createChickOutRequest struct {
	BatchID   string    `json:"batch_id" binding:"required"`
	Date      time.Time `json:"date" binding:"required"`
	Count     int       `json:"count" binding:"required"`
	VehicleID string    `json:"vehicle_id"`
	MachineID string    `json:"machine_id"`
	IsFinal   bool      `json:"is_final"`
}

// CreateChickOut records the operational phase of a livestock removal.
func (h *RevenueHandler) CreateChickOut(c *gin.Context) {
	var req createChickOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	batchID, err := parseOptionalID(req.BatchID)
	if err != nil || batchID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch_id"})
		return
	}

	chickOut, err := h.svc.CreateChickOut(c.Request.Context(), revenue.CreateChickOutInput{
		BatchID:   *batchID,
		Date:      req.Date,
		Count:     req.Count,
		VehicleID: req.VehicleID,
		MachineID: req.MachineID,
		IsFinal:   req.IsFinal,
		Actor:     actor(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, chickOut)
}

type completeChickOutRequest struct {
	TotalWeightKg float64 `json:"total_weight_kg" binding:"required"`
	WastePercent  float64 `json:"waste_percent"`
	PricePerKg    float64 `json:"price_per_kg"`
}

// CompleteChickOut settles the financial phase.
func (h *RevenueHandler) CompleteChickOut(c *gin.Context) {
	chickOutID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req completeChickOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	chickOut, err := h.svc.CompleteChickOut(c.Request.Context(), revenue.CompleteChickOutInput{
		ChickOutID:    chickOutID,
		TotalWeightKg: req.TotalWeightKg,
		WastePercent:  req.WastePercent,
		PricePerKg:    req.PricePerKg,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, chickOut)
}
