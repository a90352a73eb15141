package handlers

import (
	"net/http"
	"strconv"

	"carebook/services/booking"
	"carebook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler exposes availability generation over HTTP.
type AvailabilityHandler struct {
	Engine booking.AvailabilityEngine
	Logger *zap.Logger
}

// NewAvailabilityHandler creates an AvailabilityHandler.
func NewAvailabilityHandler(engine booking.AvailabilityEngine, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Engine: engine, Logger: logger}
}

// GetAvailability returns open slots grouped by UTC day for the requested range.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	req := booking.AvailabilityRequest{
		ServiceID:  c.Query("serviceId"),
		ProviderID: c.Query("providerId"),
	}
	if raw := c.Query("rangeDays"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "rangeDays must be a positive integer")
			return
		}
		req.RangeDays = days
	}

	result, err := h.Engine.GetAvailability(c.Request.Context(), req)
	if err != nil {
		h.Logger.Error("failed to generate availability", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to generate availability", "")
		return
	}
	c.JSON(http.StatusOK, result)
}
