package handlers

import (
	"net/http"
	"time"

	"carebook/config"
	"carebook/services/booking"
	"carebook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the hold → confirm reservation flow over HTTP.
type BookingHandler struct {
	Booking booking.BookingService
	Logger  *zap.Logger
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Booking: svc, Logger: logger}
}

// PlaceHold claims a slot for the requesting client for a bounded TTL.
func (h *BookingHandler) PlaceHold(c *gin.Context) {
	var req booking.HoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if req.TTLSeconds == 0 {
		req.TTLSeconds = config.AppConfig.HoldDefaultTTLSeconds
	}
	if req.TTLSeconds < 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "ttlSeconds must be positive")
		return
	}

	hold, err := h.Booking.PlaceHold(c.Request.Context(), req)
	if err != nil {
		h.Logger.Error("failed to place hold", zap.String("serviceID", req.ServiceID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to place hold", "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"hold": hold})
}

// ReleaseHold drops a hold. Releasing a missing or expired hold is not an error.
func (h *BookingHandler) ReleaseHold(c *gin.Context) {
	serviceID := c.Query("serviceId")
	if serviceID == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "serviceId query parameter is required")
		return
	}
	slot, ok := parseSlotParam(c)
	if !ok {
		return
	}

	released, err := h.Booking.ReleaseHold(c.Request.Context(), serviceID, slot)
	if err != nil {
		h.Logger.Error("failed to release hold", zap.String("serviceID", serviceID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to release hold", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"released": released})
}

// ConfirmBooking converts a held slot into a persisted appointment.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	var req booking.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	appt, err := h.Booking.Confirm(c.Request.Context(), req)
	if err != nil {
		if reason := booking.ReasonOf(err); reason != "" {
			c.JSON(booking.StatusOf(reason), gin.H{
				"reasons": []string{reason},
				"message": err.Error(),
			})
			return
		}
		h.Logger.Error("failed to confirm booking", zap.String("serviceID", req.ServiceID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to confirm booking", "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"appointment": appt})
}

// CancelAppointment transitions an appointment to cancelled.
func (h *BookingHandler) CancelAppointment(c *gin.Context) {
	id := c.Param("id")
	appt, err := h.Booking.Cancel(c.Request.Context(), id)
	if err != nil {
		if reason := booking.ReasonOf(err); reason != "" {
			c.JSON(booking.StatusOf(reason), gin.H{
				"reasons": []string{reason},
				"message": err.Error(),
			})
			return
		}
		h.Logger.Error("failed to cancel appointment", zap.String("appointmentID", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel appointment", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

// parseSlotParam reads the "slot" query parameter as an RFC 3339 instant,
// writing the error response itself when the value is missing or malformed.
func parseSlotParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("slot")
	if raw == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "slot query parameter is required")
		return time.Time{}, false
	}
	slot, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "slot must be an RFC 3339 instant")
		return time.Time{}, false
	}
	return slot, true
}
