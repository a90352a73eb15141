package handlers

import (
	"net/http"

	appointmentRepo "carebook/database/repository/appointment"
	"carebook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler serves read access to persisted appointments.
type AppointmentHandler struct {
	Appointments appointmentRepo.AppointmentRepository
	Logger       *zap.Logger
}

// NewAppointmentHandler creates an AppointmentHandler.
func NewAppointmentHandler(appts appointmentRepo.AppointmentRepository, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{Appointments: appts, Logger: logger}
}

// GetAppointment returns one appointment by id.
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	id := c.Param("id")
	appt, err := h.Appointments.GetByID(id)
	if err != nil {
		h.Logger.Error("failed to fetch appointment", zap.String("appointmentID", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch appointment", "")
		return
	}
	if appt == nil {
		utils.JSONError(c, http.StatusNotFound, "appointment not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

// GetCustomerAppointments lists a customer's appointments, newest first.
func (h *AppointmentHandler) GetCustomerAppointments(c *gin.Context) {
	customerID := c.Param("id")
	appts, err := h.Appointments.GetByCustomer(customerID)
	if err != nil {
		h.Logger.Error("failed to fetch customer appointments", zap.String("customerID", customerID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch appointments", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}
