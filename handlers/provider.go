package handlers

import (
	"fmt"
	"net/http"

	providerRepo "carebook/database/repository/provider"
	"carebook/models"
	"carebook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProviderHandler covers the staff-facing provider editing surface.
type ProviderHandler struct {
	Providers providerRepo.ProviderRepository
	Logger    *zap.Logger
}

// NewProviderHandler creates a ProviderHandler.
func NewProviderHandler(providers providerRepo.ProviderRepository, logger *zap.Logger) *ProviderHandler {
	return &ProviderHandler{Providers: providers, Logger: logger}
}

// ReplaceWindowsRequest defines the payload for setting up weekly windows.
// The list replaces the provider's windows wholesale; it is never patched.
type ReplaceWindowsRequest struct {
	Windows []models.AvailabilityWindow `json:"windows" binding:"required"`
}

var validWeekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// ReplaceWindows saves a provider's recurring weekly availability windows.
func (h *ProviderHandler) ReplaceWindows(c *gin.Context) {
	id := c.Param("id")
	var req ReplaceWindowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	for i, w := range req.Windows {
		if !validWeekdays[w.Day] {
			utils.JSONError(c, http.StatusBadRequest, "invalid input",
				fmt.Sprintf("windows[%d].day must be a weekday name, got %q", i, w.Day))
			return
		}
	}

	prov, err := h.Providers.GetByID(id)
	if err != nil {
		h.Logger.Error("failed to fetch provider", zap.String("providerID", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch provider", "")
		return
	}
	if prov == nil {
		utils.JSONError(c, http.StatusNotFound, "provider not found", "")
		return
	}

	if err := h.Providers.ReplaceWindows(id, req.Windows); err != nil {
		h.Logger.Error("failed to replace windows", zap.String("providerID", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to replace windows", "")
		return
	}
	prov.Windows = req.Windows
	c.JSON(http.StatusOK, gin.H{"provider": prov})
}
