package handlers

import (
	"net/http"

	providerRepo "carebook/database/repository/provider"
	serviceRepo "carebook/database/repository/service"
	"carebook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler serves the read-only service/provider catalogue clients
// browse before booking.
type CatalogHandler struct {
	Services  serviceRepo.ServiceRepository
	Providers providerRepo.ProviderRepository
	Logger    *zap.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(services serviceRepo.ServiceRepository, providers providerRepo.ProviderRepository, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Services: services, Providers: providers, Logger: logger}
}

// ListServices returns all active bookable services.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.Services.GetActive()
	if err != nil {
		h.Logger.Error("failed to list services", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list services", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// GetProvider returns one provider's public profile and windows.
func (h *CatalogHandler) GetProvider(c *gin.Context) {
	id := c.Param("id")
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
	c.JSON(http.StatusOK, gin.H{"provider": prov})
}
