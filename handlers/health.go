package handlers

import (
	"net/http"

	"carebook/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest external-dependency health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
