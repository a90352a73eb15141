package routes

import (
	"carebook/handlers"

	"github.com/gin-gonic/gin"
)

// HandlerBundle aggregates the handlers wired in main.
type HandlerBundle struct {
	Availability *handlers.AvailabilityHandler
	Booking      *handlers.BookingHandler
	Appointments *handlers.AppointmentHandler
	Catalog      *handlers.CatalogHandler
	Provider     *handlers.ProviderHandler
}

// RegisterRoutes registers all endpoints on the router.
func RegisterRoutes(r *gin.Engine, b *HandlerBundle) {
	r.GET("/health", handlers.HealthHandler)

	RegisterBookingRoutes(r, b)
	RegisterCatalogRoutes(r, b)
}
