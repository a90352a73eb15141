package routes

import (
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, b *HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/availability", b.Availability.GetAvailability)

		bookingGroup := api.Group("/booking")
		{
			bookingGroup.POST("/hold", b.Booking.PlaceHold)         // Phase 1: claim a slot
			bookingGroup.DELETE("/hold", b.Booking.ReleaseHold)     // Abandon the claim
			bookingGroup.POST("/confirm", b.Booking.ConfirmBooking) // Phase 2: commit
		}

		api.GET("/appointments/:id", b.Appointments.GetAppointment)
		api.POST("/appointments/:id/cancel", b.Booking.CancelAppointment)
		api.GET("/customers/:id/appointments", b.Appointments.GetCustomerAppointments)
	}
}

// RegisterCatalogRoutes registers the read-only catalogue plus the staff
// window-editing endpoint.
func RegisterCatalogRoutes(r *gin.Engine, b *HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/services", b.Catalog.ListServices)
		api.GET("/providers/:id", b.Catalog.GetProvider)
		api.PUT("/providers/:id/windows", b.Provider.ReplaceWindows)
	}
}
