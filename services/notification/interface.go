package notification

import (
	"context"

	"carebook/models"

	"go.uber.org/zap"
)

// NotificationService delivers appointment-related messages. Actual delivery
// channels (email, push) live outside this repository; production wiring
// plugs a real sender in behind this interface.
type NotificationService interface {
	SendAppointmentReminder(ctx context.Context, appt *models.Appointment, payload models.ReminderPayload) error
}

// LogNotificationService is the default implementation: it records the
// reminder in the service log and nothing else.
type LogNotificationService struct {
	Logger *zap.Logger
}

func (s *LogNotificationService) SendAppointmentReminder(_ context.Context, appt *models.Appointment, payload models.ReminderPayload) error {
	s.Logger.Info("appointment reminder due",
		zap.String("appointmentID", appt.ID),
		zap.String("reference", appt.Reference),
		zap.String("customerID", payload.CustomerID),
		zap.String("providerID", payload.ProviderID),
		zap.String("fireDate", payload.FireDate),
	)
	return nil
}
