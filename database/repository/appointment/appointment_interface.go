package appointmentRepo

import (
	"errors"
	"time"

	"carebook/models"
)

// ErrDuplicateSlot is returned by Create when another non-cancelled
// appointment already occupies the same (serviceId, slotStart) key. The
// storage layer's unique index is the final arbiter between racing confirms;
// the in-code collision check only narrows the window.
var ErrDuplicateSlot = errors.New("appointment already exists for this service and slot")

// AppointmentRepository abstracts persistence for appointments. GetByID and
// FindActiveByServiceAndStart return (nil, nil) when nothing matches.
type AppointmentRepository interface {
	GetByID(id string) (*models.Appointment, error)
	GetByCustomer(customerID string) ([]models.Appointment, error)
	FindActiveInRange(start, end time.Time) ([]models.Appointment, error)
	FindActiveByServiceAndStart(serviceID string, start time.Time) (*models.Appointment, error)
	Create(appt *models.Appointment) error
	UpdateStatus(id, status string) error
}
