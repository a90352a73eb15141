package models

import "time"

// Appointment statuses.
const (
	AppointmentStatusPending    = "pending"
	AppointmentStatusConfirmed  = "confirmed"
	AppointmentStatusInProgress = "in_progress"
	AppointmentStatusCompleted  = "completed"
	AppointmentStatusCancelled  = "cancelled"
	AppointmentStatusNoShow     = "no_show"
)

// AppointmentSchedule is frozen at confirm time. Later changes to the
// service's duration or buffers must not rewrite persisted bookings.
type AppointmentSchedule struct {
	Start           time.Time `bson:"start" json:"start"` // UTC
	End             time.Time `bson:"end" json:"end"`     // UTC
	TimeZone        string    `bson:"timeZone" json:"timeZone"`
	BufferBefore    int       `bson:"bufferBefore" json:"bufferBefore"`
	BufferAfter     int       `bson:"bufferAfter" json:"bufferAfter"`
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
}

// PricingSnapshot captures the service price at booking time.
type PricingSnapshot struct {
	Amount          float64 `bson:"amount" json:"amount"`
	Currency        string  `bson:"currency" json:"currency"`
	DurationMinutes int     `bson:"durationMinutes" json:"durationMinutes"`
	TaxRate         float64 `bson:"taxRate" json:"taxRate"`
}

// Appointment is the durable booking record, created only through the
// confirmation step of the reservation protocol.
type Appointment struct {
	ID          string              `bson:"id" json:"id"`
	Reference   string              `bson:"reference" json:"reference"`
	Status      string              `bson:"status" json:"status"`
	CustomerID  string              `bson:"customerId" json:"customerId"`
	ProviderID  string              `bson:"providerId" json:"providerId"`
	ServiceID   string              `bson:"serviceId" json:"serviceId"`
	Schedule    AppointmentSchedule `bson:"schedule" json:"schedule"`
	Pricing     PricingSnapshot     `bson:"pricing" json:"pricing"`
	ClientNotes string              `bson:"clientNotes,omitempty" json:"clientNotes,omitempty"`
	Metadata    map[string]string   `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// IsCancellable reports whether the appointment may still transition to cancelled.
func (a *Appointment) IsCancellable() bool {
	return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
}
