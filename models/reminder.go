package models

// ReminderPayload is the task payload for scheduled appointment reminders.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	CustomerID    string `json:"customerId"`
	ProviderID    string `json:"providerId"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	FireDate      string `json:"fireDate"`
}
