package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"carebook/config"
	"carebook/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// NewReminderTask builds the asynq task for a scheduled appointment reminder.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// ReminderScheduler enqueues reminder tasks for confirmed appointments.
type ReminderScheduler struct {
	Client    *asynq.Client
	LeadHours int
}

// NewReminderScheduler builds a scheduler over the configured Redis task queue.
func NewReminderScheduler() *ReminderScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	})
	return &ReminderScheduler{
		Client:    client,
		LeadHours: config.AppConfig.ReminderLeadHours,
	}
}

// ScheduleAppointmentReminder enqueues a reminder to fire LeadHours before
// the appointment starts. Appointments starting sooner than that get no
// reminder rather than an immediate one.
func (s *ReminderScheduler) ScheduleAppointmentReminder(appt *models.Appointment) error {
	fireAt := appt.Schedule.Start.Add(-time.Duration(s.LeadHours) * time.Hour)
	if fireAt.Before(time.Now()) {
		return nil
	}
	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		CustomerID:    appt.CustomerID,
		ProviderID:    appt.ProviderID,
		Title:         "Upcoming appointment",
		Body:          fmt.Sprintf("Reminder: appointment %s starts at %s", appt.Reference, appt.Schedule.Start.Format(time.RFC3339)),
		FireDate:      fireAt.UTC().Format(time.RFC3339),
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.Client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder task: %w", err)
	}
	return nil
}
