package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"carebook/config"
	appointmentRepo "carebook/database/repository/appointment"
	"carebook/models"
	"carebook/services/notification"
	"carebook/services/tasks"

	"github.com/hibiken/asynq"
)

// InitReminderWorker runs the async reminder worker in background.
func InitReminderWorker(appts appointmentRepo.AppointmentRepository, notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(appts, notifSvc))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(appts appointmentRepo.AppointmentRepository, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		appt, err := appts.GetByID(p.AppointmentID)
		if err != nil {
			log.Printf("[ReminderHandler] failed to load appointment %s: %v", p.AppointmentID, err)
			return err
		}
		// Cancelled or vanished between enqueue and fire: nothing to remind.
		if appt == nil || appt.Status == models.AppointmentStatusCancelled {
			return nil
		}

		if err := notifSvc.SendAppointmentReminder(ctx, appt, p); err != nil {
			log.Printf("[ReminderHandler] failed to send reminder for %s: %v", appt.ID, err)
			return err
		}
		return nil
	}
}
