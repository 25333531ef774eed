package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"frontdesk/config"
	"frontdesk/models"
	"frontdesk/services/tasks"
	"frontdesk/telemetry"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt is the queue connection shared by the reminder client and worker.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// InitReminderWorker starts the reminder worker in the background. The
// returned server should be shut down on exit.
func InitReminderWorker(logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAppointmentReminder, HandleReminderTask(logger))

	go func() {
		logger.Info("Starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("Reminder worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("max_attempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				logger.Error("Reminder worker gave up; reminders will not fire")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// HandleReminderTask logs a due reminder. Delivery to the patient happens
// outside this service.
func HandleReminderTask(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
		}

		logger.Info("Appointment reminder due",
			zap.String("appointment_id", p.AppointmentID),
			zap.String("patient", p.PatientName),
			zap.String("consultant_id", p.ConsultantID),
			zap.String("title", p.Title),
			zap.Time("start", p.Start),
		)
		telemetry.RemindersFiredTotal.Inc()
		return nil
	}
}
