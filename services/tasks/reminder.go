package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"frontdesk/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeAppointmentReminder = "appointment:reminder"

func NewAppointmentReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + payload.AppointmentID),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// Enqueuer is the part of asynq.Client the scheduler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqReminderScheduler queues a reminder Lead before each committed
// appointment. Appointments starting sooner than that get no reminder.
type AsynqReminderScheduler struct {
	Client Enqueuer
	Lead   time.Duration
	Now    func() time.Time
	Logger *zap.Logger
}

func NewAsynqReminderScheduler(client Enqueuer, lead time.Duration, logger *zap.Logger) *AsynqReminderScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsynqReminderScheduler{Client: client, Lead: lead, Now: time.Now, Logger: logger}
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, appt models.Appointment) error {
	fireAt := appt.Start.Add(-s.Lead)
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	if !fireAt.After(now) {
		return nil
	}

	task, opts, err := NewAppointmentReminderTask(models.ReminderPayload{
		AppointmentID: appt.ID,
		PatientName:   appt.PatientName,
		ConsultantID:  appt.ConsultantID,
		Title:         appt.Title,
		Start:         appt.Start,
	}, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	info, err := s.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Debug("Reminder queued",
			zap.String("appointment_id", appt.ID),
			zap.String("task_id", info.ID),
			zap.Time("fire_at", fireAt),
		)
	}
	return nil
}
