package scheduling

import (
	"context"
	"errors"
	"sync"
	"time"

	"frontdesk/database/repository"
	"frontdesk/models"
	"frontdesk/telemetry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// pendingTTL bounds how long an unresolved conflict is kept.
const pendingTTL = 30 * time.Minute

// ReminderScheduler queues a reminder for a committed appointment.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appt models.Appointment) error
}

// SchedulingService validates, checks and commits appointments.
type SchedulingService interface {
	// ListAppointments returns the committed schedule, or a single day when day is non-nil.
	ListAppointments(day *time.Time) []models.Appointment
	GetAppointment(id string) (*models.Appointment, error)
	// Check runs conflict detection for a form without committing anything.
	Check(form models.AppointmentForm) (*models.ConflictInfo, []models.SlotSuggestion, error)
	// Save commits the form when it does not conflict. Otherwise nothing is
	// committed and the result carries the conflict, suggested slots and a
	// resolution id.
	Save(ctx context.Context, form models.AppointmentForm) (*models.SaveResult, error)
	// Resolve applies the operator's decision to a pending conflict. The
	// returned appointment is nil when the operator cancelled.
	Resolve(ctx context.Context, resolutionID string, req models.ResolutionRequest) (*models.Appointment, error)
	AllConflicts() []models.ConflictInfo
	AvailableSlots(day time.Time, durationMinutes int) []time.Time
	Location() *time.Location
}

type pendingResolution struct {
	appointment models.Appointment
	createdAt   time.Time
}

// DefaultSchedulingService is the production implementation. Repo is the only
// writer path; everything else reads snapshots.
type DefaultSchedulingService struct {
	Repo      repository.AppointmentRepository
	Reminders ReminderScheduler // optional
	Cache     *SlotCache        // optional
	Options   SlotOptions
	Loc       *time.Location
	Logger    *zap.Logger
	NewID     func() string
	Now       func() time.Time

	mu      sync.Mutex
	pending map[string]pendingResolution
}

func (s *DefaultSchedulingService) Location() *time.Location {
	if s.Loc == nil {
		return time.Local
	}
	return s.Loc
}

func (s *DefaultSchedulingService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultSchedulingService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *DefaultSchedulingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultSchedulingService) ListAppointments(day *time.Time) []models.Appointment {
	if day != nil {
		return s.Repo.OnDate(day.In(s.Location()))
	}
	pool, _ := s.Repo.Snapshot()
	return pool
}

func (s *DefaultSchedulingService) GetAppointment(id string) (*models.Appointment, error) {
	appt, ok := s.Repo.GetByID(id)
	if !ok {
		return nil, NewSchedulingError(CodeNotFound, "no appointment "+id)
	}
	return appt, nil
}

func (s *DefaultSchedulingService) Check(form models.AppointmentForm) (*models.ConflictInfo, []models.SlotSuggestion, error) {
	appt, err := BuildAppointment(form, s.newID(), s.Location())
	if err != nil {
		return nil, nil, err
	}
	pool, revision := s.Repo.Snapshot()
	conflict := DetectConflicts(appt, pool)
	if conflict == nil {
		return nil, nil, nil
	}
	minutes := int(appt.End.Sub(appt.Start) / time.Minute)
	return conflict, ToSuggestions(s.slotsFor(appt.Start, pool, revision, minutes), minutes), nil
}

func (s *DefaultSchedulingService) Save(ctx context.Context, form models.AppointmentForm) (*models.SaveResult, error) {
	appt, err := BuildAppointment(form, s.newID(), s.Location())
	if err != nil {
		return nil, err
	}

	pool, revision := s.Repo.Snapshot()
	conflict := DetectConflicts(appt, pool)
	if conflict == nil {
		if err := s.commit(ctx, appt, "none"); err != nil {
			return nil, err
		}
		return &models.SaveResult{Appointment: &appt}, nil
	}

	telemetry.ConflictsDetectedTotal.WithLabelValues(string(conflict.Severity)).Inc()
	minutes := int(appt.End.Sub(appt.Start) / time.Minute)
	suggestions := ToSuggestions(s.slotsFor(appt.Start, pool, revision, minutes), minutes)

	resolutionID := uuid.NewString()
	s.mu.Lock()
	if s.pending == nil {
		s.pending = make(map[string]pendingResolution)
	}
	s.purgeExpiredLocked()
	s.pending[resolutionID] = pendingResolution{appointment: appt, createdAt: s.now()}
	s.mu.Unlock()

	s.logger().Info("Appointment conflicts with schedule",
		zap.String("resolution_id", resolutionID),
		zap.String("severity", string(conflict.Severity)),
		zap.Int("conflicting", len(conflict.ConflictingAppointments)),
		zap.Int("suggestions", len(suggestions)),
	)
	return &models.SaveResult{
		Conflict:     conflict,
		Suggestions:  suggestions,
		ResolutionID: resolutionID,
	}, nil
}

func (s *DefaultSchedulingService) Resolve(ctx context.Context, resolutionID string, req models.ResolutionRequest) (*models.Appointment, error) {
	switch req.Action {
	case models.ResolvePick:
		if req.Slot == nil {
			return nil, NewSchedulingError(CodeInvalidResolution, "slot is required when picking a suggestion")
		}
	case models.ResolveIgnore, models.ResolveCancel:
	default:
		return nil, NewSchedulingError(CodeInvalidResolution, "unknown action "+string(req.Action))
	}

	s.mu.Lock()
	p, ok := s.pending[resolutionID]
	if ok {
		delete(s.pending, resolutionID)
	}
	s.mu.Unlock()
	if !ok || s.now().Sub(p.createdAt) > pendingTTL {
		return nil, NewSchedulingError(CodeNotFound, "no pending conflict "+resolutionID)
	}

	appt := p.appointment
	switch req.Action {
	case models.ResolveCancel:
		s.logger().Info("Conflict resolution cancelled", zap.String("resolution_id", resolutionID))
		return nil, nil
	case models.ResolvePick:
		appt = moveTo(appt, *req.Slot, s.newID())
	}

	if err := s.commit(ctx, appt, string(req.Action)); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (s *DefaultSchedulingService) AllConflicts() []models.ConflictInfo {
	pool, _ := s.Repo.Snapshot()
	return GetAllConflicts(pool)
}

func (s *DefaultSchedulingService) AvailableSlots(day time.Time, durationMinutes int) []time.Time {
	pool, revision := s.Repo.Snapshot()
	return s.slotsFor(day.In(s.Location()), pool, revision, durationMinutes)
}

func (s *DefaultSchedulingService) slotsFor(day time.Time, pool []models.Appointment, revision uint64, durationMinutes int) []time.Time {
	if cached, ok := s.Cache.Get(day, durationMinutes, revision); ok {
		telemetry.SlotCacheLookupsTotal.WithLabelValues("hit").Inc()
		return cached
	}
	telemetry.SlotCacheLookupsTotal.WithLabelValues("miss").Inc()
	slots := FindAvailableSlots(day, pool, durationMinutes, s.Options)
	s.Cache.Add(day, durationMinutes, revision, slots)
	return slots
}

func (s *DefaultSchedulingService) commit(ctx context.Context, appt models.Appointment, resolution string) error {
	if err := s.Repo.Commit(appt); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return NewSchedulingError(CodeDuplicateID, "appointment "+appt.ID+" already exists")
		}
		return err
	}
	telemetry.AppointmentsCommittedTotal.WithLabelValues(resolution).Inc()
	s.logger().Info("Appointment committed",
		zap.String("appointment_id", appt.ID),
		zap.Time("start", appt.Start),
		zap.String("resolution", resolution),
	)

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleReminder(ctx, appt); err != nil {
			s.logger().Warn("Failed to schedule reminder", zap.String("appointment_id", appt.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *DefaultSchedulingService) purgeExpiredLocked() {
	now := s.now()
	for id, p := range s.pending {
		if now.Sub(p.createdAt) > pendingTTL {
			delete(s.pending, id)
		}
	}
}
