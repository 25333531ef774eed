// database/repository/appointment.go
package repository

import (
	"errors"
	"sort"
	"sync"
	"time"

	"frontdesk/models"
)

// ErrDuplicateID is returned when an appointment with the same id is already committed.
var ErrDuplicateID = errors.New("appointment id already exists")

var ErrMissingID = errors.New("appointment id is required")

// AppointmentRepository holds the committed appointments. Only Commit writes;
// readers work on snapshots.
type AppointmentRepository interface {
	// Snapshot returns a copy in commit order and the revision it was taken at.
	Snapshot() ([]models.Appointment, uint64)
	OnDate(day time.Time) []models.Appointment
	GetByID(id string) (*models.Appointment, bool)
	Commit(appt models.Appointment) error
}

// MemoryAppointmentRepo keeps appointments for the lifetime of the process.
type MemoryAppointmentRepo struct {
	mu       sync.RWMutex
	items    []models.Appointment
	index    map[string]int
	revision uint64
}

func NewMemoryAppointmentRepo() *MemoryAppointmentRepo {
	return &MemoryAppointmentRepo{index: make(map[string]int)}
}

func (r *MemoryAppointmentRepo) Snapshot() ([]models.Appointment, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Appointment, len(r.items))
	copy(out, r.items)
	return out, r.revision
}

// OnDate returns the appointments starting on day's calendar date, sorted by start.
func (r *MemoryAppointmentRepo) OnDate(day time.Time) []models.Appointment {
	loc := day.Location()
	y, m, d := day.Date()

	r.mu.RLock()
	var out []models.Appointment
	for _, a := range r.items {
		ay, am, ad := a.Start.In(loc).Date()
		if ay == y && am == m && ad == d {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func (r *MemoryAppointmentRepo) GetByID(id string) (*models.Appointment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	a := r.items[i]
	return &a, true
}

func (r *MemoryAppointmentRepo) Commit(appt models.Appointment) error {
	if appt.ID == "" {
		return ErrMissingID
	}
	if _, err := models.NewTimeSlot(appt.Start, appt.End); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[appt.ID]; exists {
		return ErrDuplicateID
	}
	r.index[appt.ID] = len(r.items)
	r.items = append(r.items, appt)
	r.revision++
	return nil
}
