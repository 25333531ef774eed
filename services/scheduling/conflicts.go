package scheduling

import (
	"strings"

	"frontdesk/models"
)

const (
	exactConflictPrefix   = "Conflicto exacto con cita(s) de: "
	partialConflictPrefix = "Solapamiento parcial con cita(s) de: "
)

// DetectConflicts returns the appointments in pool that overlap candidate, or
// nil when there are none. candidate is skipped by id, so checking an
// appointment that is already in the pool never reports itself.
//
// Severity is error when any conflicting appointment starts at exactly the
// same instant as candidate, warning otherwise.
func DetectConflicts(candidate models.Appointment, pool []models.Appointment) *models.ConflictInfo {
	slot := candidate.Slot()

	var conflicting []models.Appointment
	exact := false
	for _, other := range pool {
		if other.ID == candidate.ID {
			continue
		}
		if !slot.Overlaps(other.Slot()) {
			continue
		}
		conflicting = append(conflicting, other)
		if other.Start.Equal(candidate.Start) {
			exact = true
		}
	}
	if len(conflicting) == 0 {
		return nil
	}

	names := make([]string, 0, len(conflicting))
	for _, a := range conflicting {
		names = append(names, a.PatientName)
	}

	info := &models.ConflictInfo{
		Appointment:             candidate,
		ConflictingAppointments: conflicting,
		Severity:                models.SeverityWarning,
		Message:                 partialConflictPrefix + strings.Join(names, ", "),
	}
	if exact {
		info.Severity = models.SeverityError
		info.Message = exactConflictPrefix + strings.Join(names, ", ")
	}
	return info
}

// GetAllConflicts runs DetectConflicts for every appointment in pool. The
// report is per subject: when A and B overlap, one entry is emitted for A and
// another for B. Repeated ids are reported once.
func GetAllConflicts(pool []models.Appointment) []models.ConflictInfo {
	seen := make(map[string]struct{}, len(pool))
	var out []models.ConflictInfo
	for _, appt := range pool {
		if _, dup := seen[appt.ID]; dup {
			continue
		}
		seen[appt.ID] = struct{}{}
		if info := DetectConflicts(appt, pool); info != nil {
			out = append(out, *info)
		}
	}
	return out
}
