package models

// Severity classifies a conflict.
type Severity string

const (
	SeverityWarning Severity = "warning" // partial overlap
	SeverityError   Severity = "error"   // another appointment starts at the same instant
)

// ConflictInfo describes the appointments a candidate overlaps with. It is
// derived on demand and never stored.
type ConflictInfo struct {
	Appointment             Appointment   `json:"appointment"`
	ConflictingAppointments []Appointment `json:"conflictingAppointments"`
	Severity                Severity      `json:"severity"`
	Message                 string        `json:"message"`
}
