package models

import "time"

// AppointmentStatus tracks whether an appointment was confirmed by the operator.
type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusPending   AppointmentStatus = "pending"
)

// Appointment is a scheduled visit. Identity is ID.
type Appointment struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	PatientName  string            `json:"patientName"`
	Start        time.Time         `json:"start"`
	End          time.Time         `json:"end"`
	ServiceType  ServiceType       `json:"serviceType"`
	Notes        string            `json:"notes,omitempty"`
	ConsultantID string            `json:"consultantId,omitempty"`
	Status       AppointmentStatus `json:"status"`
}

// Slot returns the appointment's interval.
func (a Appointment) Slot() TimeSlot {
	return TimeSlot{Start: a.Start, End: a.End}
}

// AppointmentForm is what the operator submits, either typed in by hand or
// seeded from a parsed draft.
type AppointmentForm struct {
	PatientName     string   `json:"patientName"`
	Date            string   `json:"date"` // YYYY-MM-DD
	Time            string   `json:"time"` // HH:mm, 24h
	DurationMinutes int      `json:"durationMinutes"`
	ServiceType     string   `json:"serviceType,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	ConsultantID    string   `json:"consultantId,omitempty"`
	Ambiguities     []string `json:"ambiguities,omitempty"` // carried over from the draft for highlighting
}

// ResolutionAction is the operator's answer to a conflict.
type ResolutionAction string

const (
	ResolvePick   ResolutionAction = "pick"
	ResolveIgnore ResolutionAction = "ignore"
	ResolveCancel ResolutionAction = "cancel"
)

// ResolutionRequest picks a suggested slot, saves anyway, or aborts.
type ResolutionRequest struct {
	Action ResolutionAction `json:"action" binding:"required"`
	Slot   *time.Time       `json:"slot,omitempty"` // required when Action is pick
}

// SaveResult is returned by a save attempt. Exactly one of Appointment or
// Conflict is set.
type SaveResult struct {
	Appointment  *Appointment     `json:"appointment,omitempty"`
	Conflict     *ConflictInfo    `json:"conflict,omitempty"`
	Suggestions  []SlotSuggestion `json:"suggestions,omitempty"`
	ResolutionID string           `json:"resolutionId,omitempty"`
}

// ReminderPayload is the body of a queued appointment reminder.
type ReminderPayload struct {
	AppointmentID string    `json:"appointmentId"`
	PatientName   string    `json:"patientName"`
	ConsultantID  string    `json:"consultantId,omitempty"`
	Title         string    `json:"title"`
	Start         time.Time `json:"start"`
}
