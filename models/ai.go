package models

import "strings"

// Ambiguity tags reported on a draft.
const (
	AmbiguityParsingFailed = "parsing_failed"
	AmbiguityPatient       = "patient"
	AmbiguityDate          = "date"
	AmbiguityTime          = "time"
	AmbiguityDuration      = "duration"
	AmbiguityConsultant    = "consultant"
)

// ExtractionRequest is sent to the text-understanding collaborator.
type ExtractionRequest struct {
	Transcript         string `json:"transcript"`
	ReferenceTimestamp string `json:"referenceTimestamp"` // RFC 3339
}

// ExtractionResponse mirrors the collaborator's JSON object. DurationMinutes
// and Ambiguities are required; the rest are nullable.
type ExtractionResponse struct {
	PatientName     *string  `json:"patientName"`
	DateStr         *string  `json:"dateStr"`
	TimeStr         *string  `json:"timeStr"`
	DurationMinutes *int     `json:"durationMinutes"`
	Reason          *string  `json:"reason"`
	ConsultantName  *string  `json:"consultantName"`
	Ambiguities     []string `json:"ambiguities"`
}

// ParsedAppointmentDraft is a partially filled appointment produced from a
// transcript. Ambiguities names the fields that were guessed.
type ParsedAppointmentDraft struct {
	PatientName     *string  `json:"patientName"`
	DateStr         *string  `json:"dateStr"`
	TimeStr         *string  `json:"timeStr"`
	DurationMinutes int      `json:"durationMinutes"`
	Reason          *string  `json:"reason"`
	ConsultantName  *string  `json:"consultantName"`
	ConsultantID    *string  `json:"consultantId"` // resolved against the roster, nil when unmatched
	Ambiguities     []string `json:"ambiguities"`
}

// IsFieldAmbiguous reports whether any ambiguity tag mentions field,
// case-insensitively.
func (d ParsedAppointmentDraft) IsFieldAmbiguous(field string) bool {
	field = strings.ToLower(field)
	for _, tag := range d.Ambiguities {
		if strings.Contains(strings.ToLower(tag), field) {
			return true
		}
	}
	return false
}

// ParsingFailed reports whether the draft is the fallback produced after a
// collaborator failure.
func (d ParsedAppointmentDraft) ParsingFailed() bool {
	for _, tag := range d.Ambiguities {
		if tag == AmbiguityParsingFailed {
			return true
		}
	}
	return false
}

// StoredDraft is a draft parked for the review step.
type StoredDraft struct {
	ID         string                 `json:"id"`
	Transcript string                 `json:"transcript"`
	Draft      ParsedAppointmentDraft `json:"draft"`
}

// Consultant is an entry of the practice roster.
type Consultant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
