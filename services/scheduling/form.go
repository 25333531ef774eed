package scheduling

import (
	"strings"
	"time"

	"frontdesk/models"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"

	DefaultDurationMinutes = 30
	MaxDurationMinutes     = 24 * 60
	DefaultManualTime      = "09:00"
	defaultTitlePrefix     = "Cita"
)

// NewManualForm returns the defaults shown when the operator opens an empty
// form: today at 09:00 for 30 minutes.
func NewManualForm(now time.Time) models.AppointmentForm {
	return models.AppointmentForm{
		Date:            now.Format(dateLayout),
		Time:            DefaultManualTime,
		DurationMinutes: DefaultDurationMinutes,
	}
}

// FormFromDraft seeds the review form from a parsed draft. Missing values fall
// back to the manual defaults and the draft's ambiguity tags are carried over
// so the form can highlight guessed fields.
func FormFromDraft(draft models.ParsedAppointmentDraft, now time.Time) models.AppointmentForm {
	form := NewManualForm(now)
	if draft.PatientName != nil {
		form.PatientName = *draft.PatientName
	}
	if draft.DateStr != nil && *draft.DateStr != "" {
		form.Date = *draft.DateStr
	}
	if draft.TimeStr != nil && *draft.TimeStr != "" {
		form.Time = *draft.TimeStr
	}
	if draft.DurationMinutes > 0 {
		form.DurationMinutes = draft.DurationMinutes
	}
	if draft.Reason != nil {
		form.Notes = *draft.Reason
	}
	if draft.ConsultantID != nil {
		form.ConsultantID = *draft.ConsultantID
	}
	form.Ambiguities = append([]string(nil), draft.Ambiguities...)
	return form
}

// BuildAppointment validates form and turns it into a confirmed appointment
// located in loc. Patient, date and time are required.
func BuildAppointment(form models.AppointmentForm, id string, loc *time.Location) (models.Appointment, error) {
	patient := strings.TrimSpace(form.PatientName)
	if patient == "" {
		return models.Appointment{}, newFieldError("patientName", "patient name is required")
	}
	if strings.TrimSpace(form.Date) == "" {
		return models.Appointment{}, newFieldError("date", "date is required")
	}
	if strings.TrimSpace(form.Time) == "" {
		return models.Appointment{}, newFieldError("time", "time is required")
	}

	start, err := time.ParseInLocation(dateLayout+" "+clockLayout, strings.TrimSpace(form.Date)+" "+strings.TrimSpace(form.Time), loc)
	if err != nil {
		return models.Appointment{}, newFieldError("date", "expected date YYYY-MM-DD and time HH:mm")
	}

	duration := form.DurationMinutes
	if duration <= 0 {
		duration = DefaultDurationMinutes
	}
	if duration > MaxDurationMinutes {
		return models.Appointment{}, newFieldError("durationMinutes", "duration must not exceed 24 hours")
	}

	serviceType := models.ServiceConsultation
	prefix := defaultTitlePrefix
	if raw := strings.TrimSpace(form.ServiceType); raw != "" {
		st, ok := models.ParseServiceType(raw)
		if !ok {
			return models.Appointment{}, newFieldError("serviceType", "unknown service type "+raw)
		}
		serviceType = st
		prefix = st.Label()
	}

	return models.Appointment{
		ID:           id,
		Title:        prefix + " con " + patient,
		PatientName:  patient,
		Start:        start,
		End:          start.Add(time.Duration(duration) * time.Minute),
		ServiceType:  serviceType,
		Notes:        form.Notes,
		ConsultantID: form.ConsultantID,
		Status:       models.StatusConfirmed,
	}, nil
}

// moveTo keeps the appointment's date and length and sets its start to the
// clock time of slot.
func moveTo(appt models.Appointment, slot time.Time, id string) models.Appointment {
	loc := appt.Start.Location()
	slot = slot.In(loc)
	y, m, d := appt.Start.Date()
	start := time.Date(y, m, d, slot.Hour(), slot.Minute(), 0, 0, loc)
	length := appt.End.Sub(appt.Start)

	moved := appt
	moved.ID = id
	moved.Start = start
	moved.End = start.Add(length)
	return moved
}
