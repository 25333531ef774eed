// models/service_type.go
package models

import "strings"

// ServiceType classifies an appointment.
type ServiceType string

const (
	ServiceConsultation ServiceType = "consultation"
	ServiceFollowUp     ServiceType = "followUp"
	ServiceUrgent       ServiceType = "urgent"
	ServiceOther        ServiceType = "other"
)

var serviceLabels = map[ServiceType]string{
	ServiceConsultation: "Consulta",
	ServiceFollowUp:     "Control",
	ServiceUrgent:       "Urgencia",
	ServiceOther:        "Otro",
}

// ParseServiceType accepts the enum values as well as the Spanish labels used at
// the front desk ("consulta", "control", "urgencia", "otro"). The second return
// value is false when the input is not recognised.
func ParseServiceType(raw string) (ServiceType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "consultation", "consulta", "consulta general":
		return ServiceConsultation, true
	case "followup", "follow-up", "control":
		return ServiceFollowUp, true
	case "urgent", "urgencia":
		return ServiceUrgent, true
	case "other", "otro":
		return ServiceOther, true
	}
	return "", false
}

// Label returns the display label used in appointment titles.
func (t ServiceType) Label() string {
	if l, ok := serviceLabels[t]; ok {
		return l
	}
	return ""
}

// Valid reports whether t is one of the known service types.
func (t ServiceType) Valid() bool {
	_, ok := serviceLabels[t]
	return ok
}
