package database

import (
	"time"

	"frontdesk/database/repository"
	"frontdesk/models"
)

// DefaultRoster is the practice's consultant list. Matching spoken names
// depends on this order.
var DefaultRoster = []models.Consultant{
	{ID: "1", Name: "Dr. Carlos Parra"},
	{ID: "2", Name: "Dra. Ana López"},
	{ID: "3", Name: "Carlos Mayaudon"},
}

// SeedDemoAppointments commits two sample appointments on now's date.
func SeedDemoAppointments(repo repository.AppointmentRepository, now time.Time) error {
	at := func(h, m int) time.Time {
		y, mo, d := now.Date()
		return time.Date(y, mo, d, h, m, 0, 0, now.Location())
	}

	demo := []models.Appointment{
		{
			ID:           "1",
			Title:        "Carlos Mayaudon",
			PatientName:  "Carlos Mayaudon",
			Start:        at(9, 30),
			End:          at(10, 30),
			ServiceType:  models.ServiceConsultation,
			Notes:        "Primera visita",
			ConsultantID: "1",
			Status:       models.StatusConfirmed,
		},
		{
			ID:           "2",
			Title:        "Maria Rodriguez",
			PatientName:  "Maria Rodriguez",
			Start:        at(14, 0),
			End:          at(15, 0),
			ServiceType:  models.ServiceFollowUp,
			Notes:        "Revisión mensual",
			ConsultantID: "2",
			Status:       models.StatusConfirmed,
		},
	}
	for _, a := range demo {
		if err := repo.Commit(a); err != nil {
			return err
		}
	}
	return nil
}
