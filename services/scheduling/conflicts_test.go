package scheduling

import (
	"testing"
	"time"

	"frontdesk/models"
)

func mustTime(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func appt(t *testing.T, id, patient string, sh, sm, eh, em int) models.Appointment {
	t.Helper()
	return models.Appointment{
		ID:          id,
		PatientName: patient,
		Title:       "Cita con " + patient,
		Start:       mustTime(t, sh, sm),
		End:         mustTime(t, eh, em),
		ServiceType: models.ServiceConsultation,
		Status:      models.StatusConfirmed,
	}
}

func TestOverlap_SymmetricAndBoundary(t *testing.T) {
	cases := []struct {
		name string
		a, b models.TimeSlot
		want bool
	}{
		{"touching", models.TimeSlot{Start: mustTime(t, 9, 0), End: mustTime(t, 9, 30)}, models.TimeSlot{Start: mustTime(t, 9, 30), End: mustTime(t, 10, 0)}, false},
		{"partial", models.TimeSlot{Start: mustTime(t, 9, 0), End: mustTime(t, 10, 0)}, models.TimeSlot{Start: mustTime(t, 9, 30), End: mustTime(t, 10, 30)}, true},
		{"contained", models.TimeSlot{Start: mustTime(t, 9, 0), End: mustTime(t, 12, 0)}, models.TimeSlot{Start: mustTime(t, 10, 0), End: mustTime(t, 10, 15)}, true},
		{"disjoint", models.TimeSlot{Start: mustTime(t, 8, 0), End: mustTime(t, 8, 30)}, models.TimeSlot{Start: mustTime(t, 11, 0), End: mustTime(t, 12, 0)}, false},
		{"identical", models.TimeSlot{Start: mustTime(t, 9, 0), End: mustTime(t, 9, 30)}, models.TimeSlot{Start: mustTime(t, 9, 0), End: mustTime(t, 9, 30)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("expected a.Overlaps(b)=%v, got %v", tc.want, got)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("expected b.Overlaps(a)=%v, got %v", tc.want, got)
			}
		})
	}
}

func TestNewTimeSlot_RejectsEmpty(t *testing.T) {
	if _, err := models.NewTimeSlot(mustTime(t, 9, 0), mustTime(t, 9, 0)); err == nil {
		t.Fatalf("expected error for zero-length slot")
	}
	if _, err := models.NewTimeSlot(mustTime(t, 10, 0), mustTime(t, 9, 0)); err == nil {
		t.Fatalf("expected error for inverted slot")
	}
}

func TestDetectConflicts_ExactStartIsError(t *testing.T) {
	pool := []models.Appointment{appt(t, "1", "Carlos Mayaudon", 9, 30, 10, 30)}
	candidate := appt(t, "new", "Ana", 9, 30, 10, 0)

	info := DetectConflicts(candidate, pool)
	if info == nil {
		t.Fatalf("expected conflict, got none")
	}
	if info.Severity != models.SeverityError {
		t.Fatalf("expected severity error, got %s", info.Severity)
	}
	want := "Conflicto exacto con cita(s) de: Carlos Mayaudon"
	if info.Message != want {
		t.Fatalf("expected message %q, got %q", want, info.Message)
	}
}

func TestDetectConflicts_PartialIsWarning(t *testing.T) {
	pool := []models.Appointment{appt(t, "1", "Carlos Mayaudon", 9, 30, 10, 30)}
	candidate := appt(t, "new", "Ana", 10, 0, 10, 45)

	info := DetectConflicts(candidate, pool)
	if info == nil {
		t.Fatalf("expected conflict, got none")
	}
	if info.Severity != models.SeverityWarning {
		t.Fatalf("expected severity warning, got %s", info.Severity)
	}
	want := "Solapamiento parcial con cita(s) de: Carlos Mayaudon"
	if info.Message != want {
		t.Fatalf("expected message %q, got %q", want, info.Message)
	}
}

func TestDetectConflicts_BoundaryTouchingIsFree(t *testing.T) {
	pool := []models.Appointment{appt(t, "1", "Carlos", 9, 0, 9, 30)}
	candidate := appt(t, "new", "Ana", 9, 30, 10, 0)

	if info := DetectConflicts(candidate, pool); info != nil {
		t.Fatalf("expected no conflict, got %+v", info)
	}
}

func TestDetectConflicts_ExcludesSelfByID(t *testing.T) {
	a := appt(t, "1", "Carlos", 9, 0, 10, 0)
	if info := DetectConflicts(a, []models.Appointment{a}); info != nil {
		t.Fatalf("expected no self conflict, got %+v", info)
	}
}

func TestDetectConflicts_PreservesPoolOrderAndDuplicateNames(t *testing.T) {
	pool := []models.Appointment{
		appt(t, "3", "Maria", 10, 30, 11, 30),
		appt(t, "1", "Luis", 9, 0, 10, 15),
		appt(t, "2", "Maria", 10, 0, 10, 45),
		appt(t, "4", "Pedro", 12, 0, 13, 0),
	}
	candidate := appt(t, "new", "Ana", 10, 0, 11, 0)

	info := DetectConflicts(candidate, pool)
	if info == nil {
		t.Fatalf("expected conflict, got none")
	}
	if len(info.ConflictingAppointments) != 3 {
		t.Fatalf("expected 3 conflicting appointments, got %d", len(info.ConflictingAppointments))
	}
	gotIDs := []string{info.ConflictingAppointments[0].ID, info.ConflictingAppointments[1].ID, info.ConflictingAppointments[2].ID}
	if gotIDs[0] != "3" || gotIDs[1] != "1" || gotIDs[2] != "2" {
		t.Fatalf("expected pool order [3 1 2], got %v", gotIDs)
	}
	if info.Severity != models.SeverityError {
		t.Fatalf("expected error because appointment 2 starts at 10:00, got %s", info.Severity)
	}
	want := "Conflicto exacto con cita(s) de: Maria, Luis, Maria"
	if info.Message != want {
		t.Fatalf("expected message %q, got %q", want, info.Message)
	}
}

func TestDetectConflicts_SameEndDifferentStartStaysWarning(t *testing.T) {
	pool := []models.Appointment{appt(t, "1", "Carlos", 9, 0, 10, 0)}
	candidate := appt(t, "new", "Ana", 9, 1, 10, 0)

	info := DetectConflicts(candidate, pool)
	if info == nil || info.Severity != models.SeverityWarning {
		t.Fatalf("expected warning, got %+v", info)
	}
}

func TestGetAllConflicts_PerSubject(t *testing.T) {
	pool := []models.Appointment{
		appt(t, "A", "Ana", 9, 0, 10, 0),
		appt(t, "B", "Beto", 9, 30, 10, 30),
		appt(t, "C", "Cris", 11, 0, 11, 30),
	}

	all := GetAllConflicts(pool)
	if len(all) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(all))
	}
	if all[0].Appointment.ID != "A" || all[1].Appointment.ID != "B" {
		t.Fatalf("expected subjects A then B, got %s then %s", all[0].Appointment.ID, all[1].Appointment.ID)
	}
	if all[0].ConflictingAppointments[0].ID != "B" || all[1].ConflictingAppointments[0].ID != "A" {
		t.Fatalf("expected A->B and B->A, got %+v", all)
	}
}

func TestGetAllConflicts_DeduplicatesSubjectIDs(t *testing.T) {
	a := appt(t, "A", "Ana", 9, 0, 10, 0)
	pool := []models.Appointment{a, appt(t, "B", "Beto", 9, 30, 10, 30), a}

	all := GetAllConflicts(pool)
	if len(all) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(all))
	}
}

func TestDetectConflicts_Idempotent(t *testing.T) {
	pool := []models.Appointment{appt(t, "1", "Carlos", 9, 30, 10, 30)}
	candidate := appt(t, "new", "Ana", 10, 0, 10, 45)

	first := DetectConflicts(candidate, pool)
	second := DetectConflicts(candidate, pool)
	if first == nil || second == nil || first.Message != second.Message || first.Severity != second.Severity {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}
