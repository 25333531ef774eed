package scheduling

import (
	"fmt"
	"testing"
	"time"

	"frontdesk/models"
)

func clock(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format("15:04")
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFindAvailableSlots_GapsBeforeBetweenAfter(t *testing.T) {
	pool := []models.Appointment{
		appt(t, "2", "Beto", 11, 0, 11, 30),
		appt(t, "1", "Ana", 9, 0, 9, 30),
	}

	got := clock(FindAvailableSlots(mustTime(t, 12, 0), pool, 30, DefaultSlotOptions()))
	want := []string{"08:00", "09:30", "11:30"}
	if !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFindAvailableSlots_EmptyDayOffersWorkStart(t *testing.T) {
	got := clock(FindAvailableSlots(mustTime(t, 15, 0), nil, 45, DefaultSlotOptions()))
	if !equalStrings(got, []string{"08:00"}) {
		t.Fatalf("expected [08:00], got %v", got)
	}
}

func TestFindAvailableSlots_IgnoresOtherDays(t *testing.T) {
	other := appt(t, "x", "Otro", 8, 0, 17, 0)
	other.Start = other.Start.AddDate(0, 0, 1)
	other.End = other.End.AddDate(0, 0, 1)

	got := clock(FindAvailableSlots(mustTime(t, 9, 0), []models.Appointment{other}, 30, DefaultSlotOptions()))
	if !equalStrings(got, []string{"08:00"}) {
		t.Fatalf("expected [08:00], got %v", got)
	}
}

func TestFindAvailableSlots_OverlappingPoolDoesNotGoBackwards(t *testing.T) {
	pool := []models.Appointment{
		appt(t, "1", "Ana", 8, 0, 11, 0),
		appt(t, "2", "Beto", 9, 0, 10, 0),
		appt(t, "3", "Cris", 11, 30, 12, 0),
	}

	got := clock(FindAvailableSlots(mustTime(t, 8, 0), pool, 30, DefaultSlotOptions()))
	want := []string{"11:00", "12:00"}
	if !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFindAvailableSlots_NoTrailingWhenDayIsFull(t *testing.T) {
	pool := []models.Appointment{appt(t, "1", "Ana", 8, 0, 17, 45)}
	if got := FindAvailableSlots(mustTime(t, 8, 0), pool, 30, DefaultSlotOptions()); len(got) != 0 {
		t.Fatalf("expected no slots, got %v", clock(got))
	}
}

func TestFindAvailableSlots_CapAndCustomHours(t *testing.T) {
	var pool []models.Appointment
	for h := 8; h < 17; h++ {
		pool = append(pool, appt(t, fmt.Sprintf("a%d", h), "P", h, 30, h+1, 0))
	}

	got := FindAvailableSlots(mustTime(t, 8, 0), pool, 30, DefaultSlotOptions())
	want := []string{"08:00", "09:00", "10:00", "11:00", "12:00"}
	if !equalStrings(clock(got), want) {
		t.Fatalf("expected %v, got %v", want, clock(got))
	}

	opts := SlotOptions{WorkStartHour: 7, WorkEndHour: 19, MaxSuggestions: 0}
	all := FindAvailableSlots(mustTime(t, 8, 0), pool, 30, opts)
	if len(all) != 10 {
		t.Fatalf("expected 10 uncapped slots from 07:00, got %v", clock(all))
	}
	if clock(all)[0] != "07:00" {
		t.Fatalf("expected first slot 07:00, got %s", clock(all)[0])
	}
}

func TestFindAvailableSlots_Soundness(t *testing.T) {
	pool := []models.Appointment{
		appt(t, "1", "Ana", 8, 10, 8, 50),
		appt(t, "2", "Beto", 9, 20, 10, 40),
		appt(t, "3", "Cris", 10, 30, 11, 5),
		appt(t, "4", "Dani", 13, 0, 15, 0),
		appt(t, "5", "Eva", 17, 20, 18, 0),
		appt(t, "6", "Fede", 19, 0, 19, 30),
	}
	opts := DefaultSlotOptions()
	opts.MaxSuggestions = 0
	for _, d := range []int{10, 25, 30, 60, 90} {
		day := mustTime(t, 0, 0)
		for _, s := range FindAvailableSlots(day, pool, d, opts) {
			slot := models.TimeSlot{Start: s, End: s.Add(time.Duration(d) * time.Minute)}
			if slot.Start.Before(mustTime(t, 8, 0)) || slot.End.After(mustTime(t, 18, 0)) {
				t.Fatalf("duration %d: slot %v outside working hours", d, clock([]time.Time{s}))
			}
			for _, a := range pool {
				if slot.Overlaps(a.Slot()) {
					t.Fatalf("duration %d: slot %s overlaps %s", d, s.Format("15:04"), a.ID)
				}
			}
		}
	}
}

func TestFindAvailableSlots_AfterHoursAppointmentDoesNotOpenLateGap(t *testing.T) {
	pool := []models.Appointment{
		appt(t, "1", "Ana", 8, 0, 17, 45),
		appt(t, "2", "Beto", 19, 0, 19, 30),
	}
	if got := FindAvailableSlots(mustTime(t, 8, 0), pool, 30, DefaultSlotOptions()); len(got) != 0 {
		t.Fatalf("expected no slots, got %v", clock(got))
	}
	got := clock(FindAvailableSlots(mustTime(t, 8, 0), pool, 15, DefaultSlotOptions()))
	if !equalStrings(got, []string{"17:45"}) {
		t.Fatalf("expected [17:45], got %v", got)
	}
}

func TestFindAvailableSlots_InvalidDuration(t *testing.T) {
	for _, d := range []int{0, -5, MaxDurationMinutes + 1, 1 << 40} {
		if got := FindAvailableSlots(mustTime(t, 8, 0), nil, d, DefaultSlotOptions()); got != nil {
			t.Fatalf("duration %d: expected nil, got %v", d, got)
		}
	}
}

func TestSlotCache_KeyedByRevision(t *testing.T) {
	c, err := NewSlotCache(4)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	day := mustTime(t, 8, 0)
	c.Add(day, 30, 1, []time.Time{day})

	if got, ok := c.Get(day, 30, 1); !ok || len(got) != 1 {
		t.Fatalf("expected hit with one slot, got %v %v", got, ok)
	}
	if _, ok := c.Get(day, 30, 2); ok {
		t.Fatalf("expected miss for a newer revision")
	}
	if _, ok := c.Get(day, 45, 1); ok {
		t.Fatalf("expected miss for another duration")
	}

	var nilCache *SlotCache
	if _, ok := nilCache.Get(day, 30, 1); ok {
		t.Fatalf("expected nil cache to miss")
	}
}
