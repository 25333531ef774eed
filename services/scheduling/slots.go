package scheduling

import (
	"sort"
	"time"

	"frontdesk/models"
)

// SlotOptions bounds the search for open start times.
type SlotOptions struct {
	WorkStartHour  int
	WorkEndHour    int
	MaxSuggestions int // 0 or negative means no cap
}

// DefaultSlotOptions returns an 08:00 to 18:00 day and at most 5 suggestions.
func DefaultSlotOptions() SlotOptions {
	return SlotOptions{
		WorkStartHour:  8,
		WorkEndHour:    18,
		MaxSuggestions: 5,
	}
}

// FindAvailableSlots sweeps referenceDay's appointments in start order and
// returns the earliest start times where an appointment of durationMinutes
// fits between working-hours bounds without overlapping any of them.
//
// Only appointments on the same calendar date as referenceDay (in its
// location) are considered. Callers must exclude the appointment being moved.
func FindAvailableSlots(referenceDay time.Time, pool []models.Appointment, durationMinutes int, opts SlotOptions) []time.Time {
	if durationMinutes <= 0 || durationMinutes > MaxDurationMinutes {
		return nil
	}
	loc := referenceDay.Location()
	y, m, d := referenceDay.Date()
	dayStart := time.Date(y, m, d, opts.WorkStartHour, 0, 0, 0, loc)
	dayEnd := time.Date(y, m, d, opts.WorkEndHour, 0, 0, 0, loc)
	duration := time.Duration(durationMinutes) * time.Minute

	dayAppts := make([]models.Appointment, 0, len(pool))
	for _, a := range pool {
		if sameDate(a.Start.In(loc), referenceDay) {
			dayAppts = append(dayAppts, a)
		}
	}
	sort.SliceStable(dayAppts, func(i, j int) bool {
		return dayAppts[i].Start.Before(dayAppts[j].Start)
	})

	var slots []time.Time
	cursor := dayStart
	for _, a := range dayAppts {
		if !cursor.Add(duration).After(a.Start) && !cursor.Add(duration).After(dayEnd) {
			slots = append(slots, cursor)
		}
		if a.End.After(cursor) {
			cursor = a.End.In(loc)
		}
	}
	if !cursor.Add(duration).After(dayEnd) {
		slots = append(slots, cursor)
	}

	if opts.MaxSuggestions > 0 && len(slots) > opts.MaxSuggestions {
		slots = slots[:opts.MaxSuggestions]
	}
	return slots
}

// ToSuggestions pairs each start with its end and an HH:mm label.
func ToSuggestions(starts []time.Time, durationMinutes int) []models.SlotSuggestion {
	out := make([]models.SlotSuggestion, 0, len(starts))
	for _, s := range starts {
		out = append(out, models.SlotSuggestion{
			Start: s,
			End:   s.Add(time.Duration(durationMinutes) * time.Minute),
			Label: s.Format(clockLayout),
		})
	}
	return out
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
