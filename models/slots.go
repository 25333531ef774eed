package models

import (
	"errors"
	"time"
)

// ErrEmptySlot is returned when a slot's end is not strictly after its start.
var ErrEmptySlot = errors.New("time slot end must be after start")

// TimeSlot is a half-open interval [Start, End).
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeSlot builds a slot and rejects zero-length or inverted ranges.
func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, ErrEmptySlot
	}
	return TimeSlot{Start: start, End: end}, nil
}

// Overlaps reports whether two slots share any instant. A slot ending exactly
// when the other starts does not overlap it.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// Duration returns End - Start.
func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// SlotSuggestion is an open start time offered after a conflict.
type SlotSuggestion struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"` // "HH:mm" in the schedule's location
}
