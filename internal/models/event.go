package models

import "time"

// CalendarEvent is a fixed appointment pulled from the calendar provider.
// Immutable input to the scheduler; the allocator must never double-book it.
type CalendarEvent struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open time ranges [Start, End) intersect.
func (e CalendarEvent) Overlaps(start, end time.Time) bool {
	return start.Before(e.End) && e.Start.Before(end)
}
