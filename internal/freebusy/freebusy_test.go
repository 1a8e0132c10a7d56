package freebusy

import (
	"testing"
	"time"

	"github.com/mlakeland/timeblock/internal/errors"
	"github.com/mlakeland/timeblock/internal/models"
)

// Monday 2026-01-05
var monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func workWindow() Window {
	return Window{
		DayStart: "09:00",
		DayEnd:   "17:00",
		Weekdays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
	}
}

func at(day time.Time, hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func TestResolve_EmptyDayYieldsFullWindow(t *testing.T) {
	free, err := Resolve(nil, workWindow(), monday, 1)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(free) != 1 {
		t.Fatalf("Expected 1 free interval, got %d", len(free))
	}
	if !free[0].Start.Equal(at(monday, 9, 0)) || !free[0].End.Equal(at(monday, 17, 0)) {
		t.Errorf("Expected 09:00-17:00, got %v-%v", free[0].Start, free[0].End)
	}
}

func TestResolve_SingleEventSplitsWindow(t *testing.T) {
	events := []models.CalendarEvent{
		{ID: "e1", Title: "Standup", Start: at(monday, 10, 0), End: at(monday, 11, 0)},
	}

	free, err := Resolve(events, workWindow(), monday, 1)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(free) != 2 {
		t.Fatalf("Expected 2 free intervals, got %d", len(free))
	}
	if !free[0].Start.Equal(at(monday, 9, 0)) || !free[0].End.Equal(at(monday, 10, 0)) {
		t.Errorf("First interval wrong: %v-%v", free[0].Start, free[0].End)
	}
	if !free[1].Start.Equal(at(monday, 11, 0)) || !free[1].End.Equal(at(monday, 17, 0)) {
		t.Errorf("Second interval wrong: %v-%v", free[1].Start, free[1].End)
	}
}

func TestResolve_MergesOverlappingEvents(t *testing.T) {
	// Two overlapping meetings from different calendars plus an adjacent one.
	events := []models.CalendarEvent{
		{ID: "e2", Start: at(monday, 10, 30), End: at(monday, 12, 0)},
		{ID: "e1", Start: at(monday, 10, 0), End: at(monday, 11, 0)},
		{ID: "e3", Start: at(monday, 12, 0), End: at(monday, 13, 0)},
	}

	free, err := Resolve(events, workWindow(), monday, 1)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(free) != 2 {
		t.Fatalf("Expected 2 free intervals, got %d", len(free))
	}
	if !free[0].End.Equal(at(monday, 10, 0)) {
		t.Errorf("Expected first interval to end at 10:00, got %v", free[0].End)
	}
	if !free[1].Start.Equal(at(monday, 13, 0)) {
		t.Errorf("Expected second interval to start at 13:00, got %v", free[1].Start)
	}
}

func TestResolve_ClipsEventStraddlingBoundary(t *testing.T) {
	events := []models.CalendarEvent{
		{ID: "early", Start: at(monday, 7, 0), End: at(monday, 9, 30)},
		{ID: "late", Start: at(monday, 16, 30), End: at(monday, 19, 0)},
	}

	free, err := Resolve(events, workWindow(), monday, 1)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(free) != 1 {
		t.Fatalf("Expected 1 free interval, got %d", len(free))
	}
	if !free[0].Start.Equal(at(monday, 9, 30)) || !free[0].End.Equal(at(monday, 16, 30)) {
		t.Errorf("Expected 09:30-16:30, got %v-%v", free[0].Start, free[0].End)
	}
}

func TestResolve_EventOutsideWindowContributesNothing(t *testing.T) {
	events := []models.CalendarEvent{
		{ID: "dinner", Start: at(monday, 19, 0), End: at(monday, 21, 0)},
	}

	free, err := Resolve(events, workWindow(), monday, 1)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(free) != 1 || free[0].Minutes() != 480 {
		t.Errorf("Expected the full 8h window, got %v", free)
	}
}

func TestResolve_FullyBookedDayYieldsNoIntervals(t *testing.T) {
	events := []models.CalendarEvent{
		{ID: "allday", Start: at(monday, 8, 0), End: at(monday, 18, 0)},
	}

	free, err := Resolve(events, workWindow(), monday, 1)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(free) != 0 {
		t.Errorf("Expected no free intervals, got %v", free)
	}
}

func TestResolve_SkipsInactiveWeekdays(t *testing.T) {
	// Monday through Sunday; only weekdays are active.
	free, err := Resolve(nil, workWindow(), monday, 7)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(free) != 5 {
		t.Fatalf("Expected 5 free intervals (Mon-Fri), got %d", len(free))
	}
	for _, iv := range free {
		wd := iv.Start.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			t.Errorf("Free interval placed on weekend: %v", iv.Start)
		}
	}
}

func TestResolve_RejectsMalformedEvent(t *testing.T) {
	events := []models.CalendarEvent{
		{ID: "bad", Start: at(monday, 11, 0), End: at(monday, 10, 0)},
	}

	_, err := Resolve(events, workWindow(), monday, 1)
	if err == nil {
		t.Fatal("Expected validation error for end-before-start event")
	}
	if !errors.IsValidation(err) {
		t.Errorf("Expected ValidationError, got %T: %v", err, err)
	}
}

func TestResolve_RejectsInvertedWindow(t *testing.T) {
	window := workWindow()
	window.DayStart = "17:00"
	window.DayEnd = "09:00"

	if _, err := Resolve(nil, window, monday, 1); err == nil {
		t.Fatal("Expected error for inverted working window")
	}
}

// The union of free intervals and merged busy time must exactly cover the
// working window, with no gaps or overlaps.
func TestResolve_FreeBusyCompleteness(t *testing.T) {
	events := []models.CalendarEvent{
		{ID: "e1", Start: at(monday, 9, 0), End: at(monday, 9, 45)},
		{ID: "e2", Start: at(monday, 11, 0), End: at(monday, 12, 30)},
		{ID: "e3", Start: at(monday, 12, 0), End: at(monday, 13, 0)},
		{ID: "e4", Start: at(monday, 16, 15), End: at(monday, 17, 0)},
	}

	free, err := Resolve(events, workWindow(), monday, 1)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// Walk the window minute by minute: each minute is either inside exactly
	// one free interval or inside some event, never both.
	for cursor := at(monday, 9, 0); cursor.Before(at(monday, 17, 0)); cursor = cursor.Add(time.Minute) {
		inFree := 0
		for _, iv := range free {
			if !cursor.Before(iv.Start) && cursor.Before(iv.End) {
				inFree++
			}
		}
		inBusy := false
		for _, ev := range events {
			if !cursor.Before(ev.Start) && cursor.Before(ev.End) {
				inBusy = true
			}
		}

		if inFree > 1 {
			t.Fatalf("Minute %v inside %d free intervals", cursor, inFree)
		}
		if inBusy && inFree == 1 {
			t.Fatalf("Minute %v is both free and busy", cursor)
		}
		if !inBusy && inFree == 0 {
			t.Fatalf("Minute %v is neither free nor busy", cursor)
		}
	}
}

func TestParseWeekdays(t *testing.T) {
	weekdays, err := ParseWeekdays("mon, Tuesday,FRI")
	if err != nil {
		t.Fatalf("ParseWeekdays failed: %v", err)
	}
	want := []time.Weekday{time.Monday, time.Tuesday, time.Friday}
	if len(weekdays) != len(want) {
		t.Fatalf("Expected %v, got %v", want, weekdays)
	}
	for i := range want {
		if weekdays[i] != want[i] {
			t.Errorf("Expected %v at %d, got %v", want[i], i, weekdays[i])
		}
	}

	if _, err := ParseWeekdays("mon,funday"); err == nil {
		t.Error("Expected error for invalid weekday")
	}
}
