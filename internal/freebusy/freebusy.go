package freebusy

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mlakeland/timeblock/internal/constants"
	"github.com/mlakeland/timeblock/internal/errors"
	"github.com/mlakeland/timeblock/internal/models"
)

// Window describes the daily working-hour bounds and the weekdays on which
// blocks may be placed.
type Window struct {
	DayStart string // HH:MM
	DayEnd   string // HH:MM
	Weekdays []time.Weekday
}

// WindowFromSettings builds a Window from stored settings.
func WindowFromSettings(settings models.Settings) (Window, error) {
	weekdays, err := ParseWeekdays(settings.WorkDays)
	if err != nil {
		return Window{}, err
	}
	return Window{
		DayStart: settings.DayStart,
		DayEnd:   settings.DayEnd,
		Weekdays: weekdays,
	}, nil
}

func (w Window) activeOn(day time.Weekday) bool {
	for _, wd := range w.Weekdays {
		if wd == day {
			return true
		}
	}
	return false
}

// Resolve merges the given calendar events into busy intervals and subtracts
// them from the working-hour window of each day in the horizon, producing a
// chronologically sorted, non-overlapping set of free intervals.
//
// Events may arrive unsorted and overlapping (multiple source calendars).
// An event entirely outside working hours contributes nothing; one straddling
// a window boundary is clipped to it. A malformed event (end before start)
// fails the whole run with a ValidationError.
func Resolve(events []models.CalendarEvent, window Window, from time.Time, horizonDays int) ([]models.FreeInterval, error) {
	for _, ev := range events {
		if !ev.End.After(ev.Start) {
			return nil, errors.NewValidation(ev.ID, "event ends at or before it starts (%s >= %s)",
				ev.Start.Format(time.RFC3339), ev.End.Format(time.RFC3339))
		}
	}

	startMin, err := parseClock(window.DayStart)
	if err != nil {
		return nil, fmt.Errorf("invalid day start time: %w", err)
	}
	endMin, err := parseClock(window.DayEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid day end time: %w", err)
	}
	if endMin <= startMin {
		return nil, errors.NewValidation("working window", "day end %s is not after day start %s", window.DayEnd, window.DayStart)
	}

	sorted := make([]models.CalendarEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var free []models.FreeInterval
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for i := 0; i < horizonDays; i++ {
		d := day.AddDate(0, 0, i)
		if !window.activeOn(d.Weekday()) {
			continue
		}
		winStart := d.Add(time.Duration(startMin) * time.Minute)
		winEnd := d.Add(time.Duration(endMin) * time.Minute)
		free = append(free, subtractBusy(sorted, winStart, winEnd)...)
	}
	return free, nil
}

// subtractBusy returns the free intervals of one day window after removing the
// merged busy time of the given events (pre-sorted by start).
func subtractBusy(events []models.CalendarEvent, winStart, winEnd time.Time) []models.FreeInterval {
	var free []models.FreeInterval
	cursor := winStart

	for _, ev := range events {
		if !ev.Overlaps(winStart, winEnd) {
			continue
		}
		// Clip to the window.
		busyStart := ev.Start
		if busyStart.Before(winStart) {
			busyStart = winStart
		}
		busyEnd := ev.End
		if busyEnd.After(winEnd) {
			busyEnd = winEnd
		}

		// Standard interval merge: events are sorted, so anything starting at
		// or before the cursor just extends the running busy stretch.
		if busyStart.After(cursor) {
			free = append(free, models.FreeInterval{Start: cursor, End: busyStart})
		}
		if busyEnd.After(cursor) {
			cursor = busyEnd
		}
	}

	if cursor.Before(winEnd) {
		free = append(free, models.FreeInterval{Start: cursor, End: winEnd})
	}
	return free
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]time.Weekday, error) {
	parts := strings.Split(s, ",")
	var weekdays []time.Weekday

	dayMap := map[string]time.Weekday{
		"sun": time.Sunday, "sunday": time.Sunday,
		"mon": time.Monday, "monday": time.Monday,
		"tue": time.Tuesday, "tuesday": time.Tuesday,
		"wed": time.Wednesday, "wednesday": time.Wednesday,
		"thu": time.Thursday, "thursday": time.Thursday,
		"fri": time.Friday, "friday": time.Friday,
		"sat": time.Saturday, "saturday": time.Saturday,
	}

	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		wd, ok := dayMap[part]
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, wd)
	}
	return weekdays, nil
}

func parseClock(timeStr string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
