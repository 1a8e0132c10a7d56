package allocator

import (
	"time"

	"github.com/mlakeland/timeblock/internal/constants"
	"github.com/mlakeland/timeblock/internal/logger"
	"github.com/mlakeland/timeblock/internal/models"
	"github.com/mlakeland/timeblock/internal/rules"
)

// Allocator assigns ranked tasks to free intervals with greedy first-fit.
// Placement is deterministic and never preempts an earlier block, so a run is
// explainable slot by slot and bounded by O(tasks x intervals).
type Allocator struct {
	DefaultSlotMin int
}

func New(defaultSlotMin int) *Allocator {
	if defaultSlotMin <= 0 {
		defaultSlotMin = constants.DefaultSlotDurationMin
	}
	return &Allocator{DefaultSlotMin: defaultSlotMin}
}

// Allocate walks tasks in rank order and places each at the start of the first
// free interval (restricted to the rule's time-of-day band, if any) with
// capacity for its duration. Placed time is carved out of the interval,
// splitting it when a band leaves slack on either side. A rule frequency above
// one yields up to that many blocks per run, on distinct days for weekly and
// monthly rules. Tasks that fit nowhere are returned as unscheduled, not
// errors; they stay eligible next run.
func (a *Allocator) Allocate(ranked []models.Task, free []models.FreeInterval, constraints []models.AllocationRule) ([]models.ScheduledBlock, []string) {
	intervals := make([]models.FreeInterval, len(free))
	copy(intervals, free)

	var blocks []models.ScheduledBlock
	var unscheduled []string

	for _, task := range ranked {
		rule := rules.RuleFor(constraints, task)
		duration := a.durationFor(task, rule)

		want := 1
		distinctDays := false
		if rule != nil && rule.TimesPerPeriod > 1 {
			want = rule.TimesPerPeriod
			// "2x per day" may stack within one day; "3x per week" spreads.
			distinctDays = rule.Period != models.PeriodDay
		}

		placed := 0
		usedDays := map[string]bool{}
		for placed < want {
			found := false
			for i := 0; i < len(intervals); i++ {
				usableStart, usableEnd, ok := usablePortion(intervals[i], rule)
				if !ok {
					continue
				}
				if distinctDays && usedDays[usableStart.Format(constants.DateFormat)] {
					continue
				}
				if int(usableEnd.Sub(usableStart).Minutes()) < duration {
					continue
				}

				block := models.ScheduledBlock{
					TaskID:    task.ID,
					TaskTitle: task.Title,
					Start:     usableStart,
					End:       usableStart.Add(time.Duration(duration) * time.Minute),
				}
				blocks = append(blocks, block)
				intervals = carve(intervals, i, block)
				usedDays[usableStart.Format(constants.DateFormat)] = true
				placed++
				found = true
				break
			}
			if !found {
				break
			}
		}

		if placed == 0 {
			logger.Debug("No free interval fits task", "task", task.ID, "duration_min", duration)
			unscheduled = append(unscheduled, task.ID)
		}
	}

	return blocks, unscheduled
}

// durationFor resolves a task's required duration: its own estimate, then the
// rule's minimum, then the default slot size, capped by the rule's maximum.
func (a *Allocator) durationFor(task models.Task, rule *models.AllocationRule) int {
	duration := task.DurationMin
	if duration <= 0 && rule != nil && rule.MinDurationMin > 0 {
		duration = rule.MinDurationMin
	}
	if duration <= 0 {
		duration = a.DefaultSlotMin
	}
	if rule != nil && rule.MaxDurationMin > 0 && duration > rule.MaxDurationMin {
		duration = rule.MaxDurationMin
	}
	return duration
}

// usablePortion intersects an interval with the rule's time-of-day band on the
// interval's own day. Without a band the whole interval is usable.
func usablePortion(iv models.FreeInterval, rule *models.AllocationRule) (time.Time, time.Time, bool) {
	if rule == nil || rule.Band == nil {
		return iv.Start, iv.End, true
	}

	bandStart, err := time.Parse(constants.TimeFormat, rule.Band.Start)
	if err != nil {
		return iv.Start, iv.End, true
	}
	bandEnd, err := time.Parse(constants.TimeFormat, rule.Band.End)
	if err != nil {
		return iv.Start, iv.End, true
	}

	day := time.Date(iv.Start.Year(), iv.Start.Month(), iv.Start.Day(), 0, 0, 0, 0, iv.Start.Location())
	start := day.Add(time.Duration(bandStart.Hour()*60+bandStart.Minute()) * time.Minute)
	end := day.Add(time.Duration(bandEnd.Hour()*60+bandEnd.Minute()) * time.Minute)

	if start.Before(iv.Start) {
		start = iv.Start
	}
	if end.After(iv.End) {
		end = iv.End
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// carve removes the block's time from intervals[i], keeping the list
// chronological. A band-restricted placement can leave slack on both sides,
// producing up to two replacement intervals.
func carve(intervals []models.FreeInterval, i int, block models.ScheduledBlock) []models.FreeInterval {
	iv := intervals[i]

	var pieces []models.FreeInterval
	if iv.Start.Before(block.Start) {
		pieces = append(pieces, models.FreeInterval{Start: iv.Start, End: block.Start})
	}
	if block.End.Before(iv.End) {
		pieces = append(pieces, models.FreeInterval{Start: block.End, End: iv.End})
	}

	out := make([]models.FreeInterval, 0, len(intervals)-1+len(pieces))
	out = append(out, intervals[:i]...)
	out = append(out, pieces...)
	out = append(out, intervals[i+1:]...)
	return out
}
