package ranker

import (
	"sort"
	"time"

	"github.com/mlakeland/timeblock/internal/models"
)

// Rank produces a total order over the given tasks:
//
//  1. tasks due within the scheduling horizon come first, ascending by due date;
//  2. among the rest, higher priority first;
//  3. ties go to tasks targeted by a rule whose frequency quota is still
//     unmet this period (targeted holds their IDs);
//  4. final tie-break on task ID, so identical input always yields an
//     identical order.
//
// The input slice is not modified.
func Rank(tasks []models.Task, targeted map[string]bool, now time.Time, horizonDays int) []models.Task {
	ranked := make([]models.Task, len(tasks))
	copy(ranked, tasks)

	horizonEnd := now.AddDate(0, 0, horizonDays)

	inHorizon := func(t models.Task) bool {
		return t.DueDate != nil && !t.DueDate.After(horizonEnd)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		aDue, bDue := inHorizon(a), inHorizon(b)
		if aDue != bDue {
			return aDue
		}
		if aDue && bDue && !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}

		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}

		if targeted[a.ID] != targeted[b.ID] {
			return targeted[a.ID]
		}

		return a.ID < b.ID
	})

	return ranked
}
