package cli

import (
	"fmt"
	"time"

	"github.com/mlakeland/timeblock/internal/constants"
	"github.com/mlakeland/timeblock/internal/scheduler"
)

type HistoryCmd struct {
	Limit int `help:"Number of runs to show." default:"10"`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	runs, err := ctx.Store.ListRuns(c.Limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No scheduling runs recorded yet")
		return nil
	}

	fmt.Println("Recent runs:")
	for _, run := range runs {
		created := 0
		for _, r := range run.Emitted {
			if r.Err == "" {
				created++
			}
		}
		fmt.Printf("  %s  %s  %d block(s), %d event(s) created, %d unscheduled\n",
			run.GeneratedAt.Format("2006-01-02 15:04"),
			shortID(run.RunID),
			len(run.Blocks), created, len(run.Unscheduled))
	}
	return nil
}

type DayCmd struct {
	Date string `arg:"" help:"Date to show (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *DayCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date := c.Date
	if date == "today" {
		// "today" is the configured timezone's today, matching how runs
		// record their GeneratedAt date.
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		loc, err := scheduler.Location(settings)
		if err != nil {
			return err
		}
		date = time.Now().In(loc).Format(constants.DateFormat)
	} else if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD or 'today': %w", err)
	}

	run, err := ctx.Store.LatestRunForDate(date)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s (generated %s):\n\n", shortID(run.RunID), run.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Print(RenderSummary(run))
	return nil
}

// shortID abbreviates a uuid for display. Stored summaries are arbitrary
// JSON, so the ID may be shorter than the abbreviation.
func shortID(id string) string {
	if len(id) < 8 {
		return id
	}
	return id[:8]
}
