package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mlakeland/timeblock/internal/constants"
)

type EventListCmd struct {
	Days int `help:"Number of days ahead to list." default:"7"`
}

func (c *EventListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	runCtx := context.Background()
	calendar, err := ctx.CalendarProvider(runCtx, settings)
	if err != nil {
		return err
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	events, err := calendar.ListEvents(runCtx, start, start.AddDate(0, 0, c.Days))
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("No events found")
		return nil
	}

	fmt.Println("Events:")
	for _, ev := range events {
		fmt.Printf("  %s  %s - %s  %s\n",
			ev.Start.Format(constants.DateFormat),
			ev.Start.Format(constants.TimeFormat),
			ev.End.Format(constants.TimeFormat),
			ev.Title)
	}
	return nil
}
