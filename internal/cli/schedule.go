package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/mlakeland/timeblock/internal/logger"
	"github.com/mlakeland/timeblock/internal/scheduler"
)

type ScheduleCmd struct {
	DryRun bool   `help:"Show the proposed blocks without creating calendar events."`
	Yes    bool   `help:"Create calendar events without asking for confirmation." short:"y"`
	Date   string `help:"First day of the scheduling horizon (YYYY-MM-DD, defaults to today)."`
}

func (c *ScheduleCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	opts := scheduler.Options{}
	if c.Date != "" {
		loc, err := scheduler.Location(settings)
		if err != nil {
			return err
		}
		// Anchored in the configured timezone; parsing in UTC would shift the
		// horizon a day for western offsets.
		from, err := time.ParseInLocation("2006-01-02", c.Date, loc)
		if err != nil {
			return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
		}
		opts.Now = from
	}

	runCtx := context.Background()
	sched, err := ctx.BuildScheduler(runCtx, settings)
	if err != nil {
		return err
	}

	// Non-interactive path: allocate and emit in one pass.
	if c.Yes && !c.DryRun {
		summary, err := sched.Run(runCtx, settings, opts)
		if err != nil {
			return err
		}
		fmt.Print(RenderSummary(summary))
		fmt.Print(RenderEmission(summary.Emitted))
		return ctx.Store.SaveRun(summary)
	}

	// Interactive path: propose first, emit only after confirmation.
	opts.DryRun = true
	summary, err := sched.Run(runCtx, settings, opts)
	if err != nil {
		return err
	}
	fmt.Print(RenderSummary(summary))

	if c.DryRun || len(summary.Blocks) == 0 {
		return nil
	}

	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Create %d calendar event(s)?", len(summary.Blocks))).
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("confirmation form error: %w", err)
	}
	if !confirmed {
		fmt.Println("No events created.")
		return nil
	}

	summary.Emitted = sched.EmitBlocks(runCtx, settings, summary.Blocks)
	fmt.Print(RenderEmission(summary.Emitted))

	if err := ctx.Store.SaveRun(summary); err != nil {
		logger.Error("Failed to persist run summary", "run", summary.RunID, "error", err)
		return err
	}
	return nil
}
