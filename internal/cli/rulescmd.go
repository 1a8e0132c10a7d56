package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mlakeland/timeblock/internal/rules"
)

// RulesCmd parses the current instruction text and shows the resulting rules,
// without touching the calendar. Useful for debugging instruction phrasing.
type RulesCmd struct{}

func (c *RulesCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	client, err := ctx.TodoistClient()
	if err != nil {
		return err
	}

	runCtx := context.Background()
	instructions, err := client.Instructions(runCtx)
	if err != nil {
		return fmt.Errorf("failed to fetch instructions: %w", err)
	}
	if instructions == "" {
		fmt.Printf("No instructions found. Add a %q task in Todoist with instructions in its description.\n", "AI Instructions")
		return nil
	}

	tasks, err := client.ListActiveTasks(runCtx)
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}

	interp := rules.Interpreter{
		Generator:       ctx.TextGenerator(settings),
		SlotDurationMin: settings.SlotDurationMin,
		Timeout:         time.Duration(settings.RequestTimeoutSec) * time.Second,
	}
	result := interp.Interpret(runCtx, instructions, tasks)

	if result.Degraded {
		fmt.Println("Rule extraction unavailable; check your OpenAI key and connectivity.")
		return nil
	}
	if len(result.Rules) == 0 && len(result.Dropped) == 0 {
		fmt.Println("No rules extracted.")
		return nil
	}

	fmt.Println("Rules:")
	for _, rule := range result.Rules {
		line := fmt.Sprintf("  %s %q: %dx per %s", rule.TargetKind, rule.Target, rule.TimesPerPeriod, rule.Period)
		if rule.Band != nil {
			line += fmt.Sprintf(", %s-%s", rule.Band.Start, rule.Band.End)
		}
		if rule.MinDurationMin > 0 {
			line += fmt.Sprintf(", >=%dm", rule.MinDurationMin)
		}
		if rule.MaxDurationMin > 0 {
			line += fmt.Sprintf(", <=%dm", rule.MaxDurationMin)
		}
		fmt.Println(line)
	}
	for _, dropped := range result.Dropped {
		fmt.Printf("  dropped: %s\n", dropped)
	}
	return nil
}
