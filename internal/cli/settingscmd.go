package cli

import (
	"fmt"

	"github.com/mlakeland/timeblock/internal/constants"
	"github.com/mlakeland/timeblock/internal/freebusy"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	DayStart          *string `help:"Working day start (HH:MM)."`
	DayEnd            *string `help:"Working day end (HH:MM)."`
	WorkDays          *string `help:"Comma-separated active weekdays (e.g. mon,tue,wed)."`
	SlotDurationMin   *int    `help:"Default block size in minutes (30, 60, or 120)."`
	HorizonDays       *int    `help:"Days ahead to schedule."`
	RequestTimeoutSec *int    `help:"Timeout for provider calls in seconds."`
	Timezone          *string `help:"IANA timezone name, or 'Local'."`
	CalendarName      *string `help:"Target Google calendar."`
	OpenAIModel       *string `help:"Model used for rule extraction."`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Day Start:        %s\n", settings.DayStart)
		fmt.Printf("  Day End:          %s\n", settings.DayEnd)
		fmt.Printf("  Work Days:        %s\n", settings.WorkDays)
		fmt.Printf("  Slot Duration:    %d min\n", settings.SlotDurationMin)
		fmt.Printf("  Horizon:          %d days\n", settings.HorizonDays)
		fmt.Printf("  Request Timeout:  %d sec\n", settings.RequestTimeoutSec)
		fmt.Printf("  Timezone:         %s\n", settings.Timezone)
		fmt.Printf("  Calendar:         %s\n", settings.CalendarName)
		fmt.Printf("  OpenAI Model:     %s\n", settings.OpenAIModel)
		return nil
	}

	updated := false
	if c.DayStart != nil {
		settings.DayStart = *c.DayStart
		updated = true
	}
	if c.DayEnd != nil {
		settings.DayEnd = *c.DayEnd
		updated = true
	}
	if c.WorkDays != nil {
		if _, err := freebusy.ParseWeekdays(*c.WorkDays); err != nil {
			return err
		}
		settings.WorkDays = *c.WorkDays
		updated = true
	}
	if c.SlotDurationMin != nil {
		if !validSlotDuration(*c.SlotDurationMin) {
			return fmt.Errorf("slot duration must be one of %v", constants.ValidSlotDurations)
		}
		settings.SlotDurationMin = *c.SlotDurationMin
		updated = true
	}
	if c.HorizonDays != nil {
		if *c.HorizonDays < 1 {
			return fmt.Errorf("horizon must be at least 1 day")
		}
		settings.HorizonDays = *c.HorizonDays
		updated = true
	}
	if c.RequestTimeoutSec != nil {
		if *c.RequestTimeoutSec < 1 {
			return fmt.Errorf("request timeout must be at least 1 second")
		}
		settings.RequestTimeoutSec = *c.RequestTimeoutSec
		updated = true
	}
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.CalendarName != nil {
		settings.CalendarName = *c.CalendarName
		updated = true
	}
	if c.OpenAIModel != nil {
		settings.OpenAIModel = *c.OpenAIModel
		updated = true
	}

	if !updated {
		fmt.Println("Nothing to update. Use --list to show current settings.")
		return nil
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated.")
	return nil
}

func validSlotDuration(min int) bool {
	for _, d := range constants.ValidSlotDurations {
		if d == min {
			return true
		}
	}
	return false
}
