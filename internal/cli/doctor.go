package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mlakeland/timeblock/internal/constants"
	"github.com/mlakeland/timeblock/internal/freebusy"
	"github.com/mlakeland/timeblock/internal/keyring"
)

// DoctorCmd runs connectivity and configuration health checks.
type DoctorCmd struct{}

func (c *DoctorCmd) Run(ctx *Context) error {
	ok := true

	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ storage: %v\n", err)
		return nil
	}
	fmt.Println("✅ storage: ok")

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		fmt.Printf("❌ settings: %v\n", err)
		return nil
	}
	if _, err := time.Parse(constants.TimeFormat, settings.DayStart); err != nil {
		fmt.Printf("❌ settings: invalid day start %q\n", settings.DayStart)
		ok = false
	}
	if _, err := time.Parse(constants.TimeFormat, settings.DayEnd); err != nil {
		fmt.Printf("❌ settings: invalid day end %q\n", settings.DayEnd)
		ok = false
	}
	if _, err := freebusy.ParseWeekdays(settings.WorkDays); err != nil {
		fmt.Printf("❌ settings: %v\n", err)
		ok = false
	}
	if ok {
		fmt.Println("✅ settings: ok")
	}

	if keyring.IsAvailable() {
		fmt.Println("✅ keyring: available")
	} else {
		fmt.Println("❌ keyring: unavailable")
		return nil
	}

	for _, provider := range []string{"todoist", "openai", "google"} {
		if _, err := keyring.Get(keyringNames[provider]); err != nil {
			fmt.Printf("⚠️  %s: no secret stored\n", provider)
		} else {
			fmt.Printf("✅ %s: secret stored\n", provider)
		}
	}

	// Live check against the task provider when a token exists.
	if client, err := ctx.TodoistClient(); err == nil {
		checkCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultRequestTimeout)
		defer cancel()
		if _, err := client.ListActiveTasks(checkCtx); err != nil {
			fmt.Printf("❌ todoist: %v\n", err)
		} else {
			fmt.Println("✅ todoist: reachable")
		}
	}

	return nil
}
