package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mlakeland/timeblock/internal/cli"
	"github.com/mlakeland/timeblock/internal/constants"
	apperrors "github.com/mlakeland/timeblock/internal/errors"
	"github.com/mlakeland/timeblock/internal/logger"
	"github.com/mlakeland/timeblock/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path." type:"string" default:"${config_path}"`
	Debug   bool   `help:"Enable debug logging."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize timeblock storage."`
	Schedule cli.ScheduleCmd `cmd:"" help:"Generate a schedule and create calendar events."`
	Day      cli.DayCmd      `cmd:"" help:"Show the schedule recorded for a day."`
	History  cli.HistoryCmd  `cmd:"" help:"Show recent scheduling runs."`
	Rules    cli.RulesCmd    `cmd:"" help:"Parse and show the current allocation rules."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Task     struct {
		List   cli.TaskListCmd   `cmd:"" help:"List active tasks."`
		Done   cli.TaskDoneCmd   `cmd:"" help:"Mark a task complete."`
		Reopen cli.TaskReopenCmd `cmd:"" help:"Reopen a completed task."`
	} `cmd:"" help:"Manage tasks."`
	Events struct {
		List cli.EventListCmd `cmd:"" help:"List upcoming calendar events."`
	} `cmd:"" help:"Inspect calendar events."`
	Auth struct {
		Set    cli.AuthSetCmd    `cmd:"" help:"Store a provider secret in the OS keyring."`
		Delete cli.AuthDeleteCmd `cmd:"" help:"Delete a provider secret."`
	} `cmd:"" help:"Manage provider credentials."`
	Settings cli.SettingsCmd `cmd:"" help:"Manage application settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Task/calendar orchestrator: blocks out your Todoist tasks on your calendar"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)

	configPath := expandHome(CLI.Config)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(configPath)}); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", apperrors.Formatf("failed to initialize logging: %v", err))
		os.Exit(1)
	}

	appCtx := &cli.Context{
		Store: storage.NewSQLiteStore(configPath),
		Debug: CLI.Debug,
	}

	if err := ctx.Run(appCtx); err != nil {
		apperrors.Fatal(err)
	}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
