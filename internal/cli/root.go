package cli

import (
	"context"
	"fmt"

	"github.com/mlakeland/timeblock/internal/ai"
	"github.com/mlakeland/timeblock/internal/constants"
	"github.com/mlakeland/timeblock/internal/emitter"
	"github.com/mlakeland/timeblock/internal/keyring"
	"github.com/mlakeland/timeblock/internal/logger"
	"github.com/mlakeland/timeblock/internal/models"
	"github.com/mlakeland/timeblock/internal/providers/googlecal"
	"github.com/mlakeland/timeblock/internal/providers/todoist"
	"github.com/mlakeland/timeblock/internal/rules"
	"github.com/mlakeland/timeblock/internal/scheduler"
	"github.com/mlakeland/timeblock/internal/storage"
)

// Context carries the shared dependencies of every command.
type Context struct {
	Store storage.Provider
	Debug bool
}

// TodoistClient builds the task provider from the keyring-stored token.
func (c *Context) TodoistClient() (*todoist.Client, error) {
	token, err := keyring.Get(constants.KeyringTodoistToken)
	if err != nil {
		return nil, fmt.Errorf("no Todoist token found, run 'timeblock auth set todoist': %w", err)
	}
	return todoist.New(token), nil
}

// CalendarProvider builds the calendar provider from the keyring-stored
// Google OAuth token.
func (c *Context) CalendarProvider(ctx context.Context, settings models.Settings) (emitter.CalendarProvider, error) {
	tokenJSON, err := keyring.Get(constants.KeyringGoogleToken)
	if err != nil {
		return nil, fmt.Errorf("no Google token found, run 'timeblock auth set google': %w", err)
	}
	srv, err := googlecal.NewService(ctx, []byte(tokenJSON))
	if err != nil {
		return nil, err
	}
	return googlecal.New(srv, settings.CalendarName)
}

// TextGenerator builds the rule-extraction generator. A missing OpenAI key is
// not fatal: the scheduler degrades to priority/due-date ordering alone.
func (c *Context) TextGenerator(settings models.Settings) rules.TextGenerator {
	apiKey, err := keyring.Get(constants.KeyringOpenAIKey)
	if err != nil {
		logger.Warn("No OpenAI key stored, scheduling will run without rules", "error", err)
		return unavailableGenerator{}
	}
	return ai.New(apiKey, settings.OpenAIModel)
}

// BuildScheduler wires the full pipeline from stored settings and secrets.
func (c *Context) BuildScheduler(ctx context.Context, settings models.Settings) (*scheduler.Scheduler, error) {
	tasks, err := c.TodoistClient()
	if err != nil {
		return nil, err
	}
	calendar, err := c.CalendarProvider(ctx, settings)
	if err != nil {
		return nil, err
	}
	return scheduler.New(tasks, calendar, c.TextGenerator(settings)), nil
}

// unavailableGenerator stands in when no OpenAI key is stored; the interpreter
// treats its error like any other generator outage and degrades.
type unavailableGenerator struct{}

func (unavailableGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("no text generator configured")
}
