package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mlakeland/timeblock/internal/allocator"
	"github.com/mlakeland/timeblock/internal/constants"
	"github.com/mlakeland/timeblock/internal/emitter"
	"github.com/mlakeland/timeblock/internal/freebusy"
	"github.com/mlakeland/timeblock/internal/logger"
	"github.com/mlakeland/timeblock/internal/models"
	"github.com/mlakeland/timeblock/internal/ranker"
	"github.com/mlakeland/timeblock/internal/rules"
)

// TaskSource is the external task provider collaborator.
type TaskSource interface {
	ListActiveTasks(ctx context.Context) ([]models.Task, error)
	// Instructions returns the user's current natural-language scheduling
	// instructions, or "" when none exist.
	Instructions(ctx context.Context) (string, error)
}

// Scheduler runs the full pipeline: fetch tasks and events, resolve free/busy,
// interpret rules, rank, allocate, and emit. One synchronous computation per
// invocation; callers must serialize concurrent runs for the same user.
type Scheduler struct {
	Tasks     TaskSource
	Calendar  emitter.CalendarProvider
	Generator rules.TextGenerator
}

func New(tasks TaskSource, calendar emitter.CalendarProvider, generator rules.TextGenerator) *Scheduler {
	return &Scheduler{Tasks: tasks, Calendar: calendar, Generator: generator}
}

// Options control a single run.
type Options struct {
	Now    time.Time
	DryRun bool // allocate but do not create calendar events
}

// Location resolves the settings timezone. Callers anchoring dates (the
// --date flag, "today" lookups) must use the same location the run does, or
// day boundaries drift across the UTC offset.
func Location(settings models.Settings) (*time.Location, error) {
	if settings.Timezone == "" || settings.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	return loc, nil
}

// Run executes one scheduling run and returns its summary. Structural input
// problems (malformed events, bad working window) abort the run; everything
// recoverable lands in the summary instead.
func (s *Scheduler) Run(ctx context.Context, settings models.Settings, opts Options) (models.RunSummary, error) {
	summary := models.RunSummary{
		RunID: uuid.NewString(),
	}

	loc, err := Location(settings)
	if err != nil {
		return summary, err
	}
	// Kept in the configured timezone so the stored date matches the day the
	// user scheduled, not the UTC day.
	summary.GeneratedAt = time.Now().In(loc)

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.In(loc)

	timeout := requestTimeout(settings)

	tasks, err := s.listTasks(ctx, timeout)
	if err != nil {
		return summary, fmt.Errorf("fetching tasks: %w", err)
	}
	logger.Debug("Fetched tasks", "count", len(tasks))

	window, err := freebusy.WindowFromSettings(settings)
	if err != nil {
		return summary, err
	}

	horizonStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	horizonEnd := horizonStart.AddDate(0, 0, settings.HorizonDays)

	events, err := s.listEvents(ctx, timeout, horizonStart, horizonEnd)
	if err != nil {
		return summary, fmt.Errorf("fetching calendar events: %w", err)
	}
	logger.Debug("Fetched calendar events", "count", len(events))

	free, err := freebusy.Resolve(events, window, now, settings.HorizonDays)
	if err != nil {
		return summary, err
	}

	instructions := s.fetchInstructions(ctx, timeout)
	interp := rules.Interpreter{
		Generator:       s.Generator,
		SlotDurationMin: settings.SlotDurationMin,
		Timeout:         timeout,
	}
	ruleResult := interp.Interpret(ctx, instructions, tasks)
	summary.DroppedRules = ruleResult.Dropped
	summary.RulesDegraded = ruleResult.Degraded

	targeted := map[string]bool{}
	for _, rule := range ruleResult.Rules {
		for _, id := range rules.TargetTaskIDs(rule, tasks) {
			targeted[id] = true
		}
	}

	ranked := ranker.Rank(tasks, targeted, now, settings.HorizonDays)
	blocks, unscheduled := allocator.New(settings.SlotDurationMin).Allocate(ranked, free, ruleResult.Rules)
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start.Before(blocks[j].Start) })

	summary.Blocks = blocks
	summary.Unscheduled = unscheduled

	if opts.DryRun || len(blocks) == 0 {
		return summary, nil
	}

	summary.Emitted = emitter.New(s.Calendar, timeout).Emit(ctx, blocks)
	return summary, nil
}

// EmitBlocks creates calendar events for already-allocated blocks. Used by
// callers that confirm a proposed schedule before committing it.
func (s *Scheduler) EmitBlocks(ctx context.Context, settings models.Settings, blocks []models.ScheduledBlock) []models.BlockResult {
	return emitter.New(s.Calendar, requestTimeout(settings)).Emit(ctx, blocks)
}

// requestTimeout guards against a zero setting, which would hand providers an
// already-expired context.
func requestTimeout(settings models.Settings) time.Duration {
	if settings.RequestTimeoutSec <= 0 {
		return constants.DefaultRequestTimeout
	}
	return time.Duration(settings.RequestTimeoutSec) * time.Second
}

func (s *Scheduler) listTasks(ctx context.Context, timeout time.Duration) ([]models.Task, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Tasks.ListActiveTasks(callCtx)
}

func (s *Scheduler) listEvents(ctx context.Context, timeout time.Duration, start, end time.Time) ([]models.CalendarEvent, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Calendar.ListEvents(callCtx, start, end)
}

// fetchInstructions degrades to empty instructions when the task provider
// cannot serve them; missing instruction text only means no rules this run.
func (s *Scheduler) fetchInstructions(ctx context.Context, timeout time.Duration) string {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	instructions, err := s.Tasks.Instructions(callCtx)
	if err != nil {
		logger.Warn("Could not fetch scheduling instructions", "error", err)
		return ""
	}
	return instructions
}
