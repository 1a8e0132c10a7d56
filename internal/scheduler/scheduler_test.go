package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	apierrors "github.com/mlakeland/timeblock/internal/errors"
	"github.com/mlakeland/timeblock/internal/models"
)

type fakeTasks struct {
	tasks           []models.Task
	instructions    string
	tasksErr        error
	instructionsErr error
}

func (f *fakeTasks) ListActiveTasks(ctx context.Context) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.tasks, f.tasksErr
}

func (f *fakeTasks) Instructions(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.instructions, f.instructionsErr
}

type fakeCalendar struct {
	events    []models.CalendarEvent
	listErr   error
	created   []models.CalendarEvent
	createErr error
}

func (f *fakeCalendar) ListEvents(ctx context.Context, start, end time.Time) ([]models.CalendarEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.events, f.listErr
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, title string, start, end time.Time, taskID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, models.CalendarEvent{Title: title, Start: start, End: end})
	return fmt.Sprintf("evt-%d", len(f.created)), nil
}

type fakeGenerator struct {
	response string
	err      error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.response, f.err
}

func testSettings() models.Settings {
	return models.Settings{
		DayStart:          "09:00",
		DayEnd:            "17:00",
		WorkDays:          "mon,tue,wed,thu,fri",
		SlotDurationMin:   60,
		HorizonDays:       5,
		RequestTimeoutSec: 5,
		Timezone:          "UTC",
		CalendarName:      "primary",
	}
}

// Monday 2026-01-05 08:00 UTC
var testNow = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

func eventAt(hour, durMin int) models.CalendarEvent {
	start := time.Date(2026, 1, 5, hour, 0, 0, 0, time.UTC)
	return models.CalendarEvent{
		ID:    fmt.Sprintf("fixed-%d", hour),
		Title: "Fixed appointment",
		Start: start,
		End:   start.Add(time.Duration(durMin) * time.Minute),
	}
}

func TestRun_FullPipeline(t *testing.T) {
	due := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	tasks := &fakeTasks{
		tasks: []models.Task{
			{ID: "report", Title: "Write report", Priority: models.PriorityHigh, DurationMin: 60},
			{ID: "email", Title: "Email client", Priority: models.PriorityNormal, DueDate: &due, DurationMin: 30},
		},
	}
	cal := &fakeCalendar{events: []models.CalendarEvent{eventAt(10, 60)}}
	sched := New(tasks, cal, &fakeGenerator{})

	summary, err := sched.Run(context.Background(), testSettings(), Options{Now: testNow})
	if err != nil {
		t.Fatalf("Expected run to succeed, got %v", err)
	}

	if len(summary.Blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(summary.Blocks))
	}
	// Due today outranks higher priority; blocks come back chronological.
	if summary.Blocks[0].TaskID != "email" {
		t.Errorf("Expected email first at 09:00, got %s", summary.Blocks[0].TaskID)
	}
	if summary.Blocks[1].TaskID != "report" {
		t.Errorf("Expected report second, got %s", summary.Blocks[1].TaskID)
	}
	for i := 1; i < len(summary.Blocks); i++ {
		if summary.Blocks[i].Start.Before(summary.Blocks[i-1].Start) {
			t.Errorf("Blocks not in chronological order: %+v", summary.Blocks)
		}
	}
	// Blocks must not overlap the fixed appointment.
	for _, b := range summary.Blocks {
		fixed := eventAt(10, 60)
		if b.Start.Before(fixed.End) && fixed.Start.Before(b.End) {
			t.Errorf("Block overlaps fixed event: %+v", b)
		}
	}
	if len(cal.created) != 2 {
		t.Errorf("Expected 2 calendar events created, got %d", len(cal.created))
	}
	if len(summary.Emitted) != 2 {
		t.Errorf("Expected 2 emission results, got %d", len(summary.Emitted))
	}
	if summary.RunID == "" {
		t.Error("Expected summary to carry a run ID")
	}
}

func TestRun_RuleBandRespectedEndToEnd(t *testing.T) {
	tasks := &fakeTasks{
		tasks: []models.Task{
			{ID: "deep", Title: "Draft design doc", DurationMin: 60},
		},
		instructions: "Do design work in the afternoon",
	}
	gen := &fakeGenerator{response: `[{"raw":"Do design work in the afternoon","target_kind":"task","target":"Draft design doc","times_per_period":1,"period":"day","band":{"start":"13:00","end":"17:00"}}]`}
	cal := &fakeCalendar{}
	sched := New(tasks, cal, gen)

	summary, err := sched.Run(context.Background(), testSettings(), Options{Now: testNow, DryRun: true})
	if err != nil {
		t.Fatalf("Expected run to succeed, got %v", err)
	}
	if len(summary.Blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(summary.Blocks))
	}
	if summary.Blocks[0].Start.Hour() < 13 {
		t.Errorf("Expected banded task placed at or after 13:00, got %v", summary.Blocks[0].Start)
	}
}

func TestRun_GeneratorFailureDegradesNotFails(t *testing.T) {
	tasks := &fakeTasks{
		tasks:        []models.Task{{ID: "a", Title: "Task A", DurationMin: 30}},
		instructions: "Spread my work out",
	}
	gen := &fakeGenerator{err: apierrors.ErrExternalUnavailable}
	cal := &fakeCalendar{}
	sched := New(tasks, cal, gen)

	summary, err := sched.Run(context.Background(), testSettings(), Options{Now: testNow, DryRun: true})
	if err != nil {
		t.Fatalf("Expected degraded run, not failure: %v", err)
	}
	if !summary.RulesDegraded {
		t.Error("Expected summary to flag rule degradation")
	}
	if len(summary.Blocks) != 1 {
		t.Errorf("Expected allocation to proceed without rules, got %d blocks", len(summary.Blocks))
	}
}

func TestRun_InstructionsFetchFailureDegrades(t *testing.T) {
	tasks := &fakeTasks{
		tasks:           []models.Task{{ID: "a", Title: "Task A", DurationMin: 30}},
		instructionsErr: apierrors.ErrExternalUnavailable,
	}
	sched := New(tasks, &fakeCalendar{}, &fakeGenerator{})

	summary, err := sched.Run(context.Background(), testSettings(), Options{Now: testNow, DryRun: true})
	if err != nil {
		t.Fatalf("Expected run to continue without instructions, got %v", err)
	}
	if len(summary.Blocks) != 1 {
		t.Errorf("Expected 1 block, got %d", len(summary.Blocks))
	}
}

func TestRun_TaskFetchFailureAborts(t *testing.T) {
	tasks := &fakeTasks{tasksErr: apierrors.ErrExternalUnavailable}
	sched := New(tasks, &fakeCalendar{}, &fakeGenerator{})

	_, err := sched.Run(context.Background(), testSettings(), Options{Now: testNow})
	if err == nil {
		t.Fatal("Expected run to fail when tasks cannot be fetched")
	}
	if !errors.Is(err, apierrors.ErrExternalUnavailable) {
		t.Errorf("Expected wrapped provider error, got %v", err)
	}
}

func TestRun_MalformedEventAborts(t *testing.T) {
	bad := models.CalendarEvent{
		ID:    "bad",
		Title: "Inverted",
		Start: time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 5, 11, 0, 0, 0, time.UTC),
	}
	tasks := &fakeTasks{tasks: []models.Task{{ID: "a", Title: "Task A"}}}
	sched := New(tasks, &fakeCalendar{events: []models.CalendarEvent{bad}}, &fakeGenerator{})

	_, err := sched.Run(context.Background(), testSettings(), Options{Now: testNow})
	if err == nil {
		t.Fatal("Expected run to abort on malformed event")
	}
	if !apierrors.IsValidation(err) {
		t.Errorf("Expected a validation error, got %v", err)
	}
}

func TestRun_DryRunSkipsEmission(t *testing.T) {
	tasks := &fakeTasks{tasks: []models.Task{{ID: "a", Title: "Task A", DurationMin: 30}}}
	cal := &fakeCalendar{}
	sched := New(tasks, cal, &fakeGenerator{})

	summary, err := sched.Run(context.Background(), testSettings(), Options{Now: testNow, DryRun: true})
	if err != nil {
		t.Fatalf("Expected dry run to succeed, got %v", err)
	}
	if len(summary.Blocks) == 0 {
		t.Fatal("Expected dry run to still produce blocks")
	}
	if len(cal.created) != 0 {
		t.Errorf("Dry run must not create events, got %d", len(cal.created))
	}
	if len(summary.Emitted) != 0 {
		t.Errorf("Dry run must not report emissions, got %v", summary.Emitted)
	}
}

func TestRun_UnscheduledReported(t *testing.T) {
	tasks := &fakeTasks{tasks: []models.Task{
		{ID: "big", Title: "Big task", DurationMin: 600},
		{ID: "small", Title: "Small task", DurationMin: 60},
	}}
	// Whole Monday is busy except one hour.
	cal := &fakeCalendar{events: []models.CalendarEvent{eventAt(9, 420)}}
	settings := testSettings()
	settings.HorizonDays = 1
	sched := New(tasks, cal, &fakeGenerator{})

	summary, err := sched.Run(context.Background(), settings, Options{Now: testNow, DryRun: true})
	if err != nil {
		t.Fatalf("Expected run to succeed, got %v", err)
	}
	if len(summary.Unscheduled) != 1 || summary.Unscheduled[0] != "big" {
		t.Errorf("Expected big task reported unscheduled, got %v", summary.Unscheduled)
	}
	if len(summary.Blocks) != 1 || summary.Blocks[0].TaskID != "small" {
		t.Errorf("Expected small task scheduled, got %v", summary.Blocks)
	}
}

func TestRun_DateAnchoredInConfiguredTimezone(t *testing.T) {
	settings := testSettings()
	settings.Timezone = "America/Los_Angeles"
	settings.HorizonDays = 1

	loc, err := Location(settings)
	if err != nil {
		t.Fatalf("Expected timezone to resolve, got %v", err)
	}
	// Wednesday 2026-01-07, as a --date flag would anchor it.
	from, err := time.ParseInLocation("2006-01-02", "2026-01-07", loc)
	if err != nil {
		t.Fatalf("Expected date to parse, got %v", err)
	}

	tasks := &fakeTasks{tasks: []models.Task{{ID: "a", Title: "Task A", DurationMin: 60}}}
	sched := New(tasks, &fakeCalendar{}, &fakeGenerator{})

	summary, err := sched.Run(context.Background(), settings, Options{Now: from, DryRun: true})
	if err != nil {
		t.Fatalf("Expected run to succeed, got %v", err)
	}
	if len(summary.Blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(summary.Blocks))
	}

	got := summary.Blocks[0].Start.In(loc)
	if got.Format("2006-01-02") != "2026-01-07" {
		t.Errorf("Expected block on the requested date, got %v", got)
	}
	if got.Hour() != 9 {
		t.Errorf("Expected block at 09:00 local, got %v", got)
	}
	if summary.GeneratedAt.Location().String() != "America/Los_Angeles" {
		t.Errorf("Expected GeneratedAt in configured timezone, got %v", summary.GeneratedAt.Location())
	}
}

func TestLocation(t *testing.T) {
	for _, name := range []string{"", "Local"} {
		loc, err := Location(models.Settings{Timezone: name})
		if err != nil || loc != time.Local {
			t.Errorf("Expected %q to resolve to time.Local, got %v, %v", name, loc, err)
		}
	}
	if _, err := Location(models.Settings{Timezone: "Mars/Olympus_Mons"}); err == nil {
		t.Error("Expected error for unknown timezone")
	}
}

func TestRun_ZeroTimeoutFallsBack(t *testing.T) {
	settings := testSettings()
	settings.RequestTimeoutSec = 0

	tasks := &fakeTasks{tasks: []models.Task{{ID: "a", Title: "Task A", DurationMin: 30}}}
	sched := New(tasks, &fakeCalendar{}, &fakeGenerator{})

	summary, err := sched.Run(context.Background(), settings, Options{Now: testNow, DryRun: true})
	if err != nil {
		t.Fatalf("Expected default timeout, got %v", err)
	}
	if len(summary.Blocks) != 1 {
		t.Errorf("Expected 1 block, got %d", len(summary.Blocks))
	}
}

func TestEmitBlocks_UsesCalendarProvider(t *testing.T) {
	cal := &fakeCalendar{}
	sched := New(&fakeTasks{}, cal, &fakeGenerator{})

	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	results := sched.EmitBlocks(context.Background(), testSettings(), []models.ScheduledBlock{
		{TaskID: "a", TaskTitle: "Task A", Start: start, End: start.Add(time.Hour)},
	})

	if len(results) != 1 || results[0].Err != "" {
		t.Fatalf("Expected clean emission, got %v", results)
	}
	if len(cal.created) != 1 {
		t.Errorf("Expected 1 created event, got %d", len(cal.created))
	}
}
