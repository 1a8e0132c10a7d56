package emitter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mlakeland/timeblock/internal/models"
)

type fakeCalendar struct {
	failTitles map[string]bool
	created    []string
	cancelAll  context.CancelFunc
}

func (f *fakeCalendar) ListEvents(ctx context.Context, start, end time.Time) ([]models.CalendarEvent, error) {
	return nil, nil
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, title string, start, end time.Time, taskID string) (string, error) {
	if f.cancelAll != nil {
		f.cancelAll()
	}
	if f.failTitles[title] {
		return "", errors.New("calendar rejected event")
	}
	f.created = append(f.created, title)
	return fmt.Sprintf("evt-%d", len(f.created)), nil
}

func blockAt(taskID, title string, hour int) models.ScheduledBlock {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	return models.ScheduledBlock{
		TaskID:    taskID,
		TaskTitle: title,
		Start:     day.Add(time.Duration(hour) * time.Hour),
		End:       day.Add(time.Duration(hour+1) * time.Hour),
	}
}

func TestEmit_AllBlocksCreated(t *testing.T) {
	cal := &fakeCalendar{}
	em := New(cal, time.Second)

	results := em.Emit(context.Background(), []models.ScheduledBlock{
		blockAt("a", "Write report", 9),
		blockAt("b", "Email client", 11),
	})

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Err != "" {
			t.Errorf("Unexpected block failure: %+v", r)
		}
		if r.EventID == "" {
			t.Errorf("Expected event ID on %s", r.Block.TaskID)
		}
	}
}

func TestEmit_FailureDoesNotStopRemainingBlocks(t *testing.T) {
	cal := &fakeCalendar{failTitles: map[string]bool{"Email client": true}}
	em := New(cal, time.Second)

	results := em.Emit(context.Background(), []models.ScheduledBlock{
		blockAt("a", "Write report", 9),
		blockAt("b", "Email client", 11),
		blockAt("c", "Review PRs", 13),
	})

	if len(results) != 3 {
		t.Fatalf("Expected results for every block, got %d", len(results))
	}
	if results[0].Err != "" || results[2].Err != "" {
		t.Errorf("Healthy blocks must not be affected: %+v %+v", results[0], results[2])
	}
	if results[1].Err == "" || !strings.Contains(results[1].Err, "rejected") {
		t.Errorf("Expected failure recorded on the failing block, got %+v", results[1])
	}
	if len(cal.created) != 2 {
		t.Errorf("Expected 2 created events, got %d", len(cal.created))
	}
}

func TestEmit_CancellationKeepsCreatedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cal := &fakeCalendar{cancelAll: cancel}
	em := New(cal, time.Second)

	results := em.Emit(ctx, []models.ScheduledBlock{
		blockAt("a", "Write report", 9),
		blockAt("b", "Email client", 11),
		blockAt("c", "Review PRs", 13),
	})

	if len(results) != 1 {
		t.Fatalf("Expected emission to stop after cancellation, got %d results", len(results))
	}
	if len(cal.created) != 1 {
		t.Errorf("Already-created events must be kept, got %d", len(cal.created))
	}
}

func TestEmit_NoBlocks(t *testing.T) {
	em := New(&fakeCalendar{}, 0)

	if results := em.Emit(context.Background(), nil); len(results) != 0 {
		t.Errorf("Expected no results for empty input, got %v", results)
	}
}
