package emitter

import (
	"context"
	"time"

	"github.com/mlakeland/timeblock/internal/constants"
	"github.com/mlakeland/timeblock/internal/logger"
	"github.com/mlakeland/timeblock/internal/models"
)

// CalendarProvider is the external calendar collaborator.
type CalendarProvider interface {
	ListEvents(ctx context.Context, start, end time.Time) ([]models.CalendarEvent, error)
	CreateEvent(ctx context.Context, title string, start, end time.Time, taskID string) (string, error)
}

// Emitter hands scheduled blocks to the calendar provider, one create call per
// block. A failed creation is reported on that block and emission moves on;
// there is no rollback of blocks already created.
type Emitter struct {
	Calendar CalendarProvider
	Timeout  time.Duration
}

func New(calendar CalendarProvider, timeout time.Duration) *Emitter {
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	return &Emitter{Calendar: calendar, Timeout: timeout}
}

// Emit creates one calendar event per block and returns the per-block results.
func (e *Emitter) Emit(ctx context.Context, blocks []models.ScheduledBlock) []models.BlockResult {
	results := make([]models.BlockResult, 0, len(blocks))

	for _, block := range blocks {
		callCtx, cancel := context.WithTimeout(ctx, e.Timeout)
		eventID, err := e.Calendar.CreateEvent(callCtx, block.TaskTitle, block.Start, block.End, block.TaskID)
		cancel()

		result := models.BlockResult{Block: block}
		if err != nil {
			logger.Warn("Failed to create calendar event", "task", block.TaskID, "error", err)
			result.Err = err.Error()
		} else {
			result.EventID = eventID
		}
		results = append(results, result)

		if ctx.Err() != nil {
			// Caller cancelled mid-emission; already-created events stay.
			break
		}
	}

	return results
}
