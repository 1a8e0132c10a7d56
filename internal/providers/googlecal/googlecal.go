package googlecal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/mlakeland/timeblock/internal/constants"
	"github.com/mlakeland/timeblock/internal/errors"
	"github.com/mlakeland/timeblock/internal/models"
)

// Provider is a Google Calendar implementation of the scheduler's calendar
// collaborator.
type Provider struct {
	srv        *calendar.Service
	calendarID string
}

// NewService builds a calendar service from a stored OAuth token (JSON, as
// written by `timeblock auth set google`).
func NewService(ctx context.Context, tokenJSON []byte) (*calendar.Service, error) {
	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("invalid stored google token: %w", err)
	}
	srv, err := calendar.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(&token)))
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar client: %w", err)
	}
	return srv, nil
}

// New resolves the named calendar and returns a provider bound to it.
// "primary" is passed through without a lookup.
func New(srv *calendar.Service, calendarName string) (*Provider, error) {
	if calendarName == "" || calendarName == "primary" {
		return &Provider{srv: srv, calendarID: "primary"}, nil
	}

	calendarList, err := srv.CalendarList.List().Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar list: %w", err)
	}
	for _, item := range calendarList.Items {
		if item.Summary == calendarName {
			return &Provider{srv: srv, calendarID: item.Id}, nil
		}
	}
	return nil, fmt.Errorf("calendar %q not found", calendarName)
}

// ListEvents fetches fixed appointments in [start, end). Events carrying our
// own task-ID property are blocks from an earlier run, not fixed commitments,
// so they are excluded from busy time and re-planning replaces them.
func (p *Provider) ListEvents(ctx context.Context, start, end time.Time) ([]models.CalendarEvent, error) {
	call := p.srv.Events.List(p.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrExternalUnavailable, err)
	}

	var events []models.CalendarEvent
	for _, item := range result.Items {
		if isTimeblockEvent(item) {
			continue
		}
		// All-day events have Date instead of DateTime; they do not block
		// working hours.
		if item.Start == nil || item.Start.DateTime == "" || item.End == nil || item.End.DateTime == "" {
			continue
		}
		evStart, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			continue
		}
		evEnd, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			continue
		}
		events = append(events, models.CalendarEvent{
			ID:    item.Id,
			Title: item.Summary,
			Start: evStart,
			End:   evEnd,
		})
	}
	return events, nil
}

// CreateEvent creates one calendar event for a scheduled block, tagged with
// the task ID so later runs can identify it.
func (p *Provider) CreateEvent(ctx context.Context, title string, start, end time.Time, taskID string) (string, error) {
	event := &calendar.Event{
		Summary: title,
		Start:   &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:     &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{constants.EventTaskIDProperty: taskID},
		},
	}

	created, err := p.srv.Events.Insert(p.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrExternalUnavailable, err)
	}
	return created.Id, nil
}

func isTimeblockEvent(item *calendar.Event) bool {
	if item.ExtendedProperties == nil || item.ExtendedProperties.Private == nil {
		return false
	}
	_, ok := item.ExtendedProperties.Private[constants.EventTaskIDProperty]
	return ok
}
