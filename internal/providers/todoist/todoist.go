package todoist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mlakeland/timeblock/internal/constants"
	"github.com/mlakeland/timeblock/internal/errors"
	"github.com/mlakeland/timeblock/internal/logger"
	"github.com/mlakeland/timeblock/internal/models"
)

const defaultBaseURL = "https://api.todoist.com/rest/v2"

// Client is a Todoist REST v2 API client implementing the scheduler's task
// source interface.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

func New(token string) *Client {
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{},
	}
}

// NewWithBaseURL is used by tests to point the client at a stub server.
func NewWithBaseURL(token, baseURL string) *Client {
	c := New(token)
	c.baseURL = baseURL
	return c
}

type apiDue struct {
	Date     string `json:"date"`
	Datetime string `json:"datetime"`
}

type apiDuration struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"`
}

type apiTask struct {
	ID          string       `json:"id"`
	Content     string       `json:"content"`
	Description string       `json:"description"`
	ProjectID   string       `json:"project_id"`
	SectionID   string       `json:"section_id"`
	ParentID    string       `json:"parent_id"`
	Priority    int          `json:"priority"`
	Labels      []string     `json:"labels"`
	IsCompleted bool         `json:"is_completed"`
	Due         *apiDue      `json:"due"`
	Duration    *apiDuration `json:"duration"`
}

type apiProject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListActiveTasks fetches all active tasks. The reserved instruction task is
// handled separately and excluded here.
func (c *Client) ListActiveTasks(ctx context.Context) ([]models.Task, error) {
	var apiTasks []apiTask
	if err := c.get(ctx, "/tasks", &apiTasks); err != nil {
		return nil, err
	}

	projects, err := c.projectNames(ctx)
	if err != nil {
		// Project names only feed rule-target matching; tasks still schedule.
		logger.Warn("Could not fetch Todoist projects", "error", err)
		projects = map[string]string{}
	}

	tasks := make([]models.Task, 0, len(apiTasks))
	for _, t := range apiTasks {
		if t.Content == constants.InstructionTaskTitle {
			continue
		}
		task := models.Task{
			ID:          t.ID,
			Title:       t.Content,
			ProjectID:   t.ProjectID,
			ProjectName: projects[t.ProjectID],
			SectionID:   t.SectionID,
			ParentID:    t.ParentID,
			Labels:      t.Labels,
			Priority:    mapPriority(t.Priority),
			Status:      models.TaskStatusActive,
		}
		if t.IsCompleted {
			task.Status = models.TaskStatusCompleted
		}
		if due := parseDue(t.Due); due != nil {
			task.DueDate = due
		}
		if t.Duration != nil && t.Duration.Unit == "minute" {
			task.DurationMin = t.Duration.Amount
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Instructions returns the description of the reserved "AI Instructions"
// task, which holds the user's natural-language scheduling rules.
func (c *Client) Instructions(ctx context.Context) (string, error) {
	var apiTasks []apiTask
	if err := c.get(ctx, "/tasks", &apiTasks); err != nil {
		return "", err
	}
	for _, t := range apiTasks {
		if t.Content == constants.InstructionTaskTitle {
			return t.Description, nil
		}
	}
	return "", nil
}

// MarkTaskStatus closes or reopens a task after its block completes.
func (c *Client) MarkTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) error {
	action := "reopen"
	if status == models.TaskStatusCompleted {
		action = "close"
	}
	return c.post(ctx, fmt.Sprintf("/tasks/%s/%s", taskID, action))
}

func (c *Client) projectNames(ctx context.Context) (map[string]string, error) {
	var projects []apiProject
	if err := c.get(ctx, "/projects", &projects); err != nil {
		return nil, err
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrExternalUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: todoist returned %d: %s", errors.ErrExternalUnavailable, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) post(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrExternalUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: todoist returned %d: %s", errors.ErrExternalUnavailable, resp.StatusCode, body)
	}
	return nil
}

// mapPriority converts Todoist's 1 (lowest) to 4 (highest) scale.
func mapPriority(p int) models.Priority {
	switch p {
	case 4:
		return models.PriorityUrgent
	case 3:
		return models.PriorityHigh
	case 2:
		return models.PriorityNormal
	default:
		return models.PriorityLow
	}
}

func parseDue(due *apiDue) *time.Time {
	if due == nil {
		return nil
	}
	if due.Datetime != "" {
		if t, err := time.Parse(time.RFC3339, due.Datetime); err == nil {
			return &t
		}
	}
	if due.Date != "" {
		if t, err := time.Parse(constants.DateFormat, due.Date); err == nil {
			return &t
		}
	}
	return nil
}
