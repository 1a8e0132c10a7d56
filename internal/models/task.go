package models

import (
	"fmt"
	"time"
)

type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
)

// Priority is an ordered task priority. Higher values outrank lower ones.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityNormal
	PriorityHigh
	PriorityUrgent
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	default:
		return "unknown"
	}
}

// ParsePriority converts a priority name to its Priority value.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "low":
		return PriorityLow, nil
	case "normal":
		return PriorityNormal, nil
	case "high":
		return PriorityHigh, nil
	case "urgent":
		return PriorityUrgent, nil
	default:
		return 0, fmt.Errorf("invalid priority: %s", s)
	}
}

// Task is a unit of work fetched from the task provider. Tasks are read-only
// inputs to a scheduling run except for Status, which the caller may update
// after a block completes.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	ProjectID   string     `json:"project_id,omitempty"`
	ProjectName string     `json:"project_name,omitempty"`
	SectionID   string     `json:"section_id,omitempty"`
	ParentID    string     `json:"parent_id,omitempty"`
	Labels      []string   `json:"labels,omitempty"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      TaskStatus `json:"status"`
	DurationMin int        `json:"duration_min,omitempty"` // 0 means one default slot
}
