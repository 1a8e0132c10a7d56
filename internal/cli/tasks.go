package cli

import (
	"context"
	"fmt"

	"github.com/mlakeland/timeblock/internal/constants"
	"github.com/mlakeland/timeblock/internal/models"
)

type TaskListCmd struct {
	ShowIDs  bool   `help:"Show task IDs." name:"show-ids"`
	Priority string `help:"Only show tasks at or above this priority (low, normal, high, urgent)."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	minPriority := models.PriorityLow
	if c.Priority != "" {
		var err error
		minPriority, err = models.ParsePriority(c.Priority)
		if err != nil {
			return err
		}
	}

	client, err := ctx.TodoistClient()
	if err != nil {
		return err
	}

	tasks, err := client.ListActiveTasks(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	fmt.Println("Tasks:")
	for _, task := range tasks {
		if task.Priority < minPriority {
			continue
		}
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", task.ID)
		}

		due := ""
		if task.DueDate != nil {
			due = fmt.Sprintf(", due %s", task.DueDate.Format(constants.DateFormat))
		}
		duration := ""
		if task.DurationMin > 0 {
			duration = fmt.Sprintf(", %dm", task.DurationMin)
		}

		fmt.Printf("  [%s] %s%s (%s%s%s)\n",
			task.Priority, task.Title, idStr, projectOrNone(task), due, duration)
	}

	return nil
}

type TaskDoneCmd struct {
	ID string `arg:"" help:"ID of the task to mark complete."`
}

func (c *TaskDoneCmd) Run(ctx *Context) error {
	client, err := ctx.TodoistClient()
	if err != nil {
		return err
	}
	if err := client.MarkTaskStatus(context.Background(), c.ID, models.TaskStatusCompleted); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	fmt.Printf("Task %s marked complete.\n", c.ID)
	return nil
}

type TaskReopenCmd struct {
	ID string `arg:"" help:"ID of the task to reopen."`
}

func (c *TaskReopenCmd) Run(ctx *Context) error {
	client, err := ctx.TodoistClient()
	if err != nil {
		return err
	}
	if err := client.MarkTaskStatus(context.Background(), c.ID, models.TaskStatusActive); err != nil {
		return fmt.Errorf("failed to reopen task: %w", err)
	}
	fmt.Printf("Task %s reopened.\n", c.ID)
	return nil
}

func projectOrNone(task models.Task) string {
	if task.ProjectName != "" {
		return task.ProjectName
	}
	return "no project"
}
