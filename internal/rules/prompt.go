package rules

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mlakeland/timeblock/internal/models"
)

// taskDigest is the minimal task context handed to the text generator so it
// can resolve rule targets against real task and project names.
type taskDigest struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Project string `json:"project,omitempty"`
}

// BuildExtractionPrompt renders the fixed structured-extraction prompt for one
// run: the user's raw instruction text plus the rule schema the generator must
// map each sentence onto.
func BuildExtractionPrompt(instructions string, tasks []models.Task) string {
	digests := make([]taskDigest, 0, len(tasks))
	for _, t := range tasks {
		digests = append(digests, taskDigest{ID: t.ID, Title: t.Title, Project: t.ProjectName})
	}
	taskJSON, _ := json.MarshalIndent(digests, "", "  ")

	var b strings.Builder
	b.WriteString("You convert scheduling instructions into structured allocation rules.\n\n")
	b.WriteString("Current tasks:\n")
	b.Write(taskJSON)
	b.WriteString("\n\nInstructions (one rule per line or sentence):\n")
	b.WriteString(instructions)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, `Map each instruction onto this JSON schema and reply with a JSON array only:
[
  {
    "raw": "the original instruction sentence",
    "target_kind": "task" | "project" | "tag",
    "target": "name of the task, project, or tag",
    "times_per_period": 1,
    "period": "day" | "week" | "month",
    "band": {"start": "HH:MM", "end": "HH:MM"},
    "min_duration_min": 30,
    "max_duration_min": 120
  }
]
Omit "band" and the duration fields when the instruction does not mention them.
Do not invent rules for instructions you cannot interpret.`)
	return b.String()
}
