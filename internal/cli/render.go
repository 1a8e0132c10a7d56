package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mlakeland/timeblock/internal/constants"
	"github.com/mlakeland/timeblock/internal/models"
)

var (
	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	taskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// RenderSummary renders a run's blocks grouped by day plus any recoverable
// conditions that were collected along the way.
func RenderSummary(summary models.RunSummary) string {
	var b strings.Builder

	if len(summary.Blocks) == 0 {
		b.WriteString("No blocks scheduled.\n")
	}

	currentDay := ""
	for _, block := range summary.Blocks {
		day := block.Start.Format("Monday, Jan 2")
		if day != currentDay {
			if currentDay != "" {
				b.WriteString("\n")
			}
			b.WriteString(dayStyle.Render(day) + "\n")
			currentDay = day
		}
		window := fmt.Sprintf("%s - %s",
			block.Start.Format(constants.TimeFormat),
			block.End.Format(constants.TimeFormat))
		b.WriteString("  " + timeStyle.Render(window) + taskStyle.Render(block.TaskTitle) + "\n")
	}

	if summary.RulesDegraded {
		b.WriteString("\n" + warningStyle.Render("⚠ Rule extraction unavailable; scheduled by priority and due date only.") + "\n")
	}
	for _, dropped := range summary.DroppedRules {
		b.WriteString(noteStyle.Render(fmt.Sprintf("  dropped rule: %s", dropped)) + "\n")
	}
	if len(summary.Unscheduled) > 0 {
		b.WriteString("\n" + warningStyle.Render(fmt.Sprintf("⚠ %d task(s) did not fit this run:", len(summary.Unscheduled))) + "\n")
		for _, id := range summary.Unscheduled {
			b.WriteString(noteStyle.Render("  "+id) + "\n")
		}
	}

	return b.String()
}

// RenderEmission renders the per-block outcome of calendar event creation.
func RenderEmission(results []models.BlockResult) string {
	var b strings.Builder
	created, failed := 0, 0
	for _, r := range results {
		if r.Err != "" {
			failed++
			b.WriteString(warningStyle.Render(fmt.Sprintf("  ❌ %s (%s): %s",
				r.Block.TaskTitle, r.Block.Start.Format(constants.TimeFormat), r.Err)) + "\n")
		} else {
			created++
		}
	}
	b.WriteString(fmt.Sprintf("✨ Created %d event(s), %d failed\n", created, failed))
	return b.String()
}
