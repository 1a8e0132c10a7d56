package models

import "time"

// FreeInterval is a computed stretch of unbooked time within the working
// window. Never persisted; recomputed from calendar events every run.
type FreeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Minutes returns the interval length in whole minutes.
func (f FreeInterval) Minutes() int {
	return int(f.End.Sub(f.Start).Minutes())
}

// ScheduledBlock is an allocated stretch of time for one task.
type ScheduledBlock struct {
	TaskID    string    `json:"task_id"`
	TaskTitle string    `json:"task_title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// BlockResult records the outcome of emitting one block to the calendar.
type BlockResult struct {
	Block   ScheduledBlock `json:"block"`
	EventID string         `json:"event_id,omitempty"`
	Err     string         `json:"error,omitempty"`
}

// RunSummary is the caller-facing account of one scheduling run. Recoverable
// conditions are collected here instead of surfacing as errors.
type RunSummary struct {
	RunID         string           `json:"run_id"`
	GeneratedAt   time.Time        `json:"generated_at"`
	Blocks        []ScheduledBlock `json:"blocks"`
	Emitted       []BlockResult    `json:"emitted,omitempty"`
	Unscheduled   []string         `json:"unscheduled,omitempty"`    // task IDs that fit nowhere this run
	DroppedRules  []string         `json:"dropped_rules,omitempty"`  // raw rule text with no resolvable target
	RulesDegraded bool             `json:"rules_degraded,omitempty"` // generator unreachable, ran without rules
}
