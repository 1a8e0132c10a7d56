package models

type TargetKind string

const (
	TargetTask    TargetKind = "task"
	TargetProject TargetKind = "project"
	TargetTag     TargetKind = "tag"
)

type PeriodUnit string

const (
	PeriodDay   PeriodUnit = "day"
	PeriodWeek  PeriodUnit = "week"
	PeriodMonth PeriodUnit = "month"
)

// TimeBand is a preferred time-of-day window in HH:MM clock times.
type TimeBand struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AllocationRule is one structured constraint extracted from a sentence of the
// user's natural-language scheduling instructions. Rules are re-parsed from
// the instruction text on every run; they are never persisted.
type AllocationRule struct {
	Raw            string     `json:"raw"`
	TargetKind     TargetKind `json:"target_kind"`
	Target         string     `json:"target"`
	TimesPerPeriod int        `json:"times_per_period"`
	Period         PeriodUnit `json:"period"`
	Band           *TimeBand  `json:"band,omitempty"`
	MinDurationMin int        `json:"min_duration_min,omitempty"`
	MaxDurationMin int        `json:"max_duration_min,omitempty"`
}
