package constants

import "time"

const (
	AppName           = "timeblock"
	Version           = "v0.2.0"
	DefaultConfigPath = "~/.config/timeblock/timeblock.db"

	// Keyring account names for stored secrets
	KeyringTodoistToken = "todoist-token"
	KeyringOpenAIKey    = "openai-api-key"
	KeyringGoogleToken  = "google-oauth-token"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard clock time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// InstructionTaskTitle is the reserved Todoist task whose description holds
	// the user's natural-language scheduling instructions.
	InstructionTaskTitle = "AI Instructions"

	// EventTaskIDProperty is the private extended property set on calendar
	// events created by timeblock, so re-runs can tell our blocks apart from
	// fixed appointments.
	EventTaskIDProperty = "timeblock_task_id"
)

// Setting keys
const (
	SettingDayStart          = "day_start"
	SettingDayEnd            = "day_end"
	SettingWorkDays          = "work_days"
	SettingSlotDurationMin   = "slot_duration_min"
	SettingHorizonDays       = "horizon_days"
	SettingRequestTimeoutSec = "request_timeout_sec"
	SettingTimezone          = "timezone"
	SettingCalendarName      = "calendar_name"
	SettingOpenAIModel       = "openai_model"
)

// Default setting values
const (
	DefaultDayStart          = "09:00"
	DefaultDayEnd            = "17:00"
	DefaultWorkDays          = "mon,tue,wed,thu,fri"
	DefaultSlotDurationMin   = 60
	DefaultHorizonDays       = 5
	DefaultRequestTimeoutSec = 8
	DefaultTimezone          = "Local"
	DefaultCalendarName      = "primary"
	DefaultOpenAIModel       = "gpt-4o-mini"
)

// ValidSlotDurations are the slot sizes the schedule command accepts.
var ValidSlotDurations = []int{30, 60, 120}

// DefaultRequestTimeout is the fallback timeout for external calls when
// settings are unavailable.
const DefaultRequestTimeout = 8 * time.Second
