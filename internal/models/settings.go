package models

// Settings represents application-wide settings
type Settings struct {
	DayStart          string `json:"day_start"`           // the time the working day starts, e.g. "09:00"
	DayEnd            string `json:"day_end"`             // the time the working day ends, e.g. "17:00"
	WorkDays          string `json:"work_days"`           // comma-separated active weekdays, e.g. "mon,tue,wed,thu,fri"
	SlotDurationMin   int    `json:"slot_duration_min"`   // default block size in minutes (30, 60, or 120)
	HorizonDays       int    `json:"horizon_days"`        // how many days ahead the allocator may place blocks
	RequestTimeoutSec int    `json:"request_timeout_sec"` // timeout for external provider calls
	Timezone          string `json:"timezone"`            // IANA timezone name, or "Local" for the system timezone
	CalendarName      string `json:"calendar_name"`       // target Google calendar ("primary" or a named calendar)
	OpenAIModel       string `json:"openai_model"`        // model used for rule extraction
}
