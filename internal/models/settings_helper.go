package models

import (
	"fmt"

	"github.com/mlakeland/timeblock/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingDayStart:
			settings.DayStart = value
		case constants.SettingDayEnd:
			settings.DayEnd = value
		case constants.SettingWorkDays:
			settings.WorkDays = value
		case constants.SettingSlotDurationMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.SlotDurationMin); err != nil {
				return Settings{}, fmt.Errorf("parsing slot_duration_min: %w", err)
			}
		case constants.SettingHorizonDays:
			if _, err := fmt.Sscanf(value, "%d", &settings.HorizonDays); err != nil {
				return Settings{}, fmt.Errorf("parsing horizon_days: %w", err)
			}
		case constants.SettingRequestTimeoutSec:
			if _, err := fmt.Sscanf(value, "%d", &settings.RequestTimeoutSec); err != nil {
				return Settings{}, fmt.Errorf("parsing request_timeout_sec: %w", err)
			}
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingCalendarName:
			settings.CalendarName = value
		case constants.SettingOpenAIModel:
			settings.OpenAIModel = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingDayStart:          settings.DayStart,
		constants.SettingDayEnd:            settings.DayEnd,
		constants.SettingWorkDays:          settings.WorkDays,
		constants.SettingSlotDurationMin:   fmt.Sprintf("%d", settings.SlotDurationMin),
		constants.SettingHorizonDays:       fmt.Sprintf("%d", settings.HorizonDays),
		constants.SettingRequestTimeoutSec: fmt.Sprintf("%d", settings.RequestTimeoutSec),
		constants.SettingTimezone:          settings.Timezone,
		constants.SettingCalendarName:      settings.CalendarName,
		constants.SettingOpenAIModel:       settings.OpenAIModel,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.DayStart == "" {
		settings.DayStart = constants.DefaultDayStart
	}
	if settings.DayEnd == "" {
		settings.DayEnd = constants.DefaultDayEnd
	}
	if settings.WorkDays == "" {
		settings.WorkDays = constants.DefaultWorkDays
	}
	if settings.SlotDurationMin == 0 {
		settings.SlotDurationMin = constants.DefaultSlotDurationMin
	}
	if settings.HorizonDays == 0 {
		settings.HorizonDays = constants.DefaultHorizonDays
	}
	if settings.RequestTimeoutSec == 0 {
		settings.RequestTimeoutSec = constants.DefaultRequestTimeoutSec
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.CalendarName == "" {
		settings.CalendarName = constants.DefaultCalendarName
	}
	if settings.OpenAIModel == "" {
		settings.OpenAIModel = constants.DefaultOpenAIModel
	}
}
