package models

import (
	"fmt"

	"github.com/julianstephens/daypoints/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingTrendDays:
			if _, err := fmt.Sscanf(value, "%d", &settings.TrendDays); err != nil {
				return Settings{}, fmt.Errorf("parsing trend_days: %w", err)
			}
		case constants.SettingIncludeNotePoints:
			settings.IncludeNotePoints = value == "true"
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:          settings.Timezone,
		constants.SettingTrendDays:         fmt.Sprintf("%d", settings.TrendDays),
		constants.SettingIncludeNotePoints: fmt.Sprintf("%v", settings.IncludeNotePoints),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.TrendDays <= 0 {
		settings.TrendDays = constants.DefaultTrendDays
	}
}
