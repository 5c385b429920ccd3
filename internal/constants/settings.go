package constants

const (
	// Setting keys
	SettingTimezone          = "timezone"
	SettingTrendDays         = "trend_days"
	SettingIncludeNotePoints = "include_note_points"

	// Default Settings Values
	DefaultTimezone = "Local" // Use system local timezone by default
)
