package models

// Settings represents application-wide settings
type Settings struct {
	Timezone          string `json:"timezone"`            // IANA timezone name (e.g. "America/Santiago", or "Local" for system timezone)
	TrendDays         int    `json:"trend_days"`          // default window for trend charts
	IncludeNotePoints bool   `json:"include_note_points"` // whether daily trend series add note points
}
