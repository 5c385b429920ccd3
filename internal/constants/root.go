package constants

import (
	"strings"
	"time"
)

// ColorTag is one of the fixed palette values used to identify a habit
type ColorTag string

const (
	AppName            = "daypoints"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/daypoints/daypoints.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// EarliestDate and LatestDate bound whole-history range queries
	EarliestDate = "0001-01-01"
	LatestDate   = "9999-12-31"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "daypoints-"
	BackupFileSuffix = ".db"

	// Habit rating bounds for impact, difficulty and time/effort
	MinDimensionRating = 1
	MaxDimensionRating = 5

	// NoteCharsPerPoint is the number of note characters worth one point
	NoteCharsPerPoint = 20

	// MaxInstancesPerDay is advisory only; the ledger never enforces it
	MaxInstancesPerDay = 7

	// Limits
	DefaultMaxNoteLength     = 2000
	DefaultStreakMaxLookback = 3650
	DefaultTrendDays         = 21
	MaxSeriesDays            = 3650
	DefaultHistoryLimit      = 20

	// Chat constants
	DefaultChatUserID   = "anonymous"
	ChatThreadPrefix    = "thread_"
	ChatMaxOutputTokens = 500
	ChatTemperature     = 0.7
	DefaultGenAIModel   = "gemini-2.0-flash"
	SimulatedModelName  = "simulated"

	// Server constants
	DefaultHTTPAddr       = ":3001"
	DefaultRequestTimeout = 15 * time.Second
	DefaultCacheTTL       = 5 * time.Minute
	TrendsCachePrefix     = "daypoints:trends:"

	// Palette
	ColorYellow     ColorTag = "#FBBA16"
	ColorDarkGreen  ColorTag = "#00492C"
	ColorLightBlue  ColorTag = "#9BCCD0"
	ColorRed        ColorTag = "#E22028"
	ColorPink       ColorTag = "#E2B2B4"
	ColorDarkBlue   ColorTag = "#1E4380"
	ColorLightGreen ColorTag = "#B1D8B8"
)

// Palette lists the allowed habit colours in display order.
var Palette = []ColorTag{
	ColorYellow,
	ColorDarkGreen,
	ColorLightBlue,
	ColorRed,
	ColorPink,
	ColorDarkBlue,
	ColorLightGreen,
}

// PaletteNames maps the short CLI names to palette values.
var PaletteNames = map[string]ColorTag{
	"yellow":      ColorYellow,
	"dark-green":  ColorDarkGreen,
	"light-blue":  ColorLightBlue,
	"red":         ColorRed,
	"pink":        ColorPink,
	"dark-blue":   ColorDarkBlue,
	"light-green": ColorLightGreen,
}

// IsValidColorTag reports whether c is exactly one of the palette values.
func IsValidColorTag(c string) bool {
	for _, p := range Palette {
		if string(p) == c {
			return true
		}
	}
	return false
}

// ColorName returns the short name for a palette value, or the value itself.
func ColorName(c ColorTag) string {
	for name, p := range PaletteNames {
		if p == c {
			return name
		}
	}
	return string(c)
}

// ResolveColorTag accepts a short palette name or an exact palette value.
func ResolveColorTag(input string) (ColorTag, bool) {
	if c, ok := PaletteNames[strings.ToLower(strings.TrimSpace(input))]; ok {
		return c, true
	}
	if IsValidColorTag(input) {
		return ColorTag(input), true
	}
	return "", false
}
