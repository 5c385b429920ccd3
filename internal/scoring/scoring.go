// Package scoring holds the point formulas shared by the registry,
// the aggregator and the trend views.
package scoring

import (
	"unicode/utf8"

	"github.com/julianstephens/daypoints/internal/constants"
)

// PriorityScore returns round((impact*0.4 + difficulty*0.4 + timeEffort*0.2) * 8.33).
//
// The weights are tenths and the scale is hundredths, so the product is an
// exact multiple of 1/1000 and can be rounded half-up in integers. This
// avoids float drift at values like 29.99 and 41.65.
// Inputs are not range-checked here.
func PriorityScore(impact, difficulty, timeEffort int) int {
	weighted := 4*impact + 4*difficulty + 2*timeEffort // tenths
	milli := weighted * 833                            // thousandths
	if milli >= 0 {
		return (milli + 500) / 1000
	}
	return -((-milli + 500) / 1000)
}

// NotePoints returns one point per full NoteCharsPerPoint characters of
// text, counted as Unicode code points. Empty text yields 0.
func NotePoints(text string) int {
	return utf8.RuneCountInString(text) / constants.NoteCharsPerPoint
}

// NoteLength returns the character count used for note limits and display.
func NoteLength(text string) int {
	return utf8.RuneCountInString(text)
}

// MaxDailyPoints is the advisory ceiling shown next to a habit's daily
// progress bar.
func MaxDailyPoints(priorityScore int) int {
	return priorityScore * constants.MaxInstancesPerDay
}
