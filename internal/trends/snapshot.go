// Package trends derives streaks and score series from ledger history.
// The functions in this file are pure; Calculator loads their inputs.
package trends

import (
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/utils"
)

// Snapshot is a read-only copy of the history a computation needs.
type Snapshot struct {
	Habits  []models.Habit
	Entries []models.TrackingEntry
	Scores  []models.DailyScore
}

// DayPoint is one day of a total-score series.
type DayPoint struct {
	Date       string `json:"date"`
	TotalScore int    `json:"total_score"`
}

// HabitPoint is one day of a single habit's series.
type HabitPoint struct {
	Date             string `json:"date"`
	ScoreIfCompleted int    `json:"score_if_completed"`
	Count            int    `json:"count"`
}

// Streak counts consecutive days with at least one entry, walking back from
// the day before asOf. maxLookback bounds the walk.
func Streak(entries []models.TrackingEntry, habitID, asOf string, maxLookback int) int {
	days := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.HabitID == habitID {
			days[e.Date] = true
		}
	}

	streak := 0
	for i := 1; i <= maxLookback; i++ {
		d, err := utils.AddDays(asOf, -i)
		if err != nil || !days[d] {
			break
		}
		streak++
	}
	return streak
}

// DailySeries scores each date as the sum of count*priority score over all
// habits in the snapshot, scored at their current priority. Entries for
// habits missing from the snapshot add nothing.
func DailySeries(s Snapshot, dates []string, includeNotePoints bool) []DayPoint {
	scores := make(map[string]int, len(s.Habits))
	for _, h := range s.Habits {
		scores[h.ID] = h.PriorityScore
	}
	perDay := map[string]int{}
	for _, e := range s.Entries {
		perDay[e.Date] += scores[e.HabitID]
	}
	if includeNotePoints {
		for _, ds := range s.Scores {
			perDay[ds.Date] += ds.NotePoints
		}
	}

	series := make([]DayPoint, 0, len(dates))
	for _, d := range dates {
		series = append(series, DayPoint{Date: d, TotalScore: perDay[d]})
	}
	return series
}

// HabitSeries reports, for each date, the habit's entry count and
// ScoreIfCompleted, which is priorityScore on any day with at least one
// entry and 0 otherwise. Repeat instances raise Count, not the score.
func HabitSeries(entries []models.TrackingEntry, habitID string, priorityScore int, dates []string) []HabitPoint {
	counts := map[string]int{}
	for _, e := range entries {
		if e.HabitID == habitID {
			counts[e.Date]++
		}
	}

	series := make([]HabitPoint, 0, len(dates))
	for _, d := range dates {
		p := HabitPoint{Date: d, Count: counts[d]}
		if p.Count > 0 {
			p.ScoreIfCompleted = priorityScore
		}
		series = append(series, p)
	}
	return series
}

// CompletionRate is the share of days in series with at least one entry.
// An empty series rates 0.
func CompletionRate(series []HabitPoint) float64 {
	if len(series) == 0 {
		return 0
	}
	done := 0
	for _, p := range series {
		if p.Count > 0 {
			done++
		}
	}
	return float64(done) / float64(len(series))
}
