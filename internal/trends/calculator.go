package trends

import (
	"context"

	"github.com/julianstephens/daypoints/internal/constants"
	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/utils"
)

type habitSource interface {
	Get(ctx context.Context, id string) (models.Habit, error)
	ListAll(ctx context.Context) ([]models.Habit, error)
}

type entrySource interface {
	EntriesInRange(ctx context.Context, start, end string) ([]models.TrackingEntry, error)
	EntriesForHabit(ctx context.Context, habitID, start, end string) ([]models.TrackingEntry, error)
}

type scoreSource interface {
	ScoresInRange(ctx context.Context, start, end string) ([]models.DailyScore, error)
}

type today interface {
	Today() string
}

// Options tunes the calculator.
type Options struct {
	// MaxLookback caps how many days a streak walk inspects.
	MaxLookback int
	// IncludeNotePoints adds stored note points to DailySeries.
	IncludeNotePoints bool
}

// DefaultOptions caps streaks at the default lookback and leaves note
// points out of DailySeries.
func DefaultOptions() Options {
	return Options{MaxLookback: constants.DefaultStreakMaxLookback}
}

// Calculator loads snapshots and runs the pure trend functions over them.
type Calculator struct {
	habits  habitSource
	entries entrySource
	scores  scoreSource
	clock   today
	opts    Options
}

// NewCalculator returns a Calculator over the given sources. A MaxLookback
// of zero or less falls back to the default.
func NewCalculator(habits habitSource, entries entrySource, scores scoreSource, clock today, opts Options) *Calculator {
	if opts.MaxLookback <= 0 {
		opts.MaxLookback = constants.DefaultStreakMaxLookback
	}
	return &Calculator{habits: habits, entries: entries, scores: scores, clock: clock, opts: opts}
}

// Options returns the active settings.
func (c *Calculator) Options() Options {
	return c.opts
}

// CurrentStreak counts the consecutive tracked days ending the day before
// asOf. asOf itself never counts. An empty asOf means today.
func (c *Calculator) CurrentStreak(ctx context.Context, habitID, asOf string) (int, error) {
	const op = "trends.CurrentStreak"
	asOf, err := c.resolveDate(op, asOf)
	if err != nil {
		return 0, err
	}
	if _, err := c.habits.Get(ctx, habitID); err != nil {
		return 0, err
	}

	start, _ := utils.AddDays(asOf, -c.opts.MaxLookback)
	end, _ := utils.AddDays(asOf, -1)
	entries, err := c.entries.EntriesForHabit(ctx, habitID, start, end)
	if err != nil {
		return 0, err
	}
	return Streak(entries, habitID, asOf, c.opts.MaxLookback), nil
}

// DailySeries returns numDays totals ending at endDate inclusive, oldest
// first. An empty endDate means today.
func (c *Calculator) DailySeries(ctx context.Context, endDate string, numDays int) ([]DayPoint, error) {
	const op = "trends.DailySeries"
	dates, err := c.window(op, endDate, numDays)
	if err != nil {
		return nil, err
	}
	start, end := dates[0], dates[len(dates)-1]

	habits, err := c.habits.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := c.entries.EntriesInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	snap := Snapshot{Habits: habits, Entries: entries}
	if c.opts.IncludeNotePoints {
		if snap.Scores, err = c.scores.ScoresInRange(ctx, start, end); err != nil {
			return nil, err
		}
	}
	return DailySeries(snap, dates, c.opts.IncludeNotePoints), nil
}

// HabitSeries returns one habit's per-day counts over the window.
func (c *Calculator) HabitSeries(ctx context.Context, habitID, endDate string, numDays int) ([]HabitPoint, error) {
	const op = "trends.HabitSeries"
	dates, err := c.window(op, endDate, numDays)
	if err != nil {
		return nil, err
	}
	habit, err := c.habits.Get(ctx, habitID)
	if err != nil {
		return nil, err
	}
	entries, err := c.entries.EntriesForHabit(ctx, habitID, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, err
	}
	return HabitSeries(entries, habitID, habit.PriorityScore, dates), nil
}

func (c *Calculator) resolveDate(op, date string) (string, error) {
	if date == "" {
		return c.clock.Today(), nil
	}
	if !utils.ValidateDate(date) {
		return "", apperrors.Validation(op, "invalid date %q, expected YYYY-MM-DD", date)
	}
	return date, nil
}

func (c *Calculator) window(op, endDate string, numDays int) ([]string, error) {
	if numDays < 1 || numDays > constants.MaxSeriesDays {
		return nil, apperrors.Validation(op, "days must be between 1 and %d, got %d", constants.MaxSeriesDays, numDays)
	}
	endDate, err := c.resolveDate(op, endDate)
	if err != nil {
		return nil, err
	}
	start, err := utils.AddDays(endDate, -(numDays - 1))
	if err != nil {
		return nil, apperrors.Validation(op, "%v", err)
	}
	return utils.DateRange(start, endDate)
}
