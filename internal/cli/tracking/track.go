package tracking

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daypoints/internal/aggregator"
	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/constants"
	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/scoring"
)

type TrackCmd struct {
	Add    TrackAddCmd    `cmd:"" help:"Record completions of a habit."`
	Remove TrackRemoveCmd `cmd:"" help:"Remove the most recent completion of a habit."`
	Clear  TrackClearCmd  `cmd:"" help:"Remove every completion on a day."`
	Show   TrackShowCmd   `cmd:"" help:"Show a day's completions." default:"1"`
}

type TrackAddCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Date  string `help:"Day as YYYY-MM-DD, 'today' or 'yesterday'." default:"today"`
	Count int    `short:"n" help:"Number of completions to record." default:"1"`
}

func (c *TrackAddCmd) Run(ctx *cli.Context) error {
	if c.Count < 1 {
		return apperrors.Validation("track.add", "count must be at least 1")
	}
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	a, err := ctx.Services()
	if err != nil {
		return err
	}

	for i := 0; i < c.Count; i++ {
		if _, err := a.Ledger.AddInstance(ctx.Context(), habit.ID, date); err != nil {
			return err
		}
	}
	totals, err := a.Aggregator.ComputeAndPersist(ctx.Context(), date)
	if err != nil {
		return err
	}

	counts, err := a.Ledger.CountByDate(ctx.Context(), date)
	if err != nil {
		return err
	}
	n := counts[habit.ID]
	ctx.Printf("%s %s %s on %s: %d/%d  (+%d, day total %d)\n",
		cli.SuccessStyle.Render("✓"), cli.Swatch(habit.ColorTag), habit.Name, date,
		n, constants.MaxInstancesPerDay, habit.PriorityScore*c.Count, totals.TotalScore)
	if n > constants.MaxInstancesPerDay {
		ctx.Println(cli.WarnStyle.Render(fmt.Sprintf("  %s has passed %d completions today.", habit.Name, constants.MaxInstancesPerDay)))
	}
	return nil
}

type TrackRemoveCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Date  string `help:"Day as YYYY-MM-DD, 'today' or 'yesterday'." default:"today"`
}

func (c *TrackRemoveCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	a, err := ctx.Services()
	if err != nil {
		return err
	}

	if err := a.Ledger.RemoveLastInstance(ctx.Context(), habit.ID, date); err != nil {
		if apperrors.IsNotFound(err) {
			return fmt.Errorf("%s has no completions on %s", habit.Name, date)
		}
		return err
	}
	totals, err := a.Aggregator.ComputeAndPersist(ctx.Context(), date)
	if err != nil {
		return err
	}
	ctx.Printf("Removed one completion of %s on %s (day total %d)\n", habit.Name, date, totals.TotalScore)
	return nil
}

type TrackClearCmd struct {
	Date string `help:"Day as YYYY-MM-DD, 'today' or 'yesterday'." default:"today"`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *TrackClearCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	a, err := ctx.Services()
	if err != nil {
		return err
	}

	if !c.Yes && !ctx.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Remove every completion on %s?", date)).
			Affirmative("Clear").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Cancelled.")
			return nil
		}
	}

	if path := ctx.PerformAutomaticBackup(); path != "" {
		ctx.Println(cli.MutedStyle.Render("Backup written to " + path))
	}

	removed, err := a.Ledger.ClearByDate(ctx.Context(), date)
	if err != nil {
		return err
	}
	if _, err := a.Aggregator.ComputeAndPersist(ctx.Context(), date); err != nil {
		return err
	}
	ctx.Printf("Cleared %d completion(s) on %s\n", removed, date)
	return nil
}

type TrackShowCmd struct {
	Date string `help:"Day as YYYY-MM-DD, 'today' or 'yesterday'." default:"today"`
}

func (c *TrackShowCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	a, err := ctx.Services()
	if err != nil {
		return err
	}

	instances, err := a.Ledger.ListByDate(ctx.Context(), date)
	if err != nil {
		return err
	}
	habits, err := a.Registry.ListAll(ctx.Context())
	if err != nil {
		return err
	}
	score, err := a.Aggregator.GetDailyScore(ctx.Context(), date)
	if err != nil {
		return err
	}

	ctx.Println(cli.HeaderStyle.Render("Habits for " + date))
	for _, line := range DayLines(habits, instances) {
		ctx.Println(line)
	}

	habitTotal := aggregator.HabitTotal(instances)
	notePoints := 0
	if score != nil {
		notePoints = score.NotePoints
	}
	ctx.Printf("\nHabit points: %d   Note points: %d   Total: %d\n", habitTotal, notePoints, habitTotal+notePoints)
	if score != nil && score.HabitScoreTotal != habitTotal {
		ctx.Println(cli.WarnStyle.Render(fmt.Sprintf("Stored total is %d; run 'daypoints score compute --date %s'.", score.HabitScoreTotal, date)))
	}
	return nil
}

// DayLines renders one row per active habit, plus inactive habits tracked
// on the day: count/7 and a points bar. habits must be name-ordered.
func DayLines(habits []models.Habit, instances []models.TrackedInstance) []string {
	counts := map[string]int{}
	for _, inst := range instances {
		counts[inst.HabitID]++
	}

	var rows []models.Habit
	width := 0
	for _, h := range habits {
		if !h.Active && counts[h.ID] == 0 {
			continue
		}
		rows = append(rows, h)
		if n := len([]rune(h.Name)); n > width {
			width = n
		}
	}
	if len(rows) == 0 {
		return []string{"No habits yet."}
	}

	lines := make([]string, 0, len(rows))
	for _, h := range rows {
		n := counts[h.ID]
		lines = append(lines, fmt.Sprintf("%s %-*s %d/%d %s %d",
			cli.Swatch(h.ColorTag), width, h.Name, n, constants.MaxInstancesPerDay,
			cli.Bar(h.PriorityScore*n, scoring.MaxDailyPoints(h.PriorityScore), 14, h.ColorTag),
			h.PriorityScore*n))
	}
	return lines
}
