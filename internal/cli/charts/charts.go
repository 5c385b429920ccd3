package charts

import (
	"fmt"

	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/constants"
	"github.com/julianstephens/daypoints/internal/trends"
)

const barWidth = 30

type StreakCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	AsOf  string `name:"as-of" help:"Count consecutive days before this day (default: today)." default:"today"`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	asOf, err := ctx.ResolveDate(c.AsOf)
	if err != nil {
		return err
	}
	a, err := ctx.Services()
	if err != nil {
		return err
	}
	streak, err := a.Trends.CurrentStreak(ctx.Context(), habit.ID, asOf)
	if err != nil {
		return err
	}
	ctx.Printf("%s %s: %d day streak before %s\n", cli.Swatch(habit.ColorTag), habit.Name, streak, asOf)
	return nil
}

type ChartCmd struct {
	Daily ChartDailyCmd `cmd:"" help:"Total points per day." default:"1"`
	Habit ChartHabitCmd `cmd:"" help:"Points per day for one habit."`
}

type ChartDailyCmd struct {
	Days int    `help:"Number of days (default: trend_days setting)."`
	End  string `help:"Last day of the chart." default:"today"`
}

func (c *ChartDailyCmd) Run(ctx *cli.Context) error {
	end, err := ctx.ResolveDate(c.End)
	if err != nil {
		return err
	}
	a, err := ctx.Services()
	if err != nil {
		return err
	}
	days := c.Days
	if days <= 0 {
		days = a.TrendDays()
	}

	series, _, err := a.DailySeries(ctx.Context(), end, days)
	if err != nil {
		return err
	}

	title := "Daily points"
	if a.Trends.Options().IncludeNotePoints {
		title += " (habits + notes)"
	}
	ctx.Println(cli.HeaderStyle.Render(title))
	for _, line := range DailyLines(series, constants.ColorDarkBlue) {
		ctx.Println(line)
	}
	return nil
}

type ChartHabitCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Days  int    `help:"Number of days (default: trend_days setting)."`
	End   string `help:"Last day of the chart." default:"today"`
}

func (c *ChartHabitCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	end, err := ctx.ResolveDate(c.End)
	if err != nil {
		return err
	}
	a, err := ctx.Services()
	if err != nil {
		return err
	}
	days := c.Days
	if days <= 0 {
		days = a.TrendDays()
	}

	series, err := a.Trends.HabitSeries(ctx.Context(), habit.ID, end, days)
	if err != nil {
		return err
	}

	ctx.Println(cli.HeaderStyle.Render(habit.Name) + " " + cli.Swatch(habit.ColorTag))
	points := make([]trends.DayPoint, len(series))
	for i, p := range series {
		points[i] = trends.DayPoint{Date: p.Date, TotalScore: p.ScoreIfCompleted * p.Count}
	}
	for _, line := range DailyLines(points, habit.ColorTag) {
		ctx.Println(line)
	}
	ctx.Printf("\nCompleted on %.0f%% of %d days\n", trends.CompletionRate(series)*100, len(series))
	return nil
}

// DailyLines renders one bar per day scaled to the window's maximum.
func DailyLines(series []trends.DayPoint, tag constants.ColorTag) []string {
	max := 0
	for _, p := range series {
		if p.TotalScore > max {
			max = p.TotalScore
		}
	}
	lines := make([]string, 0, len(series))
	for _, p := range series {
		lines = append(lines, fmt.Sprintf("%s %s %d", p.Date, cli.Bar(p.TotalScore, max, barWidth, tag), p.TotalScore))
	}
	return lines
}
