package habits

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/constants"
	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/registry"
	"github.com/julianstephens/daypoints/internal/scoring"
	"github.com/julianstephens/daypoints/internal/trends"
)

type HabitCmd struct {
	Add        HabitAddCmd        `cmd:"" help:"Add a new habit."`
	List       HabitListCmd       `cmd:"" help:"List habits." default:"1"`
	Edit       HabitEditCmd       `cmd:"" help:"Edit a habit's name, score or colour."`
	Deactivate HabitDeactivateCmd `cmd:"" help:"Deactivate a habit. Its history is kept."`
	Show       HabitShowCmd       `cmd:"" help:"Show one habit with its streak."`
}

type HabitAddCmd struct {
	Name       string `arg:"" optional:"" help:"Habit name."`
	Impact     int    `short:"i" help:"Impact on your day, 1-5."`
	Difficulty int    `short:"d" help:"Difficulty, 1-5."`
	TimeEffort int    `short:"t" name:"time-effort" help:"Time and effort, 1-5."`
	Color      string `short:"c" help:"Colour: palette name (${colors}) or hex value."`
	Form       bool   `short:"f" help:"Fill in the habit with an interactive form."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if c.Form {
		if err := c.runForm(); err != nil {
			return err
		}
	}

	color := c.Color
	if tag, ok := constants.ResolveColorTag(c.Color); ok {
		color = string(tag)
	}

	a, err := ctx.Services()
	if err != nil {
		return err
	}
	habit, err := a.Registry.Create(ctx.Context(), registry.CreateHabitRequest{
		Name:       c.Name,
		Impact:     c.Impact,
		Difficulty: c.Difficulty,
		TimeEffort: c.TimeEffort,
		ColorTag:   color,
	})
	if err != nil {
		return err
	}

	ctx.Printf("%s Added habit %s %s (%d points per completion)\n",
		cli.SuccessStyle.Render("✓"), cli.Swatch(habit.ColorTag), habit.Name, habit.PriorityScore)
	ctx.Println(cli.MutedStyle.Render("  id: " + habit.ID))
	return nil
}

func (c *HabitAddCmd) runForm() error {
	rating := huh.NewOptions(1, 2, 3, 4, 5)
	if c.Impact == 0 {
		c.Impact = 3
	}
	if c.Difficulty == 0 {
		c.Difficulty = 3
	}
	if c.TimeEffort == 0 {
		c.TimeEffort = 3
	}
	if tag, ok := constants.ResolveColorTag(c.Color); ok {
		c.Color = string(tag)
	} else {
		c.Color = string(constants.Palette[0])
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit name").
				Value(&c.Name).
				Validate(huh.ValidateNotEmpty()),
			huh.NewSelect[int]().Title("Impact").Options(rating...).Value(&c.Impact),
			huh.NewSelect[int]().Title("Difficulty").Options(rating...).Value(&c.Difficulty),
			huh.NewSelect[int]().Title("Time / effort").Options(rating...).Value(&c.TimeEffort),
			huh.NewSelect[string]().Title("Colour").Options(ColorOptions()...).Value(&c.Color),
		),
	)
	return form.Run()
}

// ColorOptions lists the palette for huh selects, ordered by name.
func ColorOptions() []huh.Option[string] {
	names := make([]string, 0, len(constants.PaletteNames))
	for name := range constants.PaletteNames {
		names = append(names, name)
	}
	sort.Strings(names)
	opts := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		tag := constants.PaletteNames[name]
		opts = append(opts, huh.NewOption(cli.Swatch(tag)+" "+name, string(tag)))
	}
	return opts
}

type HabitListCmd struct {
	All bool `short:"a" help:"Include inactive habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	a, err := ctx.Services()
	if err != nil {
		return err
	}

	var habits []models.Habit
	if c.All {
		habits, err = a.Registry.ListAll(ctx.Context())
	} else {
		habits, err = a.Registry.List(ctx.Context())
	}
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		ctx.Println("No habits found. Add one with 'daypoints habit add'.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "", "NAME", "POINTS", "STATUS")
	for _, h := range habits {
		status := "active"
		if !h.Active {
			status = "inactive"
		}
		t.Row(shortID(h.ID), cli.Swatch(h.ColorTag), h.Name, fmt.Sprintf("%d", h.PriorityScore), status)
	}
	ctx.Println(t.Render())
	return nil
}

type HabitEditCmd struct {
	Habit string  `arg:"" help:"Habit name or id."`
	Name  *string `help:"New name."`
	Score *int    `help:"Set the priority score directly."`
	Color *string `short:"c" help:"New colour: palette name or hex value."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if c.Name == nil && c.Score == nil && c.Color == nil {
		return apperrors.Validation("habit.edit", "nothing to change: pass --name, --score or --color")
	}

	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	req := registry.UpdateHabitRequest{Name: c.Name, PriorityScore: c.Score}
	if c.Color != nil {
		color := *c.Color
		if tag, ok := constants.ResolveColorTag(color); ok {
			color = string(tag)
		}
		req.ColorTag = &color
	}

	a, err := ctx.Services()
	if err != nil {
		return err
	}
	updated, err := a.Registry.Update(ctx.Context(), habit.ID, req)
	if err != nil {
		return err
	}
	ctx.Printf("%s Updated %s %s (%d points)\n",
		cli.SuccessStyle.Render("✓"), cli.Swatch(updated.ColorTag), updated.Name, updated.PriorityScore)
	return nil
}

type HabitDeactivateCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
}

func (c *HabitDeactivateCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	a, err := ctx.Services()
	if err != nil {
		return err
	}
	if _, err := a.Registry.Deactivate(ctx.Context(), habit.ID); err != nil {
		return err
	}
	ctx.Printf("Deactivated %s. Its tracking history is kept.\n", habit.Name)
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Days  int    `help:"Window for the completion rate (default: trend_days setting)."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
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
	today := a.Clock.Today()
	streak, err := a.Trends.CurrentStreak(ctx.Context(), habit.ID, today)
	if err != nil {
		return err
	}
	series, err := a.Trends.HabitSeries(ctx.Context(), habit.ID, today, days)
	if err != nil {
		return err
	}
	todayCount := 0
	if len(series) > 0 {
		todayCount = series[len(series)-1].Count
	}

	status := "active"
	if !habit.Active {
		status = "inactive"
	}
	ctx.Println(cli.HeaderStyle.Render(habit.Name) + " " + cli.Swatch(habit.ColorTag))
	ctx.Printf("  id:        %s\n", habit.ID)
	ctx.Printf("  status:    %s\n", status)
	ctx.Printf("  points:    %d per completion\n", habit.PriorityScore)
	ctx.Printf("  today:     %d/%d  %s\n", todayCount, constants.MaxInstancesPerDay,
		cli.Bar(habit.PriorityScore*todayCount, scoring.MaxDailyPoints(habit.PriorityScore), 14, habit.ColorTag))
	ctx.Printf("  streak:    %d day(s) before today\n", streak)
	ctx.Printf("  completed: %.0f%% of the last %d days\n", trends.CompletionRate(series)*100, days)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
