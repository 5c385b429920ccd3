package scores

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daypoints/internal/cli"
	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/scoring"
)

type ScoreCmd struct {
	Show    ScoreShowCmd    `cmd:"" help:"Show a day's stored score." default:"1"`
	Compute ScoreComputeCmd `cmd:"" help:"Recompute a day's habit points from the ledger."`
	Note    ScoreNoteCmd    `cmd:"" help:"Save the day's note and score it."`
}

type ScoreShowCmd struct {
	Date string `help:"Day as YYYY-MM-DD, 'today' or 'yesterday'." default:"today"`
}

func (c *ScoreShowCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	a, err := ctx.Services()
	if err != nil {
		return err
	}
	score, err := a.Aggregator.GetDailyScore(ctx.Context(), date)
	if err != nil {
		return err
	}
	if score == nil {
		ctx.Printf("No score recorded for %s.\n", date)
		return nil
	}

	ctx.Println(cli.HeaderStyle.Render("Score for " + date))
	ctx.Printf("  habit points: %d\n", score.HabitScoreTotal)
	ctx.Printf("  note points:  %d (%d characters)\n", score.NotePoints, scoring.NoteLength(score.DailyNote))
	ctx.Printf("  total:        %d\n", score.TotalScore())
	if score.DailyNote != "" {
		ctx.Println()
		ctx.Println(cli.MutedStyle.Render(score.DailyNote))
	}
	return nil
}

type ScoreComputeCmd struct {
	Date string `help:"Day as YYYY-MM-DD, 'today' or 'yesterday'." default:"today"`
}

func (c *ScoreComputeCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	a, err := ctx.Services()
	if err != nil {
		return err
	}
	totals, err := a.Aggregator.Finalize(ctx.Context(), date)
	if err != nil {
		return err
	}
	ctx.Printf("%s %s: habit %d + note %d = %d\n", cli.SuccessStyle.Render("✓"),
		date, totals.HabitScoreTotal, totals.NotePoints, totals.TotalScore)
	return nil
}

type ScoreNoteCmd struct {
	Text string `arg:"" optional:"" help:"Note text. Use '-' to read from stdin."`
	Date string `help:"Day as YYYY-MM-DD, 'today' or 'yesterday'." default:"today"`
	Form  bool   `short:"f" help:"Write the note in an editor form."`
	Clear bool   `help:"Remove the day's note. Note points drop to 0."`

	// Stdin defaults to os.Stdin.
	Stdin io.Reader `kong:"-"`
}

func (c *ScoreNoteCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	a, err := ctx.Services()
	if err != nil {
		return err
	}

	text := c.Text
	switch {
	case c.Clear:
		if text != "" || c.Form {
			return apperrors.Validation("score.note", "--clear takes no text and no --form")
		}
	case c.Form:
		if existing, err := a.Aggregator.GetDailyScore(ctx.Context(), date); err == nil && existing != nil && text == "" {
			text = existing.DailyNote
		}
		err := huh.NewText().
			Title("Note for " + date).
			Description("One point per 20 characters.").
			CharLimit(a.Config.Limits.MaxNoteLength).
			Value(&text).
			Run()
		if err != nil {
			return err
		}
	case text == "-":
		in := c.Stdin
		if in == nil {
			in = os.Stdin
		}
		raw, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		text = strings.TrimRight(string(raw), "\n")
	case text == "":
		return apperrors.Validation("score.note", "note text is required (or pass --form or --clear)")
	}

	res, err := a.Aggregator.SaveNote(ctx.Context(), date, text)
	if err != nil {
		return err
	}
	ctx.Printf("%s Note saved for %s: %d characters, %d point(s), day total %d\n",
		cli.SuccessStyle.Render("✓"), date, res.TotalCharacters, res.NotePoints, res.TotalScore)
	return nil
}
