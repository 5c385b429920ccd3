package scores

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daypoints/internal/cli/clitest"
	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/models"
)

func TestScoreShowEmptyDay(t *testing.T) {
	ctx, _, out := clitest.NewContext(t)

	require.NoError(t, (&ScoreShowCmd{Date: "today"}).Run(ctx))
	assert.Contains(t, out.String(), "No score recorded for 2024-03-10.")
}

func TestScoreComputeAndShow(t *testing.T) {
	ctx, store, out := clitest.NewContext(t)
	h := clitest.AddHabit(t, store, "Meditate", 20)
	clitest.AddEntry(t, store, h.ID, "2024-03-09")
	clitest.AddEntry(t, store, h.ID, "2024-03-09")
	clitest.AddEntry(t, store, h.ID, "2024-03-09")

	require.NoError(t, (&ScoreComputeCmd{Date: "2024-03-09"}).Run(ctx))
	assert.Contains(t, out.String(), "2024-03-09: habit 60 + note 0 = 60")

	out.Reset()
	require.NoError(t, (&ScoreShowCmd{Date: "yesterday"}).Run(ctx))
	assert.Contains(t, out.String(), "habit points: 60")
	assert.Contains(t, out.String(), "total:        60")
}

func TestScoreNote(t *testing.T) {
	ctx, store, out := clitest.NewContext(t)

	require.NoError(t, (&ScoreNoteCmd{Text: strings.Repeat("n", 45), Date: "today"}).Run(ctx))
	assert.Contains(t, out.String(), "45 characters, 2 point(s), day total 2")

	score, err := store.GetDailyScore(context.Background(), clitest.Today)
	require.NoError(t, err)
	assert.Equal(t, 2, score.NotePoints)
}

func TestScoreNoteFromStdin(t *testing.T) {
	ctx, store, _ := clitest.NewContext(t)
	bg := context.Background()
	require.NoError(t, store.UpsertDailyScore(bg, models.DailyScore{Date: clitest.Today, HabitScoreTotal: 30}))

	cmd := &ScoreNoteCmd{Text: "-", Date: "today", Stdin: strings.NewReader("twenty characters!!!\n")}
	require.NoError(t, cmd.Run(ctx))

	score, err := store.GetDailyScore(bg, clitest.Today)
	require.NoError(t, err)
	assert.Equal(t, "twenty characters!!!", score.DailyNote)
	assert.Equal(t, 1, score.NotePoints)
	assert.Equal(t, 30, score.HabitScoreTotal, "saving a note keeps the habit total")
}

func TestScoreNoteRejects(t *testing.T) {
	ctx, _, _ := clitest.NewContext(t)

	assert.Error(t, (&ScoreNoteCmd{Date: "today"}).Run(ctx), "empty note without --form")
	assert.Error(t, (&ScoreNoteCmd{Text: "x", Clear: true, Date: "today"}).Run(ctx))
}

func TestScoreNoteLimit(t *testing.T) {
	// The limit is read when services are first built.
	ctx, store, _ := clitest.NewContext(t)
	ctx.Config.Limits.MaxNoteLength = 10

	err := (&ScoreNoteCmd{Text: strings.Repeat("x", 11), Date: "today"}).Run(ctx)
	assert.True(t, apperrors.IsValidation(err))
	require.NoError(t, (&ScoreNoteCmd{Text: strings.Repeat("x", 10), Date: "today"}).Run(ctx))

	score, err := store.GetDailyScore(context.Background(), clitest.Today)
	require.NoError(t, err)
	assert.Equal(t, 10, len(score.DailyNote))
}

func TestScoreNoteClear(t *testing.T) {
	ctx, store, out := clitest.NewContext(t)
	bg := context.Background()
	require.NoError(t, store.UpsertDailyScore(bg, models.DailyScore{
		Date: clitest.Today, HabitScoreTotal: 30, DailyNote: strings.Repeat("n", 45), NotePoints: 2,
	}))

	require.NoError(t, (&ScoreNoteCmd{Clear: true, Date: "today"}).Run(ctx))
	assert.Contains(t, out.String(), "0 characters, 0 point(s), day total 30")

	score, err := store.GetDailyScore(bg, clitest.Today)
	require.NoError(t, err)
	assert.Empty(t, score.DailyNote)
	assert.Equal(t, 0, score.NotePoints)
	assert.Equal(t, 30, score.HabitScoreTotal)
}
