// Package clitest sets up command contexts over throwaway sqlite stores.
package clitest

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/clock"
	"github.com/julianstephens/daypoints/internal/config"
	"github.com/julianstephens/daypoints/internal/constants"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/storage/sqlite"
)

// Today is the pinned date every context reports as today.
const Today = "2024-03-10"

func Config() *config.Config {
	return &config.Config{
		Limits: config.LimitsConfig{
			MaxNoteLength:     constants.DefaultMaxNoteLength,
			StreakMaxLookback: constants.DefaultStreakMaxLookback,
		},
	}
}

// NewContext returns a context over an initialized sqlite store in a temp
// dir. Output goes to the returned buffer and confirmations are skipped.
func NewContext(t *testing.T) (*cli.Context, *sqlite.Store, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Ctx:    context.Background(),
		Config: Config(),
		Store:  store,
		Out:    out,
		ClockOpts: []clock.Option{clock.WithNow(func() time.Time {
			return time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
		})},
		Yes: true,
	}
	return ctx, store, out
}

func AddHabit(t *testing.T, store *sqlite.Store, name string, score int) models.Habit {
	t.Helper()
	now := time.Now()
	h, err := store.AddHabit(context.Background(), models.Habit{
		Name:          name,
		PriorityScore: score,
		ColorTag:      constants.ColorRed,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	return h
}

func AddEntry(t *testing.T, store *sqlite.Store, habitID, date string) {
	t.Helper()
	_, err := store.AddTrackingEntry(context.Background(), models.TrackingEntry{
		HabitID: habitID,
		Date:    date,
	})
	if err != nil {
		t.Fatalf("failed to add tracking entry: %v", err)
	}
}
