// Package storagetest holds the behaviour every storage.Provider must share.
// Backend test suites call Run against a freshly initialized store.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/daypoints/internal/constants"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/storage"
)

// Run exercises p. The store must be empty and initialized.
func Run(t *testing.T, p storage.Provider) {
	t.Helper()
	ctx := context.Background()

	t.Run("Settings", func(t *testing.T) { testSettings(ctx, t, p) })
	t.Run("Habits", func(t *testing.T) { testHabits(ctx, t, p) })
	t.Run("Tracking", func(t *testing.T) { testTracking(ctx, t, p) })
	t.Run("DailyScore", func(t *testing.T) { testDailyScore(ctx, t, p) })
	t.Run("Conversations", func(t *testing.T) { testConversations(ctx, t, p) })
}

func mustAddHabit(ctx context.Context, t *testing.T, p storage.Provider, name string, score int) models.Habit {
	t.Helper()
	h, err := p.AddHabit(ctx, models.Habit{
		Name:          name,
		PriorityScore: score,
		ColorTag:      constants.ColorLightBlue,
		Active:        true,
	})
	if err != nil {
		t.Fatalf("AddHabit(%q) error = %v", name, err)
	}
	return h
}

func testSettings(ctx context.Context, t *testing.T, p storage.Provider) {
	settings, err := p.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if settings.Timezone != constants.DefaultTimezone {
		t.Errorf("default timezone = %q, want %q", settings.Timezone, constants.DefaultTimezone)
	}
	if settings.TrendDays != constants.DefaultTrendDays {
		t.Errorf("default trend days = %d, want %d", settings.TrendDays, constants.DefaultTrendDays)
	}

	settings.Timezone = "America/Santiago"
	settings.IncludeNotePoints = true
	if err := p.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	got, err := p.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if got != settings {
		t.Errorf("GetSettings() = %+v, want %+v", got, settings)
	}
}

func testHabits(ctx context.Context, t *testing.T, p storage.Provider) {
	zen := mustAddHabit(ctx, t, p, "Zen", 8)
	apple := mustAddHabit(ctx, t, p, "apple", 20)
	mid := mustAddHabit(ctx, t, p, "Meditate", 30)

	if zen.ID == "" || zen.ID == apple.ID {
		t.Fatalf("AddHabit() ids = %q, %q; want distinct non-empty", zen.ID, apple.ID)
	}

	got, err := p.GetHabit(ctx, mid.ID)
	if err != nil {
		t.Fatalf("GetHabit() error = %v", err)
	}
	if got.Name != "Meditate" || got.PriorityScore != 30 || got.ColorTag != constants.ColorLightBlue || !got.Active {
		t.Errorf("GetHabit() = %+v", got)
	}

	if _, err := p.GetHabit(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetHabit(missing) error = %v, want ErrNotFound", err)
	}

	// Byte-wise: upper case sorts before lower case.
	list, err := p.GetAllHabits(ctx, false)
	if err != nil {
		t.Fatalf("GetAllHabits() error = %v", err)
	}
	wantOrder := []string{"Meditate", "Zen", "apple"}
	if len(list) != len(wantOrder) {
		t.Fatalf("GetAllHabits() len = %d, want %d", len(list), len(wantOrder))
	}
	for i, name := range wantOrder {
		if list[i].Name != name {
			t.Errorf("GetAllHabits()[%d] = %q, want %q", i, list[i].Name, name)
		}
	}

	zen.Active = false
	zen.Name = "Zen garden"
	if err := p.UpdateHabit(ctx, zen); err != nil {
		t.Fatalf("UpdateHabit() error = %v", err)
	}
	active, err := p.GetAllHabits(ctx, false)
	if err != nil {
		t.Fatalf("GetAllHabits() error = %v", err)
	}
	if len(active) != 2 {
		t.Errorf("active habits = %d, want 2", len(active))
	}
	all, err := p.GetAllHabits(ctx, true)
	if err != nil {
		t.Fatalf("GetAllHabits(true) error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all habits = %d, want 3", len(all))
	}

	if err := p.UpdateHabit(ctx, models.Habit{ID: "missing", Name: "x", ColorTag: constants.ColorRed}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateHabit(missing) error = %v, want ErrNotFound", err)
	}
}

func testTracking(ctx context.Context, t *testing.T, p storage.Provider) {
	run := mustAddHabit(ctx, t, p, "Run", 25)
	read := mustAddHabit(ctx, t, p, "Read", 10)
	const day = "2025-01-15"

	first, err := p.AddTrackingEntry(ctx, models.TrackingEntry{HabitID: run.ID, Date: day})
	if err != nil {
		t.Fatalf("AddTrackingEntry() error = %v", err)
	}
	second, err := p.AddTrackingEntry(ctx, models.TrackingEntry{HabitID: run.ID, Date: day})
	if err != nil {
		t.Fatalf("AddTrackingEntry() error = %v", err)
	}
	if second.Seq <= first.Seq {
		t.Errorf("Seq not increasing: %d then %d", first.Seq, second.Seq)
	}
	if !first.Completed {
		t.Error("AddTrackingEntry() should store completed entries")
	}
	if _, err := p.AddTrackingEntry(ctx, models.TrackingEntry{HabitID: read.ID, Date: day}); err != nil {
		t.Fatalf("AddTrackingEntry() error = %v", err)
	}
	if _, err := p.AddTrackingEntry(ctx, models.TrackingEntry{HabitID: read.ID, Date: "2025-01-14"}); err != nil {
		t.Fatalf("AddTrackingEntry() error = %v", err)
	}

	instances, err := p.GetTrackedInstancesForDate(ctx, day)
	if err != nil {
		t.Fatalf("GetTrackedInstancesForDate() error = %v", err)
	}
	if len(instances) != 3 {
		t.Fatalf("instances = %d, want 3", len(instances))
	}
	if instances[0].HabitName != "Run" || instances[0].PriorityScore != 25 {
		t.Errorf("instances[0] = %+v, want joined Run/25", instances[0])
	}

	// The join reads the current score.
	run.PriorityScore = 40
	if err := p.UpdateHabit(ctx, run); err != nil {
		t.Fatalf("UpdateHabit() error = %v", err)
	}
	instances, err = p.GetTrackedInstancesForDate(ctx, day)
	if err != nil {
		t.Fatalf("GetTrackedInstancesForDate() error = %v", err)
	}
	if instances[0].PriorityScore != 40 {
		t.Errorf("joined score = %d, want 40", instances[0].PriorityScore)
	}

	removed, err := p.DeleteLastTrackingEntry(ctx, run.ID, day)
	if err != nil {
		t.Fatalf("DeleteLastTrackingEntry() error = %v", err)
	}
	if removed.ID != second.ID {
		t.Errorf("DeleteLastTrackingEntry() removed %s, want newest %s", removed.ID, second.ID)
	}
	if _, err := p.DeleteLastTrackingEntry(ctx, run.ID, "2024-01-01"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteLastTrackingEntry(empty day) error = %v, want ErrNotFound", err)
	}

	ranged, err := p.GetTrackingEntriesInRange(ctx, "2025-01-14", "2025-01-15")
	if err != nil {
		t.Fatalf("GetTrackingEntriesInRange() error = %v", err)
	}
	if len(ranged) != 3 {
		t.Errorf("range entries = %d, want 3", len(ranged))
	}
	if len(ranged) > 0 && ranged[0].Date != "2025-01-14" {
		t.Errorf("range not ordered by date: first = %s", ranged[0].Date)
	}

	forRead, err := p.GetTrackingEntriesForHabit(ctx, read.ID, "2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("GetTrackingEntriesForHabit() error = %v", err)
	}
	if len(forRead) != 2 {
		t.Errorf("entries for Read = %d, want 2", len(forRead))
	}

	n, err := p.DeleteTrackingEntriesForDate(ctx, day)
	if err != nil {
		t.Fatalf("DeleteTrackingEntriesForDate() error = %v", err)
	}
	if n != 2 {
		t.Errorf("cleared = %d, want 2", n)
	}
	instances, err = p.GetTrackedInstancesForDate(ctx, day)
	if err != nil {
		t.Fatalf("GetTrackedInstancesForDate() error = %v", err)
	}
	if len(instances) != 0 {
		t.Errorf("instances after clear = %d, want 0", len(instances))
	}
}

func testDailyScore(ctx context.Context, t *testing.T, p storage.Provider) {
	const day = "2025-02-01"

	if _, err := p.GetDailyScore(ctx, day); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetDailyScore(absent) error = %v, want ErrNotFound", err)
	}

	if err := p.UpsertDailyScore(ctx, models.DailyScore{Date: day, HabitScoreTotal: 60}); err != nil {
		t.Fatalf("UpsertDailyScore() error = %v", err)
	}
	if err := p.UpsertDailyScore(ctx, models.DailyScore{Date: day, HabitScoreTotal: 60, DailyNote: "good day", NotePoints: 2}); err != nil {
		t.Fatalf("UpsertDailyScore() second error = %v", err)
	}

	got, err := p.GetDailyScore(ctx, day)
	if err != nil {
		t.Fatalf("GetDailyScore() error = %v", err)
	}
	if got.HabitScoreTotal != 60 || got.NotePoints != 2 || got.DailyNote != "good day" {
		t.Errorf("GetDailyScore() = %+v", got)
	}
	if got.TotalScore() != 62 {
		t.Errorf("TotalScore() = %d, want 62", got.TotalScore())
	}

	if err := p.UpsertDailyScore(ctx, models.DailyScore{Date: "2025-02-03", HabitScoreTotal: 5}); err != nil {
		t.Fatalf("UpsertDailyScore() error = %v", err)
	}
	scores, err := p.GetDailyScores(ctx, "2025-02-01", "2025-02-02")
	if err != nil {
		t.Fatalf("GetDailyScores() error = %v", err)
	}
	if len(scores) != 1 {
		t.Errorf("GetDailyScores() len = %d, want 1 (one row, end inclusive)", len(scores))
	}
}

func testConversations(ctx context.Context, t *testing.T, p storage.Provider) {
	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	for i, msg := range []string{"hello", "how am I doing", "thanks"} {
		session := "s1"
		if i == 2 {
			session = "s2"
		}
		_, err := p.AddConversation(ctx, models.Conversation{
			UserID:    "anonymous",
			SessionID: session,
			ThreadID:  "thread_" + session,
			Message:   msg,
			Response:  "ok",
			ModelUsed: "simulated",
			Simulated: true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("AddConversation() error = %v", err)
		}
	}

	all, err := p.GetConversations(ctx, storage.ConversationFilter{UserID: "anonymous"})
	if err != nil {
		t.Fatalf("GetConversations() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("GetConversations() len = %d, want 3", len(all))
	}
	if all[0].Message != "thanks" {
		t.Errorf("newest first: got %q", all[0].Message)
	}

	s1, err := p.GetConversations(ctx, storage.ConversationFilter{UserID: "anonymous", SessionID: "s1", Limit: 1})
	if err != nil {
		t.Fatalf("GetConversations(session) error = %v", err)
	}
	if len(s1) != 1 || s1[0].Message != "how am I doing" || !s1[0].Simulated {
		t.Errorf("GetConversations(session, limit 1) = %+v", s1)
	}
}
