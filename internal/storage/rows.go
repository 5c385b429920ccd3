package storage

import (
	"fmt"
	"time"

	"github.com/julianstephens/daypoints/internal/constants"
	"github.com/julianstephens/daypoints/internal/models"
)

// RowScanner is satisfied by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...interface{}) error
}

// TimestampFormat is fixed width so stored timestamps sort as text.
const TimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders a timestamp the way both backends store it.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// ParseTime reads a stored timestamp.
func ParseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

// Column lists shared by both backends' queries.
const (
	HabitColumns        = "id, name, priority_score, color_tag, active, created_at, updated_at"
	TrackingColumns     = "seq, id, habit_id, date, completed, created_at"
	DailyScoreColumns   = "date, habit_score_total, daily_note, note_points, updated_at"
	ConversationColumns = "id, user_id, session_id, thread_id, message, response, tokens_used, model_used, simulated, created_at"
)

// ScanHabit reads one habits row and validates it.
func ScanHabit(row RowScanner) (models.Habit, error) {
	var h models.Habit
	var colorTag, createdAt, updatedAt string
	if err := row.Scan(&h.ID, &h.Name, &h.PriorityScore, &colorTag, &h.Active, &createdAt, &updatedAt); err != nil {
		return models.Habit{}, err
	}
	h.ColorTag = constants.ColorTag(colorTag)

	var err error
	if h.CreatedAt, err = ParseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.UpdatedAt, err = ParseTime("updated_at", updatedAt); err != nil {
		return models.Habit{}, err
	}
	if err := h.Validate(); err != nil {
		return models.Habit{}, fmt.Errorf("malformed habit row: %w", err)
	}
	return h, nil
}

// ScanTrackingEntry reads one habit_tracking row and validates it.
func ScanTrackingEntry(row RowScanner) (models.TrackingEntry, error) {
	var e models.TrackingEntry
	var createdAt string
	if err := row.Scan(&e.Seq, &e.ID, &e.HabitID, &e.Date, &e.Completed, &createdAt); err != nil {
		return models.TrackingEntry{}, err
	}
	var err error
	if e.CreatedAt, err = ParseTime("created_at", createdAt); err != nil {
		return models.TrackingEntry{}, err
	}
	if err := e.Validate(); err != nil {
		return models.TrackingEntry{}, fmt.Errorf("malformed tracking row: %w", err)
	}
	return e, nil
}

// ScanTrackedInstance reads a habit_tracking row followed by the joined
// habit name and priority score.
func ScanTrackedInstance(row RowScanner) (models.TrackedInstance, error) {
	var ti models.TrackedInstance
	var createdAt string
	e := &ti.TrackingEntry
	if err := row.Scan(&e.Seq, &e.ID, &e.HabitID, &e.Date, &e.Completed, &createdAt, &ti.HabitName, &ti.PriorityScore); err != nil {
		return models.TrackedInstance{}, err
	}
	var err error
	if e.CreatedAt, err = ParseTime("created_at", createdAt); err != nil {
		return models.TrackedInstance{}, err
	}
	if err := e.Validate(); err != nil {
		return models.TrackedInstance{}, fmt.Errorf("malformed tracking row: %w", err)
	}
	if ti.PriorityScore < 0 {
		return models.TrackedInstance{}, fmt.Errorf("malformed tracking row: habit %s has negative priority score %d", e.HabitID, ti.PriorityScore)
	}
	return ti, nil
}

// ScanDailyScore reads one daily_score row and validates it.
func ScanDailyScore(row RowScanner) (models.DailyScore, error) {
	var d models.DailyScore
	var updatedAt string
	if err := row.Scan(&d.Date, &d.HabitScoreTotal, &d.DailyNote, &d.NotePoints, &updatedAt); err != nil {
		return models.DailyScore{}, err
	}
	var err error
	if d.UpdatedAt, err = ParseTime("updated_at", updatedAt); err != nil {
		return models.DailyScore{}, err
	}
	if err := d.Validate(); err != nil {
		return models.DailyScore{}, fmt.Errorf("malformed daily score row: %w", err)
	}
	return d, nil
}

// ScanConversation reads one conversations row.
func ScanConversation(row RowScanner) (models.Conversation, error) {
	var c models.Conversation
	var createdAt string
	if err := row.Scan(&c.ID, &c.UserID, &c.SessionID, &c.ThreadID, &c.Message, &c.Response,
		&c.TokensUsed, &c.ModelUsed, &c.Simulated, &createdAt); err != nil {
		return models.Conversation{}, err
	}
	var err error
	if c.CreatedAt, err = ParseTime("created_at", createdAt); err != nil {
		return models.Conversation{}, err
	}
	return c, nil
}
