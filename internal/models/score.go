package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/daypoints/internal/constants"
)

// DailyScore is the persisted per-day total. One row per date.
type DailyScore struct {
	Date            string    `json:"date"` // YYYY-MM-DD format
	HabitScoreTotal int       `json:"habit_score_total"`
	DailyNote       string    `json:"daily_note"`
	NotePoints      int       `json:"note_points"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TotalScore combines habit and note points.
func (d DailyScore) TotalScore() int {
	return d.HabitScoreTotal + d.NotePoints
}

// Validate checks the invariants every stored daily score must satisfy.
func (d DailyScore) Validate() error {
	if _, err := time.Parse(constants.DateFormat, d.Date); err != nil {
		return fmt.Errorf("daily score has invalid date %q", d.Date)
	}
	if d.HabitScoreTotal < 0 {
		return fmt.Errorf("daily score %s has negative habit total %d", d.Date, d.HabitScoreTotal)
	}
	if d.NotePoints < 0 {
		return fmt.Errorf("daily score %s has negative note points %d", d.Date, d.NotePoints)
	}
	return nil
}

// Conversation is one persisted chat exchange
type Conversation struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	SessionID  string    `json:"session_id"`
	ThreadID   string    `json:"thread_id"`
	Message    string    `json:"message"`
	Response   string    `json:"response"`
	TokensUsed int       `json:"tokens_used"`
	ModelUsed  string    `json:"model_used"`
	Simulated  bool      `json:"simulated"`
	CreatedAt  time.Time `json:"created_at"`
}
