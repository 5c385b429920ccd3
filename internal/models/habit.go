package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/daypoints/internal/constants"
)

// Habit represents a recurring practice with a fixed point value
type Habit struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	PriorityScore int                `json:"priority_score"`
	ColorTag      constants.ColorTag `json:"color_tag"`
	Active        bool               `json:"active"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Validate checks the invariants every stored habit must satisfy.
func (h Habit) Validate() error {
	if h.ID == "" {
		return fmt.Errorf("habit has empty id")
	}
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("habit %s has empty name", h.ID)
	}
	if h.PriorityScore < 0 {
		return fmt.Errorf("habit %s has negative priority score %d", h.ID, h.PriorityScore)
	}
	if !constants.IsValidColorTag(string(h.ColorTag)) {
		return fmt.Errorf("habit %s has unknown color tag %q", h.ID, h.ColorTag)
	}
	return nil
}

// TrackingEntry represents one completion instance of a habit on a day
type TrackingEntry struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"` // insertion order, assigned by the store
	HabitID   string    `json:"habit_id"`
	Date      string    `json:"date"` // YYYY-MM-DD format
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the invariants every stored tracking entry must satisfy.
func (e TrackingEntry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("tracking entry has empty id")
	}
	if e.HabitID == "" {
		return fmt.Errorf("tracking entry %s has empty habit id", e.ID)
	}
	if _, err := time.Parse(constants.DateFormat, e.Date); err != nil {
		return fmt.Errorf("tracking entry %s has invalid date %q", e.ID, e.Date)
	}
	return nil
}

// TrackedInstance is a tracking entry joined with the habit fields
// read at query time.
type TrackedInstance struct {
	TrackingEntry
	HabitName     string `json:"habit_name"`
	PriorityScore int    `json:"priority_score"`
}
