package models

import (
	"testing"

	"github.com/julianstephens/daypoints/internal/constants"
)

func TestHabitValidate(t *testing.T) {
	valid := Habit{ID: "h1", Name: "Read", PriorityScore: 20, ColorTag: constants.ColorRed, Active: true}

	tests := []struct {
		name    string
		mutate  func(h *Habit)
		wantErr bool
	}{
		{name: "valid", mutate: func(h *Habit) {}, wantErr: false},
		{name: "empty id", mutate: func(h *Habit) { h.ID = "" }, wantErr: true},
		{name: "blank name", mutate: func(h *Habit) { h.Name = "   " }, wantErr: true},
		{name: "negative score", mutate: func(h *Habit) { h.PriorityScore = -1 }, wantErr: true},
		{name: "zero score allowed", mutate: func(h *Habit) { h.PriorityScore = 0 }, wantErr: false},
		{name: "lowercase hex rejected", mutate: func(h *Habit) { h.ColorTag = "#e22028" }, wantErr: true},
		{name: "color name rejected", mutate: func(h *Habit) { h.ColorTag = "red" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := valid
			tt.mutate(&h)
			if err := h.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrackingEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   TrackingEntry
		wantErr bool
	}{
		{name: "valid", entry: TrackingEntry{ID: "e1", HabitID: "h1", Date: "2025-01-15"}, wantErr: false},
		{name: "missing habit", entry: TrackingEntry{ID: "e1", Date: "2025-01-15"}, wantErr: true},
		{name: "bad date", entry: TrackingEntry{ID: "e1", HabitID: "h1", Date: "2025-13-01"}, wantErr: true},
		{name: "datetime rejected", entry: TrackingEntry{ID: "e1", HabitID: "h1", Date: "2025-01-15T10:00:00Z"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.entry.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDailyScoreTotal(t *testing.T) {
	d := DailyScore{Date: "2025-01-15", HabitScoreTotal: 60, NotePoints: 2}
	if got := d.TotalScore(); got != 62 {
		t.Errorf("TotalScore() = %d, want 62", got)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	d.NotePoints = -1
	if err := d.Validate(); err == nil {
		t.Error("Validate() should reject negative note points")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	in := Settings{Timezone: "America/Santiago", TrendDays: 14, IncludeNotePoints: true}
	out, err := MapToSettings(SettingsToMap(in))
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}

	var empty Settings
	ApplyDefaultSettings(&empty)
	if empty.Timezone != constants.DefaultTimezone || empty.TrendDays != constants.DefaultTrendDays {
		t.Errorf("ApplyDefaultSettings() = %+v", empty)
	}
}
