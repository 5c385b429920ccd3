package scoring

import (
	"math"
	"strings"
	"testing"
)

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		name       string
		impact     int
		difficulty int
		timeEffort int
		want       int
	}{
		{name: "minimum", impact: 1, difficulty: 1, timeEffort: 1, want: 8},
		{name: "maximum", impact: 5, difficulty: 5, timeEffort: 5, want: 42},
		{name: "meditate", impact: 5, difficulty: 3, timeEffort: 2, want: 30},
		{name: "time effort weighs less", impact: 1, difficulty: 1, timeEffort: 5, want: 15},
		{name: "impact only", impact: 5, difficulty: 1, timeEffort: 1, want: 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PriorityScore(tt.impact, tt.difficulty, tt.timeEffort); got != tt.want {
				t.Errorf("PriorityScore(%d, %d, %d) = %d, want %d",
					tt.impact, tt.difficulty, tt.timeEffort, got, tt.want)
			}
		})
	}
}

// Every valid input agrees with the decimal formula and stays in 8..42.
func TestPriorityScoreMatchesFormula(t *testing.T) {
	for i := 1; i <= 5; i++ {
		for d := 1; d <= 5; d++ {
			for e := 1; e <= 5; e++ {
				composite := float64(4*i+4*d+2*e) / 10
				// Round at 1e-9 to absorb binary representation error in 8.33.
				want := int(math.Floor(composite*8.33 + 0.5 + 1e-9))
				got := PriorityScore(i, d, e)
				if got != want {
					t.Errorf("PriorityScore(%d, %d, %d) = %d, want %d", i, d, e, got, want)
				}
				if got < 8 || got > 42 {
					t.Errorf("PriorityScore(%d, %d, %d) = %d, outside 8..42", i, d, e, got)
				}
			}
		}
	}
}

func TestNotePoints(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "19 chars", text: strings.Repeat("a", 19), want: 0},
		{name: "20 chars", text: "12345678901234567890", want: 1},
		{name: "45 chars", text: strings.Repeat("x", 45), want: 2},
		{name: "uncapped", text: strings.Repeat("n", 10000), want: 500},
		{name: "multibyte counts code points", text: strings.Repeat("é", 20), want: 1},
		{name: "emoji", text: strings.Repeat("🙂", 39), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NotePoints(tt.text); got != tt.want {
				t.Errorf("NotePoints() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNoteLengthAndMaxDailyPoints(t *testing.T) {
	if got := NoteLength("héllo"); got != 5 {
		t.Errorf("NoteLength() = %d, want 5", got)
	}
	if got := MaxDailyPoints(30); got != 210 {
		t.Errorf("MaxDailyPoints(30) = %d, want 210", got)
	}
}
