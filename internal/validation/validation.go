// Package validation cross-checks persisted daily scores against the
// tracking ledger and the stored notes.
package validation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/daypoints/internal/aggregator"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/scoring"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidRecord      ConflictType = "invalid_record"
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictOrphanEntry        ConflictType = "orphan_entry"
	ConflictHabitTotalDrift    ConflictType = "habit_total_drift"
	ConflictNotePointsDrift    ConflictType = "note_points_drift"
	ConflictUnscoredDay        ConflictType = "unscored_day"
	ConflictNoteTooLong        ConflictType = "note_too_long"
)

// Conflict represents one detected inconsistency
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // habit names or ids involved
	Expected    int
	Actual      int
}

// Fixable reports whether AutoFix can repair the conflict by recomputing.
func (c Conflict) Fixable() bool {
	switch c.Type {
	case ConflictHabitTotalDrift, ConflictNotePointsDrift, ConflictUnscoredDay:
		return c.Date != ""
	}
	return false
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
	Err            error
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks habits, tracking entries and daily scores.
type Validator struct {
	maxNoteLength int
}

// New creates a Validator. maxNoteLength <= 0 skips the note length check.
func New(maxNoteLength int) *Validator {
	return &Validator{maxNoteLength: maxNoteLength}
}

// ValidateHabits reports malformed habits and active habits sharing a name.
func (v *Validator) ValidateHabits(habits []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	nameCount := make(map[string][]string)
	for _, h := range habits {
		if err := h.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidRecord,
				Description: err.Error(),
				Items:       []string{h.ID},
			})
		}
		if !h.Active || h.Name == "" {
			continue
		}
		nameCount[h.Name] = append(nameCount[h.Name], h.ID)
	}

	names := make([]string, 0, len(nameCount))
	for name := range nameCount {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ids := nameCount[name]
		if len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate active habit name: %q (IDs: %v)", name, ids),
				Items:       ids,
			})
		}
	}
	return result
}

// ValidateDays compares every stored daily score with the totals its
// ledger entries and note would produce today. Habit totals use each
// habit's current priority score, the same way the aggregator reads them.
func (v *Validator) ValidateDays(habits []models.Habit, entries []models.TrackingEntry, scores []models.DailyScore) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byID := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	instancesByDate := map[string][]models.TrackedInstance{}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidRecord,
				Description: err.Error(),
				Date:        e.Date,
				Items:       []string{e.ID},
			})
			continue
		}
		h, ok := byID[e.HabitID]
		if !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanEntry,
				Description: fmt.Sprintf("%s: tracking entry %s references unknown habit %s", e.Date, e.ID, e.HabitID),
				Date:        e.Date,
				Items:       []string{e.ID},
			})
			continue
		}
		if !e.Completed {
			continue
		}
		instancesByDate[e.Date] = append(instancesByDate[e.Date], models.TrackedInstance{
			TrackingEntry: e,
			HabitName:     h.Name,
			PriorityScore: h.PriorityScore,
		})
	}

	scored := make(map[string]bool, len(scores))
	for _, s := range scores {
		scored[s.Date] = true
		if err := s.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidRecord,
				Description: err.Error(),
				Date:        s.Date,
			})
			continue
		}

		if want := aggregator.HabitTotal(instancesByDate[s.Date]); want != s.HabitScoreTotal {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictHabitTotalDrift,
				Description: fmt.Sprintf("%s: stored habit total %d, ledger gives %d", s.Date, s.HabitScoreTotal, want),
				Date:        s.Date,
				Expected:    want,
				Actual:      s.HabitScoreTotal,
			})
		}
		if want := scoring.NotePoints(s.DailyNote); want != s.NotePoints {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNotePointsDrift,
				Description: fmt.Sprintf("%s: stored note points %d, note gives %d", s.Date, s.NotePoints, want),
				Date:        s.Date,
				Expected:    want,
				Actual:      s.NotePoints,
			})
		}
		if n := scoring.NoteLength(s.DailyNote); v.maxNoteLength > 0 && n > v.maxNoteLength {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNoteTooLong,
				Description: fmt.Sprintf("%s: note has %d characters, limit is %d", s.Date, n, v.maxNoteLength),
				Date:        s.Date,
				Expected:    v.maxNoteLength,
				Actual:      n,
			})
		}
	}

	dates := make([]string, 0, len(instancesByDate))
	for date := range instancesByDate {
		if !scored[date] {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	for _, date := range dates {
		want := aggregator.HabitTotal(instancesByDate[date])
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictUnscoredDay,
			Description: fmt.Sprintf("%s: %d tracked instance(s) but no daily score", date, len(instancesByDate[date])),
			Date:        date,
			Expected:    want,
		})
	}
	return result
}

// Recomputer is the part of the aggregator AutoFix drives.
type Recomputer interface {
	ComputeAndPersist(ctx context.Context, date string) (aggregator.Totals, error)
	GetDailyScore(ctx context.Context, date string) (*models.DailyScore, error)
	SaveNote(ctx context.Context, date, text string) (aggregator.NoteResult, error)
}

// AutoFix recomputes each fixable day once. Habit drift and missing rows
// are repaired with ComputeAndPersist; note drift by re-saving the stored
// note. Failures are recorded on the action and processing continues.
func AutoFix(ctx context.Context, conflicts []Conflict, r Recomputer) []FixAction {
	actions := []FixAction{}
	recomputed := map[string]bool{}
	renoted := map[string]bool{}

	for _, conflict := range conflicts {
		if !conflict.Fixable() {
			continue
		}
		switch conflict.Type {
		case ConflictHabitTotalDrift, ConflictUnscoredDay:
			if recomputed[conflict.Date] {
				continue
			}
			recomputed[conflict.Date] = true
			totals, err := r.ComputeAndPersist(ctx, conflict.Date)
			action := FixAction{SourceConflict: conflict, Err: err}
			if err != nil {
				action.Action = fmt.Sprintf("Failed to recompute %s: %v", conflict.Date, err)
			} else {
				action.Action = fmt.Sprintf("Recomputed %s: habit total %d, total %d", conflict.Date, totals.HabitScoreTotal, totals.TotalScore)
			}
			actions = append(actions, action)

		case ConflictNotePointsDrift:
			if renoted[conflict.Date] {
				continue
			}
			renoted[conflict.Date] = true
			action := FixAction{SourceConflict: conflict}
			row, err := r.GetDailyScore(ctx, conflict.Date)
			if err == nil && row == nil {
				err = fmt.Errorf("daily score %s disappeared", conflict.Date)
			}
			if err == nil {
				var res aggregator.NoteResult
				res, err = r.SaveNote(ctx, conflict.Date, row.DailyNote)
				if err == nil {
					action.Action = fmt.Sprintf("Rescored note for %s: %d point(s)", conflict.Date, res.NotePoints)
				}
			}
			if err != nil {
				action.Err = err
				action.Action = fmt.Sprintf("Failed to rescore note for %s: %v", conflict.Date, err)
			}
			actions = append(actions, action)
		}
	}
	return actions
}
