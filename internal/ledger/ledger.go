// Package ledger records habit completion instances per day.
package ledger

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/logger"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/storage"
	"github.com/julianstephens/daypoints/internal/utils"
)

type trackingStore interface {
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	AddTrackingEntry(ctx context.Context, entry models.TrackingEntry) (models.TrackingEntry, error)
	DeleteLastTrackingEntry(ctx context.Context, habitID, date string) (models.TrackingEntry, error)
	DeleteTrackingEntriesForDate(ctx context.Context, date string) (int64, error)
	GetTrackedInstancesForDate(ctx context.Context, date string) ([]models.TrackedInstance, error)
	GetTrackingEntriesInRange(ctx context.Context, startDate, endDate string) ([]models.TrackingEntry, error)
	GetTrackingEntriesForHabit(ctx context.Context, habitID, startDate, endDate string) ([]models.TrackingEntry, error)
}

// ChangeKind names the mutation that produced a Change.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeCleared ChangeKind = "cleared"
)

// Change describes one ledger mutation. HabitID is empty for clears.
type Change struct {
	Kind    ChangeKind
	Date    string
	HabitID string
	Count   int64
}

// Listener is told about every ledger mutation after it succeeds.
type Listener func(ctx context.Context, change Change)

// Ledger is the append/remove log of completion instances.
type Ledger struct {
	store     trackingStore
	listeners []Listener
}

// New returns a Ledger over store with no listeners.
func New(store trackingStore) *Ledger {
	return &Ledger{store: store}
}

// OnChange registers a listener for ledger mutations.
func (l *Ledger) OnChange(fn Listener) {
	l.listeners = append(l.listeners, fn)
}

func (l *Ledger) publish(ctx context.Context, c Change) {
	for _, fn := range l.listeners {
		fn(ctx, c)
	}
}

// AddInstance appends one completion of habitID on date. Repeats are allowed.
// Inactive habits can still be tracked.
func (l *Ledger) AddInstance(ctx context.Context, habitID, date string) (models.TrackingEntry, error) {
	const op = "ledger.AddInstance"
	if err := checkDate(op, date); err != nil {
		return models.TrackingEntry{}, err
	}
	if err := l.requireHabit(ctx, op, habitID); err != nil {
		return models.TrackingEntry{}, err
	}

	entry, err := l.store.AddTrackingEntry(ctx, models.TrackingEntry{HabitID: habitID, Date: date})
	if err != nil {
		return models.TrackingEntry{}, apperrors.Storage(op, err)
	}
	logger.Debug("Instance added", "habit_id", habitID, "date", date, "seq", entry.Seq)
	l.publish(ctx, Change{Kind: ChangeAdded, Date: date, HabitID: habitID, Count: 1})
	return entry, nil
}

// RemoveLastInstance deletes the most recently inserted entry for
// (habitID, date).
func (l *Ledger) RemoveLastInstance(ctx context.Context, habitID, date string) error {
	const op = "ledger.RemoveLastInstance"
	if err := checkDate(op, date); err != nil {
		return err
	}
	if strings.TrimSpace(habitID) == "" {
		return apperrors.Validation(op, "habit id is required")
	}

	entry, err := l.store.DeleteLastTrackingEntry(ctx, habitID, date)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NotFound(op, "tracking entry", habitID+"@"+date)
	}
	if err != nil {
		return apperrors.Storage(op, err)
	}
	logger.Debug("Instance removed", "habit_id", habitID, "date", date, "seq", entry.Seq)
	l.publish(ctx, Change{Kind: ChangeRemoved, Date: date, HabitID: habitID, Count: 1})
	return nil
}

// CountByDate returns the number of entries per habit id on date.
func (l *Ledger) CountByDate(ctx context.Context, date string) (map[string]int, error) {
	instances, err := l.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(instances))
	for _, inst := range instances {
		counts[inst.HabitID]++
	}
	return counts, nil
}

// ListByDate returns the day's entries in insertion order, each joined with
// the habit's current name and priority score.
func (l *Ledger) ListByDate(ctx context.Context, date string) ([]models.TrackedInstance, error) {
	const op = "ledger.ListByDate"
	if err := checkDate(op, date); err != nil {
		return nil, err
	}
	instances, err := l.store.GetTrackedInstancesForDate(ctx, date)
	if err != nil {
		return nil, apperrors.Storage(op, err)
	}
	return instances, nil
}

// ClearByDate removes every entry on date and reports how many went.
func (l *Ledger) ClearByDate(ctx context.Context, date string) (int64, error) {
	const op = "ledger.ClearByDate"
	if err := checkDate(op, date); err != nil {
		return 0, err
	}
	n, err := l.store.DeleteTrackingEntriesForDate(ctx, date)
	if err != nil {
		return 0, apperrors.Storage(op, err)
	}
	logger.Info("Day cleared", "date", date, "removed", n)
	l.publish(ctx, Change{Kind: ChangeCleared, Date: date, Count: n})
	return n, nil
}

// EntriesInRange returns entries with start <= date <= end.
func (l *Ledger) EntriesInRange(ctx context.Context, start, end string) ([]models.TrackingEntry, error) {
	const op = "ledger.EntriesInRange"
	if err := checkRange(op, start, end); err != nil {
		return nil, err
	}
	entries, err := l.store.GetTrackingEntriesInRange(ctx, start, end)
	if err != nil {
		return nil, apperrors.Storage(op, err)
	}
	return entries, nil
}

// EntriesForHabit is EntriesInRange narrowed to one habit.
func (l *Ledger) EntriesForHabit(ctx context.Context, habitID, start, end string) ([]models.TrackingEntry, error) {
	const op = "ledger.EntriesForHabit"
	if err := checkRange(op, start, end); err != nil {
		return nil, err
	}
	entries, err := l.store.GetTrackingEntriesForHabit(ctx, habitID, start, end)
	if err != nil {
		return nil, apperrors.Storage(op, err)
	}
	return entries, nil
}

func (l *Ledger) requireHabit(ctx context.Context, op, habitID string) error {
	if strings.TrimSpace(habitID) == "" {
		return apperrors.Validation(op, "habit id is required")
	}
	_, err := l.store.GetHabit(ctx, habitID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NotFound(op, "habit", habitID)
	}
	if err != nil {
		return apperrors.Storage(op, err)
	}
	return nil
}

func checkDate(op, date string) error {
	if !utils.ValidateDate(date) {
		return apperrors.Validation(op, "invalid date %q, expected YYYY-MM-DD", date)
	}
	return nil
}

func checkRange(op, start, end string) error {
	if err := checkDate(op, start); err != nil {
		return err
	}
	if err := checkDate(op, end); err != nil {
		return err
	}
	if start > end {
		return apperrors.Validation(op, "start date %s is after end date %s", start, end)
	}
	return nil
}
