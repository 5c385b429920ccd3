// Package aggregator turns the ledger for a day into a persisted daily score.
package aggregator

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/daypoints/internal/constants"
	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/logger"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/scoring"
	"github.com/julianstephens/daypoints/internal/storage"
	"github.com/julianstephens/daypoints/internal/utils"
)

type instanceLister interface {
	ListByDate(ctx context.Context, date string) ([]models.TrackedInstance, error)
}

type scoreStore interface {
	GetDailyScore(ctx context.Context, date string) (models.DailyScore, error)
	UpsertDailyScore(ctx context.Context, score models.DailyScore) error
	GetDailyScores(ctx context.Context, startDate, endDate string) ([]models.DailyScore, error)
}

// Totals is the result of recomputing a day.
type Totals struct {
	Date            string `json:"date"`
	HabitScoreTotal int    `json:"habit_score_total"`
	NotePoints      int    `json:"note_points"`
	TotalScore      int    `json:"total_score"`
}

// NoteResult is the result of saving a day's note.
type NoteResult struct {
	Date            string `json:"date"`
	NotePoints      int    `json:"note_points"`
	TotalCharacters int    `json:"total_characters"`
	TotalScore      int    `json:"total_score"`
}

// Options tunes the aggregator.
type Options struct {
	// MaxNoteLength rejects longer notes. Zero disables the limit.
	MaxNoteLength int
	Now           func() time.Time
}

// DefaultOptions returns the stock limits.
func DefaultOptions() Options {
	return Options{MaxNoteLength: constants.DefaultMaxNoteLength}
}

// Aggregator computes and stores DailyScore rows. Each write is a
// read-modify-write of the day's row; concurrent writers to the same day
// can lose an update.
type Aggregator struct {
	ledger    instanceLister
	store     scoreStore
	opts      Options
	listeners []Listener
}

// Listener is told the date of every daily score row after it is written.
type Listener func(ctx context.Context, date string)

// New returns an Aggregator reading instances from ledger and writing rows
// to store. A negative MaxNoteLength is treated as no limit.
func New(ledger instanceLister, store scoreStore, opts Options) *Aggregator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxNoteLength < 0 {
		opts.MaxNoteLength = 0
	}
	return &Aggregator{ledger: ledger, store: store, opts: opts}
}

// OnChange registers a listener for daily score writes.
func (a *Aggregator) OnChange(fn Listener) {
	a.listeners = append(a.listeners, fn)
}

func (a *Aggregator) publish(ctx context.Context, date string) {
	for _, fn := range a.listeners {
		fn(ctx, date)
	}
}

// HabitTotal sums count*priority score over the day's instances.
func HabitTotal(instances []models.TrackedInstance) int {
	counts := map[string]int{}
	scores := map[string]int{}
	for _, inst := range instances {
		counts[inst.HabitID]++
		scores[inst.HabitID] = inst.PriorityScore
	}
	total := 0
	for id, n := range counts {
		total += n * scores[id]
	}
	return total
}

// ComputeAndPersist recomputes the habit half of date from the ledger and
// upserts it, carrying the stored note forward. Running it twice without
// ledger changes writes the same totals.
func (a *Aggregator) ComputeAndPersist(ctx context.Context, date string) (Totals, error) {
	const op = "aggregator.ComputeAndPersist"
	if !utils.ValidateDate(date) {
		return Totals{}, apperrors.Validation(op, "invalid date %q, expected YYYY-MM-DD", date)
	}

	instances, err := a.ledger.ListByDate(ctx, date)
	if err != nil {
		return Totals{}, err
	}
	habitTotal := HabitTotal(instances)

	row, _, err := a.existing(ctx, op, date)
	if err != nil {
		return Totals{}, err
	}
	row.HabitScoreTotal = habitTotal
	row.UpdatedAt = a.opts.Now().UTC()
	if err := a.store.UpsertDailyScore(ctx, row); err != nil {
		return Totals{}, apperrors.Storage(op, err)
	}
	a.publish(ctx, date)

	logger.Debug("Daily score computed", "date", date, "habit_total", habitTotal, "note_points", row.NotePoints)
	return Totals{
		Date:            date,
		HabitScoreTotal: row.HabitScoreTotal,
		NotePoints:      row.NotePoints,
		TotalScore:      row.TotalScore(),
	}, nil
}

// Finalize closes out a day. It is ComputeAndPersist under another name.
func (a *Aggregator) Finalize(ctx context.Context, date string) (Totals, error) {
	totals, err := a.ComputeAndPersist(ctx, date)
	if err != nil {
		return Totals{}, err
	}
	logger.Info("Day finalized", "date", date, "total", totals.TotalScore)
	return totals, nil
}

// SaveNote stores text as the day's note and rescored note points. The
// stored habit total is kept; a day without a row gets 0.
func (a *Aggregator) SaveNote(ctx context.Context, date, text string) (NoteResult, error) {
	const op = "aggregator.SaveNote"
	if !utils.ValidateDate(date) {
		return NoteResult{}, apperrors.Validation(op, "invalid date %q, expected YYYY-MM-DD", date)
	}
	length := scoring.NoteLength(text)
	if a.opts.MaxNoteLength > 0 && length > a.opts.MaxNoteLength {
		return NoteResult{}, apperrors.Validation(op, "note is %d characters, the limit is %d", length, a.opts.MaxNoteLength)
	}

	row, _, err := a.existing(ctx, op, date)
	if err != nil {
		return NoteResult{}, err
	}
	row.DailyNote = text
	row.NotePoints = scoring.NotePoints(text)
	row.UpdatedAt = a.opts.Now().UTC()
	if err := a.store.UpsertDailyScore(ctx, row); err != nil {
		return NoteResult{}, apperrors.Storage(op, err)
	}
	a.publish(ctx, date)

	logger.Debug("Daily note saved", "date", date, "characters", length, "note_points", row.NotePoints)
	return NoteResult{
		Date:            date,
		NotePoints:      row.NotePoints,
		TotalCharacters: length,
		TotalScore:      row.TotalScore(),
	}, nil
}

// GetDailyScore returns the stored row for date, or nil when there is none.
func (a *Aggregator) GetDailyScore(ctx context.Context, date string) (*models.DailyScore, error) {
	const op = "aggregator.GetDailyScore"
	if !utils.ValidateDate(date) {
		return nil, apperrors.Validation(op, "invalid date %q, expected YYYY-MM-DD", date)
	}
	row, found, err := a.existing(ctx, op, date)
	if err != nil || !found {
		return nil, err
	}
	return &row, nil
}

// ScoresInRange returns stored rows with start <= date <= end, oldest first.
// Days without a row are absent.
func (a *Aggregator) ScoresInRange(ctx context.Context, start, end string) ([]models.DailyScore, error) {
	const op = "aggregator.ScoresInRange"
	if !utils.ValidateDate(start) || !utils.ValidateDate(end) {
		return nil, apperrors.Validation(op, "invalid range %q..%q, expected YYYY-MM-DD", start, end)
	}
	if start > end {
		return nil, apperrors.Validation(op, "start date %s is after end date %s", start, end)
	}
	scores, err := a.store.GetDailyScores(ctx, start, end)
	if err != nil {
		return nil, apperrors.Storage(op, err)
	}
	return scores, nil
}

// existing reads the row for date. A missing row comes back zeroed with
// found=false.
func (a *Aggregator) existing(ctx context.Context, op, date string) (models.DailyScore, bool, error) {
	row, err := a.store.GetDailyScore(ctx, date)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DailyScore{Date: date}, false, nil
	}
	if err != nil {
		return models.DailyScore{}, false, apperrors.Storage(op, err)
	}
	return row, true, nil
}
