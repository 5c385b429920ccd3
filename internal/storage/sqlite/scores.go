package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/storage"
)

func (s *Store) GetDailyScore(ctx context.Context, date string) (models.DailyScore, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+storage.DailyScoreColumns+" FROM daily_score WHERE date = ?", date)
	d, err := storage.ScanDailyScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailyScore{}, storage.ErrNotFound
	}
	return d, err
}

// UpsertDailyScore writes every column of the row for score.Date.
func (s *Store) UpsertDailyScore(ctx context.Context, score models.DailyScore) error {
	if score.UpdatedAt.IsZero() {
		score.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_score (`+storage.DailyScoreColumns+`)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			habit_score_total = excluded.habit_score_total,
			daily_note = excluded.daily_note,
			note_points = excluded.note_points,
			updated_at = excluded.updated_at`,
		score.Date, score.HabitScoreTotal, score.DailyNote, score.NotePoints, storage.FormatTime(score.UpdatedAt))
	return err
}

func (s *Store) GetDailyScores(ctx context.Context, startDate, endDate string) ([]models.DailyScore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+storage.DailyScoreColumns+`
		FROM daily_score
		WHERE date >= ? AND date <= ?
		ORDER BY date`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := []models.DailyScore{}
	for rows.Next() {
		d, err := storage.ScanDailyScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, d)
	}
	return scores, rows.Err()
}
