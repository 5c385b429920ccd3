package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/storage"
)

func (s *Store) GetDailyScore(ctx context.Context, date string) (models.DailyScore, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+storage.DailyScoreColumns+" FROM daily_score WHERE date = $1", date)
	d, err := storage.ScanDailyScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailyScore{}, storage.ErrNotFound
	}
	return d, err
}

func (s *Store) UpsertDailyScore(ctx context.Context, score models.DailyScore) error {
	if score.UpdatedAt.IsZero() {
		score.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_score (`+storage.DailyScoreColumns+`)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (date) DO UPDATE SET
			habit_score_total = EXCLUDED.habit_score_total,
			daily_note = EXCLUDED.daily_note,
			note_points = EXCLUDED.note_points,
			updated_at = EXCLUDED.updated_at`,
		score.Date, score.HabitScoreTotal, score.DailyNote, score.NotePoints, storage.FormatTime(score.UpdatedAt))
	return err
}

func (s *Store) GetDailyScores(ctx context.Context, startDate, endDate string) ([]models.DailyScore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+storage.DailyScoreColumns+`
		FROM daily_score
		WHERE date >= $1 AND date <= $2
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
