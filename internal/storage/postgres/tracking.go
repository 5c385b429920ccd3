package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/storage"
)

func (s *Store) AddTrackingEntry(ctx context.Context, entry models.TrackingEntry) (models.TrackingEntry, error) {
	entry.ID = uuid.NewString()
	entry.Completed = true
	entry.CreatedAt = time.Now().UTC()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO habit_tracking (id, habit_id, date, completed, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq`,
		entry.ID, entry.HabitID, entry.Date, entry.Completed, storage.FormatTime(entry.CreatedAt)).Scan(&entry.Seq)
	if err != nil {
		return models.TrackingEntry{}, err
	}
	return entry, nil
}

// DeleteLastTrackingEntry deletes and returns the newest entry in one statement.
func (s *Store) DeleteLastTrackingEntry(ctx context.Context, habitID, date string) (models.TrackingEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		DELETE FROM habit_tracking
		WHERE seq = (
			SELECT seq FROM habit_tracking
			WHERE habit_id = $1 AND date = $2
			ORDER BY seq DESC
			LIMIT 1
		)
		RETURNING `+storage.TrackingColumns, habitID, date)
	entry, err := storage.ScanTrackingEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TrackingEntry{}, storage.ErrNotFound
	}
	return entry, err
}

func (s *Store) DeleteTrackingEntriesForDate(ctx context.Context, date string) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM habit_tracking WHERE date = $1", date)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) GetTrackedInstancesForDate(ctx context.Context, date string) ([]models.TrackedInstance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.seq, t.id, t.habit_id, t.date, t.completed, t.created_at, h.name, h.priority_score
		FROM habit_tracking t
		JOIN habits h ON h.id = t.habit_id
		WHERE t.date = $1
		ORDER BY t.seq`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instances := []models.TrackedInstance{}
	for rows.Next() {
		ti, err := storage.ScanTrackedInstance(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, ti)
	}
	return instances, rows.Err()
}

func (s *Store) GetTrackingEntriesInRange(ctx context.Context, startDate, endDate string) ([]models.TrackingEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+storage.TrackingColumns+`
		FROM habit_tracking
		WHERE date >= $1 AND date <= $2
		ORDER BY date, seq`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func (s *Store) GetTrackingEntriesForHabit(ctx context.Context, habitID, startDate, endDate string) ([]models.TrackingEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+storage.TrackingColumns+`
		FROM habit_tracking
		WHERE habit_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, seq`, habitID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func collectEntries(rows *sql.Rows) ([]models.TrackingEntry, error) {
	defer rows.Close()

	entries := []models.TrackingEntry{}
	for rows.Next() {
		e, err := storage.ScanTrackingEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
