package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/storage"
)

func (s *Store) AddHabit(ctx context.Context, habit models.Habit) (models.Habit, error) {
	now := time.Now().UTC()
	habit.ID = uuid.NewString()
	habit.CreatedAt = now
	habit.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (`+storage.HabitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Name, habit.PriorityScore, string(habit.ColorTag), habit.Active,
		storage.FormatTime(habit.CreatedAt), storage.FormatTime(habit.UpdatedAt))
	if err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

func (s *Store) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+storage.HabitColumns+" FROM habits WHERE id = ?", id)
	h, err := storage.ScanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, storage.ErrNotFound
	}
	return h, err
}

// GetAllHabits orders by name using SQLite's default BINARY collation,
// then by id.
func (s *Store) GetAllHabits(ctx context.Context, includeInactive bool) ([]models.Habit, error) {
	query := "SELECT " + storage.HabitColumns + " FROM habits"
	if !includeInactive {
		query += " WHERE active = 1"
	}
	query += " ORDER BY name, id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := storage.ScanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE habits
		SET name = ?, priority_score = ?, color_tag = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		habit.Name, habit.PriorityScore, string(habit.ColorTag), habit.Active,
		storage.FormatTime(habit.UpdatedAt), habit.ID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
