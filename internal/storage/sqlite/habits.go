package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/logger"
	"github.com/julianstephens/hustle/internal/models"
	"github.com/julianstephens/hustle/internal/storage"
)

func (s *Store) AddHabit(ctx context.Context, habit models.Habit) error {
	if habit.ID == "" {
		habit.ID = uuid.New().String()
	}
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (id, owner, name, start_date, goal_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Owner, habit.Name, habit.StartDate.String(), habit.GoalDays, formatTime(habit.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var start, created string
	if err := row.Scan(&h.ID, &h.Owner, &h.Name, &start, &h.GoalDays, &created); err != nil {
		return models.Habit{}, err
	}
	var err error
	if h.StartDate, err = parseDate(start); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
	}
	if h.CreatedAt, err = parseTime(created); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
	}
	return h, nil
}

func (s *Store) GetHabit(ctx context.Context, owner, id string) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner, name, start_date, goal_days, created_at
		FROM habits WHERE owner = ? AND id = ?`, owner, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, storage.ErrNotFound
	}
	return h, err
}

func (s *Store) ListHabits(ctx context.Context, owner string) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, name, start_date, goal_days, created_at
		FROM habits WHERE owner = ? ORDER BY created_at`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) DeleteHabit(ctx context.Context, owner, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	progress, err := tx.ExecContext(ctx, `DELETE FROM habit_progress WHERE owner = ? AND habit_id = ?`, owner, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit progress: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE owner = ? AND id = ?`, owner, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if err := affected(res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit habit delete: %w", err)
	}

	if n, err := progress.RowsAffected(); err == nil {
		logger.Debug("habit deleted", "habit", id, "progress_rows", n)
	}
	return nil
}

func (s *Store) AddHabitProgress(ctx context.Context, p models.HabitProgress) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_progress (owner, habit_id, date, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (habit_id, date) DO NOTHING`,
		p.Owner, p.HabitID, p.Date.String(), formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert habit progress: %w", err)
	}
	return nil
}

func (s *Store) DeleteHabitProgress(ctx context.Context, owner, habitID string, d calendar.Date) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM habit_progress WHERE owner = ? AND habit_id = ? AND date = ?`,
		owner, habitID, d.String())
	if err != nil {
		return fmt.Errorf("failed to delete habit progress: %w", err)
	}
	return affected(res)
}

func (s *Store) HasHabitProgress(ctx context.Context, owner, habitID string, d calendar.Date) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT count(*) FROM habit_progress WHERE owner = ? AND habit_id = ? AND date = ?`,
		owner, habitID, d.String()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query habit progress: %w", err)
	}
	return n > 0, nil
}

func (s *Store) ListHabitProgress(ctx context.Context, owner string, w calendar.Window) ([]models.HabitProgress, error) {
	if w.Empty() {
		return []models.HabitProgress{}, nil
	}
	from, to := bounds(w)
	rows, err := s.db.QueryContext(ctx, `
		SELECT owner, habit_id, date, created_at
		FROM habit_progress WHERE owner = ? AND date BETWEEN ? AND ?
		ORDER BY date, habit_id`, owner, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query habit progress: %w", err)
	}
	defer rows.Close()

	out := []models.HabitProgress{}
	for rows.Next() {
		var p models.HabitProgress
		var day, created string
		if err := rows.Scan(&p.Owner, &p.HabitID, &day, &created); err != nil {
			return nil, err
		}
		if p.Date, err = parseDate(day); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
