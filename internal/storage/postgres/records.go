package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/logger"
	"github.com/julianstephens/hustle/internal/models"
	"github.com/julianstephens/hustle/internal/storage"
)

func (s *Store) AddTask(ctx context.Context, task models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tasks (id, owner, title, description, due_date, completed, created_at)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7)`,
		task.ID, task.Owner, task.Title, task.Description, task.DueDate.String(), task.Completed, task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (s *Store) ListTasks(ctx context.Context, owner string, w calendar.Window) ([]models.Task, error) {
	if w.Empty() {
		return []models.Task{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner, title, description, to_char(due_date, 'YYYY-MM-DD'), completed, created_at
		FROM tasks WHERE owner = $1 AND due_date BETWEEN $2::date AND $3::date
		ORDER BY due_date, created_at`, owner, w.From.String(), w.To.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		var due string
		if err := rows.Scan(&t.ID, &t.Owner, &t.Title, &t.Description, &due, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		if t.DueDate, err = calendar.ParseDate(due); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) SetTaskCompletion(ctx context.Context, owner, id string, completed bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE tasks SET completed = $1 WHERE owner = $2 AND id = $3`, completed, owner, id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return affected(tag)
}

func (s *Store) AddHourlyTask(ctx context.Context, task models.HourlyTask) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO hourly_tasks (id, owner, date, hour, description, completed, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)`,
		task.ID, task.Owner, task.Date.String(), task.Hour, task.Description, task.Completed, task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert hourly task: %w", err)
	}
	return nil
}

func (s *Store) ListHourlyTasks(ctx context.Context, owner string, w calendar.Window) ([]models.HourlyTask, error) {
	if w.Empty() {
		return []models.HourlyTask{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner, to_char(date, 'YYYY-MM-DD'), hour, description, completed, created_at
		FROM hourly_tasks WHERE owner = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY date, hour, created_at`, owner, w.From.String(), w.To.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.HourlyTask{}
	for rows.Next() {
		var t models.HourlyTask
		var day string
		if err := rows.Scan(&t.ID, &t.Owner, &day, &t.Hour, &t.Description, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		if t.Date, err = calendar.ParseDate(day); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) SetHourlyTaskCompletion(ctx context.Context, owner, id string, completed bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE hourly_tasks SET completed = $1 WHERE owner = $2 AND id = $3`, completed, owner, id)
	if err != nil {
		return fmt.Errorf("failed to update hourly task: %w", err)
	}
	return affected(tag)
}

func (s *Store) AddHabit(ctx context.Context, habit models.Habit) error {
	if habit.ID == "" {
		habit.ID = uuid.New().String()
	}
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO habits (id, owner, name, start_date, goal_days, created_at)
		VALUES ($1, $2, $3, $4::date, $5, $6)`,
		habit.ID, habit.Owner, habit.Name, habit.StartDate.String(), habit.GoalDays, habit.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

const habitColumns = `id, owner, name, to_char(start_date, 'YYYY-MM-DD'), goal_days, created_at`

func scanHabit(row pgx.Row) (models.Habit, error) {
	var h models.Habit
	var start string
	if err := row.Scan(&h.ID, &h.Owner, &h.Name, &start, &h.GoalDays, &h.CreatedAt); err != nil {
		return models.Habit{}, err
	}
	d, err := calendar.ParseDate(start)
	if err != nil {
		return models.Habit{}, err
	}
	h.StartDate = d
	return h, nil
}

func (s *Store) GetHabit(ctx context.Context, owner, id string) (models.Habit, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+habitColumns+` FROM habits WHERE owner = $1 AND id = $2`, owner, id)
	h, err := scanHabit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Habit{}, storage.ErrNotFound
	}
	return h, err
}

func (s *Store) ListHabits(ctx context.Context, owner string) ([]models.Habit, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+habitColumns+` FROM habits WHERE owner = $1 ORDER BY created_at`, owner)
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
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	progress, err := tx.Exec(ctx, `DELETE FROM habit_progress WHERE owner = $1 AND habit_id = $2`, owner, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit progress: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM habits WHERE owner = $1 AND id = $2`, owner, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if err := affected(tag); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit habit delete: %w", err)
	}
	logger.Debug("habit deleted", "habit", id, "progress_rows", progress.RowsAffected())
	return nil
}

func (s *Store) AddHabitProgress(ctx context.Context, p models.HabitProgress) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO habit_progress (owner, habit_id, date, created_at)
		VALUES ($1, $2, $3::date, $4)
		ON CONFLICT (habit_id, date) DO NOTHING`,
		p.Owner, p.HabitID, p.Date.String(), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert habit progress: %w", err)
	}
	return nil
}

func (s *Store) DeleteHabitProgress(ctx context.Context, owner, habitID string, d calendar.Date) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM habit_progress WHERE owner = $1 AND habit_id = $2 AND date = $3::date`,
		owner, habitID, d.String())
	if err != nil {
		return fmt.Errorf("failed to delete habit progress: %w", err)
	}
	return affected(tag)
}

func (s *Store) HasHabitProgress(ctx context.Context, owner, habitID string, d calendar.Date) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM habit_progress WHERE owner = $1 AND habit_id = $2 AND date = $3::date)`,
		owner, habitID, d.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query habit progress: %w", err)
	}
	return exists, nil
}

func (s *Store) ListHabitProgress(ctx context.Context, owner string, w calendar.Window) ([]models.HabitProgress, error) {
	if w.Empty() {
		return []models.HabitProgress{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT owner, habit_id, to_char(date, 'YYYY-MM-DD'), created_at
		FROM habit_progress WHERE owner = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY date, habit_id`, owner, w.From.String(), w.To.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query habit progress: %w", err)
	}
	defer rows.Close()

	out := []models.HabitProgress{}
	for rows.Next() {
		var p models.HabitProgress
		var day string
		if err := rows.Scan(&p.Owner, &p.HabitID, &day, &p.CreatedAt); err != nil {
			return nil, err
		}
		if p.Date, err = calendar.ParseDate(day); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpsertJournal(ctx context.Context, j models.Journal) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.UpdatedAt.IsZero() {
		j.UpdatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO journals (id, owner, date, content, updated_at)
		VALUES ($1, $2, $3::date, $4, $5)
		ON CONFLICT (owner, date) DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at`,
		j.ID, j.Owner, j.Date.String(), j.Content, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert journal: %w", err)
	}
	return nil
}

func (s *Store) ListJournals(ctx context.Context, owner string, w calendar.Window) ([]models.Journal, error) {
	if w.Empty() {
		return []models.Journal{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner, to_char(date, 'YYYY-MM-DD'), content, updated_at
		FROM journals WHERE owner = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY date`, owner, w.From.String(), w.To.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query journals: %w", err)
	}
	defer rows.Close()

	out := []models.Journal{}
	for rows.Next() {
		var j models.Journal
		var day string
		if err := rows.Scan(&j.ID, &j.Owner, &day, &j.Content, &j.UpdatedAt); err != nil {
			return nil, err
		}
		if j.Date, err = calendar.ParseDate(day); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (s *Store) UpsertHourlyJournal(ctx context.Context, j models.HourlyJournal) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.UpdatedAt.IsZero() {
		j.UpdatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO hourly_journals (id, owner, date, hour, content, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6)
		ON CONFLICT (owner, date, hour) DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at`,
		j.ID, j.Owner, j.Date.String(), j.Hour, j.Content, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert hourly journal: %w", err)
	}
	return nil
}

func (s *Store) ListHourlyJournals(ctx context.Context, owner string, w calendar.Window) ([]models.HourlyJournal, error) {
	if w.Empty() {
		return []models.HourlyJournal{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner, to_char(date, 'YYYY-MM-DD'), hour, content, updated_at
		FROM hourly_journals WHERE owner = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY date, hour`, owner, w.From.String(), w.To.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly journals: %w", err)
	}
	defer rows.Close()

	out := []models.HourlyJournal{}
	for rows.Next() {
		var j models.HourlyJournal
		var day string
		if err := rows.Scan(&j.ID, &j.Owner, &day, &j.Hour, &j.Content, &j.UpdatedAt); err != nil {
			return nil, err
		}
		if j.Date, err = calendar.ParseDate(day); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
