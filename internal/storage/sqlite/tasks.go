package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/models"
)

func (s *Store) AddTask(ctx context.Context, task models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, owner, title, description, due_date, completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Owner, task.Title, task.Description, task.DueDate.String(), task.Completed, formatTime(task.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (s *Store) ListTasks(ctx context.Context, owner string, w calendar.Window) ([]models.Task, error) {
	if w.Empty() {
		return []models.Task{}, nil
	}
	from, to := bounds(w)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, title, description, due_date, completed, created_at
		FROM tasks WHERE owner = ? AND due_date BETWEEN ? AND ?
		ORDER BY due_date, created_at`, owner, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		var due, created string
		if err := rows.Scan(&t.ID, &t.Owner, &t.Title, &t.Description, &due, &t.Completed, &created); err != nil {
			return nil, err
		}
		if t.DueDate, err = parseDate(due); err != nil {
			return nil, fmt.Errorf("task %s: %w", t.ID, err)
		}
		if t.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("task %s: %w", t.ID, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) SetTaskCompletion(ctx context.Context, owner, id string, completed bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET completed = ? WHERE owner = ? AND id = ?`, completed, owner, id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return affected(res)
}

func (s *Store) AddHourlyTask(ctx context.Context, task models.HourlyTask) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hourly_tasks (id, owner, date, hour, description, completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Owner, task.Date.String(), task.Hour, task.Description, task.Completed, formatTime(task.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert hourly task: %w", err)
	}
	return nil
}

func (s *Store) ListHourlyTasks(ctx context.Context, owner string, w calendar.Window) ([]models.HourlyTask, error) {
	if w.Empty() {
		return []models.HourlyTask{}, nil
	}
	from, to := bounds(w)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, date, hour, description, completed, created_at
		FROM hourly_tasks WHERE owner = ? AND date BETWEEN ? AND ?
		ORDER BY date, hour, created_at`, owner, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly tasks: %w", err)
	}
	defer rows.Close()
	return scanHourlyTasks(rows)
}

func scanHourlyTasks(rows *sql.Rows) ([]models.HourlyTask, error) {
	tasks := []models.HourlyTask{}
	for rows.Next() {
		var t models.HourlyTask
		var day, created string
		err := rows.Scan(&t.ID, &t.Owner, &day, &t.Hour, &t.Description, &t.Completed, &created)
		if err != nil {
			return nil, err
		}
		if t.Date, err = parseDate(day); err != nil {
			return nil, fmt.Errorf("hourly task %s: %w", t.ID, err)
		}
		if t.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("hourly task %s: %w", t.ID, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) SetHourlyTaskCompletion(ctx context.Context, owner, id string, completed bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE hourly_tasks SET completed = ? WHERE owner = ? AND id = ?`, completed, owner, id)
	if err != nil {
		return fmt.Errorf("failed to update hourly task: %w", err)
	}
	return affected(res)
}
