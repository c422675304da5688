package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/models"
)

func (s *Store) UpsertJournal(ctx context.Context, j models.Journal) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.UpdatedAt.IsZero() {
		j.UpdatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journals (id, owner, date, content, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (owner, date) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at`,
		j.ID, j.Owner, j.Date.String(), j.Content, formatTime(j.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert journal: %w", err)
	}
	return nil
}

func (s *Store) ListJournals(ctx context.Context, owner string, w calendar.Window) ([]models.Journal, error) {
	if w.Empty() {
		return []models.Journal{}, nil
	}
	from, to := bounds(w)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, date, content, updated_at
		FROM journals WHERE owner = ? AND date BETWEEN ? AND ?
		ORDER BY date`, owner, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query journals: %w", err)
	}
	defer rows.Close()

	out := []models.Journal{}
	for rows.Next() {
		var j models.Journal
		var day, updated string
		if err := rows.Scan(&j.ID, &j.Owner, &day, &j.Content, &updated); err != nil {
			return nil, err
		}
		if j.Date, err = parseDate(day); err != nil {
			return nil, err
		}
		if j.UpdatedAt, err = parseTime(updated); err != nil {
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
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hourly_journals (id, owner, date, hour, content, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner, date, hour) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at`,
		j.ID, j.Owner, j.Date.String(), j.Hour, j.Content, formatTime(j.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert hourly journal: %w", err)
	}
	return nil
}

func (s *Store) ListHourlyJournals(ctx context.Context, owner string, w calendar.Window) ([]models.HourlyJournal, error) {
	if w.Empty() {
		return []models.HourlyJournal{}, nil
	}
	from, to := bounds(w)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, date, hour, content, updated_at
		FROM hourly_journals WHERE owner = ? AND date BETWEEN ? AND ?
		ORDER BY date, hour`, owner, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly journals: %w", err)
	}
	defer rows.Close()

	out := []models.HourlyJournal{}
	for rows.Next() {
		var j models.HourlyJournal
		var day, updated string
		if err := rows.Scan(&j.ID, &j.Owner, &day, &j.Hour, &j.Content, &updated); err != nil {
			return nil, err
		}
		if j.Date, err = parseDate(day); err != nil {
			return nil, err
		}
		if j.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
