// Package planner implements the day page operations: plain and hourly tasks,
// reflections, and the assembled view of a single date.
package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/events"
	"github.com/julianstephens/hustle/internal/habits"
	"github.com/julianstephens/hustle/internal/logger"
	"github.com/julianstephens/hustle/internal/models"
	"github.com/julianstephens/hustle/internal/storage"
)

type Planner struct {
	store     storage.Provider
	habits    *habits.Service
	publisher events.Publisher
	now       func() time.Time
}

func New(store storage.Provider, habitSvc *habits.Service, publisher events.Publisher) *Planner {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if habitSvc == nil {
		habitSvc = habits.NewService(store, nil, publisher)
	}
	return &Planner{store: store, habits: habitSvc, publisher: publisher, now: time.Now}
}

func (p *Planner) AddTask(ctx context.Context, owner, title, description string, due calendar.Date) (models.Task, error) {
	t := models.Task{
		ID:          uuid.New().String(),
		Owner:       owner,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		DueDate:     due,
		CreatedAt:   p.now(),
	}
	if err := t.Validate(); err != nil {
		return models.Task{}, err
	}
	if err := p.store.AddTask(ctx, t); err != nil {
		return models.Task{}, fmt.Errorf("failed to add task: %w", err)
	}
	events.Emit(ctx, p.publisher, events.New(events.TaskCreated, owner, t))
	return t, nil
}

func (p *Planner) SetTaskCompletion(ctx context.Context, owner, id string, completed bool) error {
	if err := p.store.SetTaskCompletion(ctx, owner, id, completed); err != nil {
		return fmt.Errorf("failed to update task %s: %w", id, err)
	}
	events.Emit(ctx, p.publisher, events.New(events.TaskCompletionChanged, owner, map[string]any{
		"id": id, "completed": completed,
	}))
	return nil
}

// AddHourlyTask pins a task to one hour of date. Existing tasks in the slot are kept.
func (p *Planner) AddHourlyTask(ctx context.Context, owner string, date calendar.Date, hour int, description string) (models.HourlyTask, error) {
	t := models.HourlyTask{
		ID:          uuid.New().String(),
		Owner:       owner,
		Date:        date,
		Hour:        hour,
		Description: strings.TrimSpace(description),
		CreatedAt:   p.now(),
	}
	if err := t.Validate(); err != nil {
		return models.HourlyTask{}, err
	}
	if err := p.store.AddHourlyTask(ctx, t); err != nil {
		return models.HourlyTask{}, fmt.Errorf("failed to add hourly task: %w", err)
	}
	events.Emit(ctx, p.publisher, events.New(events.HourlyTaskCreated, owner, t))
	return t, nil
}

func (p *Planner) SetHourlyTaskCompletion(ctx context.Context, owner, id string, completed bool) error {
	if err := p.store.SetHourlyTaskCompletion(ctx, owner, id, completed); err != nil {
		return fmt.Errorf("failed to update hourly task %s: %w", id, err)
	}
	events.Emit(ctx, p.publisher, events.New(events.HourlyTaskCompletion, owner, map[string]any{
		"id": id, "completed": completed,
	}))
	return nil
}

// SaveJournal replaces the free-form reflection for date.
func (p *Planner) SaveJournal(ctx context.Context, owner string, date calendar.Date, content string) (models.Journal, error) {
	if date.IsZero() {
		return models.Journal{}, models.ErrMissingDate
	}
	j := models.Journal{
		ID:        uuid.New().String(),
		Owner:     owner,
		Date:      date,
		Content:   content,
		UpdatedAt: p.now(),
	}
	if err := p.store.UpsertJournal(ctx, j); err != nil {
		return models.Journal{}, fmt.Errorf("failed to save journal: %w", err)
	}
	events.Emit(ctx, p.publisher, events.New(events.ReflectionSaved, owner, map[string]any{
		"date": date.String(), "mode": "journal",
	}))
	return j, nil
}

// SaveHourly upserts the non-blank hour entries and returns how many were written.
// Every hour is checked before anything is written.
func (p *Planner) SaveHourly(ctx context.Context, owner string, date calendar.Date, entries map[int]string) (int, error) {
	var rows []models.HourlyJournal
	for hour, content := range entries {
		if strings.TrimSpace(content) == "" {
			continue
		}
		j := models.HourlyJournal{
			ID:        uuid.New().String(),
			Owner:     owner,
			Date:      date,
			Hour:      hour,
			Content:   content,
			UpdatedAt: p.now(),
		}
		if err := j.Validate(); err != nil {
			return 0, fmt.Errorf("hour %d: %w", hour, err)
		}
		rows = append(rows, j)
	}
	sort.Slice(rows, func(i, k int) bool { return rows[i].Hour < rows[k].Hour })

	for i, j := range rows {
		if err := p.store.UpsertHourlyJournal(ctx, j); err != nil {
			return i, fmt.Errorf("failed to save reflection for hour %d: %w", j.Hour, err)
		}
	}
	if len(rows) > 0 {
		events.Emit(ctx, p.publisher, events.New(events.ReflectionSaved, owner, map[string]any{
			"date": date.String(), "mode": "hourly", "hours": len(rows),
		}))
	}
	logger.Debug("hourly reflection saved", "owner", owner, "date", date.String(), "hours", len(rows))
	return len(rows), nil
}
