package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/logger"
	"github.com/julianstephens/hustle/internal/metrics"
	"github.com/julianstephens/hustle/internal/models"
	"github.com/julianstephens/hustle/internal/storage"
)

// WeekReport is the per-day calendar view of a window plus its roll-up.
type WeekReport struct {
	Window calendar.Window `json:"window"`
	Days   []DayBucket     `json:"days"`
	Totals Stats           `json:"totals"`
}

// Overview rolls up every record kind for a window.
type Overview struct {
	Window      calendar.Window `json:"window"`
	Tasks       Stats           `json:"tasks"`
	Hourly      Stats           `json:"hourly"`
	Habits      []HabitStats    `json:"habits"`
	JournalDays int             `json:"journal_days"`
}

// Engine fetches records for a window and aggregates them. On a store failure
// it returns the zero report for the window together with the error, so callers
// can show zeros and flag the result as degraded.
type Engine struct {
	store storage.Provider
}

func NewEngine(store storage.Provider) *Engine {
	return &Engine{store: store}
}

func emptyWeek(w calendar.Window) WeekReport {
	return WeekReport{Window: w, Days: NewDayBuckets(w).All(), Totals: NewStats(0, 0)}
}

func (e *Engine) listTasks(ctx context.Context, owner string, w calendar.Window) ([]models.Task, error) {
	started := time.Now()
	tasks, err := e.store.ListTasks(ctx, owner, w)
	metrics.ObserveStore("list_tasks", started, err)
	if err != nil {
		logger.Warn("task fetch failed", "owner", owner, "window", w.String(), "error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Week buckets the plain tasks of w by day.
func (e *Engine) Week(ctx context.Context, owner string, w calendar.Window) (WeekReport, error) {
	if w.Empty() {
		return emptyWeek(w), nil
	}
	tasks, err := e.listTasks(ctx, owner, w)
	if err != nil {
		return emptyWeek(w), err
	}
	b := BucketTasks(w, tasks)
	return WeekReport{Window: w, Days: b.All(), Totals: b.Totals()}, nil
}

// Range rolls the plain tasks of w up into one Stats value.
func (e *Engine) Range(ctx context.Context, owner string, w calendar.Window) (Stats, error) {
	if w.Empty() {
		return NewStats(0, 0), nil
	}
	tasks, err := e.listTasks(ctx, owner, w)
	if err != nil {
		return NewStats(0, 0), err
	}
	return Summarize(w, tasks), nil
}

// Overview aggregates tasks, hourly tasks, habits and journals for w. All
// fetches complete before any counting happens.
func (e *Engine) Overview(ctx context.Context, owner string, w calendar.Window) (Overview, error) {
	zero := Overview{Window: w, Tasks: NewStats(0, 0), Hourly: NewStats(0, 0), Habits: []HabitStats{}}
	if w.Empty() {
		return zero, nil
	}

	tasks, err := e.listTasks(ctx, owner, w)
	if err != nil {
		return zero, err
	}

	started := time.Now()
	hourly, err := e.store.ListHourlyTasks(ctx, owner, w)
	metrics.ObserveStore("list_hourly_tasks", started, err)
	if err != nil {
		return zero, fmt.Errorf("failed to list hourly tasks: %w", err)
	}

	started = time.Now()
	habits, err := e.store.ListHabits(ctx, owner)
	metrics.ObserveStore("list_habits", started, err)
	if err != nil {
		return zero, fmt.Errorf("failed to list habits: %w", err)
	}

	started = time.Now()
	progress, err := e.store.ListHabitProgress(ctx, owner, w)
	metrics.ObserveStore("list_habit_progress", started, err)
	if err != nil {
		return zero, fmt.Errorf("failed to list habit progress: %w", err)
	}

	started = time.Now()
	journals, err := e.store.ListJournals(ctx, owner, w)
	metrics.ObserveStore("list_journals", started, err)
	if err != nil {
		return zero, fmt.Errorf("failed to list journals: %w", err)
	}

	out := Overview{
		Window: w,
		Tasks:  Summarize(w, tasks),
		Hourly: SummarizeHourly(w, hourly),
		Habits: []HabitStats{},
	}
	for _, h := range habits {
		if w.Intersect(h.Window()).Empty() {
			continue
		}
		out.Habits = append(out.Habits, HabitCompletion(h, w, progress))
	}
	for _, j := range journals {
		if w.Contains(j.Date) {
			out.JournalDays++
		}
	}
	return out, nil
}
