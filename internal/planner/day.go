package planner

import (
	"context"
	"fmt"
	"sort"

	"github.com/julianstephens/hustle/internal/aggregate"
	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/habits"
	"github.com/julianstephens/hustle/internal/models"
)

// Slot is one hour of the day with the hourly tasks filed under it, oldest first.
type Slot struct {
	calendar.HourSlot
	Tasks []models.HourlyTask `json:"tasks"`
}

// DayView is everything shown for a single date.
type DayView struct {
	Date       calendar.Date     `json:"date"`
	Tasks      []models.Task     `json:"tasks"`
	TaskStats  aggregate.Stats   `json:"task_stats"`
	Slots      []Slot            `json:"slots"`
	HourlyDone aggregate.Stats   `json:"hourly_stats"`
	Habits     []habits.Ongoing  `json:"habits"`
	Reflection models.Reflection `json:"reflection"`
}

// Counter renders the "done/total" label for the plain tasks.
func (v DayView) Counter() string {
	return fmt.Sprintf("%d/%d", v.TaskStats.Done, v.TaskStats.Total)
}

// Day assembles the view for date. Any store failure aborts the whole view.
func (p *Planner) Day(ctx context.Context, owner string, date calendar.Date) (DayView, error) {
	w := calendar.CustomWindow(date, date)
	if w.Empty() {
		return DayView{}, models.ErrMissingDate
	}

	tasks, err := p.store.ListTasks(ctx, owner, w)
	if err != nil {
		return DayView{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	hourly, err := p.store.ListHourlyTasks(ctx, owner, w)
	if err != nil {
		return DayView{}, fmt.Errorf("failed to list hourly tasks: %w", err)
	}
	ongoing, err := p.habits.Ongoing(ctx, owner, date)
	if err != nil {
		return DayView{}, fmt.Errorf("failed to list habits: %w", err)
	}
	journals, err := p.store.ListJournals(ctx, owner, w)
	if err != nil {
		return DayView{}, fmt.Errorf("failed to list journals: %w", err)
	}
	hourlyJournals, err := p.store.ListHourlyJournals(ctx, owner, w)
	if err != nil {
		return DayView{}, fmt.Errorf("failed to list hourly reflections: %w", err)
	}

	var journal *models.Journal
	for i := range journals {
		if journals[i].Date == date {
			journal = &journals[i]
			break
		}
	}

	return DayView{
		Date:       date,
		Tasks:      tasks,
		TaskStats:  aggregate.Summarize(w, tasks),
		Slots:      GroupSlots(hourly),
		HourlyDone: aggregate.SummarizeHourly(w, hourly),
		Habits:     ongoing,
		Reflection: models.BuildReflection(date, journal, hourlyJournals),
	}, nil
}

// GroupSlots files hourly tasks into the 24 hour slots. Tasks with an
// out-of-range hour are dropped.
func GroupSlots(tasks []models.HourlyTask) []Slot {
	slots := make([]Slot, 0, len(calendar.HourSlots()))
	for _, hs := range calendar.HourSlots() {
		slots = append(slots, Slot{HourSlot: hs, Tasks: []models.HourlyTask{}})
	}
	for _, t := range tasks {
		if !calendar.ValidHour(t.Hour) {
			continue
		}
		slots[t.Hour].Tasks = append(slots[t.Hour].Tasks, t)
	}
	for i := range slots {
		sort.SliceStable(slots[i].Tasks, func(a, b int) bool {
			return slots[i].Tasks[a].CreatedAt.Before(slots[i].Tasks[b].CreatedAt)
		})
	}
	return slots
}
