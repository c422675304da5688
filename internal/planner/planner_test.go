package planner

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/events"
	"github.com/julianstephens/hustle/internal/habits"
	"github.com/julianstephens/hustle/internal/models"
	"github.com/julianstephens/hustle/internal/storage"
	"github.com/julianstephens/hustle/internal/storage/storagetest"
)

func date(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func newPlanner() (*Planner, *storagetest.Store, *events.Recorder) {
	store := storagetest.New()
	rec := &events.Recorder{}
	return New(store, habits.NewService(store, nil, rec), rec), store, rec
}

func TestAddTask(t *testing.T) {
	ctx := context.Background()
	p, store, rec := newPlanner()
	due := date(t, "2024-03-04")

	task, err := p.AddTask(ctx, "u1", "  Write report ", "", due)
	if err != nil {
		t.Fatalf("AddTask() failed: %v", err)
	}
	if task.Title != "Write report" || task.Completed || task.ID == "" {
		t.Errorf("task = %+v", task)
	}

	if _, err := p.AddTask(ctx, "u1", "   ", "", due); !errors.Is(err, models.ErrEmptyTitle) {
		t.Errorf("blank title error = %v", err)
	}
	if store.CallCount("AddTask") != 1 {
		t.Error("invalid task reached the store")
	}
	if got := rec.Types(); !reflect.DeepEqual(got, []string{events.TaskCreated}) {
		t.Errorf("events = %v", got)
	}
}

func TestSetTaskCompletion(t *testing.T) {
	ctx := context.Background()
	p, _, rec := newPlanner()
	task, err := p.AddTask(ctx, "u1", "a", "", date(t, "2024-03-04"))
	if err != nil {
		t.Fatal(err)
	}

	if err := p.SetTaskCompletion(ctx, "u1", task.ID, true); err != nil {
		t.Fatalf("SetTaskCompletion() failed: %v", err)
	}
	if err := p.SetTaskCompletion(ctx, "u2", task.ID, true); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("other owner error = %v, want ErrNotFound", err)
	}
	if n := len(rec.Events()); n != 2 {
		t.Errorf("got %d events, want 2", n)
	}
}

func TestAddHourlyTask(t *testing.T) {
	ctx := context.Background()
	p, _, _ := newPlanner()
	d := date(t, "2024-03-04")

	tests := []struct {
		name    string
		hour    int
		desc    string
		wantErr error
	}{
		{"valid", 9, "standup", nil},
		{"midnight", 0, "sleep", nil},
		{"hour too large", 24, "x", models.ErrInvalidHour},
		{"negative hour", -1, "x", models.ErrInvalidHour},
		{"blank", 10, " ", models.ErrEmptyDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.AddHourlyTask(ctx, "u1", d, tt.hour, tt.desc)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddHourlyTask() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveHourlySkipsBlank(t *testing.T) {
	ctx := context.Background()
	p, store, rec := newPlanner()
	d := date(t, "2024-03-04")

	n, err := p.SaveHourly(ctx, "u1", d, map[int]string{8: "gym", 9: "  ", 13: "lunch", 14: ""})
	if err != nil {
		t.Fatalf("SaveHourly() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("SaveHourly() = %d, want 2", n)
	}
	rows, _ := store.ListHourlyJournals(ctx, "u1", calendar.CustomWindow(d, d))
	if len(rows) != 2 {
		t.Errorf("stored %d rows, want 2", len(rows))
	}

	n, err = p.SaveHourly(ctx, "u1", d, map[int]string{1: " "})
	if err != nil || n != 0 {
		t.Errorf("all-blank SaveHourly() = %d, %v", n, err)
	}
	if got := len(rec.Events()); got != 1 {
		t.Errorf("got %d events, want 1", got)
	}

	if _, err := p.SaveHourly(ctx, "u1", d, map[int]string{25: "late"}); !errors.Is(err, models.ErrInvalidHour) {
		t.Errorf("invalid hour error = %v", err)
	}
}

func TestDayView(t *testing.T) {
	ctx := context.Background()
	p, _, _ := newPlanner()
	d := date(t, "2024-03-04")

	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return base }
	first, _ := p.AddHourlyTask(ctx, "u1", d, 9, "first")
	p.now = func() time.Time { return base.Add(time.Minute) }
	second, _ := p.AddHourlyTask(ctx, "u1", d, 9, "second")
	if _, err := p.AddHourlyTask(ctx, "u1", d.AddDays(1), 9, "tomorrow"); err != nil {
		t.Fatal(err)
	}

	a, _ := p.AddTask(ctx, "u1", "a", "", d)
	if _, err := p.AddTask(ctx, "u1", "b", "", d); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddTask(ctx, "u1", "other day", "", d.AddDays(-1)); err != nil {
		t.Fatal(err)
	}
	if err := p.SetTaskCompletion(ctx, "u1", a.ID, true); err != nil {
		t.Fatal(err)
	}

	h, err := p.habits.Create(ctx, "u1", "read", d.AddDays(-2))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.habits.Create(ctx, "u1", "future", d.AddDays(3)); err != nil {
		t.Fatal(err)
	}
	if _, err := p.SaveJournal(ctx, "u1", d, "good day"); err != nil {
		t.Fatal(err)
	}

	view, err := p.Day(ctx, "u1", d)
	if err != nil {
		t.Fatalf("Day() failed: %v", err)
	}
	if view.Counter() != "1/2" || view.TaskStats.Percent() != 50 {
		t.Errorf("task stats = %+v", view.TaskStats)
	}
	if len(view.Slots) != constants.HoursPerDay {
		t.Fatalf("got %d slots", len(view.Slots))
	}
	slot := view.Slots[9]
	if len(slot.Tasks) != 2 || slot.Tasks[0].ID != first.ID || slot.Tasks[1].ID != second.ID {
		t.Errorf("slot 9 = %+v", slot.Tasks)
	}
	if slot.Label != "9–10 AM" {
		t.Errorf("slot label = %q", slot.Label)
	}
	if view.HourlyDone.Total != 2 {
		t.Errorf("hourly stats = %+v", view.HourlyDone)
	}
	if len(view.Habits) != 1 || view.Habits[0].ID != h.ID || view.Habits[0].Label() != "Day 3 / 21" {
		t.Errorf("habits = %+v", view.Habits)
	}
	if view.Reflection.Mode != constants.ReflectionJournal || view.Reflection.JournalText != "good day" {
		t.Errorf("reflection = %+v", view.Reflection)
	}
}

func TestDayViewHourlyReflection(t *testing.T) {
	ctx := context.Background()
	p, _, _ := newPlanner()
	d := date(t, "2024-03-05")
	if _, err := p.SaveHourly(ctx, "u1", d, map[int]string{7: "coffee"}); err != nil {
		t.Fatal(err)
	}
	view, err := p.Day(ctx, "u1", d)
	if err != nil {
		t.Fatal(err)
	}
	if view.Reflection.Mode != constants.ReflectionHourly || view.Reflection.Hourly[7] != "coffee" {
		t.Errorf("reflection = %+v", view.Reflection)
	}
	if view.Counter() != "0/0" || view.TaskStats.Percent() != 0 {
		t.Errorf("empty day stats = %+v", view.TaskStats)
	}
}

func TestDayStoreFailure(t *testing.T) {
	p, store, _ := newPlanner()
	store.SetErr(errors.New("db down"))
	if _, err := p.Day(context.Background(), "u1", date(t, "2024-03-05")); err == nil {
		t.Error("Day() hid a store failure")
	}
	if _, err := p.Day(context.Background(), "u1", calendar.Date{}); !errors.Is(err, models.ErrMissingDate) {
		t.Errorf("zero date error = %v", err)
	}
}

func TestGroupSlotsDropsInvalidHours(t *testing.T) {
	slots := GroupSlots([]models.HourlyTask{{ID: "a", Hour: 23}, {ID: "b", Hour: 30}})
	total := 0
	for _, s := range slots {
		total += len(s.Tasks)
	}
	if total != 1 || len(slots[23].Tasks) != 1 {
		t.Errorf("GroupSlots() kept %d tasks", total)
	}
}
