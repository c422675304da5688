package habits

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/events"
	"github.com/julianstephens/hustle/internal/lock"
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

func TestProgressSet(t *testing.T) {
	s := NewProgressSet()
	d1, d2 := date(t, "2024-01-02"), date(t, "2024-01-01")
	s.Add("h1", d1)
	s.Add("h1", d2)
	s.Add("h1", d2)
	s.Add("h2", d1)

	if !s.Has("h1", d1) || s.Has("h2", d2) {
		t.Error("Has() wrong")
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	dates := s.Dates("h1")
	if len(dates) != 2 || dates[0] != d2 {
		t.Errorf("Dates() = %v", dates)
	}
	if n := s.Count("h1", calendar.CustomWindow(d1, d1)); n != 1 {
		t.Errorf("Count() = %d", n)
	}

	s.Remove("h2", d1)
	s.Remove("missing", d1)
	if s.Has("h2", d1) || s.Len() != 2 {
		t.Error("Remove() did not remove")
	}
}

func TestIsActiveAndDayIndex(t *testing.T) {
	h := models.Habit{ID: "h1", StartDate: date(t, "2024-01-01"), GoalDays: constants.HabitGoalDays}
	start := h.StartDate

	for offset := -10; offset <= 40; offset++ {
		d := start.AddDays(offset)
		wantActive := offset >= 0 && offset <= 20
		if IsActive(h, d) != wantActive {
			t.Fatalf("IsActive(offset %d) = %v, want %v", offset, !wantActive, wantActive)
		}
		idx := DayIndex(h, d)
		if idx < 1 || idx > 21 {
			t.Fatalf("DayIndex(offset %d) = %d out of [1,21]", offset, idx)
		}
	}
	if DayIndex(h, date(t, "2024-01-10")) != 10 {
		t.Error("DayIndex(2024-01-10) != 10")
	}
	if IsActive(h, date(t, "2024-02-01")) {
		t.Error("habit should be inactive on 2024-02-01")
	}
}

func TestToggleIsSelfInverse(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New()
	tracker := NewTracker(store, lock.NewKeyedMutex(), "u1")
	d := date(t, "2024-01-05")

	done, err := tracker.Toggle(ctx, "h1", d)
	if err != nil || !done {
		t.Fatalf("first Toggle() = %v, %v", done, err)
	}
	if !tracker.IsDone("h1", d) {
		t.Error("set not updated after insert")
	}
	if has, _ := store.HasHabitProgress(ctx, "u1", "h1", d); !has {
		t.Error("row not written")
	}

	done, err = tracker.Toggle(ctx, "h1", d)
	if err != nil || done {
		t.Fatalf("second Toggle() = %v, %v", done, err)
	}
	if tracker.IsDone("h1", d) {
		t.Error("set not updated after delete")
	}
	if has, _ := store.HasHabitProgress(ctx, "u1", "h1", d); has {
		t.Error("row not deleted")
	}
}

func TestToggleFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New()
	tracker := NewTracker(store, nil, "u1")
	d := date(t, "2024-01-05")

	boom := errors.New("write failed")
	store.SetErr(boom)
	done, err := tracker.Toggle(ctx, "h1", d)
	if !errors.Is(err, boom) {
		t.Fatalf("Toggle() error = %v", err)
	}
	if done || tracker.IsDone("h1", d) {
		t.Error("failed toggle changed the in-memory state")
	}

	store.SetErr(nil)
	if has, _ := store.HasHabitProgress(ctx, "u1", "h1", d); has {
		t.Error("failed toggle wrote a row")
	}
}

func TestConcurrentTogglesSerialize(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New()
	locker := lock.NewKeyedMutex()
	d := date(t, "2024-01-05")

	// Two trackers model two request handlers with separate in-memory views.
	const n = 50
	trackers := []*Tracker{NewTracker(store, locker, "u1"), NewTracker(store, locker, "u1")}
	var wg sync.WaitGroup
	results := make(chan bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(tr *Tracker) {
			defer wg.Done()
			done, err := tr.Toggle(ctx, "h1", d)
			if err != nil {
				t.Error(err)
				return
			}
			results <- done
		}(trackers[i%2])
	}
	wg.Wait()
	close(results)

	var on, off int
	for done := range results {
		if done {
			on++
		} else {
			off++
		}
	}
	// Each toggle is one transition: starting from not-done, transitions alternate.
	if on != n/2 || off != n/2 {
		t.Errorf("got %d on / %d off transitions, want %d each", on, off, n/2)
	}
	if has, _ := store.HasHabitProgress(ctx, "u1", "h1", d); has {
		t.Error("an even number of toggles should end not-done")
	}
}

func TestTrackerLoad(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New()
	d := date(t, "2024-01-05")
	_ = store.AddHabitProgress(ctx, models.HabitProgress{Owner: "u1", HabitID: "h1", Date: d})
	_ = store.AddHabitProgress(ctx, models.HabitProgress{Owner: "u2", HabitID: "h9", Date: d})

	tracker := NewTracker(store, nil, "u1")
	if err := tracker.Load(ctx, calendar.WeekWindow(d)); err != nil {
		t.Fatal(err)
	}
	if !tracker.IsDone("h1", d) || tracker.IsDone("h9", d) {
		t.Error("Load() did not scope to owner")
	}

	store.SetErr(errors.New("down"))
	if err := tracker.Load(ctx, calendar.WeekWindow(d)); err == nil {
		t.Fatal("expected Load() to fail")
	}
	if !tracker.IsDone("h1", d) {
		t.Error("failed Load() discarded the previous state")
	}
}

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New()
	rec := &events.Recorder{}
	svc := NewService(store, nil, rec)
	start := date(t, "2024-01-01")

	h, err := svc.Create(ctx, "u1", "  Meditate ", start)
	if err != nil {
		t.Fatal(err)
	}
	if h.Name != "Meditate" || h.GoalDays != constants.HabitGoalDays {
		t.Errorf("Create() = %+v", h)
	}
	if _, err := svc.Create(ctx, "u1", " ", start); !errors.Is(err, models.ErrEmptyName) {
		t.Errorf("blank name error = %v", err)
	}

	done, err := svc.Toggle(ctx, "u1", h.ID, date(t, "2024-01-10"))
	if err != nil || !done {
		t.Fatalf("Toggle() = %v, %v", done, err)
	}
	if _, err := svc.Toggle(ctx, "u1", h.ID, date(t, "2024-02-01")); !errors.Is(err, ErrNotActive) {
		t.Errorf("out-of-window Toggle() error = %v", err)
	}
	if _, err := svc.Toggle(ctx, "u2", h.ID, date(t, "2024-01-10")); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cross-owner Toggle() error = %v", err)
	}

	ongoing, err := svc.Ongoing(ctx, "u1", date(t, "2024-01-10"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ongoing) != 1 || ongoing[0].DayIndex != 10 || !ongoing[0].Done {
		t.Fatalf("Ongoing() = %+v", ongoing)
	}
	if ongoing[0].Label() != "Day 10 / 21" {
		t.Errorf("Label() = %q", ongoing[0].Label())
	}

	views, err := svc.List(ctx, "u1", date(t, "2024-02-01"))
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 || views[0].Active || views[0].Window.To.String() != "2024-01-21" {
		t.Errorf("List() = %+v", views)
	}

	if err := svc.Delete(ctx, "u1", h.ID); err != nil {
		t.Fatal(err)
	}
	if rows, _ := store.ListHabitProgress(ctx, "u1", h.Window()); len(rows) != 0 {
		t.Errorf("progress rows survived delete: %d", len(rows))
	}
	if err := svc.Delete(ctx, "u1", h.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second Delete() error = %v", err)
	}

	want := []string{events.HabitCreated, events.HabitProgressToggled, events.HabitDeleted}
	got := rec.Types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
}
