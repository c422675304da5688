// Package habits tracks 21-day habits and their per-day done state.
package habits

import (
	"context"
	"fmt"
	"sync"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/lock"
	"github.com/julianstephens/hustle/internal/logger"
	"github.com/julianstephens/hustle/internal/metrics"
	"github.com/julianstephens/hustle/internal/models"
	"github.com/julianstephens/hustle/internal/storage"
)

// LockKey names the lock guarding one (habit, date) pair.
func LockKey(habitID string, d calendar.Date) string {
	return fmt.Sprintf("habit-progress:%s:%s", habitID, d)
}

// IsActive reports whether d falls inside the habit's window.
func IsActive(h models.Habit, d calendar.Date) bool {
	return h.IsActive(d)
}

// DayIndex returns the display day number of d, clamped to [1, GoalDays].
func DayIndex(h models.Habit, d calendar.Date) int {
	return h.DayIndex(d)
}

// Tracker holds one owner's view of habit progress and flips it. The store is
// authoritative: every toggle re-reads the row under the pair's lock and the
// in-memory set changes only after the write succeeded.
type Tracker struct {
	store  storage.Provider
	locker lock.Locker
	owner  string

	mu  sync.RWMutex
	set *ProgressSet
}

func NewTracker(store storage.Provider, locker lock.Locker, owner string) *Tracker {
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	return &Tracker{store: store, locker: locker, owner: owner, set: NewProgressSet()}
}

// Load replaces the in-memory set with the progress rows inside w.
func (t *Tracker) Load(ctx context.Context, w calendar.Window) error {
	rows, err := t.store.ListHabitProgress(ctx, t.owner, w)
	if err != nil {
		return fmt.Errorf("failed to load habit progress: %w", err)
	}
	set := ProgressSetFrom(rows)

	t.mu.Lock()
	t.set = set
	t.mu.Unlock()
	return nil
}

// IsDone reports the last known state of a pair.
func (t *Tracker) IsDone(habitID string, d calendar.Date) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.set.Has(habitID, d)
}

// Toggle flips the pair and returns the new state. Concurrent toggles of the
// same pair, in this process or any other sharing the Locker, apply one after
// the other.
func (t *Tracker) Toggle(ctx context.Context, habitID string, d calendar.Date) (bool, error) {
	unlock, err := t.locker.Lock(ctx, LockKey(habitID, d))
	if err != nil {
		return t.IsDone(habitID, d), fmt.Errorf("failed to lock habit progress: %w", err)
	}
	defer unlock()

	done, err := t.store.HasHabitProgress(ctx, t.owner, habitID, d)
	if err != nil {
		return t.IsDone(habitID, d), fmt.Errorf("failed to read habit progress: %w", err)
	}

	if done {
		if err := t.store.DeleteHabitProgress(ctx, t.owner, habitID, d); err != nil {
			t.sync(habitID, d, true)
			return true, fmt.Errorf("failed to clear habit progress: %w", err)
		}
	} else {
		p := models.HabitProgress{Owner: t.owner, HabitID: habitID, Date: d}
		if err := t.store.AddHabitProgress(ctx, p); err != nil {
			t.sync(habitID, d, false)
			return false, fmt.Errorf("failed to record habit progress: %w", err)
		}
	}

	t.sync(habitID, d, !done)
	metrics.RecordToggle(!done)
	logger.Debug("habit progress toggled", "owner", t.owner, "habit", habitID, "date", d.String(), "done", !done)
	return !done, nil
}

func (t *Tracker) sync(habitID string, d calendar.Date, done bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if done {
		t.set.Add(habitID, d)
	} else {
		t.set.Remove(habitID, d)
	}
}
