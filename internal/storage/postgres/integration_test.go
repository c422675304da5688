package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/models"
	"github.com/julianstephens/hustle/internal/storage"
)

// Set HUSTLE_TEST_POSTGRES to a password-less connection string to run.
func setupIntegrationStore(t *testing.T) *Store {
	t.Helper()
	connStr := os.Getenv("HUSTLE_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("HUSTLE_TEST_POSTGRES not set")
	}
	store := New(connStr)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestIntegrationHabitLifecycle(t *testing.T) {
	ctx := context.Background()
	store := setupIntegrationStore(t)

	owner := "it-" + t.Name()
	start, _ := calendar.ParseDate("2024-01-01")
	habit := models.Habit{Owner: owner, ID: owner + "-h1", Name: "Stretch", StartDate: start, GoalDays: constants.HabitGoalDays}
	if err := store.AddHabit(ctx, habit); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.DeleteHabit(ctx, owner, habit.ID) })

	for i := 0; i < 2; i++ {
		if err := store.AddHabitProgress(ctx, models.HabitProgress{Owner: owner, HabitID: habit.ID, Date: start}); err != nil {
			t.Fatal(err)
		}
	}
	progress, err := store.ListHabitProgress(ctx, owner, habit.Window())
	if err != nil {
		t.Fatal(err)
	}
	if len(progress) != 1 || progress[0].Date != start {
		t.Fatalf("progress = %+v", progress)
	}

	if err := store.DeleteHabit(ctx, owner, habit.ID); err != nil {
		t.Fatal(err)
	}
	if has, _ := store.HasHabitProgress(ctx, owner, habit.ID, start); has {
		t.Error("progress survived habit delete")
	}
	if _, err := store.GetHabit(ctx, owner, habit.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetHabit after delete = %v", err)
	}
}
