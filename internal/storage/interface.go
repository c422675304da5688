package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/models"
)

// ErrNotFound is returned when an update, delete or lookup matches no row for the owner.
var ErrNotFound = errors.New("record not found")

// Provider is the record store. Every call is scoped to one owner; rows of other
// owners are invisible. List calls with an empty window return nothing without
// touching the database.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	// Tasks
	AddTask(ctx context.Context, task models.Task) error
	ListTasks(ctx context.Context, owner string, w calendar.Window) ([]models.Task, error)
	SetTaskCompletion(ctx context.Context, owner, id string, completed bool) error

	// Hourly tasks
	AddHourlyTask(ctx context.Context, task models.HourlyTask) error
	ListHourlyTasks(ctx context.Context, owner string, w calendar.Window) ([]models.HourlyTask, error)
	SetHourlyTaskCompletion(ctx context.Context, owner, id string, completed bool) error

	// Habits
	AddHabit(ctx context.Context, habit models.Habit) error
	GetHabit(ctx context.Context, owner, id string) (models.Habit, error)
	ListHabits(ctx context.Context, owner string) ([]models.Habit, error)
	// DeleteHabit removes the habit and all of its progress rows in one transaction.
	DeleteHabit(ctx context.Context, owner, id string) error

	// Habit progress
	AddHabitProgress(ctx context.Context, p models.HabitProgress) error
	DeleteHabitProgress(ctx context.Context, owner, habitID string, d calendar.Date) error
	HasHabitProgress(ctx context.Context, owner, habitID string, d calendar.Date) (bool, error)
	ListHabitProgress(ctx context.Context, owner string, w calendar.Window) ([]models.HabitProgress, error)

	// Reflections
	UpsertJournal(ctx context.Context, j models.Journal) error
	ListJournals(ctx context.Context, owner string, w calendar.Window) ([]models.Journal, error)
	UpsertHourlyJournal(ctx context.Context, j models.HourlyJournal) error
	ListHourlyJournals(ctx context.Context, owner string, w calendar.Window) ([]models.HourlyJournal, error)

	// Utils
	GetConfigPath() string
}
