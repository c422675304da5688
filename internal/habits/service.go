package habits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/events"
	"github.com/julianstephens/hustle/internal/lock"
	"github.com/julianstephens/hustle/internal/logger"
	"github.com/julianstephens/hustle/internal/models"
	"github.com/julianstephens/hustle/internal/storage"
)

// ErrNotActive is returned when toggling a habit on a date outside its window.
var ErrNotActive = errors.New("habit is not active on this date")

// View is a habit with its window state for a reference date.
type View struct {
	models.Habit
	Window calendar.Window `json:"window"`
	Active bool            `json:"active"`
}

// Ongoing is an active habit on a reference date.
type Ongoing struct {
	models.Habit
	DayIndex int  `json:"day_index"`
	Done     bool `json:"done"`
}

// Label renders "Day N / 21".
func (o Ongoing) Label() string {
	return fmt.Sprintf("Day %d / %d", o.DayIndex, o.GoalDays)
}

type Service struct {
	store     storage.Provider
	locker    lock.Locker
	publisher events.Publisher
	now       func() time.Time
}

func NewService(store storage.Provider, locker lock.Locker, publisher events.Publisher) *Service {
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{store: store, locker: locker, publisher: publisher, now: time.Now}
}

// Tracker returns a progress tracker for owner sharing the service's locker.
func (s *Service) Tracker(owner string) *Tracker {
	return NewTracker(s.store, s.locker, owner)
}

// Create starts a new habit window at start.
func (s *Service) Create(ctx context.Context, owner, name string, start calendar.Date) (models.Habit, error) {
	h := models.Habit{
		ID:        uuid.New().String(),
		Owner:     owner,
		Name:      strings.TrimSpace(name),
		StartDate: start,
		GoalDays:  constants.HabitGoalDays,
		CreatedAt: s.now(),
	}
	if err := h.Validate(); err != nil {
		return models.Habit{}, err
	}
	if err := s.store.AddHabit(ctx, h); err != nil {
		return models.Habit{}, err
	}
	logger.Info("habit created", "owner", owner, "habit", h.ID, "window", h.Window().String())
	events.Emit(ctx, s.publisher, events.New(events.HabitCreated, owner, h))
	return h, nil
}

// Delete removes a habit and every progress row it has.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	if err := s.store.DeleteHabit(ctx, owner, id); err != nil {
		return err
	}
	events.Emit(ctx, s.publisher, events.New(events.HabitDeleted, owner, map[string]string{"id": id}))
	return nil
}

// List returns every habit with its window and whether it is active on d.
func (s *Service) List(ctx context.Context, owner string, d calendar.Date) ([]View, error) {
	habits, err := s.store.ListHabits(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(habits))
	for _, h := range habits {
		out = append(out, View{Habit: h, Window: h.Window(), Active: h.IsActive(d)})
	}
	return out, nil
}

// Ongoing returns the habits active on d with their day number and done state.
func (s *Service) Ongoing(ctx context.Context, owner string, d calendar.Date) ([]Ongoing, error) {
	habits, err := s.store.ListHabits(ctx, owner)
	if err != nil {
		return nil, err
	}

	tracker := s.Tracker(owner)
	if err := tracker.Load(ctx, calendar.CustomWindow(d, d)); err != nil {
		return nil, err
	}

	out := []Ongoing{}
	for _, h := range habits {
		if !h.IsActive(d) {
			continue
		}
		out = append(out, Ongoing{Habit: h, DayIndex: h.DayIndex(d), Done: tracker.IsDone(h.ID, d)})
	}
	return out, nil
}

// Toggle flips a habit's done state on d. The habit must be active on d.
func (s *Service) Toggle(ctx context.Context, owner, habitID string, d calendar.Date) (bool, error) {
	h, err := s.store.GetHabit(ctx, owner, habitID)
	if err != nil {
		return false, err
	}
	if !h.IsActive(d) {
		return false, fmt.Errorf("%w: %s runs %s", ErrNotActive, h.Name, h.Window())
	}

	done, err := s.Tracker(owner).Toggle(ctx, habitID, d)
	if err != nil {
		return done, err
	}
	events.Emit(ctx, s.publisher, events.New(events.HabitProgressToggled, owner, map[string]any{
		"habit_id": habitID,
		"date":     d.String(),
		"done":     done,
	}))
	return done, nil
}
