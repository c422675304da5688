// Package storagetest provides an in-memory storage.Provider for tests.
package storagetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/models"
	"github.com/julianstephens/hustle/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

type progressKey struct {
	habitID string
	date    calendar.Date
}

// Store keeps every record in memory. Setting Err makes every call fail with it.
type Store struct {
	mu sync.Mutex

	Err error
	// Calls counts list and lookup calls, keyed by method name.
	Calls map[string]int

	tasks          []models.Task
	hourly         []models.HourlyTask
	habits         []models.Habit
	progress       map[progressKey]models.HabitProgress
	journals       []models.Journal
	hourlyJournals []models.HourlyJournal
}

func New() *Store {
	return &Store{
		Calls:    map[string]int{},
		progress: map[progressKey]models.HabitProgress{},
	}
}

func (s *Store) call(name string) error {
	s.Calls[name]++
	return s.Err
}

// CallCount returns how many times method was invoked.
func (s *Store) CallCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls[method]
}

// SetErr swaps the injected failure.
func (s *Store) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}

func (s *Store) Init(context.Context) error { return nil }
func (s *Store) Load(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }
func (s *Store) GetConfigPath() string      { return ":memory:" }

func (s *Store) AddTask(_ context.Context, t models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("AddTask"); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	s.tasks = append(s.tasks, t)
	return nil
}

func (s *Store) ListTasks(_ context.Context, owner string, w calendar.Window) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("ListTasks"); err != nil {
		return nil, err
	}
	out := []models.Task{}
	for _, t := range s.tasks {
		if t.Owner == owner && w.Contains(t.DueDate) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (s *Store) SetTaskCompletion(_ context.Context, owner, id string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("SetTaskCompletion"); err != nil {
		return err
	}
	for i := range s.tasks {
		if s.tasks[i].Owner == owner && s.tasks[i].ID == id {
			s.tasks[i].Completed = completed
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) AddHourlyTask(_ context.Context, t models.HourlyTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("AddHourlyTask"); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	s.hourly = append(s.hourly, t)
	return nil
}

func (s *Store) ListHourlyTasks(_ context.Context, owner string, w calendar.Window) ([]models.HourlyTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("ListHourlyTasks"); err != nil {
		return nil, err
	}
	out := []models.HourlyTask{}
	for _, t := range s.hourly {
		if t.Owner == owner && w.Contains(t.Date) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Hour < out[j].Hour
	})
	return out, nil
}

func (s *Store) SetHourlyTaskCompletion(_ context.Context, owner, id string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("SetHourlyTaskCompletion"); err != nil {
		return err
	}
	for i := range s.hourly {
		if s.hourly[i].Owner == owner && s.hourly[i].ID == id {
			s.hourly[i].Completed = completed
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) AddHabit(_ context.Context, h models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("AddHabit"); err != nil {
		return err
	}
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	s.habits = append(s.habits, h)
	return nil
}

func (s *Store) GetHabit(_ context.Context, owner, id string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("GetHabit"); err != nil {
		return models.Habit{}, err
	}
	for _, h := range s.habits {
		if h.Owner == owner && h.ID == id {
			return h, nil
		}
	}
	return models.Habit{}, storage.ErrNotFound
}

func (s *Store) ListHabits(_ context.Context, owner string) ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("ListHabits"); err != nil {
		return nil, err
	}
	out := []models.Habit{}
	for _, h := range s.habits {
		if h.Owner == owner {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *Store) DeleteHabit(_ context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("DeleteHabit"); err != nil {
		return err
	}
	for i, h := range s.habits {
		if h.Owner == owner && h.ID == id {
			s.habits = append(s.habits[:i], s.habits[i+1:]...)
			for k := range s.progress {
				if k.habitID == id {
					delete(s.progress, k)
				}
			}
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) AddHabitProgress(_ context.Context, p models.HabitProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("AddHabitProgress"); err != nil {
		return err
	}
	k := progressKey{p.HabitID, p.Date}
	if _, ok := s.progress[k]; !ok {
		s.progress[k] = p
	}
	return nil
}

func (s *Store) DeleteHabitProgress(_ context.Context, owner, habitID string, d calendar.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("DeleteHabitProgress"); err != nil {
		return err
	}
	k := progressKey{habitID, d}
	if p, ok := s.progress[k]; !ok || p.Owner != owner {
		return storage.ErrNotFound
	}
	delete(s.progress, k)
	return nil
}

func (s *Store) HasHabitProgress(_ context.Context, owner, habitID string, d calendar.Date) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("HasHabitProgress"); err != nil {
		return false, err
	}
	p, ok := s.progress[progressKey{habitID, d}]
	return ok && p.Owner == owner, nil
}

func (s *Store) ListHabitProgress(_ context.Context, owner string, w calendar.Window) ([]models.HabitProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("ListHabitProgress"); err != nil {
		return nil, err
	}
	out := []models.HabitProgress{}
	for _, p := range s.progress {
		if p.Owner == owner && w.Contains(p.Date) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].HabitID < out[j].HabitID
	})
	return out, nil
}

func (s *Store) UpsertJournal(_ context.Context, j models.Journal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("UpsertJournal"); err != nil {
		return err
	}
	for i := range s.journals {
		if s.journals[i].Owner == j.Owner && s.journals[i].Date == j.Date {
			s.journals[i].Content = j.Content
			s.journals[i].UpdatedAt = time.Now()
			return nil
		}
	}
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	j.UpdatedAt = time.Now()
	s.journals = append(s.journals, j)
	return nil
}

func (s *Store) ListJournals(_ context.Context, owner string, w calendar.Window) ([]models.Journal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("ListJournals"); err != nil {
		return nil, err
	}
	out := []models.Journal{}
	for _, j := range s.journals {
		if j.Owner == owner && w.Contains(j.Date) {
			out = append(out, j)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Date.Before(out[b].Date) })
	return out, nil
}

func (s *Store) UpsertHourlyJournal(_ context.Context, j models.HourlyJournal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("UpsertHourlyJournal"); err != nil {
		return err
	}
	for i := range s.hourlyJournals {
		h := s.hourlyJournals[i]
		if h.Owner == j.Owner && h.Date == j.Date && h.Hour == j.Hour {
			s.hourlyJournals[i].Content = j.Content
			s.hourlyJournals[i].UpdatedAt = time.Now()
			return nil
		}
	}
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	j.UpdatedAt = time.Now()
	s.hourlyJournals = append(s.hourlyJournals, j)
	return nil
}

func (s *Store) ListHourlyJournals(_ context.Context, owner string, w calendar.Window) ([]models.HourlyJournal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("ListHourlyJournals"); err != nil {
		return nil, err
	}
	out := []models.HourlyJournal{}
	for _, j := range s.hourlyJournals {
		if j.Owner == owner && w.Contains(j.Date) {
			out = append(out, j)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Date != out[b].Date {
			return out[a].Date.Before(out[b].Date)
		}
		return out[a].Hour < out[b].Hour
	})
	return out, nil
}
