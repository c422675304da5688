package models

import (
	"strings"
	"time"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/constants"
)

// Habit is a practice tracked over a fixed window starting at StartDate.
// The window never changes after creation.
type Habit struct {
	ID        string        `json:"id"`
	Owner     string        `json:"-"`
	Name      string        `json:"name"`
	StartDate calendar.Date `json:"start_date"`
	GoalDays  int           `json:"goal_days"`
	CreatedAt time.Time     `json:"created_at"`
}

// Window returns [StartDate, StartDate+GoalDays-1].
func (h Habit) Window() calendar.Window {
	return calendar.HabitWindow(h.StartDate, h.GoalDays)
}

// IsActive reports whether d falls inside the habit window.
func (h Habit) IsActive(d calendar.Date) bool {
	return h.Window().Contains(d)
}

// DayIndex returns the clamped 1-based day number of d in the window.
func (h Habit) DayIndex(d calendar.Date) int {
	return calendar.DayIndex(h.StartDate, d, h.GoalDays)
}

func (h Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return ErrEmptyName
	}
	if h.StartDate.IsZero() {
		return ErrMissingDate
	}
	if h.GoalDays != constants.HabitGoalDays {
		return ErrGoalDays
	}
	return nil
}

// HabitProgress marks a habit done on Date. Presence of the row is the state.
type HabitProgress struct {
	Owner     string        `json:"-"`
	HabitID   string        `json:"habit_id"`
	Date      calendar.Date `json:"date"`
	CreatedAt time.Time     `json:"created_at"`
}
