package models

import (
	"strings"
	"time"

	"github.com/julianstephens/hustle/internal/calendar"
)

// Task is a plain to-do with a due date. Only Completed changes after creation.
type Task struct {
	ID          string        `json:"id"`
	Owner       string        `json:"-"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	DueDate     calendar.Date `json:"due_date"`
	Completed   bool          `json:"completed"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if t.DueDate.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// HourlyTask is a to-do pinned to one hour slot of a date. Several may share a slot.
type HourlyTask struct {
	ID          string        `json:"id"`
	Owner       string        `json:"-"`
	Date        calendar.Date `json:"date"`
	Hour        int           `json:"hour"`
	Description string        `json:"description"`
	Completed   bool          `json:"completed"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (t HourlyTask) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	if !calendar.ValidHour(t.Hour) {
		return ErrInvalidHour
	}
	return nil
}
