package models

import "errors"

var (
	ErrEmptyTitle       = errors.New("title must not be blank")
	ErrEmptyDescription = errors.New("description must not be blank")
	ErrEmptyName        = errors.New("name must not be blank")
	ErrMissingDate      = errors.New("date is required")
	ErrInvalidHour      = errors.New("hour must be between 0 and 23")
	ErrGoalDays         = errors.New("habits run for exactly 21 days")
)

// IsValidation reports whether err is one of the model validation errors.
func IsValidation(err error) bool {
	for _, target := range []error{ErrEmptyTitle, ErrEmptyDescription, ErrEmptyName, ErrMissingDate, ErrInvalidHour, ErrGoalDays} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
