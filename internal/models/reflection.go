package models

import (
	"time"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/constants"
)

// Journal is the free-form reflection for a date. One per owner and date.
type Journal struct {
	ID        string        `json:"id"`
	Owner     string        `json:"-"`
	Date      calendar.Date `json:"date"`
	Content   string        `json:"content"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// HourlyJournal is the reflection for one hour slot. One per owner, date and hour.
type HourlyJournal struct {
	ID        string        `json:"id"`
	Owner     string        `json:"-"`
	Date      calendar.Date `json:"date"`
	Hour      int           `json:"hour"`
	Content   string        `json:"content"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (j HourlyJournal) Validate() error {
	if j.Date.IsZero() {
		return ErrMissingDate
	}
	if !calendar.ValidHour(j.Hour) {
		return ErrInvalidHour
	}
	return nil
}

// Reflection is the read model for a date's reflection in whichever mode is active.
type Reflection struct {
	Date        calendar.Date            `json:"date"`
	Mode        constants.ReflectionMode `json:"mode"`
	JournalText string                   `json:"journal_text"`
	Hourly      map[int]string           `json:"hourly"`
}

// BuildReflection picks the mode for a date: journal when a journal row exists,
// hourly when only hourly rows exist, otherwise an empty journal.
func BuildReflection(date calendar.Date, journal *Journal, hourly []HourlyJournal) Reflection {
	r := Reflection{Date: date, Mode: constants.ReflectionJournal, Hourly: map[int]string{}}
	for _, h := range hourly {
		if h.Date == date {
			r.Hourly[h.Hour] = h.Content
		}
	}
	switch {
	case journal != nil:
		r.JournalText = journal.Content
	case len(r.Hourly) > 0:
		r.Mode = constants.ReflectionHourly
	}
	return r
}
