package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/hustle/internal/constants"
)

// Window is an inclusive date range. A window whose From is after To, or that
// has a zero bound, is empty.
type Window struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// Empty reports whether the window contains no days.
func (w Window) Empty() bool {
	return w.From.IsZero() || w.To.IsZero() || w.From.After(w.To)
}

// Contains reports whether d lies within the window, inclusive on both ends.
func (w Window) Contains(d Date) bool {
	if w.Empty() {
		return false
	}
	return !d.Before(w.From) && !d.After(w.To)
}

// Len returns the number of days in the window.
func (w Window) Len() int {
	if w.Empty() {
		return 0
	}
	return w.To.DaysSince(w.From) + 1
}

// Days lists every date in the window in ascending order.
func (w Window) Days() []Date {
	n := w.Len()
	days := make([]Date, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, w.From.AddDays(i))
	}
	return days
}

// Intersect returns the overlap of w and o, which may be empty.
func (w Window) Intersect(o Window) Window {
	if w.Empty() || o.Empty() {
		return Window{}
	}
	from, to := w.From, w.To
	if o.From.After(from) {
		from = o.From
	}
	if o.To.Before(to) {
		to = o.To
	}
	return CustomWindow(from, to)
}

func (w Window) String() string {
	if w.Empty() {
		return "empty"
	}
	return fmt.Sprintf("%s..%s", w.From, w.To)
}

// WeekStart returns the Monday on or before d.
func WeekStart(d Date) Date {
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDays(-offset)
}

// WeekWindow returns the Monday-anchored week containing d.
func WeekWindow(d Date) Window {
	start := WeekStart(d)
	return Window{From: start, To: start.AddDays(6)}
}

// OffsetWeek shifts ref by offset whole weeks.
func OffsetWeek(ref Date, offset int) Date {
	return ref.AddDays(7 * offset)
}

// WeeksBetween returns the signed number of whole weeks from the week containing
// ref to the week containing the ISO date iso.
func WeeksBetween(iso string, ref Date) (int, error) {
	d, err := ParseDate(iso)
	if err != nil {
		return 0, err
	}
	return WeekStart(d).DaysSince(WeekStart(ref)) / 7, nil
}

// WeekLabel names a week offset relative to the current week.
func WeekLabel(offset int) string {
	switch {
	case offset == 0:
		return "This Week"
	case offset == -1:
		return "Last Week"
	case offset < 0:
		return fmt.Sprintf("%d wks ago", -offset)
	default:
		return fmt.Sprintf("%d wks ahead", offset)
	}
}

// HabitWindow returns [start, start+goalDays-1].
func HabitWindow(start Date, goalDays int) Window {
	if start.IsZero() || goalDays < 1 {
		return Window{}
	}
	return Window{From: start, To: start.AddDays(goalDays - 1)}
}

// DayIndex returns the 1-based day number of d within a habit window starting at
// start, clamped to [1, goalDays].
func DayIndex(start, d Date, goalDays int) int {
	idx := d.DaysSince(start) + 1
	if idx < 1 {
		return 1
	}
	if idx > goalDays {
		return goalDays
	}
	return idx
}

// MonthWindow returns the first and last day of a month. monthIndex is 0-based
// (0 = January); out-of-range indexes roll into neighbouring years.
func MonthWindow(year, monthIndex int) Window {
	first := NewDate(year, time.Month(monthIndex+1), 1)
	last := NewDate(first.Year, first.Month+1, 0)
	return Window{From: first, To: last}
}

// MonthWindowOf returns the month containing d.
func MonthWindowOf(d Date) Window {
	return MonthWindow(d.Year, int(d.Month)-1)
}

// NextMonth steps a 0-based month index forward, wrapping the year.
func NextMonth(monthIndex, year int) (int, int) {
	if monthIndex+1 > 11 {
		return 0, year + 1
	}
	return monthIndex + 1, year
}

// PrevMonth steps a 0-based month index back, wrapping the year.
func PrevMonth(monthIndex, year int) (int, int) {
	if monthIndex-1 < 0 {
		return 11, year - 1
	}
	return monthIndex - 1, year
}

// CustomWindow returns [from, to], or the empty window when from is after to.
func CustomWindow(from, to Date) Window {
	w := Window{From: from, To: to}
	if w.Empty() {
		return Window{}
	}
	return w
}

// ParseCustomWindow interprets user-entered range bounds. In weekly mode the
// bounds are YYYY-MM-DD dates; in monthly mode they are YYYY-MM months expanded
// to whole months. Blank or malformed bounds produce the empty window.
func ParseCustomWindow(mode constants.CustomMode, from, to string) Window {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return Window{}
	}

	if mode == constants.CustomModeMonthly {
		start, err := time.Parse(constants.MonthFormat, from)
		if err != nil {
			return Window{}
		}
		end, err := time.Parse(constants.MonthFormat, to)
		if err != nil {
			return Window{}
		}
		return CustomWindow(
			MonthWindow(start.Year(), int(start.Month())-1).From,
			MonthWindow(end.Year(), int(end.Month())-1).To,
		)
	}

	start, err := ParseDate(from)
	if err != nil {
		return Window{}
	}
	end, err := ParseDate(to)
	if err != nil {
		return Window{}
	}
	return CustomWindow(start, end)
}
