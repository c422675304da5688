// Package aggregate rolls task, hourly task and habit records up into completion
// statistics for a window. Everything here is recomputed per request.
package aggregate

import (
	"math"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/models"
)

// Stats is a completion count. Rate is done/max(1,total), so an empty set reports 0.
type Stats struct {
	Total int     `json:"total"`
	Done  int     `json:"done"`
	Rate  float64 `json:"rate"`
}

func NewStats(total, done int) Stats {
	return Stats{Total: total, Done: done, Rate: float64(done) / float64(max(1, total))}
}

// Percent returns the rate as a rounded whole percentage.
func (s Stats) Percent() int {
	return int(math.Round(s.Rate * 100))
}

// Add merges two counts.
func (s Stats) Add(o Stats) Stats {
	return NewStats(s.Total+o.Total, s.Done+o.Done)
}

// DayBucket counts the plain tasks due on one date.
type DayBucket struct {
	Date  calendar.Date `json:"date"`
	Tasks int           `json:"tasks"`
	Done  int           `json:"done"`
}

// Stats converts the bucket to a Stats value.
func (b DayBucket) Stats() Stats {
	return NewStats(b.Tasks, b.Done)
}

// Percent is 0 for a day with no tasks.
func (b DayBucket) Percent() int {
	return b.Stats().Percent()
}

// DayBuckets holds one bucket per day of a window, in date order. Dates outside
// the window are ignored.
type DayBuckets struct {
	window calendar.Window
	order  []calendar.Date
	byDate map[calendar.Date]*DayBucket
}

func NewDayBuckets(w calendar.Window) *DayBuckets {
	days := w.Days()
	b := &DayBuckets{
		window: w,
		order:  days,
		byDate: make(map[calendar.Date]*DayBucket, len(days)),
	}
	for _, d := range days {
		b.byDate[d] = &DayBucket{Date: d}
	}
	return b
}

// Add counts one task on d. It reports false when d lies outside the window.
func (b *DayBuckets) Add(d calendar.Date, completed bool) bool {
	bucket, ok := b.byDate[d]
	if !ok {
		return false
	}
	bucket.Tasks++
	if completed {
		bucket.Done++
	}
	return true
}

// Get returns the bucket for d.
func (b *DayBuckets) Get(d calendar.Date) (DayBucket, bool) {
	bucket, ok := b.byDate[d]
	if !ok {
		return DayBucket{}, false
	}
	return *bucket, true
}

// All returns a copy of every bucket in date order.
func (b *DayBuckets) All() []DayBucket {
	out := make([]DayBucket, 0, len(b.order))
	for _, d := range b.order {
		out = append(out, *b.byDate[d])
	}
	return out
}

// Totals rolls every bucket up into one Stats value.
func (b *DayBuckets) Totals() Stats {
	var total, done int
	for _, bucket := range b.byDate {
		total += bucket.Tasks
		done += bucket.Done
	}
	return NewStats(total, done)
}

func (b *DayBuckets) Window() calendar.Window { return b.window }

// BucketTasks distributes tasks over the days of w by due date.
func BucketTasks(w calendar.Window, tasks []models.Task) *DayBuckets {
	b := NewDayBuckets(w)
	for _, t := range tasks {
		b.Add(t.DueDate, t.Completed)
	}
	return b
}

// Summarize counts the tasks due within w.
func Summarize(w calendar.Window, tasks []models.Task) Stats {
	var total, done int
	for _, t := range tasks {
		if !w.Contains(t.DueDate) {
			continue
		}
		total++
		if t.Completed {
			done++
		}
	}
	return NewStats(total, done)
}

// SummarizeHourly counts the hourly tasks dated within w.
func SummarizeHourly(w calendar.Window, tasks []models.HourlyTask) Stats {
	var total, done int
	for _, t := range tasks {
		if !w.Contains(t.Date) {
			continue
		}
		total++
		if t.Completed {
			done++
		}
	}
	return NewStats(total, done)
}

// HabitStats is a habit's completion over the part of a window where it was active.
type HabitStats struct {
	HabitID string          `json:"habit_id"`
	Name    string          `json:"name"`
	Active  calendar.Window `json:"active"`
	Stats   Stats           `json:"stats"`
}

// HabitCompletion counts the distinct done days of h that fall inside both w and
// the habit window, against the number of days in that overlap.
func HabitCompletion(h models.Habit, w calendar.Window, progress []models.HabitProgress) HabitStats {
	active := w.Intersect(h.Window())
	done := make(map[calendar.Date]struct{})
	for _, p := range progress {
		if p.HabitID == h.ID && active.Contains(p.Date) {
			done[p.Date] = struct{}{}
		}
	}
	return HabitStats{
		HabitID: h.ID,
		Name:    h.Name,
		Active:  active,
		Stats:   NewStats(active.Len(), len(done)),
	}
}
