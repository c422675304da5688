package habits

import (
	"sort"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/models"
)

// ProgressSet records which (habit, date) pairs are done. It is not safe for
// concurrent use; Tracker guards its own copy.
type ProgressSet struct {
	byHabit map[string]map[calendar.Date]struct{}
}

func NewProgressSet() *ProgressSet {
	return &ProgressSet{byHabit: make(map[string]map[calendar.Date]struct{})}
}

// ProgressSetFrom builds a set from stored rows.
func ProgressSetFrom(rows []models.HabitProgress) *ProgressSet {
	s := NewProgressSet()
	for _, p := range rows {
		s.Add(p.HabitID, p.Date)
	}
	return s
}

func (s *ProgressSet) Add(habitID string, d calendar.Date) {
	dates, ok := s.byHabit[habitID]
	if !ok {
		dates = make(map[calendar.Date]struct{})
		s.byHabit[habitID] = dates
	}
	dates[d] = struct{}{}
}

func (s *ProgressSet) Remove(habitID string, d calendar.Date) {
	dates, ok := s.byHabit[habitID]
	if !ok {
		return
	}
	delete(dates, d)
	if len(dates) == 0 {
		delete(s.byHabit, habitID)
	}
}

func (s *ProgressSet) Has(habitID string, d calendar.Date) bool {
	_, ok := s.byHabit[habitID][d]
	return ok
}

// Dates returns the done dates of a habit in ascending order.
func (s *ProgressSet) Dates(habitID string) []calendar.Date {
	out := make([]calendar.Date, 0, len(s.byHabit[habitID]))
	for d := range s.byHabit[habitID] {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Count returns how many done dates of a habit fall inside w.
func (s *ProgressSet) Count(habitID string, w calendar.Window) int {
	n := 0
	for d := range s.byHabit[habitID] {
		if w.Contains(d) {
			n++
		}
	}
	return n
}

// Len is the total number of done pairs.
func (s *ProgressSet) Len() int {
	n := 0
	for _, dates := range s.byHabit {
		n += len(dates)
	}
	return n
}
