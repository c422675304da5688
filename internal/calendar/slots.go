package calendar

import (
	"fmt"

	"github.com/julianstephens/hustle/internal/constants"
)

// HourSlot is one of the 24 fixed planning slots of a day.
type HourSlot struct {
	Hour  int    `json:"hour"`
	Key   string `json:"key"`   // "HH:00"
	Label string `json:"label"` // "9–10 AM"
}

func to12h(h int) (int, string) {
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	return (h+11)%12 + 1, ampm
}

// HourSlots returns the 24 slots of a day with 12-hour labels.
func HourSlots() []HourSlot {
	slots := make([]HourSlot, 0, constants.HoursPerDay)
	for h := 0; h < constants.HoursPerDay; h++ {
		a, aSuffix := to12h(h)
		b, bSuffix := to12h((h + 1) % constants.HoursPerDay)
		suffix := aSuffix
		if aSuffix != bSuffix {
			suffix = aSuffix + "/" + bSuffix
		}
		slots = append(slots, HourSlot{
			Hour:  h,
			Key:   fmt.Sprintf("%02d:00", h),
			Label: fmt.Sprintf("%d–%d %s", a, b, suffix),
		})
	}
	return slots
}

// ValidHour reports whether h names one of the day's hour slots.
func ValidHour(h int) bool {
	return h >= 0 && h < constants.HoursPerDay
}
