package insights

import (
	"fmt"
	"time"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/constants"
)

// Selection is the user's choice of period. Only the fields of the chosen
// timeframe are read.
type Selection struct {
	Timeframe  constants.Timeframe  `json:"timeframe"`
	WeekOffset int                  `json:"week_offset,omitempty"`
	Year       int                  `json:"year,omitempty"`
	MonthIndex int                  `json:"month_index,omitempty"` // 0 = January
	CustomMode constants.CustomMode `json:"custom_mode,omitempty"`
	CustomFrom string               `json:"custom_from,omitempty"`
	CustomTo   string               `json:"custom_to,omitempty"`
}

// Window resolves the selection against today.
func (s Selection) Window(today calendar.Date) calendar.Window {
	switch s.Timeframe {
	case constants.TimeframeMonth:
		return calendar.MonthWindow(s.Year, s.MonthIndex)
	case constants.TimeframeCustom:
		return calendar.ParseCustomWindow(s.customMode(), s.CustomFrom, s.CustomTo)
	default:
		return calendar.WeekWindow(calendar.OffsetWeek(today, s.WeekOffset))
	}
}

// Structured reports whether the selection asks for a summary object rather than lines.
func (s Selection) Structured() bool {
	return s.Timeframe == constants.TimeframeMonth || s.Timeframe == constants.TimeframeCustom
}

func (s Selection) customMode() constants.CustomMode {
	if s.CustomMode == "" {
		return constants.CustomModeWeekly
	}
	return s.CustomMode
}

func (s Selection) timeframe() string {
	if s.Timeframe == "" {
		return string(constants.TimeframeWeek)
	}
	return string(s.Timeframe)
}

// Label is the human heading for the selection.
func (s Selection) Label() string {
	switch s.Timeframe {
	case constants.TimeframeMonth:
		return fmt.Sprintf("%s %d", time.Month(s.MonthIndex+1), s.Year)
	case constants.TimeframeCustom:
		return fmt.Sprintf("Custom: %s range", s.customMode())
	default:
		return calendar.WeekLabel(s.WeekOffset)
	}
}

// Validate rejects values that cannot describe a period.
func (s Selection) Validate() error {
	switch s.Timeframe {
	case "", constants.TimeframeWeek:
	case constants.TimeframeMonth:
		if s.MonthIndex < 0 || s.MonthIndex > 11 {
			return fmt.Errorf("month index %d out of range [0, 11]", s.MonthIndex)
		}
		if s.Year < 1 {
			return fmt.Errorf("year is required for a monthly selection")
		}
	case constants.TimeframeCustom:
		if m := s.customMode(); m != constants.CustomModeWeekly && m != constants.CustomModeMonthly {
			return fmt.Errorf("unknown custom mode %q", m)
		}
	default:
		return fmt.Errorf("unknown timeframe %q", s.Timeframe)
	}
	return nil
}
