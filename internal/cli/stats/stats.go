package stats

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/hustle/internal/aggregate"
	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/cli"
	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/logger"
)

const barWidth = 20

var errInvalidRange = errors.New("invalid range: --from and --to must be YYYY-MM-DD with from <= to")

type StatsCmd struct {
	Week   StatsWeekCmd   `cmd:"" default:"withargs" help:"Per-day completion for a week (default)."`
	Month  StatsMonthCmd  `cmd:"" help:"Completion overview for a calendar month."`
	Custom StatsCustomCmd `cmd:"" help:"Completion overview for a custom range."`
}

type StatsWeekCmd struct {
	Offset int    `help:"Weeks relative to this week (-1 = last week)." default:"0"`
	Date   string `help:"Show the week containing this date instead of using --offset."`
}

func (c *StatsWeekCmd) Run(ctx *cli.Context) error {
	today := ctx.Today()
	offset := c.Offset
	if c.Date != "" {
		o, err := calendar.WeeksBetween(c.Date, today)
		if err != nil {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", c.Date)
		}
		offset = o
	}
	w := calendar.WeekWindow(calendar.OffsetWeek(today, offset))

	report, err := ctx.Engine().Week(ctx.Ctx(), ctx.Owner(), w)
	if err != nil {
		logger.Warn("showing empty stats", "error", err)
		degraded(ctx)
	}

	ctx.Printf("%s %s\n", cli.HeadingStyle.Render(calendar.WeekLabel(offset)), cli.MutedStyle.Render(w.String()))
	for _, day := range report.Days {
		marker := " "
		if day.Date == today {
			marker = "*"
		}
		ctx.Printf("%s %s %s  %s %s  %d/%d\n", marker, day.Date.Weekday().String()[:3], day.Date,
			cli.Bar(day.Percent(), barWidth), cli.Percent(day.Percent()), day.Done, day.Tasks)
	}
	ctx.Printf("\nWeek: %s %s  %d/%d\n", cli.Bar(report.Totals.Percent(), barWidth),
		cli.Percent(report.Totals.Percent()), report.Totals.Done, report.Totals.Total)
	return nil
}

type StatsMonthCmd struct {
	Year  int `help:"Year (default: current)."`
	Month int `help:"Month 1-12 (default: current)."`
}

func (c *StatsMonthCmd) Run(ctx *cli.Context) error {
	today := ctx.Today()
	year, month := c.Year, c.Month
	if year == 0 {
		year = today.Year
	}
	if month == 0 {
		month = int(today.Month)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month %d (expected 1-12)", month)
	}
	w := calendar.MonthWindow(year, month-1)
	return overview(ctx, fmt.Sprintf("%s %d", time.Month(month), year), w)
}

type StatsCustomCmd struct {
	Mode string `help:"How bounds are read: weekly (dates) or monthly (YYYY-MM)." enum:"weekly,monthly" default:"weekly"`
	From string `help:"Range start." required:""`
	To   string `help:"Range end." required:""`
}

func (c *StatsCustomCmd) Run(ctx *cli.Context) error {
	w := calendar.ParseCustomWindow(constants.CustomMode(c.Mode), c.From, c.To)
	if w.Empty() {
		return errInvalidRange
	}
	return overview(ctx, "Custom: "+c.Mode+" range", w)
}

func overview(ctx *cli.Context, title string, w calendar.Window) error {
	ov, err := ctx.Engine().Overview(ctx.Ctx(), ctx.Owner(), w)
	if err != nil {
		logger.Warn("showing empty stats", "error", err)
		degraded(ctx)
	}

	ctx.Printf("%s %s\n", cli.HeadingStyle.Render(title), cli.MutedStyle.Render(w.String()))
	row(ctx, "Tasks", ov.Tasks)
	row(ctx, "Hourly", ov.Hourly)
	ctx.Printf("  %-24s %d of %d days\n", "Journal", ov.JournalDays, w.Len())
	if len(ov.Habits) > 0 {
		ctx.Println("\nHabits")
		for _, h := range ov.Habits {
			row(ctx, h.Name, h.Stats)
		}
	}
	return nil
}

func row(ctx *cli.Context, label string, s aggregate.Stats) {
	ctx.Printf("  %-24s %s %s  %d/%d\n", label, cli.Bar(s.Percent(), barWidth), cli.Percent(s.Percent()), s.Done, s.Total)
}

func degraded(ctx *cli.Context) {
	ctx.Println(cli.WarningStyle.Render("Could not load records; showing zeros."))
}
