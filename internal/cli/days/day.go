package days

import (
	"fmt"
	"sort"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/cli"
	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/planner"
)

type DayCmd struct {
	Date   string `arg:"" optional:"" help:"Date in YYYY-MM-DD format (default: today)."`
	Hourly bool   `help:"Include empty hour slots."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	d, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}
	view, err := ctx.Planner().Day(ctx.Ctx(), ctx.Owner(), d)
	if err != nil {
		return err
	}
	render(ctx, view, c.Hourly)
	return nil
}

func render(ctx *cli.Context, v planner.DayView, allSlots bool) {
	ctx.Println(cli.HeadingStyle.Render(fmt.Sprintf("%s, %s", v.Date.Weekday(), v.Date)))

	ctx.Printf("\nTasks %s\n", cli.MutedStyle.Render(v.Counter()))
	if len(v.Tasks) == 0 {
		ctx.Println(cli.MutedStyle.Render("  nothing due"))
	}
	for _, t := range v.Tasks {
		ctx.Printf("  %s %s\n", cli.Check(t.Completed), t.Title)
	}

	ctx.Printf("\nHourly %s\n", cli.MutedStyle.Render(fmt.Sprintf("%d/%d", v.HourlyDone.Done, v.HourlyDone.Total)))
	for _, slot := range v.Slots {
		if len(slot.Tasks) == 0 {
			if allSlots {
				ctx.Printf("  %-14s %s\n", slot.Label, cli.MutedStyle.Render("-"))
			}
			continue
		}
		for i, t := range slot.Tasks {
			label := slot.Label
			if i > 0 {
				label = ""
			}
			ctx.Printf("  %-14s %s %s\n", label, cli.Check(t.Completed), t.Description)
		}
	}

	if len(v.Habits) > 0 {
		ctx.Println("\nHabits")
		for _, h := range v.Habits {
			ctx.Printf("  %s %-24s %s\n", cli.Check(h.Done), h.Name, cli.MutedStyle.Render(h.Label()))
		}
	}

	ctx.Println("\nReflection")
	switch v.Reflection.Mode {
	case constants.ReflectionHourly:
		hours := make([]int, 0, len(v.Reflection.Hourly))
		for h := range v.Reflection.Hourly {
			hours = append(hours, h)
		}
		sort.Ints(hours)
		for _, h := range hours {
			ctx.Printf("  %-14s %s\n", calendar.HourSlots()[h].Label, v.Reflection.Hourly[h])
		}
	default:
		if v.Reflection.JournalText == "" {
			ctx.Println(cli.MutedStyle.Render("  no entry yet"))
		} else {
			ctx.Printf("  %s\n", v.Reflection.JournalText)
		}
	}
}
