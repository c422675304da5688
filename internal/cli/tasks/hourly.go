package tasks

import (
	"errors"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/cli"
	"github.com/julianstephens/hustle/internal/planner"
)

var errInvalidRange = errors.New("invalid range: --from and --to must be YYYY-MM-DD with from <= to")

type HourlyCmd struct {
	Add  HourlyAddCmd  `cmd:"" help:"Add a task to an hour slot."`
	List HourlyListCmd `cmd:"" help:"List a day's hour slots."`
	Done HourlyDoneCmd `cmd:"" help:"Mark an hourly task complete."`
	Undo HourlyUndoCmd `cmd:"" help:"Mark an hourly task incomplete."`
}

type HourlyAddCmd struct {
	Hour        int    `arg:"" help:"Hour of the day, 0-23."`
	Description string `arg:"" help:"What to do in that hour."`
	Date        string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *HourlyAddCmd) Run(ctx *cli.Context) error {
	d, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}
	t, err := ctx.Planner().AddHourlyTask(ctx.Ctx(), ctx.Owner(), d, c.Hour, c.Description)
	if err != nil {
		return err
	}
	ctx.Printf("Added %q at %s on %s (ID: %s)\n", t.Description, calendar.HourSlots()[t.Hour].Label, d, t.ID)
	return nil
}

type HourlyListCmd struct {
	Date    string `help:"Date in YYYY-MM-DD format (default: today)."`
	All     bool   `help:"Show empty slots too."`
	ShowIDs bool   `help:"Show task IDs." name:"show-ids"`
}

func (c *HourlyListCmd) Run(ctx *cli.Context) error {
	d, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}
	tasks, err := ctx.Store.ListHourlyTasks(ctx.Ctx(), ctx.Owner(), calendar.CustomWindow(d, d))
	if err != nil {
		return err
	}
	if len(tasks) == 0 && !c.All {
		ctx.Printf("No hourly tasks for %s\n", d)
		return nil
	}

	ctx.Println(cli.HeadingStyle.Render("Hourly plan for " + d.String()))
	for _, slot := range planner.GroupSlots(tasks) {
		if len(slot.Tasks) == 0 {
			if c.All {
				ctx.Printf("  %-14s %s\n", slot.Label, cli.MutedStyle.Render("-"))
			}
			continue
		}
		for i, t := range slot.Tasks {
			label := slot.Label
			if i > 0 {
				label = ""
			}
			id := ""
			if c.ShowIDs {
				id = cli.MutedStyle.Render(" (ID: " + t.ID + ")")
			}
			ctx.Printf("  %-14s %s %s%s\n", label, cli.Check(t.Completed), t.Description, id)
		}
	}
	return nil
}

type HourlyDoneCmd struct {
	ID string `arg:"" help:"Hourly task ID."`
}

func (c *HourlyDoneCmd) Run(ctx *cli.Context) error {
	if err := ctx.Planner().SetHourlyTaskCompletion(ctx.Ctx(), ctx.Owner(), c.ID, true); err != nil {
		return err
	}
	ctx.Printf("Completed hourly task %s\n", c.ID)
	return nil
}

type HourlyUndoCmd struct {
	ID string `arg:"" help:"Hourly task ID."`
}

func (c *HourlyUndoCmd) Run(ctx *cli.Context) error {
	if err := ctx.Planner().SetHourlyTaskCompletion(ctx.Ctx(), ctx.Owner(), c.ID, false); err != nil {
		return err
	}
	ctx.Printf("Reopened hourly task %s\n", c.ID)
	return nil
}
