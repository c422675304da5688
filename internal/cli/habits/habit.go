package habits

import (
	"github.com/julianstephens/hustle/internal/cli"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Start a new 21-day habit."`
	List   HabitListCmd   `cmd:"" help:"List all habits and their windows."`
	Today  HabitTodayCmd  `cmd:"" help:"Show habits active on a date."`
	Toggle HabitToggleCmd `cmd:"" help:"Toggle a habit's progress for a date."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and all of its progress."`
}

type HabitAddCmd struct {
	Name  string `arg:"" help:"Habit name."`
	Start string `help:"Start date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	start, err := ctx.DateOrToday(c.Start)
	if err != nil {
		return err
	}
	h, err := ctx.Habits().Create(ctx.Ctx(), ctx.Owner(), c.Name, start)
	if err != nil {
		return err
	}
	ctx.Printf("Started habit %q: %s (ID: %s)\n", h.Name, h.Window(), h.ID)
	return nil
}

type HabitListCmd struct {
	Date string `help:"Reference date for the active flag (default: today)."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	d, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}
	views, err := ctx.Habits().List(ctx.Ctx(), ctx.Owner(), d)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		ctx.Println("No habits found")
		return nil
	}

	ctx.Println(cli.HeadingStyle.Render("Habits"))
	for _, v := range views {
		state := cli.MutedStyle.Render("inactive")
		if v.Active {
			state = cli.DoneStyle.Render("active")
		}
		ctx.Printf("  %-24s %s  %s  %s\n", v.Name, v.Window, state, cli.MutedStyle.Render("(ID: "+v.ID+")"))
	}
	return nil
}

type HabitTodayCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	d, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}
	ongoing, err := ctx.Habits().Ongoing(ctx.Ctx(), ctx.Owner(), d)
	if err != nil {
		return err
	}
	if len(ongoing) == 0 {
		ctx.Printf("No habits active on %s\n", d)
		return nil
	}

	ctx.Println(cli.HeadingStyle.Render("Habits for " + d.String()))
	for _, o := range ongoing {
		ctx.Printf("  %s %-24s %s\n", cli.Check(o.Done), o.Name, cli.MutedStyle.Render(o.Label()))
	}
	return nil
}

type HabitToggleCmd struct {
	ID   string `arg:"" help:"Habit ID."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	d, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}
	done, err := ctx.Habits().Toggle(ctx.Ctx(), ctx.Owner(), c.ID, d)
	if err != nil {
		return err
	}
	if done {
		ctx.Printf("Marked habit %s done on %s\n", c.ID, d)
	} else {
		ctx.Printf("Cleared habit %s on %s\n", c.ID, d)
	}
	return nil
}

type HabitDeleteCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Habits().Delete(ctx.Ctx(), ctx.Owner(), c.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted habit %s\n", c.ID)
	return nil
}
