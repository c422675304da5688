package tasks

import (
	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/cli"
	"github.com/julianstephens/hustle/internal/constants"
)

type TaskCmd struct {
	Add  TaskAddCmd  `cmd:"" help:"Add a task due on a date."`
	List TaskListCmd `cmd:"" help:"List tasks due on a date or within a range."`
	Done TaskDoneCmd `cmd:"" help:"Mark a task complete."`
	Undo TaskUndoCmd `cmd:"" help:"Mark a task incomplete."`
}

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Description string `help:"Optional description." short:"d"`
	Due         string `help:"Due date in YYYY-MM-DD format (default: today)."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	due, err := ctx.DateOrToday(c.Due)
	if err != nil {
		return err
	}
	task, err := ctx.Planner().AddTask(ctx.Ctx(), ctx.Owner(), c.Title, c.Description, due)
	if err != nil {
		return err
	}
	ctx.Printf("Added task %q due %s (ID: %s)\n", task.Title, task.DueDate, task.ID)
	return nil
}

type TaskListCmd struct {
	Date    string `help:"Date in YYYY-MM-DD format (default: today)."`
	From    string `help:"Range start (YYYY-MM-DD); requires --to."`
	To      string `help:"Range end (YYYY-MM-DD)."`
	ShowIDs bool   `help:"Show task IDs." name:"show-ids"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	var w calendar.Window
	if c.From != "" || c.To != "" {
		w = calendar.ParseCustomWindow(constants.CustomModeWeekly, c.From, c.To)
		if w.Empty() {
			return errInvalidRange
		}
	} else {
		d, err := ctx.DateOrToday(c.Date)
		if err != nil {
			return err
		}
		w = calendar.CustomWindow(d, d)
	}

	tasks, err := ctx.Store.ListTasks(ctx.Ctx(), ctx.Owner(), w)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		ctx.Println("No tasks found")
		return nil
	}

	ctx.Println(cli.HeadingStyle.Render("Tasks " + w.String()))
	for _, t := range tasks {
		id := ""
		if c.ShowIDs {
			id = cli.MutedStyle.Render(" (ID: " + t.ID + ")")
		}
		ctx.Printf("  %s %s  %s%s\n", cli.Check(t.Completed), t.DueDate, t.Title, id)
		if t.Description != "" {
			ctx.Printf("      %s\n", cli.MutedStyle.Render(t.Description))
		}
	}
	return nil
}

type TaskDoneCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	if err := ctx.Planner().SetTaskCompletion(ctx.Ctx(), ctx.Owner(), c.ID, true); err != nil {
		return err
	}
	ctx.Printf("Completed task %s\n", c.ID)
	return nil
}

type TaskUndoCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskUndoCmd) Run(ctx *cli.Context) error {
	if err := ctx.Planner().SetTaskCompletion(ctx.Ctx(), ctx.Owner(), c.ID, false); err != nil {
		return err
	}
	ctx.Printf("Reopened task %s\n", c.ID)
	return nil
}
