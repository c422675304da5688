package days

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/hustle/internal/cli"
)

type ReflectCmd struct {
	Journal ReflectJournalCmd `cmd:"" help:"Save the free-form journal for a date."`
	Hourly  ReflectHourlyCmd  `cmd:"" help:"Save per-hour reflections for a date."`
}

type ReflectJournalCmd struct {
	Content string `arg:"" help:"Journal text. Saving replaces any earlier entry for the date."`
	Date    string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *ReflectJournalCmd) Run(ctx *cli.Context) error {
	d, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}
	if _, err := ctx.Planner().SaveJournal(ctx.Ctx(), ctx.Owner(), d, c.Content); err != nil {
		return err
	}
	ctx.Printf("Saved journal for %s\n", d)
	return nil
}

type ReflectHourlyCmd struct {
	Entries []string `arg:"" help:"Entries as HOUR=TEXT, e.g. 9=\"standup ran long\"."`
	Date    string   `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *ReflectHourlyCmd) Run(ctx *cli.Context) error {
	d, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}
	entries, err := ParseEntries(c.Entries)
	if err != nil {
		return err
	}
	saved, err := ctx.Planner().SaveHourly(ctx.Ctx(), ctx.Owner(), d, entries)
	if err != nil {
		return err
	}
	ctx.Printf("Saved %d hourly reflection(s) for %s\n", saved, d)
	if skipped := len(entries) - saved; skipped > 0 {
		ctx.Println(cli.MutedStyle.Render(fmt.Sprintf("Skipped %d blank entries", skipped)))
	}
	return nil
}

// ParseEntries turns HOUR=TEXT arguments into a map. A repeated hour keeps the last text.
func ParseEntries(args []string) (map[int]string, error) {
	entries := make(map[int]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid entry %q (expected HOUR=TEXT)", arg)
		}
		hour, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("invalid hour in entry %q", arg)
		}
		entries[hour] = v
	}
	return entries, nil
}
