package stats

import (
	"fmt"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/cli"
	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/insights"
)

type InsightsCmd struct {
	Timeframe string `help:"Period to analyze." enum:"week,month,custom" default:"week"`
	Offset    int    `help:"Week offset for --timeframe=week (-1 = last week)."`
	Year      int    `help:"Year for --timeframe=month (default: current)."`
	Month     int    `help:"Month 1-12 for --timeframe=month (default: current)."`
	Mode      string `help:"Bound format for --timeframe=custom." enum:"weekly,monthly" default:"weekly"`
	From      string `help:"Range start for --timeframe=custom."`
	To        string `help:"Range end for --timeframe=custom."`
}

// Selection maps the flags to an insight selection. Months are 1-based on the
// command line.
func (c *InsightsCmd) Selection(today calendar.Date) insights.Selection {
	sel := insights.Selection{Timeframe: constants.Timeframe(c.Timeframe)}
	switch sel.Timeframe {
	case constants.TimeframeMonth:
		sel.Year, sel.MonthIndex = c.Year, c.Month-1
		if c.Year == 0 {
			sel.Year = today.Year
		}
		if c.Month == 0 {
			sel.MonthIndex = int(today.Month) - 1
		}
	case constants.TimeframeCustom:
		sel.CustomMode = constants.CustomMode(c.Mode)
		sel.CustomFrom, sel.CustomTo = c.From, c.To
	default:
		sel.WeekOffset = c.Offset
	}
	return sel
}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	sel := c.Selection(ctx.Today())
	if err := sel.Validate(); err != nil {
		return err
	}

	ctx.Println(cli.MutedStyle.Render("Thinking..."))
	res := ctx.Insights().Run(ctx.Ctx(), ctx.Owner(), sel)

	ctx.Printf("%s %s\n", cli.HeadingStyle.Render(res.Label), cli.MutedStyle.Render(res.Window.String()))
	ctx.Printf("Completion: %d/%d (%s)\n\n", res.Stats.Done, res.Stats.Total, cli.Percent(res.Stats.Percent()))
	if res.Degraded {
		ctx.Println(cli.WarningStyle.Render("Could not load records for this period."))
	}

	if res.Analysis == nil {
		for _, line := range res.Lines {
			ctx.Printf("  • %s\n", line)
		}
		return nil
	}

	a := res.Analysis
	ctx.Println(cli.HeadingStyle.Render("Summary"))
	ctx.Printf("  %s\n", a.Summary)
	section(ctx, "Findings", a.Findings)
	section(ctx, "Suggestions", a.Suggestions)
	if res.Fallback {
		ctx.Println(cli.MutedStyle.Render(fmt.Sprintf("\n(%s)", a.Source)))
	}
	return nil
}

func section(ctx *cli.Context, title string, items []string) {
	if len(items) == 0 {
		return
	}
	ctx.Printf("\n%s\n", cli.HeadingStyle.Render(title))
	for _, it := range items {
		ctx.Printf("  • %s\n", it)
	}
}
