package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/cli"
	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/keyring"
)

type DoctorCmd struct{}

type check struct {
	name string
	// warn marks a check whose failure is reported but does not fail the run.
	warn  bool
	needs bool
	fn    func(ctx *cli.Context) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	dbReachable := checkDBReachable(ctx) == nil
	checks := []check{
		{name: "Database reachable", fn: checkDBReachable},
		{name: "Schema version", needs: true, fn: checkSchemaVersion},
		{name: "Migrations complete", needs: true, fn: checkMigrationsComplete},
		{name: "Habit integrity", needs: true, fn: checkHabitsIntegrity},
		{name: "Clock/timezone", fn: checkClockTimezone},
		{name: "Generation API key", warn: true, fn: checkGeminiKey},
		{name: "OS keyring", warn: true, fn: checkKeyring},
	}

	failed := 0
	for _, c := range checks {
		if c.needs && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.fn(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			ctx.Printf("%s\n   %v\n", cli.WarningStyle.Render("⚠ "+c.name+": WARNING"), err)
		default:
			ctx.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			failed++
		}
	}

	ctx.Println()
	if failed > 0 {
		return fmt.Errorf("%d diagnostic check(s) failed", failed)
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	return ctx.Store.Load(ctx.Ctx())
}

func checkSchemaVersion(ctx *cli.Context) error {
	runner, err := runnerFor(ctx)
	if err != nil {
		return err
	}
	return runner.Validate(ctx.Ctx())
}

func checkMigrationsComplete(ctx *cli.Context) error {
	runner, err := runnerFor(ctx)
	if err != nil {
		return err
	}
	st, err := runner.Status(ctx.Ctx())
	if err != nil {
		return err
	}
	if !st.UpToDate() {
		return fmt.Errorf("%d pending migration(s), run 'hustle migrate'", len(st.Pending))
	}
	return nil
}

func checkHabitsIntegrity(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(ctx.Ctx(), ctx.Owner())
	if err != nil {
		return err
	}
	for _, h := range habits {
		if h.GoalDays != constants.HabitGoalDays {
			return fmt.Errorf("habit %q has goal of %d days, expected %d", h.Name, h.GoalDays, constants.HabitGoalDays)
		}
		if h.StartDate.IsZero() {
			return fmt.Errorf("habit %q has no start date", h.Name)
		}
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	if ctx.Config != nil {
		if _, err := ctx.Config.Location(); err != nil {
			return err
		}
	}
	now := time.Now()
	if now.Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if today, sys := ctx.Today(), calendar.DateOf(now); abs(today.DaysSince(sys)) > 1 {
		return fmt.Errorf("configured clock reports %s, system date is %s", today, sys)
	}
	return nil
}

func checkGeminiKey(ctx *cli.Context) error {
	if ctx.Config == nil || ctx.Config.Gemini.APIKey == "" {
		return errors.New("no API key configured, insights will show fallback content")
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
