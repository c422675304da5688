package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/hustle/internal/aggregate"
	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/config"
	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/events"
	"github.com/julianstephens/hustle/internal/gemini"
	"github.com/julianstephens/hustle/internal/habits"
	"github.com/julianstephens/hustle/internal/insights"
	"github.com/julianstephens/hustle/internal/lock"
	"github.com/julianstephens/hustle/internal/logger"
	"github.com/julianstephens/hustle/internal/planner"
	"github.com/julianstephens/hustle/internal/storage"
)

// Context is handed to every command's Run method.
type Context struct {
	Config     *config.Config
	ConfigPath string
	Store      storage.Provider
	Clock      calendar.Clock
	Locker     lock.Locker
	Publisher  events.Publisher
	// Generator overrides the client built from Config.Gemini.
	Generator insights.Generator
	Out       io.Writer

	habits *habits.Service
}

func (c *Context) Ctx() context.Context { return context.Background() }

func (c *Context) Owner() string {
	if c.Config == nil || c.Config.Owner == "" {
		return constants.DefaultOwner
	}
	return c.Config.Owner
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Println(a ...any) {
	fmt.Fprintln(c.out(), a...)
}

func (c *Context) Printf(format string, a ...any) {
	fmt.Fprintf(c.out(), format, a...)
}

func (c *Context) clock() calendar.Clock {
	if c.Clock == nil {
		return calendar.SystemClock{}
	}
	return c.Clock
}

func (c *Context) Today() calendar.Date {
	return calendar.Today(c.clock())
}

// DateOrToday parses a YYYY-MM-DD flag value; blank means today.
func (c *Context) DateOrToday(s string) (calendar.Date, error) {
	if s == "" {
		return c.Today(), nil
	}
	d, err := calendar.ParseDate(s)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return d, nil
}

func (c *Context) Habits() *habits.Service {
	if c.habits == nil {
		c.habits = habits.NewService(c.Store, c.Locker, c.Publisher)
	}
	return c.habits
}

func (c *Context) Planner() *planner.Planner {
	return planner.New(c.Store, c.Habits(), c.Publisher)
}

func (c *Context) Engine() *aggregate.Engine {
	return aggregate.NewEngine(c.Store)
}

// Insights builds the pipeline. Without an API key every request falls back.
func (c *Context) Insights() *insights.Pipeline {
	if c.Config == nil {
		c.Config = config.Default()
	}
	gen := c.Generator
	timeout := c.Config.Gemini.Timeout
	if gen == nil {
		client, err := gemini.New(gemini.Config{
			APIKey:   c.Config.Gemini.APIKey,
			Endpoint: c.Config.Gemini.Endpoint,
			Model:    c.Config.Gemini.Model,
		})
		if err != nil {
			logger.Warn("Insight generation disabled", "error", err)
		} else {
			gen = client
		}
	}
	return insights.NewPipeline(c.Store, gen, c.clock(), timeout)
}

// Close releases the store and the event publisher.
func (c *Context) Close() error {
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			logger.Warn("failed to close event publisher", "error", err)
		}
	}
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}
