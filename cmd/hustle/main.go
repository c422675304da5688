package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/cli"
	"github.com/julianstephens/hustle/internal/cli/days"
	"github.com/julianstephens/hustle/internal/cli/habits"
	"github.com/julianstephens/hustle/internal/cli/stats"
	"github.com/julianstephens/hustle/internal/cli/system"
	"github.com/julianstephens/hustle/internal/cli/tasks"
	"github.com/julianstephens/hustle/internal/config"
	"github.com/julianstephens/hustle/internal/constants"
	herrors "github.com/julianstephens/hustle/internal/errors"
	"github.com/julianstephens/hustle/internal/keyring"
	"github.com/julianstephens/hustle/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"~/.config/hustle/config.yaml"`
	DB      string `help:"SQLite file path or PostgreSQL connection string. PostgreSQL connection strings must NOT embed a password; use the OS keyring, HUSTLE_DB_CONNECTION, or .pgpass instead." name:"db"`
	Debug   bool   `help:"Mirror debug logs to stderr."`

	Init     system.InitCmd    `cmd:"" help:"Initialize hustle storage."`
	Migrate  system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Day      days.DayCmd       `cmd:"" help:"Show tasks, hour slots, habits and reflection for a day." default:"withargs"`
	Task     tasks.TaskCmd     `cmd:"" help:"Manage dated tasks."`
	Hourly   tasks.HourlyCmd   `cmd:"" help:"Manage hour-slot tasks."`
	Habit    habits.HabitCmd   `cmd:"" help:"Manage 21-day habits."`
	Reflect  days.ReflectCmd   `cmd:"" help:"Write daily reflections."`
	Stats    stats.StatsCmd    `cmd:"" help:"Show completion statistics."`
	Insights stats.InsightsCmd `cmd:"" help:"Generate AI insights for a period."`
	Serve    system.ServeCmd   `cmd:"" help:"Serve the JSON API."`
	Keyring  system.KeyringCmd `cmd:"" help:"Manage secrets in the OS keyring."`
	Backup   system.BackupCmd  `cmd:"" help:"Manage SQLite database backups."`
}

// Commands that open or create storage themselves, or never touch it.
var skipLoad = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"keyring": true,
	"backup":  true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal productivity planner: tasks, hour slots, habits, reflections and insights"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)
	command := strings.Fields(ctx.Command())[0]

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		herrors.Fatal(err)
	}
	cfg.OverrideFromEnv(os.Getenv)
	if CLI.DB != "" {
		cfg.Database = CLI.DB
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{
		Debug:  cfg.Debug,
		Dir:    filepath.Dir(config.ExpandHome(CLI.Config)),
		Stderr: command == "serve",
		JSON:   command == "serve",
	}); err != nil {
		herrors.Fatal(err)
	}

	if command != "keyring" {
		if err := cfg.ResolveSecrets(keyring.Get); err != nil {
			if !errors.Is(err, keyring.ErrKeyringUnavailable) {
				herrors.Fatal(err)
			}
			logger.Debug("OS keyring unavailable, skipping stored secrets", "error", err)
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		herrors.Fatal(err)
	}

	store, err := cli.NewStore(cfg)
	if err != nil {
		herrors.Fatal(err)
	}

	appCtx := &cli.Context{
		Config:     cfg,
		ConfigPath: CLI.Config,
		Store:      store,
		Clock:      calendar.SystemClock{Location: loc},
		Locker:     cli.NewLocker(cfg),
		Publisher:  cli.NewPublisher(cfg),
		Out:        os.Stdout,
	}
	logger.Debug("Starting command", "command", command, "database", cli.Describe(cfg.Database))

	if !skipLoad[command] {
		if err := store.Load(appCtx.Ctx()); err != nil {
			herrors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if command != "serve" {
		if cerr := appCtx.Close(); cerr != nil {
			logger.Warn("failed to close storage", "error", cerr)
		}
	}
	herrors.Fatal(err)
}
