package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/hustle/internal/cli"
	"github.com/julianstephens/hustle/internal/migration"
)

type migrator interface {
	Migrator(ctx context.Context) (*migration.Runner, error)
}

func runnerFor(ctx *cli.Context) (*migration.Runner, error) {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil, fmt.Errorf("storage backend %s does not support migrations", ctx.Store.GetConfigPath())
	}
	return m.Migrator(ctx.Ctx())
}

type MigrateCmd struct {
	Status bool `help:"Only report the schema version and pending migrations."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	defer ctx.Store.Close()

	runner, err := runnerFor(ctx)
	if err != nil {
		return err
	}

	if c.Status {
		st, err := runner.Status(ctx.Ctx())
		if err != nil {
			return err
		}
		ctx.Printf("Schema version: %d (latest %d)\n", st.Current, st.Latest)
		for _, m := range st.Pending {
			ctx.Printf("  pending: %03d_%s\n", m.Version, m.Name)
		}
		return nil
	}

	count, err := runner.Apply(ctx.Ctx(), func(msg string) { ctx.Println(msg) })
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
