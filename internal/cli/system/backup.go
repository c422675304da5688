package system

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/julianstephens/hustle/internal/backup"
	"github.com/julianstephens/hustle/internal/cli"
	"github.com/julianstephens/hustle/internal/storage/sqlite"
)

var errBackupPostgres = errors.New("backups are only supported for SQLite; use pg_dump for PostgreSQL")

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Snapshot the SQLite database." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available snapshots."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the database with a snapshot."`
}

func manager(ctx *cli.Context) (*backup.Manager, error) {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil, errBackupPostgres
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	m, err := manager(ctx)
	if err != nil {
		return err
	}
	path, err := m.Create(ctx.Ctx())
	if err != nil {
		return err
	}
	ctx.Printf("✓ Backup written to %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	m, err := manager(ctx)
	if err != nil {
		return err
	}
	list, err := m.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		ctx.Printf("No backups in %s\n", m.Dir())
		return nil
	}
	for _, b := range list {
		ctx.Printf("  %s  %s  %s\n", b.Timestamp.Format("2006-01-02 15:04:05"), cli.MutedStyle.Render(humanSize(b.Size)), filepath.Base(b.Path))
	}
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Snapshot file name (from 'backup list') or path."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	m, err := manager(ctx)
	if err != nil {
		return err
	}
	path := c.File
	if filepath.Base(path) == path {
		path = filepath.Join(m.Dir(), path)
	}
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database before restore: %w", err)
	}
	safety, err := m.Restore(ctx.Ctx(), path)
	if err != nil {
		return err
	}
	if safety != "" {
		ctx.Printf("Saved the previous database as %s\n", filepath.Base(safety))
	}
	ctx.Printf("✓ Restored database from %s\n", filepath.Base(path))
	return nil
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
