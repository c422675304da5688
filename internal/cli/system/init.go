package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/hustle/internal/cli"
	"github.com/julianstephens/hustle/internal/config"
	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/storage/sqlite"
)

type InitCmd struct {
	Force       bool `help:"Force reset by deleting existing SQLite database before initialization."`
	WriteConfig bool `help:"Write a default config file if none exists." name:"write-config"`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if _, isFile := ctx.Store.(*sqlite.Store); c.Force && isFile {
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(ctx.Ctx()); err != nil {
		return err
	}
	ctx.Printf("Initialized hustle storage at: %s\n", ctx.Store.GetConfigPath())

	if c.WriteConfig {
		path := ctx.ConfigPath
		if path == "" {
			path = constants.DefaultConfigFile
		}
		path = config.ExpandHome(path)
		if _, err := os.Stat(path); err == nil {
			ctx.Printf("Config file already exists: %s\n", path)
			return nil
		}
		cfg := config.Default()
		cfg.Database = ctx.Config.Database
		if cli.IsPostgres(cfg.Database) {
			// Never write a connection string to disk.
			cfg.Database = constants.DefaultConfigPath
		}
		if err := cfg.Write(path); err != nil {
			return err
		}
		ctx.Printf("Wrote default config to: %s\n", path)
	}
	return nil
}
