package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/hustle/internal/cli"
	"github.com/julianstephens/hustle/internal/keyring"
	"github.com/julianstephens/hustle/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show a stored secret (masked)."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
}

// KeyringSetCmd stores a database connection string or Gemini API key
type KeyringSetCmd struct {
	Item   string `arg:"" enum:"connection-string,gemini-api-key" help:"Secret to store: connection-string or gemini-api-key."`
	Secret string `arg:"" help:"Secret value."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	item, err := keyring.ParseItem(cmd.Item)
	if err != nil {
		return err
	}

	if item == keyring.ConnectionString {
		if !cli.IsPostgres(cmd.Secret) {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
		if err := postgres.ValidateConnString(cmd.Secret); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			ctx.Println(cli.WarningStyle.Render("⚠️  Warning: Connection string contains embedded credentials."))
			ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
		}
	}

	if err := keyring.Set(item, cmd.Secret); err != nil {
		return err
	}
	ctx.Printf("✓ %s stored in OS keyring\n", item)
	return nil
}

type KeyringGetCmd struct {
	Item string `arg:"" enum:"connection-string,gemini-api-key" help:"Secret to show."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	item, err := keyring.ParseItem(cmd.Item)
	if err != nil {
		return err
	}
	secret, err := keyring.Get(item)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use 'hustle keyring set' to store one", item)
		}
		return err
	}

	if item == keyring.ConnectionString {
		ctx.Println(cli.MaskPassword(secret))
	} else {
		ctx.Println(maskKey(secret))
	}
	return nil
}

type KeyringDeleteCmd struct {
	Item string `arg:"" enum:"connection-string,gemini-api-key" help:"Secret to delete."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	item, err := keyring.ParseItem(cmd.Item)
	if err != nil {
		return err
	}
	if err := keyring.Delete(item); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", item)
		}
		return err
	}
	ctx.Printf("✓ %s deleted from OS keyring\n", item)
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.Println("✓ OS keyring is available")
	for _, item := range keyring.Items() {
		if _, err := keyring.Get(item); err == nil {
			ctx.Printf("✓ %s is stored\n", item)
		} else if errors.Is(err, keyring.ErrNotFound) {
			ctx.Printf("ℹ No %s stored\n", item)
		}
	}
	return nil
}

// maskKey keeps the last four characters of an API key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
