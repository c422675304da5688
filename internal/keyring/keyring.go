// Package keyring stores hustle secrets in the OS keyring.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/hustle/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested item
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Item names one stored secret.
type Item string

const (
	ConnectionString Item = constants.DefaultKeyringUser
	GeminiAPIKey     Item = constants.GeminiKeyringUser
)

// Items lists every secret hustle knows how to store.
func Items() []Item {
	return []Item{ConnectionString, GeminiAPIKey}
}

// ParseItem maps a CLI name ("connection-string", "gemini-api-key") to an Item.
func ParseItem(name string) (Item, error) {
	switch name {
	case "connection-string", "db", string(ConnectionString):
		return ConnectionString, nil
	case "gemini", "gemini-key", string(GeminiAPIKey):
		return GeminiAPIKey, nil
	}
	return "", fmt.Errorf("unknown keyring item %q", name)
}

// Get retrieves a secret. Returns ErrNotFound if nothing is stored.
func Get(item Item) (string, error) {
	secret, err := keyring.Get(constants.AppName, string(item))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores a secret, replacing any previous value.
func Set(item Item, secret string) error {
	if secret == "" {
		return fmt.Errorf("%s cannot be empty", item)
	}
	if err := keyring.Set(constants.AppName, string(item), secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", item, err)
	}
	return nil
}

// Delete removes a secret.
func Delete(item Item) error {
	if err := keyring.Delete(constants.AppName, string(item)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", item, err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string.
func GetConnectionString() (string, error) { return Get(ConnectionString) }

// SetConnectionString stores the database connection string.
func SetConnectionString(connStr string) error { return Set(ConnectionString, connStr) }

// DeleteConnectionString removes the database connection string.
func DeleteConnectionString() error { return Delete(ConnectionString) }

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
