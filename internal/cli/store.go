package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/hustle/internal/config"
	herrors "github.com/julianstephens/hustle/internal/errors"
	"github.com/julianstephens/hustle/internal/events"
	"github.com/julianstephens/hustle/internal/lock"
	"github.com/julianstephens/hustle/internal/logger"
	"github.com/julianstephens/hustle/internal/storage"
	"github.com/julianstephens/hustle/internal/storage/postgres"
	"github.com/julianstephens/hustle/internal/storage/sqlite"
)

// IsPostgres reports whether database names a PostgreSQL server rather than a file.
func IsPostgres(database string) bool {
	return postgres.IsConnString(database) || strings.Contains(database, "host=")
}

// NewStore picks the backend for cfg.Database. Connection strings typed on the
// command line or in the config file must not embed a password.
func NewStore(cfg *config.Config) (storage.Provider, error) {
	if !IsPostgres(cfg.Database) {
		return sqlite.NewStore(cfg.DatabasePath()), nil
	}
	if err := postgres.ValidateConnString(cfg.Database); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) && cfg.DatabaseFromKeyring {
			return postgres.New(cfg.Database), nil
		}
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, herrors.WithHint(err,
				"store it with 'hustle keyring set connection-string', export HUSTLE_DB_CONNECTION, or use .pgpass")
		}
		return nil, err
	}
	return postgres.New(cfg.Database), nil
}

// NewLocker returns a Redis-backed locker when an address is configured.
func NewLocker(cfg *config.Config) lock.Locker {
	if cfg.Redis.Addr == "" {
		return lock.NewKeyedMutex()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return lock.NewRedisLocker(rdb, 0, 0)
}

// NewPublisher connects to RabbitMQ when a URL is configured. A broker that
// cannot be reached disables events rather than failing the command.
func NewPublisher(cfg *config.Config) events.Publisher {
	if cfg.AMQP.URL == "" {
		return events.Nop{}
	}
	p, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		logger.Warn("Event publishing disabled", "error", err)
		return events.Nop{}
	}
	return p
}

// MaskPassword hides the password in a URL or DSN connection string.
func MaskPassword(connStr string) string {
	if postgres.IsConnString(connStr) {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}
	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}
	return connStr
}

// Describe renders a database setting for display without secrets.
func Describe(database string) string {
	if IsPostgres(database) {
		return fmt.Sprintf("postgresql (%s)", MaskPassword(database))
	}
	return database
}
