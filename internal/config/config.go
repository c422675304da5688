// Package config loads hustle settings. Values are layered: built-in defaults,
// then the YAML file, then environment variables, then keyring secrets for
// anything still unset.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/keyring"
)

type GeminiConfig struct {
	APIKey   string        `yaml:"api_key,omitempty"`
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

type AMQPConfig struct {
	URL      string `yaml:"url,omitempty"`
	Exchange string `yaml:"exchange"`
}

type ServerConfig struct {
	Listen    string `yaml:"listen"`
	JWTSecret string `yaml:"jwt_secret,omitempty"`
}

type Config struct {
	// Database is a SQLite file path or a PostgreSQL connection string.
	Database string       `yaml:"database"`
	Owner    string       `yaml:"owner"`
	Timezone string       `yaml:"timezone,omitempty"`
	Debug    bool         `yaml:"debug,omitempty"`
	Gemini   GeminiConfig `yaml:"gemini"`
	Redis    RedisConfig  `yaml:"redis,omitempty"`
	AMQP     AMQPConfig   `yaml:"amqp,omitempty"`
	Server   ServerConfig `yaml:"server"`

	// DatabaseFromKeyring marks a connection string read from the OS keyring,
	// which may carry a password.
	DatabaseFromKeyring bool `yaml:"-"`
}

func Default() *Config {
	return &Config{
		Database: constants.DefaultConfigPath,
		Owner:    constants.DefaultOwner,
		Gemini: GeminiConfig{
			Endpoint: constants.DefaultGeminiEndpoint,
			Model:    constants.DefaultGeminiModel,
			Timeout:  constants.DefaultInsightTimeout,
		},
		AMQP:   AMQPConfig{Exchange: constants.EventsExchange},
		Server: ServerConfig{Listen: constants.DefaultListenAddr},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(ExpandHome(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return cfg, nil
}

// OverrideFromEnv applies environment variables on top of the file values.
func (c *Config) OverrideFromEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Database, constants.EnvDB)
	set(&c.Database, constants.EnvDBConnection)
	set(&c.Owner, constants.EnvOwner)
	set(&c.Timezone, constants.EnvTimezone)
	set(&c.Gemini.APIKey, constants.EnvGeminiAPIKey)
	set(&c.Gemini.Endpoint, constants.EnvGeminiEndpoint)
	set(&c.Gemini.Model, constants.EnvGeminiModel)
	set(&c.Redis.Addr, constants.EnvRedisAddr)
	set(&c.AMQP.URL, constants.EnvAMQPURL)
	set(&c.Server.JWTSecret, constants.EnvJWTSecret)
	set(&c.Server.Listen, constants.EnvListenAddr)
}

// SecretLookup fetches a stored secret, returning keyring.ErrNotFound when absent.
type SecretLookup func(keyring.Item) (string, error)

// ResolveSecrets fills the Gemini key from the keyring when it is still unset,
// and swaps in the stored connection string when the database is left at its
// default. Keyring errors other than ErrNotFound are returned.
func (c *Config) ResolveSecrets(lookup SecretLookup) error {
	if lookup == nil {
		lookup = keyring.Get
	}
	if c.Gemini.APIKey == "" {
		key, err := lookup(keyring.GeminiAPIKey)
		switch {
		case err == nil:
			c.Gemini.APIKey = key
		case !errors.Is(err, keyring.ErrNotFound):
			return fmt.Errorf("failed to read gemini key from keyring: %w", err)
		}
	}
	if c.Database == constants.DefaultConfigPath {
		connStr, err := lookup(keyring.ConnectionString)
		switch {
		case err == nil:
			c.Database = connStr
			c.DatabaseFromKeyring = true
		case !errors.Is(err, keyring.ErrNotFound):
			return fmt.Errorf("failed to read connection string from keyring: %w", err)
		}
	}
	return nil
}

// Location resolves Timezone, defaulting to the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DatabasePath returns Database with a leading ~ expanded. Connection strings
// pass through unchanged.
func (c *Config) DatabasePath() string {
	return ExpandHome(c.Database)
}

// Write saves the config as YAML, creating parent directories. Secrets are
// written only if present.
func (c *Config) Write(path string) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
