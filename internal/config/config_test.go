package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/keyring"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database != constants.DefaultConfigPath || cfg.Gemini.Timeout != constants.DefaultInsightTimeout {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `database: /tmp/h.db
owner: alice
timezone: Europe/Berlin
gemini:
  model: gemini-pro
  timeout: 5s
server:
  listen: ":9000"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database != "/tmp/h.db" || cfg.Owner != "alice" || cfg.Server.Listen != ":9000" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Gemini.Model != "gemini-pro" || cfg.Gemini.Timeout != 5*time.Second {
		t.Errorf("gemini = %+v", cfg.Gemini)
	}
	if cfg.Gemini.Endpoint != constants.DefaultGeminiEndpoint {
		t.Error("unset endpoint lost its default")
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Europe/Berlin" {
		t.Errorf("Location() = %v, %v", loc, err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("Load(empty) failed: %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("owner: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted invalid YAML")
	}
}

func TestOverrideFromEnv(t *testing.T) {
	env := map[string]string{
		constants.EnvDB:           "/env/h.db",
		constants.EnvOwner:        "bob",
		constants.EnvGeminiAPIKey: "k-env",
		constants.EnvRedisAddr:    "localhost:6379",
		constants.EnvJWTSecret:    "  s3cret  ",
	}
	cfg := Default()
	cfg.Owner = "file-owner"
	cfg.OverrideFromEnv(func(k string) string { return env[k] })

	if cfg.Database != "/env/h.db" || cfg.Owner != "bob" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Gemini.APIKey != "k-env" || cfg.Redis.Addr != "localhost:6379" || cfg.Server.JWTSecret != "s3cret" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Server.Listen != constants.DefaultListenAddr {
		t.Error("unset env var cleared a value")
	}
}

func TestResolveSecrets(t *testing.T) {
	store := map[keyring.Item]string{
		keyring.GeminiAPIKey:     "k-ring",
		keyring.ConnectionString: "postgres://u@db/hustle",
	}
	lookup := func(item keyring.Item) (string, error) {
		if v, ok := store[item]; ok {
			return v, nil
		}
		return "", keyring.ErrNotFound
	}

	t.Run("fills unset values", func(t *testing.T) {
		cfg := Default()
		if err := cfg.ResolveSecrets(lookup); err != nil {
			t.Fatal(err)
		}
		if cfg.Gemini.APIKey != "k-ring" || cfg.Database != "postgres://u@db/hustle" {
			t.Errorf("secrets not resolved: %+v", cfg)
		}
	})

	t.Run("explicit values win", func(t *testing.T) {
		cfg := Default()
		cfg.Gemini.APIKey = "k-env"
		cfg.Database = "/explicit.db"
		if err := cfg.ResolveSecrets(lookup); err != nil {
			t.Fatal(err)
		}
		if cfg.Gemini.APIKey != "k-env" || cfg.Database != "/explicit.db" {
			t.Errorf("explicit values overwritten: %+v", cfg)
		}
	})

	t.Run("missing secrets are fine", func(t *testing.T) {
		cfg := Default()
		empty := func(keyring.Item) (string, error) { return "", keyring.ErrNotFound }
		if err := cfg.ResolveSecrets(empty); err != nil {
			t.Errorf("ResolveSecrets() error = %v", err)
		}
	})

	t.Run("unavailable keyring", func(t *testing.T) {
		cfg := Default()
		broken := func(keyring.Item) (string, error) { return "", keyring.ErrKeyringUnavailable }
		if err := cfg.ResolveSecrets(broken); !errors.Is(err, keyring.ErrKeyringUnavailable) {
			t.Errorf("ResolveSecrets() error = %v", err)
		}
	})
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Owner = "carol"
	if err := cfg.Write(path); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Owner != "carol" || got.Gemini.Timeout != cfg.Gemini.Timeout {
		t.Errorf("round trip = %+v", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/x.db"); got != filepath.Join(home, "x.db") {
		t.Errorf("ExpandHome() = %q", got)
	}
	for _, in := range []string{"/abs/x.db", "postgres://u@h/db", "rel.db"} {
		if got := ExpandHome(in); got != in {
			t.Errorf("ExpandHome(%q) = %q", in, got)
		}
	}
}

func TestLocationInvalid(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "Mars/Olympus"
	if _, err := cfg.Location(); err == nil {
		t.Error("Location() accepted an unknown zone")
	}
}
