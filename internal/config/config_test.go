package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zalando/go-keyring"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if cfg.DebounceInterval() != DefaultDebounce {
		t.Fatalf("debounce = %v", cfg.DebounceInterval())
	}
	if cfg.Sync.Enabled {
		t.Fatal("sync should be disabled by default")
	}
}

func TestLoadExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `db_path = "/tmp/wp/test.db"
reports_output = "~/reports"

[sync]
enabled = true
user_id = "u-123"
debounce = "5s"

[log]
debug = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/wp/test.db" || cfg.DataDir() != "/tmp/wp" {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
	if !cfg.Sync.Enabled || cfg.Sync.UserID != "u-123" || cfg.DebounceInterval() != 5*time.Second {
		t.Fatalf("sync = %+v", cfg.Sync)
	}
	if !cfg.Log.Debug {
		t.Fatal("debug not read")
	}
	if strings.HasPrefix(cfg.ReportsOutput, "~") {
		t.Fatalf("reports output not expanded: %q", cfg.ReportsOutput)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("db_path = "), 0o644)
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvDBPath, "/tmp/override.db")
	t.Setenv(EnvSyncUser, "env-user")
	t.Setenv(EnvSyncEnabled, "true")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/override.db" || cfg.Sync.UserID != "env-user" || !cfg.Sync.Enabled {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestDebounceFallback(t *testing.T) {
	cfg := &Config{Sync: SyncConfig{Debounce: "soon"}}
	if cfg.DebounceInterval() != DefaultDebounce {
		t.Fatal("invalid debounce should fall back to default")
	}
}

func TestRemoteDSN(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvRemoteDSN, "")

	if _, err := RemoteDSN(); !errors.Is(err, ErrNoRemote) {
		t.Fatalf("expected ErrNoRemote, got %v", err)
	}

	keyring.Set("workpulse", "remote-dsn", "postgres://from-keyring")
	dsn, err := RemoteDSN()
	if err != nil || dsn != "postgres://from-keyring" {
		t.Fatalf("keyring dsn = %q, %v", dsn, err)
	}

	t.Setenv(EnvRemoteDSN, "postgres://from-env")
	dsn, _ = RemoteDSN()
	if dsn != "postgres://from-env" {
		t.Fatalf("env should win, got %q", dsn)
	}
}
