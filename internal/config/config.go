package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/sadopc/workpulse/internal/keyring"
)

const (
	EnvDBPath      = "WORKPULSE_DB_PATH"
	EnvSyncUser    = "WORKPULSE_SYNC_USER"
	EnvSyncEnabled = "WORKPULSE_SYNC_ENABLED"
	EnvRemoteDSN   = "WORKPULSE_REMOTE_DSN"
	EnvDebug       = "WORKPULSE_DEBUG"

	DefaultDebounce = 2 * time.Second
)

// ErrNoRemote is returned when sync is enabled but no connection string can
// be found.
var ErrNoRemote = errors.New("no remote connection string configured")

type Config struct {
	DBPath        string     `toml:"db_path"`
	ReportsOutput string     `toml:"reports_output"`
	Sync          SyncConfig `toml:"sync"`
	Log           LogConfig  `toml:"log"`
}

type SyncConfig struct {
	Enabled  bool   `toml:"enabled"`
	UserID   string `toml:"user_id"`
	Debounce string `toml:"debounce"`
}

type LogConfig struct {
	Debug bool `toml:"debug"`
}

// Dir returns the directory holding config, database and logs.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "workpulse"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func Default() *Config {
	dir, _ := Dir()
	home, _ := os.UserHomeDir()
	return &Config{
		DBPath:        filepath.Join(dir, "workpulse.db"),
		ReportsOutput: filepath.Join(home, "Documents", "workpulse"),
		Sync:          SyncConfig{Debounce: DefaultDebounce.String()},
	}
}

// Load reads the config at the default path.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the TOML file at path, writing one with defaults when it is
// missing, then applies .env and WORKPULSE_* environment overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(cfg, path); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
	} else if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	_ = godotenv.Load()
	cfg.applyEnv()

	cfg.DBPath = expandPath(cfg.DBPath)
	cfg.ReportsOutput = expandPath(cfg.ReportsOutput)
	return cfg, nil
}

func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

func (c *Config) applyEnv() {
	if v := getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := getenv(EnvSyncUser); v != "" {
		c.Sync.UserID = v
	}
	if v := getenv(EnvSyncEnabled); v != "" {
		c.Sync.Enabled = v == "true" || v == "1"
	}
	if v := getenv(EnvDebug); v != "" {
		c.Log.Debug = v == "true" || v == "1"
	}
}

// DebounceInterval parses the sync debounce, falling back to the default.
func (c *Config) DebounceInterval() time.Duration {
	d, err := time.ParseDuration(c.Sync.Debounce)
	if err != nil || d <= 0 {
		return DefaultDebounce
	}
	return d
}

// DataDir is where logs and exports default to: the database's directory.
func (c *Config) DataDir() string {
	return filepath.Dir(c.DBPath)
}

// RemoteDSN resolves the remote connection string from the environment,
// then the OS keyring.
func RemoteDSN() (string, error) {
	if v := getenv(EnvRemoteDSN); v != "" {
		return v, nil
	}
	dsn, err := keyring.GetRemoteDSN()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoRemote
	}
	return dsn, err
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
