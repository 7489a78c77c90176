// Package config loads blogfront settings: defaults, then an optional YAML file,
// then BLOGFRONT_* environment overrides. CLI flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/and161185/blogfront/internal/storage"
)

// Environment variables.
const (
	EnvAPIURL      = "BLOGFRONT_API_URL"
	EnvStorage     = "BLOGFRONT_STORAGE"
	EnvStoragePath = "BLOGFRONT_STORAGE_PATH"
	EnvLogLevel    = "BLOGFRONT_LOG_LEVEL"
)

// Config holds all blogfront configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig points at the remote provider.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig selects where the session is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // sqlite, file, memory
	Path    string `yaml:"path"`    // empty: default file in Dir()
}

// CacheConfig tunes the page query cache.
type CacheConfig struct {
	StaleTime time.Duration `yaml:"stale_time"`
}

// LogConfig sets the zap level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Dir is the per-user configuration directory.
func Dir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "blogfront")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "blogfront")
}

// DefaultPath is the config file read when no explicit path is given.
func DefaultPath() string { return filepath.Join(Dir(), "config.yaml") }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API:     APIConfig{BaseURL: "https://jsonplaceholder.typicode.com", Timeout: 15 * time.Second},
		Storage: StorageConfig{Backend: storage.BackendSQLite},
		Cache:   CacheConfig{StaleTime: 30 * time.Second},
		Log:     LogConfig{Level: "warn"},
	}
}

// Load reads path over the defaults and applies env overrides. A missing file
// is not an error when path is the default location. The result is not
// validated: callers apply flag overrides first, then call Validate.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvAPIURL); ok {
		c.API.BaseURL = v
	}
	if v, ok := os.LookupEnv(EnvStorage); ok {
		c.Storage.Backend = v
	}
	if v, ok := os.LookupEnv(EnvStoragePath); ok {
		c.Storage.Path = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = v
	}
}

// Validate rejects unusable values.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api.base_url %q must be an http(s) URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: api.timeout must be positive")
	}
	switch c.Storage.Backend {
	case storage.BackendSQLite, storage.BackendFile, storage.BackendMemory:
	default:
		return fmt.Errorf("config: storage.backend %q (want sqlite, file or memory)", c.Storage.Backend)
	}
	if c.Cache.StaleTime < 0 {
		return fmt.Errorf("config: cache.stale_time must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	return nil
}

// StoragePath resolves the backend file, defaulting into Dir().
func (c Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	switch c.Storage.Backend {
	case storage.BackendFile:
		return filepath.Join(Dir(), "session.json")
	default:
		return filepath.Join(Dir(), "blogfront.db")
	}
}

// Level returns the parsed log level; Validate guarantees it parses.
func (c Config) Level() zapcore.Level {
	l, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.WarnLevel
	}
	return l
}
