package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func withTmpConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{EnvAPIURL, EnvStorage, EnvStoragePath, EnvLogLevel} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return filepath.Join(dir, "blogfront")
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	base := withTmpConfig(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, filepath.Join(base, "blogfront.db"), cfg.StoragePath())
	require.Equal(t, zapcore.WarnLevel, cfg.Level())
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_ = withTmpConfig(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	base := withTmpConfig(t)
	require.NoError(t, os.MkdirAll(base, 0o700))
	doc := `
api:
  base_url: http://localhost:3000
  timeout: 2s
storage:
  backend: file
cache:
  stale_time: 0s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(DefaultPath(), []byte(doc), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
	require.Equal(t, 2*time.Second, cfg.API.Timeout)
	require.Equal(t, "file", cfg.Storage.Backend)
	require.Equal(t, filepath.Join(base, "session.json"), cfg.StoragePath())
	require.Zero(t, cfg.Cache.StaleTime)
	require.Equal(t, zapcore.DebugLevel, cfg.Level())

	t.Setenv(EnvAPIURL, "https://example.com/api")
	t.Setenv(EnvStorage, "memory")
	t.Setenv(EnvStoragePath, "/tmp/x.db")
	t.Setenv(EnvLogLevel, "error")
	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/api", cfg.API.BaseURL)
	require.Equal(t, "memory", cfg.Storage.Backend)
	require.Equal(t, "/tmp/x.db", cfg.StoragePath())
	require.Equal(t, zapcore.ErrorLevel, cfg.Level())
}

func TestLoad_LeavesValidationToCaller(t *testing.T) {
	_ = withTmpConfig(t)
	t.Setenv(EnvStorage, "redis")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Error(t, cfg.Validate())

	cfg.Storage.Backend = "memory"
	require.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	_ = withTmpConfig(t)
	p := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(p, []byte("api: [unclosed"), 0o600))
	_, err := Load(p)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	bad := map[string]func(c *Config){
		"scheme":    func(c *Config) { c.API.BaseURL = "ftp://x" },
		"no host":   func(c *Config) { c.API.BaseURL = "http://" },
		"timeout":   func(c *Config) { c.API.Timeout = 0 },
		"backend":   func(c *Config) { c.Storage.Backend = "redis" },
		"stale":     func(c *Config) { c.Cache.StaleTime = -time.Second },
		"log level": func(c *Config) { c.Log.Level = "loud" },
	}
	for name, mod := range bad {
		c := Default()
		mod(&c)
		require.Error(t, c.Validate(), name)
	}
	require.NoError(t, Default().Validate())
}
