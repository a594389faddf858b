package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/latexstudio/pkg/latexstudio/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "latexstudio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvAddr, config.EnvToken, config.EnvLogLevel} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, "127.0.0.1:1430", cfg.Addr)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.Token)
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "LATEXSTUDIO_ADDR", config.EnvAddr)
	assert.Equal(t, "LATEXSTUDIO_TOKEN", config.EnvToken)
	assert.Equal(t, "LATEXSTUDIO_LOG_LEVEL", config.EnvLogLevel)
	assert.Equal(t, config.DefaultAddr, config.Default().Addr)
	assert.Equal(t, config.DefaultLogLevel, config.Default().LogLevel)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
addr: 127.0.0.1:9911
token: s3cret
allowed_origins:
  - tauri.localhost
log_level: debug
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9911", cfg.Addr)
	assert.Equal(t, "s3cret", cfg.Token)
	assert.Equal(t, []string{"tauri.localhost"}, cfg.AllowedOrigins)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load(writeConfig(t, "token: abc\n"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultAddr, cfg.Addr)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, "abc", cfg.Token)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "addr: 127.0.0.1:1\ntoken: file\n")
	t.Setenv(config.EnvAddr, "127.0.0.1:2")
	t.Setenv(config.EnvToken, "env")
	t.Setenv(config.EnvLogLevel, "trace")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:2", cfg.Addr)
	assert.Equal(t, "env", cfg.Token)
	assert.Equal(t, "trace", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config load failed")
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "addr: [unterminated\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config parse failed")
	})

	t.Run("bad log level", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "log_level: loud\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log_level")
	})

	t.Run("empty origin", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "allowed_origins: [\"\"]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "allowed_origins[0] is empty")
	})
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	assert.NoError(t, cfg.Validate())

	cfg.Addr = " "
	assert.Error(t, cfg.Validate())
}
