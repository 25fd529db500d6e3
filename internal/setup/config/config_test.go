package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sensai-ai/hubkit/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o600))
}

func TestLoadAppliesDefaultsAndFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
version = 1

[api]
base_url = "http://localhost:8001"

[retry]
max_retries = 2
`)

	cfg, used, err := config.Load([]string{filepath.Join(dir, "missing"), dir})
	require.NoError(t, err)
	assert.Equal(t, dir, used)

	assert.Equal(t, "http://localhost:8001", cfg.API.BaseURL)
	assert.Equal(t, 10000, cfg.API.RequestTimeout)
	assert.Equal(t, uint64(2), cfg.Retry.MaxRetries)
	assert.Equal(t, uint32(5), cfg.CircuitBreaker.MaxRequests)
	assert.Equal(t, "info", cfg.Debug.LogLevel)
	assert.Equal(t, "default", cfg.Session.Profile)
	assert.Equal(t, 4, cfg.Export.Concurrency)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
version = 1

[api]
base_url = "http://from-file"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HUBKIT_SESSION__PROFILE=work\n"), 0o600))

	t.Setenv("HUBKIT_DEBUG__LOG_LEVEL", "debug")
	t.Setenv(config.BackendURLEnv, "https://api.example.com")

	cfg, _, err := config.Load([]string{dir})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Debug.LogLevel)
	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, "work", cfg.Session.Profile)

	// godotenv leaves the variable set for the rest of the process
	t.Cleanup(func() { os.Unsetenv("HUBKIT_SESSION__PROFILE") })
}

func TestLoadErrors(t *testing.T) {
	_, _, err := config.Load([]string{t.TempDir()})
	require.ErrorIs(t, err, config.ErrConfigFileNotFound)

	dir := t.TempDir()
	writeConfig(t, dir, "[api]\nbase_url = \"x\"\n")
	_, _, err = config.Load([]string{dir})
	require.ErrorIs(t, err, config.ErrConfigVersionMissing)

	dir = t.TempDir()
	writeConfig(t, dir, "version = 99\n")
	_, _, err = config.Load([]string{dir})
	require.ErrorIs(t, err, config.ErrConfigVersionMismatch)
}

func TestLoadRejectsMalformedEnvFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "version = 1\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NOT-A-KEY=1\n"), 0o600))

	_, _, err := config.Load([]string{dir})
	require.ErrorIs(t, err, config.ErrInvalidEnvFile)
}
