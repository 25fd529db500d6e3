package telemetry_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sensai-ai/hubkit/internal/setup/config"
	"github.com/sensai-ai/hubkit/internal/setup/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerWritesToSessionDir(t *testing.T) {
	t.Parallel()

	logDir := t.TempDir()
	manager := telemetry.NewManager(logDir, &config.Debug{LogLevel: "debug", MaxLogsToKeep: 3}, &config.Telemetry{})

	logger, err := manager.GetLogger()
	require.NoError(t, err)

	logger.Info("hello from test")
	require.NoError(t, logger.Sync())

	sessionDir := manager.GetCurrentSessionDir()
	assert.True(t, strings.HasPrefix(sessionDir, logDir))
	assert.Contains(t, filepath.Base(sessionDir), manager.GetInstanceID()[:8])

	data, err := os.ReadFile(filepath.Join(sessionDir, "hubkit.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestOldSessionsAreRotated(t *testing.T) {
	t.Parallel()

	logDir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"old-1", "old-2", "old-3"} {
		dir := filepath.Join(logDir, name)
		require.NoError(t, os.Mkdir(dir, 0o755))
		modTime := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(dir, modTime, modTime))
	}

	manager := telemetry.NewManager(logDir, &config.Debug{LogLevel: "info", MaxLogsToKeep: 2}, &config.Telemetry{})
	_, err := manager.GetLogger()
	require.NoError(t, err)

	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.Len(t, names, 2)
	assert.Contains(t, names, "old-3")
	assert.NotContains(t, names, "old-1")
}

func TestInvalidLogLevel(t *testing.T) {
	t.Parallel()

	manager := telemetry.NewManager(t.TempDir(), &config.Debug{LogLevel: "loud", MaxLogsToKeep: 1}, &config.Telemetry{})
	_, err := manager.GetLogger()
	require.Error(t, err)
}
