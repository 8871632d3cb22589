package logging

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDir points the package at a temp log directory and resets
// the run-scoped global state.
func setupTestDir(t *testing.T) {
	t.Helper()

	tempDir := t.TempDir()

	origLogDir := logDir
	origInitErr := initErr
	origInitOnce := initOnce
	origRunID := runID
	origRunIDOnce := runIDOnce

	logDir = tempDir
	initErr = nil
	initOnce = sync.Once{}
	initOnce.Do(func() {}) // directory already exists
	runID = ""
	runIDOnce = sync.Once{}

	t.Cleanup(func() {
		logDir = origLogDir
		initErr = origInitErr
		initOnce = origInitOnce
		runID = origRunID
		runIDOnce = origRunIDOnce
	})
}

func TestNewLogger(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("watch")
	require.NoError(t, err)
	defer logger.Close()

	assert.NotEmpty(t, logger.RunID())
	assert.Contains(t, logger.LogPath(), "-nightjar.log")
}

func TestLoggerWritesLevels(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("session")
	require.NoError(t, err)

	logger.Debugf("pending %s", "cleared")
	logger.Infof("sweep removed %d", 3)
	logger.Warnf("mailer slow")
	logger.Errorf("delivery failed")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "[session] [DEBUG] pending cleared")
	assert.Contains(t, content, "[session] [INFO] sweep removed 3")
	assert.Contains(t, content, "[session] [WARN] mailer slow")
	assert.Contains(t, content, "[session] [ERROR] delivery failed")
}

func TestLoggersShareRunID(t *testing.T) {
	setupTestDir(t)

	a, err := NewLogger("watch")
	require.NoError(t, err)
	defer a.Close()

	b, err := NewLogger("session")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, a.RunID(), b.RunID())
	assert.Equal(t, a.LogPath(), b.LogPath())
}

func TestCloseIsIdempotent(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("cli")
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())
}

func TestLogPathUsesRunID(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("cli")
	require.NoError(t, err)
	defer logger.Close()

	assert.True(t, strings.Contains(logger.LogPath(), logger.RunID()))
}
