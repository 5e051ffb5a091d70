package ui_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"arbor.dev/arbor/internal/ui"
)

func TestLogger(t *testing.T) {
	t.Run("writes to the log file when one is configured", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "logs", "arbor.log")

		logger, err := ui.NewLoggerWithFile(logFile)
		require.NoError(t, err)

		logger.Info("updating %s", "main")
		logger.Warning("diverged")
		require.NoError(t, logger.Close())

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		require.Contains(t, string(content), "updating main")
		require.Contains(t, string(content), "diverged")
	})

	t.Run("console-only logger has no file writer to close", func(t *testing.T) {
		logger, err := ui.NewLoggerWithFile("")
		require.NoError(t, err)
		require.NoError(t, logger.Close())
	})

	t.Run("debug messages are recorded in the file", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "arbor.log")

		logger, err := ui.NewLoggerWithFile(logFile)
		require.NoError(t, err)

		logger.Debug("running git %v", []string{"branch", "-vv"})
		require.NoError(t, logger.Close())

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		require.Contains(t, string(content), "branch -vv")
	})
}
