package corelog_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/joao678/Xidi-xtended/internal/corelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, corelog.LevelTrace, corelog.ParseLevel("trace"))
	assert.Equal(t, slog.LevelDebug, corelog.ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, corelog.ParseLevel(""))
	assert.Equal(t, slog.LevelWarn, corelog.ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, corelog.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, corelog.ParseLevel("nonsense"))
}

func TestSetupLoggerWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ximapperd.log")

	logger, closers, err := corelog.SetupLogger("info", path)
	require.NoError(t, err)
	logger.Info("hello", "k", "v")
	for _, c := range closers {
		require.NoError(t, c.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "k=v")
}
