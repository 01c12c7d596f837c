package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("navmesh", &buf, INFO)

	l.Debug("скрыто %d", 1)
	l.Info("слоёв: %d", 3)
	l.Error("сбой")

	out := buf.String()
	assert.NotContains(t, out, "скрыто")
	assert.Contains(t, out, "[INFO] [navmesh] слоёв: 3")
	assert.Contains(t, out, "[ERROR] [navmesh] сбой")
}

func TestFileLoggerWritesAllLevels(t *testing.T) {
	dir := t.TempDir()
	l, err := NewFileLogger("storage", dir)
	require.NoError(t, err)

	l.Trace("детали")
	require.NoError(t, l.Close())

	files, err := filepath.Glob(filepath.Join(dir, "storage_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "[TRACE] [storage] детали")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("DEBUG"))
	assert.Equal(t, INFO, ParseLevel("verbose"))
}

func TestManagerReturnsSameLogger(t *testing.T) {
	lm := GetLoggerManager()
	assert.Same(t, lm.GetLogger("test"), GetComponentLogger("test"))
}

func TestInitDefaultLoggerUsesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "navmesh-logs")
	require.NoError(t, InitDefaultLogger("tool", dir))
	t.Cleanup(func() {
		CloseDefaultLogger()
		defaultLogger = NewLogger("default")
	})

	Warn("регион %d пропущен", 7)
	CloseDefaultLogger()

	files, err := filepath.Glob(filepath.Join(dir, "tool_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "[WARN] [tool] регион 7 пропущен")
}

func TestCloseAllResetsManager(t *testing.T) {
	lm := GetLoggerManager()
	first := lm.GetLogger("closing")

	require.NoError(t, lm.CloseAll())
	assert.NotSame(t, first, lm.GetLogger("closing"))
}
