package janitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestJanitor_Sweep(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	old := now.Add(-2 * time.Hour)
	fresh := now.Add(-10 * time.Minute)

	oldChart := touch(t, dir, "AAPL_20240610_100000_1a2b3c4d.png", old)
	oldTemp := touch(t, dir, ".chart-123.png.tmp", old)
	freshChart := touch(t, dir, "TSLA_20240610_115000_5e6f7a8b.png", fresh)
	otherFile := touch(t, dir, "notes.txt", old)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	j, err := New(dir, "", time.Hour)
	require.NoError(t, err)
	j.now = func() time.Time { return now }

	assert.Equal(t, 2, j.Sweep())
	assert.NoFileExists(t, oldChart)
	assert.NoFileExists(t, oldTemp)
	assert.FileExists(t, freshChart)
	assert.FileExists(t, otherFile)
	assert.DirExists(t, filepath.Join(dir, "sub.png"))
}

func TestJanitor_MissingDir(t *testing.T) {
	t.Parallel()

	j, err := New(filepath.Join(t.TempDir(), "missing"), "", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, j.Sweep())
	assert.Equal(t, time.Hour, j.maxAge)
}

func TestNew_InvalidSchedule(t *testing.T) {
	t.Parallel()

	_, err := New(t.TempDir(), "every minute", time.Hour)
	assert.Error(t, err)
}

func TestJanitor_StartStop(t *testing.T) {
	t.Parallel()

	j, err := New(t.TempDir(), "@every 1h", time.Hour)
	require.NoError(t, err)
	j.Start()
	j.Stop()
}
