package worker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFileAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	old := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, old, old))
	return path
}

func TestUploadJanitorSweep(t *testing.T) {
	dir := t.TempDir()

	stale := writeFileAged(t, dir, ".upload-1234.tmp", 2*time.Hour)
	fresh := writeFileAged(t, dir, ".upload-5678.tmp", time.Minute)
	stored := writeFileAged(t, dir, "abc-scene.jpg", 48*time.Hour)

	janitor := NewUploadJanitor(dir, ".upload-", time.Hour, time.Minute)
	janitor.sweep()

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, stored)
}

func TestUploadJanitorMissingDir(t *testing.T) {
	janitor := NewUploadJanitor(filepath.Join(t.TempDir(), "nope"), ".upload-", time.Hour, time.Minute)

	// A directory that does not exist yet is not an error.
	janitor.sweep()
}

func TestUploadJanitorStartStop(t *testing.T) {
	janitor := NewUploadJanitor(t.TempDir(), ".upload-", time.Hour, 10*time.Millisecond)

	janitor.Start()
	time.Sleep(30 * time.Millisecond)
	janitor.Stop()

	// Stop again is a no-op.
	janitor.Stop()
}
