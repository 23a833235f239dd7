package watch

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitFor reads changes until one for path arrives or the timeout expires.
func waitFor(t *testing.T, ch <-chan Change, path string, timeout time.Duration) (Change, bool) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case c, ok := <-ch:
			if !ok {
				return Change{}, false
			}
			t.Logf("Received change: %+v", c)
			if c.Path == path {
				return c, true
			}
		case <-deadline:
			return Change{}, false
		}
	}
}

func TestWatcherTracksFiles(t *testing.T) {
	tempDir := t.TempDir()
	tracked := filepath.Join(tempDir, "tracked.txt")
	other := filepath.Join(tempDir, "other.txt")
	require.NoError(t, os.WriteFile(tracked, []byte("one"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("one"), 0644))

	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.Sync([]string{tracked}))
	require.NoError(t, w.Start())
	defer w.Stop()
	assert.True(t, w.IsRunning())

	// Allow a brief moment for fsnotify to initialize watches
	time.Sleep(100 * time.Millisecond)

	// Writes to untracked siblings are filtered out
	require.NoError(t, os.WriteFile(other, []byte("two"), 0644))
	_, got := waitFor(t, w.Changes(), other, 300*time.Millisecond)
	assert.False(t, got, "untracked file must not be reported")

	require.NoError(t, os.WriteFile(tracked, []byte("two"), 0644))
	c, got := waitFor(t, w.Changes(), tracked, 3*time.Second)
	require.True(t, got, "Timeout waiting for WRITE change")
	assert.True(t, c.Op.Has(fsnotify.Write))
	assert.False(t, c.Timestamp.IsZero())

	require.NoError(t, os.Remove(tracked))
	c, got = waitFor(t, w.Changes(), tracked, 3*time.Second)
	require.True(t, got, "Timeout waiting for REMOVE change")
	assert.True(t, c.Op.Has(fsnotify.Remove))
}

func TestWatcherSync(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	a1 := filepath.Join(dirA, "a1.txt")
	a2 := filepath.Join(dirA, "a2.txt")
	b1 := filepath.Join(dirB, "b1.txt")

	w, err := New()
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.Sync([]string{a1, a2, b1, a1, ""}))
	assert.Equal(t, sorted(a1, a2, b1), w.Files())
	assert.Equal(t, sorted(dirA, dirB), w.Directories())

	require.NoError(t, w.Sync([]string{a2}))
	assert.Equal(t, []string{a2}, w.Files())
	assert.Equal(t, []string{dirA}, w.Directories())

	require.NoError(t, w.Sync(nil))
	assert.Empty(t, w.Files())
	assert.Empty(t, w.Directories())
}

func TestWatcherSyncMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.txt")
	missing := filepath.Join(dir, "gone", "file.txt")

	w, err := New()
	require.NoError(t, err)
	defer w.Stop()

	err = w.Sync([]string{ok, missing})
	assert.Error(t, err)
	assert.Equal(t, []string{ok}, w.Files())
	assert.Equal(t, []string{dir}, w.Directories())
}

func TestWatcherStop(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.Start())
	assert.Error(t, w.Start(), "second start must fail")

	w.Stop()
	assert.False(t, w.IsRunning())
	w.Stop()

	select {
	case _, ok := <-w.Changes():
		assert.False(t, ok, "Change channel should be closed after stop")
	case <-time.After(1 * time.Second):
		t.Error("Timeout waiting for change channel to close after stop")
	}
}

func sorted(paths ...string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}
