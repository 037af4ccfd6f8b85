package dictionary

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bastiangx/typeahead/pkg/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return w
}

func nextIndex(t *testing.T, w *Watcher) *vocab.Index {
	t.Helper()
	select {
	case ix := <-w.Updates():
		return ix
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
		return nil
	}
}

func TestWatcherReloadsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "words.txt", "cat\n")
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("cat\ncatfish\n"), 0o644))
	ix := nextIndex(t, w)
	assert.True(t, ix.Contains("catfish"))
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "words.txt", "cat\n")
	w := startWatcher(t, path)

	writeFile(t, dir, "other.txt", "dog\n")
	select {
	case ix := <-w.Updates():
		require.Failf(t, "unexpected reload", "%d words", ix.Len())
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherKeepsOldIndexOnBadReload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "words.txt", "cat\n")
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("# emptied\n"), 0o644))
	select {
	case <-w.Updates():
		t.Fatal("a failed reload must not publish an index")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte("owl\n"), 0o644))
	ix := nextIndex(t, w)
	assert.Equal(t, []string{"owl"}, ix.Words())
}

func TestWatcherChunkDir(t *testing.T) {
	dir := t.TempDir()
	writeChunkFile(t, dir, "dict_0001.bin", []string{"first"})
	w := startWatcher(t, dir)

	// Renamed into place so the reload never sees a half written chunk.
	tmp := writeChunkFile(t, dir, "staging.tmp", []string{"second"})
	require.NoError(t, os.Rename(tmp, filepath.Join(dir, "dict_0002.bin")))
	ix := nextIndex(t, w)
	assert.Equal(t, []string{"first", "second"}, ix.Words())
}

func TestWatcherMatches(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "words.txt", "cat\n")
	w, err := NewWatcher(path, 0)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.True(t, w.matches(w.path))
	assert.False(t, w.matches(filepath.Join(filepath.Dir(w.path), "other.txt")))

	_, err = NewWatcher(filepath.Join(dir, "missing.txt"), 0)
	assert.Error(t, err)
}
