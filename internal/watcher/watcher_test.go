package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoterski/snapshelf/internal/entities"
)

type staticFolders struct {
	folders []entities.FolderConfig
}

func (s staticFolders) GetAutoImportFolders() []entities.FolderConfig {
	return s.folders
}

func startWatcher(t *testing.T, dir string, scanCount *atomic.Int32) {
	t.Helper()

	scanFn := func(_ context.Context) error {
		scanCount.Add(1)
		return nil
	}
	svc := New(scanFn, staticFolders{folders: []entities.FolderConfig{{URI: "file://" + dir}}})
	svc.SetDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go svc.Start(ctx)
	// Let the watcher register its paths before files are written
	time.Sleep(100 * time.Millisecond)
}

func TestWatcher_NewImageTriggersScan(t *testing.T) {
	dir := t.TempDir()

	var scanCount atomic.Int32
	startWatcher(t, dir, &scanCount)

	err := os.WriteFile(filepath.Join(dir, "photo.jpg"), []byte("jpg"), 0o644)
	require.NoError(t, err)

	// Wait for debounce + processing
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int32(1), scanCount.Load())
}

func TestWatcher_BurstCoalescesIntoOneScan(t *testing.T) {
	dir := t.TempDir()

	var scanCount atomic.Int32
	startWatcher(t, dir, &scanCount)

	for _, name := range []string{"a.jpg", "b.png", "c.gif"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}

	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int32(1), scanCount.Load())
}

func TestWatcher_IgnoresNonImageFiles(t *testing.T) {
	dir := t.TempDir()

	var scanCount atomic.Int32
	startWatcher(t, dir, &scanCount)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0o644))

	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int32(0), scanCount.Load())
}

func TestWatcher_IgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()

	var scanCount atomic.Int32
	startWatcher(t, dir, &scanCount)

	// A directory named like an image must not request a scan
	require.NoError(t, os.Mkdir(filepath.Join(dir, "backup.jpg"), 0o755))

	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int32(0), scanCount.Load())
}

func TestWatcher_SkipsRemoteFolders(t *testing.T) {
	var scanCount atomic.Int32
	scanFn := func(_ context.Context) error {
		scanCount.Add(1)
		return nil
	}

	svc := New(scanFn, staticFolders{folders: []entities.FolderConfig{
		{URI: "content://media/external/images"},
	}})
	svc.SetDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	svc.mu.Lock()
	watching := len(svc.watching)
	svc.mu.Unlock()
	assert.Equal(t, 0, watching)
}
