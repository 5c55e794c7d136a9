package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoterski/snapshelf/internal/database"
	"github.com/mkoterski/snapshelf/internal/database/imported"
	"github.com/mkoterski/snapshelf/internal/dedupcache"
)

func seedCache(t *testing.T, dbPath string, uris ...string) {
	t.Helper()

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	cache := dedupcache.New(imported.NewRepository(db.DB))
	for i, uri := range uris {
		cache.MarkImported(uri, time.Now().Add(time.Duration(i)*time.Minute))
	}
}

func TestCacheCommand_ParseFlags(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		cmd := NewCacheCommand()
		require.NoError(t, cmd.ParseFlags([]string{"list"}))
		assert.Equal(t, "list", cmd.Subcommand)
	})

	t.Run("remove with uri", func(t *testing.T) {
		cmd := NewCacheCommand()
		require.NoError(t, cmd.ParseFlags([]string{"remove", "file:///photos/a.jpg"}))
		assert.Equal(t, "remove", cmd.Subcommand)
		assert.Equal(t, "file:///photos/a.jpg", cmd.URI)
	})

	t.Run("remove with flags and uri", func(t *testing.T) {
		cmd := NewCacheCommand()
		require.NoError(t, cmd.ParseFlags([]string{"remove", "-db", "/tmp/x.db", "file:///photos/a.jpg"}))
		assert.Equal(t, "/tmp/x.db", cmd.DatabasePath)
		assert.Equal(t, "file:///photos/a.jpg", cmd.URI)
	})

	t.Run("remove without uri", func(t *testing.T) {
		cmd := NewCacheCommand()
		require.Error(t, cmd.ParseFlags([]string{"remove"}))
	})

	t.Run("missing subcommand", func(t *testing.T) {
		cmd := NewCacheCommand()
		require.Error(t, cmd.ParseFlags(nil))
	})

	t.Run("unknown subcommand", func(t *testing.T) {
		cmd := NewCacheCommand()
		require.Error(t, cmd.ParseFlags([]string{"prune"}))
	})
}

func TestCacheCommand_RemoveAndClear(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "snapshelf.db")
	seedCache(t, dbPath, "file:///photos/a.jpg", "file:///photos/b.jpg")

	remove := NewCacheCommand()
	require.NoError(t, remove.ParseFlags([]string{"remove", "-db", dbPath, "file:///photos/a.jpg"}))
	require.NoError(t, remove.Run())
	assert.Equal(t, 1, countImportedFiles(t, dbPath))

	// Removing an unknown URI is a no-op, not an error
	removeAgain := NewCacheCommand()
	require.NoError(t, removeAgain.ParseFlags([]string{"remove", "-db", dbPath, "file:///photos/a.jpg"}))
	require.NoError(t, removeAgain.Run())
	assert.Equal(t, 1, countImportedFiles(t, dbPath))

	clearCmd := NewCacheCommand()
	require.NoError(t, clearCmd.ParseFlags([]string{"clear", "-db", dbPath}))
	require.NoError(t, clearCmd.Run())
	assert.Equal(t, 0, countImportedFiles(t, dbPath))
}

func TestCacheCommand_ListAndStatsOnEmptyCache(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "snapshelf.db")

	list := NewCacheCommand()
	require.NoError(t, list.ParseFlags([]string{"list", "-db", dbPath}))
	assert.NoError(t, list.Run())

	stats := NewCacheCommand()
	require.NoError(t, stats.ParseFlags([]string{"stats", "-db", dbPath}))
	assert.NoError(t, stats.Run())
}
