package settingsstore

import (
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoterski/snapshelf/internal/entities"
)

func TestAutoImportEnabled(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := New(db)

	// Default should be false
	assert.False(t, store.GetAutoImportEnabled())
	assert.Equal(t, "default", store.GetAutoImportEnabledSource())

	// Set via database
	err := store.SetAutoImportEnabled(true)
	require.NoError(t, err)

	assert.True(t, store.GetAutoImportEnabled())
	assert.Equal(t, "database", store.GetAutoImportEnabledSource())

	// Clear and verify fallback
	err = db.DeleteSetting(entities.SettingKeyAutoImportEnabled)
	require.NoError(t, err)

	assert.False(t, store.GetAutoImportEnabled())
	assert.Equal(t, "default", store.GetAutoImportEnabledSource())
}

func TestAutoImportEnabledWithEnv(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := New(db)

	// Set environment variable
	os.Setenv("AUTO_IMPORT_ENABLED", "true")
	defer os.Unsetenv("AUTO_IMPORT_ENABLED")

	// Should read from env
	assert.True(t, store.GetAutoImportEnabled())
	assert.Equal(t, "environment", store.GetAutoImportEnabledSource())

	// Database should override env
	err := store.SetAutoImportEnabled(false)
	require.NoError(t, err)

	assert.False(t, store.GetAutoImportEnabled())
	assert.Equal(t, "database", store.GetAutoImportEnabledSource())
}

func TestAutoImportFolders(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := New(db)

	// Clear any existing env var
	originalFolders := os.Getenv("AUTO_IMPORT_FOLDERS")
	os.Unsetenv("AUTO_IMPORT_FOLDERS")
	defer func() {
		if originalFolders != "" {
			os.Setenv("AUTO_IMPORT_FOLDERS", originalFolders)
		}
	}()

	// Default should be empty
	assert.Empty(t, store.GetAutoImportFolders())
	assert.Equal(t, "default", store.GetAutoImportFoldersSource())

	// Set via database
	folders := []entities.FolderConfig{
		{URI: "file:///photos/camera", DisplayName: "Camera"},
		{URI: "file:///photos/screenshots"},
	}
	err := store.SetAutoImportFolders(folders)
	require.NoError(t, err)

	saved := store.GetAutoImportFolders()
	require.Len(t, saved, 2)
	assert.Equal(t, "file:///photos/camera", saved[0].URI)
	assert.Equal(t, "Camera", saved[0].DisplayName)
	assert.Equal(t, "database", store.GetAutoImportFoldersSource())
}

func TestAutoImportFoldersWithEnv(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := New(db)

	// Set environment variable with comma-separated URIs
	os.Setenv("AUTO_IMPORT_FOLDERS", "file:///a, file:///b ,file:///c")
	defer os.Unsetenv("AUTO_IMPORT_FOLDERS")

	folders := store.GetAutoImportFolders()
	require.Len(t, folders, 3)
	assert.Equal(t, "file:///a", folders[0].URI)
	assert.Equal(t, "file:///b", folders[1].URI)
	assert.Equal(t, "file:///c", folders[2].URI)
	assert.Equal(t, "environment", store.GetAutoImportFoldersSource())

	// Database should override env
	err := store.SetAutoImportFolders([]entities.FolderConfig{{URI: "file:///db"}})
	require.NoError(t, err)

	folders = store.GetAutoImportFolders()
	require.Len(t, folders, 1)
	assert.Equal(t, "file:///db", folders[0].URI)
	assert.Equal(t, "database", store.GetAutoImportFoldersSource())
}

func TestAutoImportFoldersMalformedValue(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := New(db)

	// A broken database value counts as not configured
	err := db.SetSetting(entities.SettingKeyAutoImportFolders, "{not json")
	require.NoError(t, err)

	assert.Empty(t, store.GetAutoImportFolders())
}

func TestAddAutoImportFolder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := New(db)

	err := store.AddAutoImportFolder(entities.FolderConfig{URI: "file:///photos"})
	require.NoError(t, err)

	err = store.AddAutoImportFolder(entities.FolderConfig{URI: "file:///downloads"})
	require.NoError(t, err)

	folders := store.GetAutoImportFolders()
	require.Len(t, folders, 2)

	// Adding an existing URI is a no-op
	err = store.AddAutoImportFolder(entities.FolderConfig{URI: "file:///photos"})
	require.NoError(t, err)
	assert.Len(t, store.GetAutoImportFolders(), 2)
}

func TestRemoveAutoImportFolder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := New(db)

	require.NoError(t, store.SetAutoImportFolders([]entities.FolderConfig{
		{URI: "file:///photos"},
		{URI: "file:///downloads"},
	}))

	err := store.RemoveAutoImportFolder("file:///photos")
	require.NoError(t, err)

	folders := store.GetAutoImportFolders()
	require.Len(t, folders, 1)
	assert.Equal(t, "file:///downloads", folders[0].URI)

	// Removing an unknown URI is a no-op
	err = store.RemoveAutoImportFolder("file:///never-added")
	require.NoError(t, err)
	assert.Len(t, store.GetAutoImportFolders(), 1)
}

func TestAutoImportInterval(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := New(db)

	// Clear any existing env var
	originalInterval := os.Getenv("AUTO_IMPORT_INTERVAL_MINUTES")
	os.Unsetenv("AUTO_IMPORT_INTERVAL_MINUTES")
	defer func() {
		if originalInterval != "" {
			os.Setenv("AUTO_IMPORT_INTERVAL_MINUTES", originalInterval)
		}
	}()

	// Default should be 30 minutes
	assert.Equal(t, DefaultScanIntervalMinutes, store.GetAutoImportInterval())
	assert.Equal(t, "default", store.GetAutoImportIntervalSource())

	// Set via database
	err := store.SetAutoImportInterval(45)
	require.NoError(t, err)

	assert.Equal(t, 45, store.GetAutoImportInterval())
	assert.Equal(t, "database", store.GetAutoImportIntervalSource())

	// Non-numeric database value falls through to the default
	require.NoError(t, db.SetSetting(entities.SettingKeyAutoImportInterval, "soon"))
	assert.Equal(t, DefaultScanIntervalMinutes, store.GetAutoImportInterval())
}

func TestAutoImportIntervalClamping(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := New(db)

	// Too small is clamped up
	require.NoError(t, store.SetAutoImportInterval(1))
	assert.Equal(t, MinScanIntervalMinutes, store.GetAutoImportInterval())

	// Too large is clamped down
	require.NoError(t, store.SetAutoImportInterval(9999))
	assert.Equal(t, MaxScanIntervalMinutes, store.GetAutoImportInterval())

	// A raw out-of-range database value is clamped on read
	require.NoError(t, db.SetSetting(entities.SettingKeyAutoImportInterval, "2"))
	assert.Equal(t, MinScanIntervalMinutes, store.GetAutoImportInterval())
}

func TestAutoImportIntervalWithEnv(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := New(db)

	os.Setenv("AUTO_IMPORT_INTERVAL_MINUTES", "60")
	defer os.Unsetenv("AUTO_IMPORT_INTERVAL_MINUTES")

	assert.Equal(t, 60, store.GetAutoImportInterval())
	assert.Equal(t, "environment", store.GetAutoImportIntervalSource())

	// Database should override env
	require.NoError(t, store.SetAutoImportInterval(15))
	assert.Equal(t, 15, store.GetAutoImportInterval())
	assert.Equal(t, "database", store.GetAutoImportIntervalSource())
}

func TestClampScanInterval(t *testing.T) {
	tests := []struct {
		minutes  int
		expected int
	}{
		{-10, MinScanIntervalMinutes},
		{0, MinScanIntervalMinutes},
		{4, MinScanIntervalMinutes},
		{5, 5},
		{30, 30},
		{180, 180},
		{181, MaxScanIntervalMinutes},
		{100000, MaxScanIntervalMinutes},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.minutes), func(t *testing.T) {
			assert.Equal(t, tt.expected, ClampScanInterval(tt.minutes))
		})
	}
}

func TestAutoImportConfig(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := New(db)

	// Set all values
	require.NoError(t, store.SetAutoImportEnabled(true))
	require.NoError(t, store.SetAutoImportFolders([]entities.FolderConfig{{URI: "file:///photos"}}))
	require.NoError(t, store.SetAutoImportInterval(45))
	require.NoError(t, store.SetShelfServerURL("http://localhost:8288"))
	require.NoError(t, store.SetShelfAPIKey("test-key-12345"))

	config := store.GetAutoImportConfig()
	assert.True(t, config.Enabled)
	require.Len(t, config.Folders, 1)
	assert.Equal(t, "file:///photos", config.Folders[0].URI)
	assert.Equal(t, 45, config.IntervalMinutes)
	assert.Equal(t, "http://localhost:8288", config.ServerURL)
	assert.Equal(t, "test-key-12345", config.APIKey)

	// Test info version (with masked key)
	info := store.GetAutoImportConfigInfo()
	assert.True(t, info.Enabled)
	assert.Equal(t, "database", info.EnabledSource)
	assert.Equal(t, "database", info.FoldersSource)
	assert.Equal(t, 45, info.IntervalMinutes)
	assert.Equal(t, "database", info.IntervalSource)
	assert.Equal(t, "test****2345", info.Shelf.APIKey) // Masked
	assert.True(t, info.Shelf.HasAPIKey)
}

func TestAutoImportStatus(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := New(db)

	// Initially no status
	status := store.GetAutoImportStatus()
	assert.Nil(t, status.LastScanAt)
	assert.Empty(t, status.Status)
	assert.Empty(t, status.Message)
	assert.Zero(t, status.Imported)

	// Set success status
	err := store.SetAutoImportStatus("success", "Imported 4 files from 2 folders", 4)
	require.NoError(t, err)

	status = store.GetAutoImportStatus()
	assert.Equal(t, "success", status.Status)
	assert.Equal(t, "Imported 4 files from 2 folders", status.Message)
	assert.Equal(t, 4, status.Imported)

	// Status writes do not touch the scan timestamp
	assert.Nil(t, status.LastScanAt)

	// Set failed status
	err = store.SetAutoImportStatus("failed", "server unreachable", 0)
	require.NoError(t, err)

	status = store.GetAutoImportStatus()
	assert.Equal(t, "failed", status.Status)
	assert.Equal(t, "server unreachable", status.Message)
	assert.Zero(t, status.Imported)
}

func TestAutoImportLastScanAt(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := New(db)

	// Initially nil
	assert.Nil(t, store.GetAutoImportLastScanAt())

	err := store.SetAutoImportLastScanAt(time.Now())
	require.NoError(t, err)

	lastAt := store.GetAutoImportLastScanAt()
	require.NotNil(t, lastAt)
	assert.True(t, time.Since(*lastAt) < time.Minute)

	// Also surfaced through the status
	status := store.GetAutoImportStatus()
	require.NotNil(t, status.LastScanAt)
}

func TestClearAutoImportSettings(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	store := New(db)

	// Clear any existing env vars
	originalEnabled := os.Getenv("AUTO_IMPORT_ENABLED")
	originalFolders := os.Getenv("AUTO_IMPORT_FOLDERS")
	originalInterval := os.Getenv("AUTO_IMPORT_INTERVAL_MINUTES")
	os.Unsetenv("AUTO_IMPORT_ENABLED")
	os.Unsetenv("AUTO_IMPORT_FOLDERS")
	os.Unsetenv("AUTO_IMPORT_INTERVAL_MINUTES")
	defer func() {
		if originalEnabled != "" {
			os.Setenv("AUTO_IMPORT_ENABLED", originalEnabled)
		}
		if originalFolders != "" {
			os.Setenv("AUTO_IMPORT_FOLDERS", originalFolders)
		}
		if originalInterval != "" {
			os.Setenv("AUTO_IMPORT_INTERVAL_MINUTES", originalInterval)
		}
	}()

	// Set all values
	require.NoError(t, store.SetAutoImportEnabled(true))
	require.NoError(t, store.SetAutoImportFolders([]entities.FolderConfig{{URI: "file:///photos"}}))
	require.NoError(t, store.SetAutoImportInterval(60))

	// Clear all
	err := store.ClearAutoImportSettings()
	require.NoError(t, err)

	// Should fall back to defaults
	assert.False(t, store.GetAutoImportEnabled())
	assert.Equal(t, "default", store.GetAutoImportEnabledSource())
	assert.Empty(t, store.GetAutoImportFolders())
	assert.Equal(t, "default", store.GetAutoImportFoldersSource())
	assert.Equal(t, DefaultScanIntervalMinutes, store.GetAutoImportInterval())
	assert.Equal(t, "default", store.GetAutoImportIntervalSource())
}
