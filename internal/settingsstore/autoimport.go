package settingsstore

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mkoterski/snapshelf/internal/entities"
)

// Scan interval bounds in minutes. Values outside the range are clamped.
const (
	MinScanIntervalMinutes     = 5
	MaxScanIntervalMinutes     = 180
	DefaultScanIntervalMinutes = 30
)

// AutoImportConfig represents the effective configuration for auto-import
type AutoImportConfig struct {
	Enabled         bool                    `json:"enabled"`
	Folders         []entities.FolderConfig `json:"folders"`
	IntervalMinutes int                     `json:"interval_minutes"`
	ServerURL       string                  `json:"server_url"`
	APIKey          string                  `json:"api_key"`
}

// AutoImportConfigInfo includes source information for each field
type AutoImportConfigInfo struct {
	Enabled       bool   `json:"enabled"`
	EnabledSource string `json:"enabled_source"` // "database", "environment", "default"

	Folders       []entities.FolderConfig `json:"folders"`
	FoldersSource string                  `json:"folders_source"`

	IntervalMinutes int    `json:"interval_minutes"`
	IntervalSource  string `json:"interval_source"`

	Shelf ShelfConnectionInfo `json:"shelf"`
}

// AutoImportStatus represents the last scan status
type AutoImportStatus struct {
	LastScanAt *time.Time `json:"last_scan_at,omitempty"`
	Status     string     `json:"status,omitempty"`   // "success", "partial", "failed", "running", ""
	Message    string     `json:"message,omitempty"`  // Error message or stats summary
	Imported   int        `json:"imported,omitempty"` // Count from last scan
}

// ClampScanInterval bounds a scan interval to the supported range.
func ClampScanInterval(minutes int) int {
	if minutes < MinScanIntervalMinutes {
		return MinScanIntervalMinutes
	}
	if minutes > MaxScanIntervalMinutes {
		return MaxScanIntervalMinutes
	}
	return minutes
}

// GetAutoImportEnabled returns whether auto-import is enabled (database > env > default)
func (s *SettingsStore) GetAutoImportEnabled() bool {
	// Try database first
	setting, err := s.db.GetSetting(entities.SettingKeyAutoImportEnabled)
	if err == nil && setting.Value != "" {
		return setting.Value == "true" || setting.Value == "1"
	}

	// Try environment variable
	if envVal := os.Getenv("AUTO_IMPORT_ENABLED"); envVal != "" {
		return envVal == "true" || envVal == "1"
	}

	// Default: disabled
	return false
}

// GetAutoImportEnabledSource returns the source of the enabled setting
func (s *SettingsStore) GetAutoImportEnabledSource() string {
	setting, err := s.db.GetSetting(entities.SettingKeyAutoImportEnabled)
	if err == nil && setting.Value != "" {
		return "database"
	}
	if envVal := os.Getenv("AUTO_IMPORT_ENABLED"); envVal != "" {
		return "environment"
	}
	return "default"
}

// SetAutoImportEnabled saves the enabled setting to database
func (s *SettingsStore) SetAutoImportEnabled(enabled bool) error {
	return s.db.SetSetting(entities.SettingKeyAutoImportEnabled, strconv.FormatBool(enabled))
}

// GetAutoImportFolders returns the watched folders (database > env > none).
// The database value is a JSON array; the environment variable is a
// comma-separated list of folder URIs.
func (s *SettingsStore) GetAutoImportFolders() []entities.FolderConfig {
	// Try database first
	setting, err := s.db.GetSetting(entities.SettingKeyAutoImportFolders)
	if err == nil && setting.Value != "" {
		var folders []entities.FolderConfig
		if err := json.Unmarshal([]byte(setting.Value), &folders); err != nil {
			// Malformed value counts as not configured
			return nil
		}
		return folders
	}

	// Try environment variable
	if envVal := os.Getenv("AUTO_IMPORT_FOLDERS"); envVal != "" {
		var folders []entities.FolderConfig
		for _, uri := range strings.Split(envVal, ",") {
			uri = strings.TrimSpace(uri)
			if uri == "" {
				continue
			}
			folders = append(folders, entities.FolderConfig{URI: uri})
		}
		return folders
	}

	// Default: no folders
	return nil
}

// GetAutoImportFoldersSource returns the source of the folders setting
func (s *SettingsStore) GetAutoImportFoldersSource() string {
	setting, err := s.db.GetSetting(entities.SettingKeyAutoImportFolders)
	if err == nil && setting.Value != "" {
		return "database"
	}
	if envVal := os.Getenv("AUTO_IMPORT_FOLDERS"); envVal != "" {
		return "environment"
	}
	return "default"
}

// SetAutoImportFolders saves the folder list to database
func (s *SettingsStore) SetAutoImportFolders(folders []entities.FolderConfig) error {
	data, err := json.Marshal(folders)
	if err != nil {
		return err
	}
	return s.db.SetSetting(entities.SettingKeyAutoImportFolders, string(data))
}

// AddAutoImportFolder adds a folder to the watched list. Adding a folder
// that is already present is a no-op.
func (s *SettingsStore) AddAutoImportFolder(folder entities.FolderConfig) error {
	folders := s.GetAutoImportFolders()
	for _, f := range folders {
		if f.URI == folder.URI {
			return nil
		}
	}
	folders = append(folders, folder)
	return s.SetAutoImportFolders(folders)
}

// RemoveAutoImportFolder removes a folder from the watched list by URI.
// Removing an unknown URI is a no-op.
func (s *SettingsStore) RemoveAutoImportFolder(uri string) error {
	folders := s.GetAutoImportFolders()
	kept := make([]entities.FolderConfig, 0, len(folders))
	for _, f := range folders {
		if f.URI != uri {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(folders) {
		return nil
	}
	return s.SetAutoImportFolders(kept)
}

// GetAutoImportInterval returns the scan interval in minutes
// (database > env > default), clamped to the supported range.
func (s *SettingsStore) GetAutoImportInterval() int {
	// Try database first
	setting, err := s.db.GetSetting(entities.SettingKeyAutoImportInterval)
	if err == nil && setting.Value != "" {
		if minutes, err := strconv.Atoi(setting.Value); err == nil {
			return ClampScanInterval(minutes)
		}
	}

	// Try environment variable
	if envVal := os.Getenv("AUTO_IMPORT_INTERVAL_MINUTES"); envVal != "" {
		if minutes, err := strconv.Atoi(envVal); err == nil {
			return ClampScanInterval(minutes)
		}
	}

	// Default: every 30 minutes
	return DefaultScanIntervalMinutes
}

// GetAutoImportIntervalSource returns the source of the interval setting
func (s *SettingsStore) GetAutoImportIntervalSource() string {
	setting, err := s.db.GetSetting(entities.SettingKeyAutoImportInterval)
	if err == nil && setting.Value != "" {
		return "database"
	}
	if envVal := os.Getenv("AUTO_IMPORT_INTERVAL_MINUTES"); envVal != "" {
		return "environment"
	}
	return "default"
}

// SetAutoImportInterval saves the scan interval to database, clamped to
// the supported range.
func (s *SettingsStore) SetAutoImportInterval(minutes int) error {
	clamped := ClampScanInterval(minutes)
	return s.db.SetSetting(entities.SettingKeyAutoImportInterval, strconv.Itoa(clamped))
}

// GetAutoImportConfig returns the effective configuration
func (s *SettingsStore) GetAutoImportConfig() AutoImportConfig {
	return AutoImportConfig{
		Enabled:         s.GetAutoImportEnabled(),
		Folders:         s.GetAutoImportFolders(),
		IntervalMinutes: s.GetAutoImportInterval(),
		ServerURL:       s.GetShelfServerURL(),
		APIKey:          s.GetShelfAPIKey(),
	}
}

// GetAutoImportConfigInfo returns the configuration with source information
func (s *SettingsStore) GetAutoImportConfigInfo() AutoImportConfigInfo {
	return AutoImportConfigInfo{
		Enabled:         s.GetAutoImportEnabled(),
		EnabledSource:   s.GetAutoImportEnabledSource(),
		Folders:         s.GetAutoImportFolders(),
		FoldersSource:   s.GetAutoImportFoldersSource(),
		IntervalMinutes: s.GetAutoImportInterval(),
		IntervalSource:  s.GetAutoImportIntervalSource(),
		Shelf:           s.GetShelfConnectionInfo(),
	}
}

// GetAutoImportStatus returns the last scan status
func (s *SettingsStore) GetAutoImportStatus() AutoImportStatus {
	status := AutoImportStatus{}

	// Get last scan timestamp
	if setting, err := s.db.GetSetting(entities.SettingKeyAutoImportLastScanAt); err == nil && setting.Value != "" {
		if ts, err := time.Parse(time.RFC3339, setting.Value); err == nil {
			status.LastScanAt = &ts
		}
	}

	// Get last status
	if setting, err := s.db.GetSetting(entities.SettingKeyAutoImportLastStatus); err == nil {
		status.Status = setting.Value
	}

	// Get last message
	if setting, err := s.db.GetSetting(entities.SettingKeyAutoImportLastMessage); err == nil {
		status.Message = setting.Value
	}

	// Get imported count
	if setting, err := s.db.GetSetting(entities.SettingKeyAutoImportLastImported); err == nil && setting.Value != "" {
		if count, err := strconv.Atoi(setting.Value); err == nil {
			status.Imported = count
		}
	}

	return status
}

// SetAutoImportStatus updates the scan status. The last scan timestamp is
// written separately via SetAutoImportLastScanAt.
func (s *SettingsStore) SetAutoImportStatus(status, message string, imported int) error {
	if err := s.db.SetSetting(entities.SettingKeyAutoImportLastStatus, status); err != nil {
		return err
	}
	if err := s.db.SetSetting(entities.SettingKeyAutoImportLastMessage, message); err != nil {
		return err
	}
	return s.db.SetSetting(entities.SettingKeyAutoImportLastImported, strconv.Itoa(imported))
}

// SetAutoImportLastScanAt records when the last scan finished. Written at
// the end of every scan, whatever the outcome.
func (s *SettingsStore) SetAutoImportLastScanAt(t time.Time) error {
	return s.db.SetSetting(entities.SettingKeyAutoImportLastScanAt, t.UTC().Format(time.RFC3339))
}

// GetAutoImportLastScanAt returns the last scan timestamp
func (s *SettingsStore) GetAutoImportLastScanAt() *time.Time {
	setting, err := s.db.GetSetting(entities.SettingKeyAutoImportLastScanAt)
	if err != nil || setting.Value == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, setting.Value)
	if err != nil {
		return nil
	}
	return &ts
}

// ClearAutoImportSettings clears all database overrides, reverting to env/default
func (s *SettingsStore) ClearAutoImportSettings() error {
	keys := []string{
		entities.SettingKeyAutoImportEnabled,
		entities.SettingKeyAutoImportFolders,
		entities.SettingKeyAutoImportInterval,
	}
	for _, key := range keys {
		if err := s.db.DeleteSetting(key); err != nil {
			// Ignore not found errors
			continue
		}
	}
	return nil
}
