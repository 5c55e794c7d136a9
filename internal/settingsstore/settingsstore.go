package settingsstore

import (
	"os"

	"github.com/mkoterski/snapshelf/internal/database"
	"github.com/mkoterski/snapshelf/internal/entities"
)

// Priority: database > environment > default
type SettingsStore struct {
	db *database.Database
}

func New(db *database.Database) *SettingsStore {
	return &SettingsStore{db: db}
}

// ShelfConnectionInfo includes source information for each connection field
type ShelfConnectionInfo struct {
	ServerURL       string `json:"server_url"`
	ServerURLSource string `json:"server_url_source"` // "database", "environment", "default"

	APIKey       string `json:"api_key"` // Masked for display
	APIKeySource string `json:"api_key_source"`
	HasAPIKey    bool   `json:"has_api_key"` // Indicates if a key is configured
}

// GetShelfServerURL returns the shelf server base URL (database > env > "")
func (s *SettingsStore) GetShelfServerURL() string {
	// Try database first
	setting, err := s.db.GetSetting(entities.SettingKeyShelfServerURL)
	if err == nil && setting.Value != "" {
		return setting.Value
	}

	// Try environment variable
	if envVal := os.Getenv("SHELF_SERVER_URL"); envVal != "" {
		return envVal
	}

	// Default: empty (not configured)
	return ""
}

// GetShelfServerURLSource returns the source of the server URL setting
func (s *SettingsStore) GetShelfServerURLSource() string {
	setting, err := s.db.GetSetting(entities.SettingKeyShelfServerURL)
	if err == nil && setting.Value != "" {
		return "database"
	}
	if envVal := os.Getenv("SHELF_SERVER_URL"); envVal != "" {
		return "environment"
	}
	return "default"
}

// SetShelfServerURL saves the server URL to database
func (s *SettingsStore) SetShelfServerURL(url string) error {
	return s.db.SetSetting(entities.SettingKeyShelfServerURL, url)
}

// GetShelfAPIKey returns the API key (database > env > "")
func (s *SettingsStore) GetShelfAPIKey() string {
	// Try database first
	setting, err := s.db.GetSetting(entities.SettingKeyShelfAPIKey)
	if err == nil && setting.Value != "" {
		return setting.Value
	}

	// Try environment variable
	if envVal := os.Getenv("SHELF_API_KEY"); envVal != "" {
		return envVal
	}

	// Default: empty (not configured)
	return ""
}

// GetShelfAPIKeySource returns the source of the API key setting
func (s *SettingsStore) GetShelfAPIKeySource() string {
	setting, err := s.db.GetSetting(entities.SettingKeyShelfAPIKey)
	if err == nil && setting.Value != "" {
		return "database"
	}
	if envVal := os.Getenv("SHELF_API_KEY"); envVal != "" {
		return "environment"
	}
	return "default"
}

// HasShelfAPIKey returns whether an API key is configured from any source
func (s *SettingsStore) HasShelfAPIKey() bool {
	return s.GetShelfAPIKey() != ""
}

// SetShelfAPIKey saves the API key to database
func (s *SettingsStore) SetShelfAPIKey(key string) error {
	return s.db.SetSetting(entities.SettingKeyShelfAPIKey, key)
}

// GetShelfConnectionInfo returns the connection settings with source information
func (s *SettingsStore) GetShelfConnectionInfo() ShelfConnectionInfo {
	key := s.GetShelfAPIKey()

	return ShelfConnectionInfo{
		ServerURL:       s.GetShelfServerURL(),
		ServerURLSource: s.GetShelfServerURLSource(),
		APIKey:          maskKey(key),
		APIKeySource:    s.GetShelfAPIKeySource(),
		HasAPIKey:       key != "",
	}
}

// ClearShelfConnectionSettings clears all database overrides, reverting to env/default
func (s *SettingsStore) ClearShelfConnectionSettings() error {
	keys := []string{
		entities.SettingKeyShelfServerURL,
		entities.SettingKeyShelfAPIKey,
	}
	for _, key := range keys {
		if err := s.db.DeleteSetting(key); err != nil {
			// Ignore not found errors
			continue
		}
	}
	return nil
}

// maskKey returns a masked version of the API key for display
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
