package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// Auto-import settings
	SettingKeyAutoImportEnabled  = "auto_import_enabled"
	SettingKeyAutoImportFolders  = "auto_import_folders"
	SettingKeyAutoImportInterval = "auto_import_interval_minutes"

	// Auto-import run status
	SettingKeyAutoImportLastScanAt   = "auto_import_last_scan_at"
	SettingKeyAutoImportLastStatus   = "auto_import_last_status"
	SettingKeyAutoImportLastMessage  = "auto_import_last_message"
	SettingKeyAutoImportLastImported = "auto_import_last_imported"

	// Shelf server connection
	SettingKeyShelfServerURL = "shelf_server_url"
	SettingKeyShelfAPIKey    = "shelf_api_key"
)
