package entities

import "time"

// ImportedFile records a single file the auto-importer has already uploaded.
// One row exists per source URI; the row is created when an import succeeds
// and is never updated afterwards.
type ImportedFile struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SourceURI  string    `gorm:"uniqueIndex;size:2048" json:"source_uri"`
	ImportedAt time.Time `gorm:"index" json:"imported_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ImportedFile) TableName() string {
	return "imported_files"
}
