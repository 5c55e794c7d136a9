// Package imported provides database operations for the imported-files
// ledger that backs auto-import deduplication.
//
// # Usage
//
//	repo := imported.NewRepository(db)
//	seen, err := repo.Exists("file:///photos/cat.jpg")
package imported

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mkoterski/snapshelf/internal/entities"
)

// Repository handles all imported-file database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new imported-files repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Stats summarizes the ledger contents. OldestImport and NewestImport are
// nil when the ledger is empty.
type Stats struct {
	TotalFiles   int64
	OldestImport *time.Time
	NewestImport *time.Time
}

// Create records a source URI as imported. The first write for a URI wins:
// recording an already known URI is a no-op that keeps the original timestamp.
func (r *Repository) Create(sourceURI string, importedAt time.Time) error {
	var file entities.ImportedFile
	result := r.db.Where("source_uri = ?", sourceURI).First(&file)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		file = entities.ImportedFile{
			SourceURI:  sourceURI,
			ImportedAt: importedAt,
		}
		return r.db.Create(&file).Error
	}
	return result.Error
}

// Exists reports whether a source URI has already been imported.
func (r *Repository) Exists(sourceURI string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.ImportedFile{}).
		Where("source_uri = ?", sourceURI).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Get retrieves the ledger entry for a source URI.
func (r *Repository) Get(sourceURI string) (*entities.ImportedFile, error) {
	var file entities.ImportedFile
	err := r.db.Where("source_uri = ?", sourceURI).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// Delete removes a single ledger entry so the file can be imported again.
func (r *Repository) Delete(sourceURI string) error {
	return r.db.Where("source_uri = ?", sourceURI).Delete(&entities.ImportedFile{}).Error
}

// DeleteAll wipes the entire ledger.
func (r *Repository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&entities.ImportedFile{}).Error
}

// List returns all ledger entries ordered by import time, oldest first.
func (r *Repository) List() ([]entities.ImportedFile, error) {
	var files []entities.ImportedFile
	err := r.db.Order("imported_at ASC").Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Count returns the number of ledger entries.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.ImportedFile{}).Count(&count).Error
	return count, err
}

// GetStats computes ledger statistics.
func (r *Repository) GetStats() (*Stats, error) {
	stats := &Stats{}
	if err := r.db.Model(&entities.ImportedFile{}).Count(&stats.TotalFiles).Error; err != nil {
		return nil, err
	}
	if stats.TotalFiles == 0 {
		return stats, nil
	}

	var oldest, newest entities.ImportedFile
	if err := r.db.Order("imported_at ASC").First(&oldest).Error; err != nil {
		return nil, err
	}
	if err := r.db.Order("imported_at DESC").First(&newest).Error; err != nil {
		return nil, err
	}
	stats.OldestImport = &oldest.ImportedAt
	stats.NewestImport = &newest.ImportedAt
	return stats, nil
}
