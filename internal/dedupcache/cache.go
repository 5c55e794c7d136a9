// Package dedupcache tracks which source files have already been imported
// so scans never upload the same file twice.
//
// Read and write failures degrade instead of propagating: a file whose
// cache state cannot be read is treated as not imported, and a failed mark
// is logged and dropped. The import pipeline never sees a cache error.
package dedupcache

import (
	"log"
	"time"

	"github.com/mkoterski/snapshelf/internal/database/imported"
	"github.com/mkoterski/snapshelf/internal/entities"
)

// Cache answers "have we imported this URI before?" backed by the
// imported-files ledger.
type Cache struct {
	repo *imported.Repository
}

func New(repo *imported.Repository) *Cache {
	return &Cache{repo: repo}
}

// HasBeenImported reports whether a source URI was imported before. A read
// failure is treated as not imported, so the worst case is a re-upload
// rather than a silently skipped file.
func (c *Cache) HasBeenImported(sourceURI string) bool {
	exists, err := c.repo.Exists(sourceURI)
	if err != nil {
		log.Printf("Dedup cache: read failed for %s: %v", sourceURI, err)
		return false
	}
	return exists
}

// MarkImported records a successful import. Failures are logged and
// dropped: the file is already uploaded and registered at this point, so
// the import itself still counts as a success.
func (c *Cache) MarkImported(sourceURI string, importedAt time.Time) {
	if err := c.repo.Create(sourceURI, importedAt); err != nil {
		log.Printf("Dedup cache: failed to mark %s as imported: %v", sourceURI, err)
	}
}

// Remove forgets a single URI so the next scan imports it again.
func (c *Cache) Remove(sourceURI string) error {
	return c.repo.Delete(sourceURI)
}

// Clear wipes the cache entirely.
func (c *Cache) Clear() error {
	return c.repo.DeleteAll()
}

// ImportedFiles lists all cache entries ordered by import time, oldest
// first. A read failure returns an empty list.
func (c *Cache) ImportedFiles() []entities.ImportedFile {
	files, err := c.repo.List()
	if err != nil {
		log.Printf("Dedup cache: failed to list entries: %v", err)
		return nil
	}
	return files
}

// Stats summarizes the cache contents. A read failure returns zero stats.
func (c *Cache) Stats() imported.Stats {
	stats, err := c.repo.GetStats()
	if err != nil {
		log.Printf("Dedup cache: failed to read stats: %v", err)
		return imported.Stats{}
	}
	return *stats
}
