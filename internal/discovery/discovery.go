// Package discovery finds new image files in the watched folders. Folders
// are isolated from each other: one unreadable folder never stops the
// others from being scanned.
package discovery

import (
	"context"
	"fmt"
	"log"

	"github.com/mkoterski/snapshelf/internal/dedupcache"
	"github.com/mkoterski/snapshelf/internal/entities"
	"github.com/mkoterski/snapshelf/internal/provider"
)

// Candidate is a new image file that should be imported.
type Candidate struct {
	URI      string
	Filename string
	MIMEType string
}

// Result is the outcome of a discovery pass across all folders.
type Result struct {
	Candidates   []Candidate
	FolderErrors []string
}

// Service enumerates watched folders and filters their contents down to
// importable candidates.
type Service struct {
	provider provider.Provider
	cache    *dedupcache.Cache
}

func NewService(p provider.Provider, cache *dedupcache.Cache) *Service {
	return &Service{provider: p, cache: cache}
}

// FindNewImages walks the folders in list order and collects image files
// that have not been imported yet. A folder that cannot be listed is
// recorded in FolderErrors and skipped. Files that disappear between
// listing and inspection are skipped silently so they retry on the next
// scan. The extension filter runs before any per-file I/O.
func (s *Service) FindNewImages(ctx context.Context, folders []entities.FolderConfig) Result {
	result := Result{}

	for _, folder := range folders {
		uris, err := s.provider.ListFiles(ctx, folder.URI)
		if err != nil {
			log.Printf("Auto-import discovery: folder %s unreadable: %v", folder.Name(), err)
			result.FolderErrors = append(result.FolderErrors, fmt.Sprintf("folder %s: %v", folder.Name(), err))
			continue
		}

		for _, uri := range uris {
			filename := FilenameFromURI(uri)
			if !IsSupportedImage(filename) {
				continue
			}
			if _, err := s.provider.GetInfo(ctx, uri); err != nil {
				// Likely removed between listing and inspection
				continue
			}
			if s.cache.HasBeenImported(uri) {
				continue
			}
			result.Candidates = append(result.Candidates, Candidate{
				URI:      uri,
				Filename: filename,
				MIMEType: MIMETypeForFilename(filename),
			})
		}
	}

	return result
}
