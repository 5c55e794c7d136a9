// Package importer runs the import pipeline for candidate images: upload
// the bytes, register a bookmark, mark the file as imported. Candidates
// are processed strictly one at a time, and one failed file never stops
// the rest.
package importer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mkoterski/snapshelf/internal/dedupcache"
	"github.com/mkoterski/snapshelf/internal/discovery"
	"github.com/mkoterski/snapshelf/internal/provider"
	"github.com/mkoterski/snapshelf/internal/shelf"
)

// Report is the outcome of one pipeline run.
type Report struct {
	Imported int
	Errors   []string // one message per failed file
}

// Service imports candidate images into the shelf server.
type Service struct {
	provider provider.Provider
	shelf    *shelf.Client
	cache    *dedupcache.Cache
}

func NewService(p provider.Provider, client *shelf.Client, cache *dedupcache.Cache) *Service {
	return &Service{provider: p, shelf: client, cache: cache}
}

// ImportAll processes candidates sequentially in the given order. A file
// that fails upload or registration is recorded as an error and left out
// of the dedup cache, so the next scan retries it.
func (s *Service) ImportAll(ctx context.Context, creds shelf.Credentials, candidates []discovery.Candidate) Report {
	report := Report{}

	for _, candidate := range candidates {
		if err := s.importOne(ctx, creds, candidate); err != nil {
			log.Printf("Auto-import: %s: %v", candidate.Filename, err)
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", candidate.Filename, err))
			continue
		}
		report.Imported++
	}

	return report
}

// importOne uploads a single candidate and registers it. The dedup cache
// is only written once both remote calls succeeded; a registration
// failure after a successful upload leaves an orphaned asset behind,
// which the retry on the next scan may duplicate.
func (s *Service) importOne(ctx context.Context, creds shelf.Credentials, candidate discovery.Candidate) error {
	content, err := s.provider.Open(ctx, candidate.URI)
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	defer content.Close()

	assetID, err := s.shelf.UploadAsset(ctx, creds, candidate.Filename, candidate.MIMEType, content)
	if err != nil {
		return &shelf.UploadError{Filename: candidate.Filename, Err: err}
	}

	bookmark := shelf.BookmarkRequest{
		Type:      shelf.BookmarkTypeAsset,
		FileName:  candidate.Filename,
		AssetID:   assetID,
		AssetType: shelf.AssetTypeImage,
		SourceURL: candidate.URI,
	}
	if err := s.shelf.CreateBookmark(ctx, creds, bookmark); err != nil {
		return &shelf.RegistrationError{Filename: candidate.Filename, AssetID: assetID, Err: err}
	}

	s.cache.MarkImported(candidate.URI, time.Now())
	return nil
}
