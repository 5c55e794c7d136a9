// Package provider abstracts read access to the folders watched by
// auto-import. Folders and files are addressed by URI so cache keys stay
// stable across scans regardless of the backing storage.
package provider

import (
	"context"
	"io"
	"time"
)

// FileInfo contains metadata about a file in a watched folder
type FileInfo struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}

// Provider defines the interface for reading files from watched folders
type Provider interface {
	// ListFiles returns the URIs of the files directly inside a folder
	ListFiles(ctx context.Context, folderURI string) ([]string, error)

	// GetInfo retrieves file metadata without reading content
	GetInfo(ctx context.Context, fileURI string) (*FileInfo, error)

	// Open returns the contents of a file
	Open(ctx context.Context, fileURI string) (io.ReadCloser, error)
}
