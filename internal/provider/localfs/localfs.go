// Package localfs implements provider.Provider for folders on the local
// filesystem, addressed by file:// URIs or plain absolute paths.
package localfs

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/mkoterski/snapshelf/internal/provider"
)

// Provider reads watched folders through a billy filesystem.
type Provider struct {
	fs billy.Filesystem
}

// New creates a provider backed by the OS filesystem.
func New() *Provider {
	return &Provider{fs: osfs.New("/")}
}

// NewWithFilesystem creates a provider backed by the given filesystem.
// Used with memfs in tests.
func NewWithFilesystem(fs billy.Filesystem) *Provider {
	return &Provider{fs: fs}
}

// ListFiles returns file:// URIs for the files directly inside a folder,
// sorted by name. Subdirectories are not descended into.
func (p *Provider) ListFiles(ctx context.Context, folderURI string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := PathFromURI(folderURI)
	entries, err := p.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("localfs: readdir %q: %w", dir, err)
	}

	uris := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		uris = append(uris, "file://"+path.Join(dir, entry.Name()))
	}
	sort.Strings(uris)
	return uris, nil
}

// GetInfo retrieves file metadata without reading content.
func (p *Provider) GetInfo(ctx context.Context, fileURI string) (*provider.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filePath := PathFromURI(fileURI)
	info, err := p.fs.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("localfs: stat %q: %w", filePath, err)
	}

	return &provider.FileInfo{
		Name:       info.Name(),
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	}, nil
}

// Open returns the contents of a file.
func (p *Provider) Open(ctx context.Context, fileURI string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filePath := PathFromURI(fileURI)
	f, err := p.fs.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("localfs: open %q: %w", filePath, err)
	}
	return f, nil
}

// PathFromURI converts a file:// URI to a filesystem path. Plain paths
// pass through unchanged, and undecodable escapes are kept as-is.
func PathFromURI(uri string) string {
	p := strings.TrimPrefix(uri, "file://")
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	return p
}
