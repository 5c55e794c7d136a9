package discovery

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mkoterski/snapshelf/internal/database/imported"
	"github.com/mkoterski/snapshelf/internal/dedupcache"
	"github.com/mkoterski/snapshelf/internal/entities"
	"github.com/mkoterski/snapshelf/internal/provider"
)

// fakeProvider scripts folder listings and per-file failures, and records
// which files had their metadata inspected.
type fakeProvider struct {
	files     map[string][]string
	listErr   map[string]error
	infoErr   map[string]error
	infoCalls []string
}

func (f *fakeProvider) ListFiles(_ context.Context, folderURI string) ([]string, error) {
	if err := f.listErr[folderURI]; err != nil {
		return nil, err
	}
	return f.files[folderURI], nil
}

func (f *fakeProvider) GetInfo(_ context.Context, fileURI string) (*provider.FileInfo, error) {
	f.infoCalls = append(f.infoCalls, fileURI)
	if err := f.infoErr[fileURI]; err != nil {
		return nil, err
	}
	return &provider.FileInfo{Name: FilenameFromURI(fileURI), Size: 1}, nil
}

func (f *fakeProvider) Open(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func newTestCache(t *testing.T) *dedupcache.Cache {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.ImportedFile{}))
	return dedupcache.New(imported.NewRepository(db))
}

func TestFindNewImages_FiltersByExtension(t *testing.T) {
	p := &fakeProvider{
		files: map[string][]string{
			"file:///photos": {
				"file:///photos/a.png",
				"file:///photos/b.txt",
				"file:///photos/c.JPG",
				"file:///photos/d.mp4",
			},
		},
	}
	svc := NewService(p, newTestCache(t))

	result := svc.FindNewImages(context.Background(), []entities.FolderConfig{{URI: "file:///photos"}})

	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "a.png", result.Candidates[0].Filename)
	assert.Equal(t, "image/png", result.Candidates[0].MIMEType)
	assert.Equal(t, "c.JPG", result.Candidates[1].Filename)
	assert.Equal(t, "image/jpeg", result.Candidates[1].MIMEType)
	assert.Empty(t, result.FolderErrors)
}

func TestFindNewImages_NoIOForUnsupportedExtensions(t *testing.T) {
	p := &fakeProvider{
		files: map[string][]string{
			"file:///photos": {
				"file:///photos/skip.txt",
				"file:///photos/keep.jpg",
				"file:///photos/skip.pdf",
			},
		},
	}
	svc := NewService(p, newTestCache(t))

	svc.FindNewImages(context.Background(), []entities.FolderConfig{{URI: "file:///photos"}})

	// Only the image file may be inspected
	assert.Equal(t, []string{"file:///photos/keep.jpg"}, p.infoCalls)
}

func TestFindNewImages_FolderFaultIsolation(t *testing.T) {
	p := &fakeProvider{
		files: map[string][]string{
			"file:///ok": {"file:///ok/cat.jpg"},
		},
		listErr: map[string]error{
			"file:///broken": errors.New("permission denied"),
		},
	}
	svc := NewService(p, newTestCache(t))

	result := svc.FindNewImages(context.Background(), []entities.FolderConfig{
		{URI: "file:///broken", DisplayName: "Broken"},
		{URI: "file:///ok"},
	})

	// The healthy folder is still scanned
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "file:///ok/cat.jpg", result.Candidates[0].URI)

	require.Len(t, result.FolderErrors, 1)
	assert.Contains(t, result.FolderErrors[0], "Broken")
	assert.Contains(t, result.FolderErrors[0], "permission denied")
}

func TestFindNewImages_SkipsVanishedFiles(t *testing.T) {
	p := &fakeProvider{
		files: map[string][]string{
			"file:///photos": {
				"file:///photos/gone.jpg",
				"file:///photos/here.jpg",
			},
		},
		infoErr: map[string]error{
			"file:///photos/gone.jpg": errors.New("no such file"),
		},
	}
	svc := NewService(p, newTestCache(t))

	result := svc.FindNewImages(context.Background(), []entities.FolderConfig{{URI: "file:///photos"}})

	// The vanished file is skipped without an error report
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "file:///photos/here.jpg", result.Candidates[0].URI)
	assert.Empty(t, result.FolderErrors)
}

func TestFindNewImages_SkipsCachedFiles(t *testing.T) {
	p := &fakeProvider{
		files: map[string][]string{
			"file:///photos": {
				"file:///photos/old.jpg",
				"file:///photos/new.jpg",
			},
		},
	}
	cache := newTestCache(t)
	cache.MarkImported("file:///photos/old.jpg", time.Now())

	svc := NewService(p, cache)

	result := svc.FindNewImages(context.Background(), []entities.FolderConfig{{URI: "file:///photos"}})

	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "file:///photos/new.jpg", result.Candidates[0].URI)
}

func TestFindNewImages_NoFolders(t *testing.T) {
	svc := NewService(&fakeProvider{}, newTestCache(t))

	result := svc.FindNewImages(context.Background(), nil)

	assert.Empty(t, result.Candidates)
	assert.Empty(t, result.FolderErrors)
}
