// Package watcher requests scans when image files land in watched
// folders, so imports happen shortly after files appear instead of
// waiting for the next scheduled run. Only local file:// folders can be
// watched; the scan itself still goes through the scheduler's guard.
package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mkoterski/snapshelf/internal/discovery"
	"github.com/mkoterski/snapshelf/internal/entities"
	"github.com/mkoterski/snapshelf/internal/provider/localfs"
)

// FolderLister returns the folders that should currently be watched.
type FolderLister interface {
	GetAutoImportFolders() []entities.FolderConfig
}

// Service watches configured local folders and requests a debounced
// scan when new image files appear in them.
type Service struct {
	scanFn        func(ctx context.Context) error
	folders       FolderLister
	debounce      time.Duration
	refreshPeriod time.Duration

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	watching map[string]bool
}

// New creates a folder watcher. scanFn is invoked after file events
// settle; it should tolerate being called while a scan is running.
func New(scanFn func(ctx context.Context) error, folders FolderLister) *Service {
	return &Service{
		scanFn:        scanFn,
		folders:       folders,
		debounce:      2 * time.Second,
		refreshPeriod: 5 * time.Minute,
		watching:      make(map[string]bool),
	}
}

// SetDebounce overrides the default debounce interval (for testing).
func (s *Service) SetDebounce(d time.Duration) {
	s.debounce = d
}

// Start blocks until ctx is cancelled. It watches the configured local
// folders and re-resolves the folder list periodically so settings
// changes are picked up.
func (s *Service) Start(ctx context.Context) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Folder watcher: fsnotify unavailable: %v", err)
		return
	}
	defer w.Close()

	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()

	s.refreshWatchPaths()
	log.Printf("Folder watcher: started")

	refreshTicker := time.NewTicker(s.refreshPeriod)
	defer refreshTicker.Stop()

	// Debounce timer coalesces bursts of file events into one scan.
	// Starts stopped; reset on each relevant event.
	debounceTimer := time.NewTimer(0)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}
	scanPending := false

	for {
		select {
		case <-ctx.Done():
			log.Printf("Folder watcher: stopped")
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !s.wantsScan(ev) {
				continue
			}
			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(s.debounce)
			scanPending = true

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("Folder watcher: %v", err)

		case <-debounceTimer.C:
			if scanPending {
				scanPending = false
				log.Printf("Folder watcher: changes settled, requesting scan")
				if err := s.scanFn(ctx); err != nil {
					log.Printf("Folder watcher: scan request failed: %v", err)
				}
			}

		case <-refreshTicker.C:
			s.refreshWatchPaths()
		}
	}
}

// wantsScan reports whether the event is a new image file in a watched
// folder.
func (s *Service) wantsScan(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}

	s.mu.Lock()
	watched := s.watching[filepath.Dir(ev.Name)]
	s.mu.Unlock()
	if !watched {
		return false
	}

	if !discovery.IsSupportedImage(filepath.Base(ev.Name)) {
		return false
	}

	info, err := os.Stat(ev.Name)
	if err != nil || info.IsDir() {
		return false
	}
	return true
}

// refreshWatchPaths synchronizes the watch set with the configured
// folder list. Remote folders and missing paths are skipped.
func (s *Service) refreshWatchPaths() {
	wanted := make(map[string]bool)
	for _, folder := range s.folders.GetAutoImportFolders() {
		if i := strings.Index(folder.URI, "://"); i >= 0 && !strings.HasPrefix(folder.URI, "file://") {
			continue
		}

		path := localfs.PathFromURI(folder.URI)
		info, err := os.Stat(path)
		if err != nil {
			log.Printf("Folder watcher: %s not watchable: %v", folder.Name(), err)
			continue
		}
		if !info.IsDir() {
			continue
		}
		wanted[path] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for path := range s.watching {
		if !wanted[path] {
			if err := s.watcher.Remove(path); err != nil {
				log.Printf("Folder watcher: failed to unwatch %s: %v", path, err)
			}
			delete(s.watching, path)
			log.Printf("Folder watcher: stopped watching %s", path)
		}
	}

	for path := range wanted {
		if s.watching[path] {
			continue
		}
		if err := s.watcher.Add(path); err != nil {
			log.Printf("Folder watcher: failed to watch %s: %v", path, err)
			continue
		}
		s.watching[path] = true
		log.Printf("Folder watcher: watching %s", path)
	}
}
