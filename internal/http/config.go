package http

import (
	"github.com/mkoterski/snapshelf/internal/audit"
	"github.com/mkoterski/snapshelf/internal/database"
	"github.com/mkoterski/snapshelf/internal/dedupcache"
	"github.com/mkoterski/snapshelf/internal/scheduler"
	"github.com/mkoterski/snapshelf/internal/settingsstore"
	"github.com/mkoterski/snapshelf/internal/shelf"
	"github.com/mkoterski/snapshelf/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database      *database.Database
	SettingsStore *settingsstore.SettingsStore
	Scheduler     *scheduler.AutoImportScheduler
	Cache         *dedupcache.Cache
	ShelfClient   *shelf.Client

	// Audit trail
	AuditService *audit.Service

	// Task queue client (optional)
	TaskClient  *tasks.Client
	TaskWorkers int

	// ReadOnly blocks all write endpoints when set
	ReadOnly bool

	// Application info
	Version string
}
