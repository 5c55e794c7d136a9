package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mkoterski/snapshelf/internal/audit"
	"github.com/mkoterski/snapshelf/internal/provider"
	"github.com/mkoterski/snapshelf/internal/provider/localfs"
	"github.com/mkoterski/snapshelf/internal/scheduler"
	"github.com/mkoterski/snapshelf/internal/settingsstore"
	"github.com/mkoterski/snapshelf/internal/tasks"
	"github.com/mkoterski/snapshelf/internal/watcher"
)

// =============================================================================
// Folder Providers
// =============================================================================

// Provider implementations
var _ provider.Provider = (*localfs.Provider)(nil)

// =============================================================================
// Scan Scheduling
// =============================================================================

// Trigger implementations
var _ scheduler.Trigger = (*scheduler.CronTrigger)(nil)
var _ scheduler.Trigger = (*tasks.ScanChain)(nil)

// Listener implementations
var _ scheduler.Listener = scheduler.LogListener{}

// FolderLister implementations
var _ watcher.FolderLister = (*settingsstore.SettingsStore)(nil)

// =============================================================================
// Task Queue
// =============================================================================

// Scanner implementations
var _ tasks.Scanner = (*scheduler.AutoImportScheduler)(nil)

// AuditEventCleaner implementations
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
