// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help code agents understand
// extension points and how to implement new functionality.
//
// # Interface Categories
//
// The application uses several categories of interfaces:
//
// ## Folder Provider Interfaces
//
//   - Provider: Folder listing and file access behind URIs (internal/provider/provider.go)
//
// ## Scan Scheduling Interfaces
//
//   - Trigger: Fires scan runs on an interval (internal/scheduler/trigger.go)
//   - Listener: Receives scan outcomes (internal/scheduler/autoimport.go)
//   - FolderLister: Supplies the watched folder list (internal/watcher/watcher.go)
//
// ## Task Queue Interfaces
//
//   - Scanner: Runs one scan for a queued task (internal/tasks/scan.go)
//   - AuditEventCleaner: Prunes old audit events (internal/tasks/cleanup_audit.go)
//
// # Adding a New Folder Provider
//
// To add support for a new file source (e.g., an S3 bucket or WebDAV share):
//
//  1. Create the provider in internal/provider/<name>/
//
//     type Provider struct {
//         client *s3.Client
//     }
//
//     func (p *Provider) ListFiles(ctx context.Context, folderURI string) ([]string, error)
//     func (p *Provider) GetInfo(ctx context.Context, fileURI string) (*provider.FileInfo, error)
//     func (p *Provider) Open(ctx context.Context, fileURI string) (io.ReadCloser, error)
//
//     var _ provider.Provider = (*Provider)(nil)
//
//  2. Pick a URI scheme ("s3://bucket/prefix") and keep ListFiles non-recursive
//
//  3. Wire it in entrypoint.go in place of (or alongside) localfs.New()
//
// # Adding a New Trigger
//
// To fire scans from a new source (e.g., a message broker):
//
//  1. Implement Trigger in internal/scheduler/ or internal/tasks/
//
//     func (t *BrokerTrigger) Start(every time.Duration) error
//     func (t *BrokerTrigger) Stop()
//     func (t *BrokerTrigger) NextRun() *time.Time
//
//     var _ scheduler.Trigger = (*BrokerTrigger)(nil)
//
//  2. Attach it via AutoImportScheduler.SetBackgroundTrigger in entrypoint.go
//
// # Adding a New Task Type
//
// To add a new durable background job:
//
//  1. Define the task in internal/tasks/ with a Config() backlite.QueueConfig
//
//  2. Expose a NewXQueue(deps) backlite.Queue constructor
//
//  3. Register the queue with the task client in entrypoint.go
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., reports):
//
//  1. Create sub-package: internal/database/reports/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Implement interface methods
//
//  4. Add compile-time check:
//
//     var _ ReportStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
