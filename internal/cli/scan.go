package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mkoterski/snapshelf/internal/audit"
	"github.com/mkoterski/snapshelf/internal/config"
	"github.com/mkoterski/snapshelf/internal/database"
	auditrepo "github.com/mkoterski/snapshelf/internal/database/audit"
	"github.com/mkoterski/snapshelf/internal/database/imported"
	"github.com/mkoterski/snapshelf/internal/dedupcache"
	"github.com/mkoterski/snapshelf/internal/discovery"
	"github.com/mkoterski/snapshelf/internal/importer"
	"github.com/mkoterski/snapshelf/internal/provider/localfs"
	"github.com/mkoterski/snapshelf/internal/scheduler"
	"github.com/mkoterski/snapshelf/internal/settingsstore"
	"github.com/mkoterski/snapshelf/internal/shelf"
)

// ScanCommand runs a single auto-import scan and prints the report.
type ScanCommand struct {
	DatabasePath string
	Verbose      bool
}

// NewScanCommand creates a new ScanCommand
func NewScanCommand() *ScanCommand {
	return &ScanCommand{}
}

// ParseFlags parses command line flags
func (cmd *ScanCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the snapshelf database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print run details and folder list")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s scan [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Run one auto-import scan: discover new images in the watched folders,\n")
		fmt.Fprintf(os.Stderr, "upload them to the shelf server and register a bookmark for each.\n\n")
		fmt.Fprintf(os.Stderr, "Settings resolve database > environment > default, so a daemon-configured\n")
		fmt.Fprintf(os.Stderr, "setup works as-is, and an ad-hoc run can come fully from the environment:\n")
		fmt.Fprintf(os.Stderr, "  AUTO_IMPORT_ENABLED=1\n")
		fmt.Fprintf(os.Stderr, "  AUTO_IMPORT_FOLDERS=/path/one,/path/two\n")
		fmt.Fprintf(os.Stderr, "  SHELF_SERVER_URL=https://shelf.example.com\n")
		fmt.Fprintf(os.Stderr, "  SHELF_API_KEY=...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s scan\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s scan -db /data/snapshelf.db -verbose\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes one scan and reports the outcome. Per-file failures make
// the command fail so scripted runs notice them.
func (cmd *ScanCommand) Run() error {
	fmt.Println("📷 Snapshelf Scan")
	fmt.Println("=================")

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	fmt.Printf("📁 Database: %s\n", cmd.DatabasePath)

	settingsStore := settingsstore.New(db)
	importConfig := settingsStore.GetAutoImportConfig()

	if !importConfig.Enabled {
		fmt.Println("\n⏭️  Auto-import is disabled; nothing to do.")
		fmt.Println("    Enable it via the daemon API or run with AUTO_IMPORT_ENABLED=1.")
		return nil
	}
	if len(importConfig.Folders) == 0 {
		fmt.Println("\n⏭️  No folders configured; nothing to do.")
		fmt.Println("    Add folders via the daemon API or set AUTO_IMPORT_FOLDERS.")
		return nil
	}
	if importConfig.ServerURL == "" || importConfig.APIKey == "" {
		return fmt.Errorf("shelf server not configured: set SHELF_SERVER_URL and SHELF_API_KEY or configure via the daemon API")
	}

	fmt.Printf("🌐 Shelf server: %s\n", importConfig.ServerURL)
	fmt.Printf("🔍 Scanning %d folders...\n", len(importConfig.Folders))
	if cmd.Verbose {
		for _, folder := range importConfig.Folders {
			fmt.Printf("    - %s\n", folder.Name())
		}
	}

	cache := dedupcache.New(imported.NewRepository(db.DB))
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	fileProvider := localfs.New()
	shelfClient := shelf.NewClient()

	sched := scheduler.NewAutoImportScheduler(
		settingsStore,
		discovery.NewService(fileProvider, cache),
		importer.NewService(fileProvider, shelfClient, cache),
		auditService,
		scheduler.NewGuard(),
	)

	report, err := sched.Scan(context.Background())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	cmd.printReport(report)

	failed := len(report.Errors) + len(report.FolderErrors)
	if failed > 0 {
		return fmt.Errorf("%d failures during scan", failed)
	}

	fmt.Println("\n✅ Scan complete!")
	return nil
}

func (cmd *ScanCommand) printReport(report *scheduler.ScanReport) {
	duration := report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond)

	fmt.Printf("\n📋 Found %d new files\n", report.Candidates)
	fmt.Printf("💾 Imported %d files in %v\n", report.Imported, duration)

	if len(report.FolderErrors) > 0 {
		fmt.Printf("\n⚠️  %d folders could not be scanned:\n", len(report.FolderErrors))
		for _, msg := range report.FolderErrors {
			fmt.Printf("  ❌ %s\n", msg)
		}
	}

	if len(report.Errors) > 0 {
		fmt.Printf("\n⚠️  %d files failed to import (they will be retried next scan):\n", len(report.Errors))
		for _, msg := range report.Errors {
			fmt.Printf("  ❌ %s\n", msg)
		}
	}

	if cmd.Verbose {
		fmt.Printf("\n🧾 Run %s (%s → %s)\n",
			report.RunID,
			report.StartedAt.Format(time.RFC3339),
			report.FinishedAt.Format(time.RFC3339))
	}
}
