package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mkoterski/snapshelf/internal/audit"
	"github.com/mkoterski/snapshelf/internal/config"
	"github.com/mkoterski/snapshelf/internal/database"
	auditrepo "github.com/mkoterski/snapshelf/internal/database/audit"
	"github.com/mkoterski/snapshelf/internal/database/imported"
	"github.com/mkoterski/snapshelf/internal/dedupcache"
	"github.com/mkoterski/snapshelf/internal/entities"
)

// CacheCommand inspects and maintains the dedup cache: list and stats
// for diagnostics, remove and clear to force re-imports.
type CacheCommand struct {
	Subcommand   string
	DatabasePath string
	URI          string
}

// NewCacheCommand creates a new CacheCommand
func NewCacheCommand() *CacheCommand {
	return &CacheCommand{}
}

// ParseFlags parses the subcommand and its flags
func (cmd *CacheCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cache", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the snapshelf database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cache <list|stats|clear|remove <uri>> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Inspect and maintain the dedup cache of already-imported files.\n\n")
		fmt.Fprintf(os.Stderr, "Subcommands:\n")
		fmt.Fprintf(os.Stderr, "  list          Print every cached file, oldest import first\n")
		fmt.Fprintf(os.Stderr, "  stats         Print cache totals and oldest/newest import times\n")
		fmt.Fprintf(os.Stderr, "  clear         Forget all files (everything re-imports next scan)\n")
		fmt.Fprintf(os.Stderr, "  remove <uri>  Forget one file (it re-imports next scan)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s cache stats\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s cache list -db /data/snapshelf.db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s cache remove file:///photos/IMG_0042.jpg\n", os.Args[0])
	}

	if len(args) < 1 {
		fs.Usage()
		return fmt.Errorf("missing cache subcommand")
	}
	cmd.Subcommand = args[0]

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	switch cmd.Subcommand {
	case "list", "stats", "clear":
		// no extra arguments
	case "remove":
		if fs.NArg() < 1 {
			return fmt.Errorf("remove requires a file URI")
		}
		cmd.URI = fs.Arg(0)
	default:
		fs.Usage()
		return fmt.Errorf("unknown cache subcommand: %s", cmd.Subcommand)
	}

	return nil
}

// Run executes the cache subcommand
func (cmd *CacheCommand) Run() error {
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

	cache := dedupcache.New(imported.NewRepository(db.DB))
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))

	switch cmd.Subcommand {
	case "list":
		return cmd.runList(cache)
	case "stats":
		return cmd.runStats(cache)
	case "clear":
		return cmd.runClear(cache, auditService)
	case "remove":
		return cmd.runRemove(cache, auditService)
	}
	return fmt.Errorf("unknown cache subcommand: %s", cmd.Subcommand)
}

func (cmd *CacheCommand) runList(cache *dedupcache.Cache) error {
	files := cache.ImportedFiles()
	if len(files) == 0 {
		fmt.Println("ℹ️  Cache is empty; the next scan imports everything it finds.")
		return nil
	}

	fmt.Printf("📋 %d cached files (oldest first):\n\n", len(files))
	for _, f := range files {
		fmt.Printf("  %s  %s\n", f.ImportedAt.Local().Format("2006-01-02 15:04:05"), f.SourceURI)
	}
	return nil
}

func (cmd *CacheCommand) runStats(cache *dedupcache.Cache) error {
	stats := cache.Stats()

	fmt.Println("📊 Dedup cache")
	fmt.Println("==============")
	fmt.Printf("Files:  %d\n", stats.TotalFiles)
	if stats.OldestImport != nil {
		fmt.Printf("Oldest: %s\n", stats.OldestImport.Local().Format("2006-01-02 15:04:05"))
	}
	if stats.NewestImport != nil {
		fmt.Printf("Newest: %s\n", stats.NewestImport.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (cmd *CacheCommand) runClear(cache *dedupcache.Cache, auditService *audit.Service) error {
	before := cache.Stats().TotalFiles

	err := cache.Clear()
	cmd.logMaintenance(auditService, "cache_clear", "Dedup cache cleared via CLI", err)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Printf("🗑️  Cleared %d cache entries; all files will be re-imported on the next scan.\n", before)
	return nil
}

func (cmd *CacheCommand) runRemove(cache *dedupcache.Cache, auditService *audit.Service) error {
	if !cache.HasBeenImported(cmd.URI) {
		fmt.Printf("ℹ️  %s is not in the cache.\n", cmd.URI)
		return nil
	}

	err := cache.Remove(cmd.URI)
	cmd.logMaintenance(auditService, "cache_remove", "Removed cache entry via CLI: "+cmd.URI, err)
	if err != nil {
		return fmt.Errorf("failed to remove cache entry: %w", err)
	}

	fmt.Printf("🗑️  Forgot %s; it will be re-imported on the next scan.\n", cmd.URI)
	return nil
}

// logMaintenance records cache maintenance synchronously so the event
// is written before the process exits.
func (cmd *CacheCommand) logMaintenance(auditService *audit.Service, action, description string, opErr error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCache,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}
	if opErr != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = opErr.Error()
	}
	if err := auditService.Log(event); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record audit event: %v\n", err)
	}
}
