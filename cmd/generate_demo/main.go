// Command generate_demo creates a demo database with sample auto-import
// history, so the HTTP API can be explored without a real shelf server.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mkoterski/snapshelf/internal/audit"
	"github.com/mkoterski/snapshelf/internal/database"
	auditrepo "github.com/mkoterski/snapshelf/internal/database/audit"
	"github.com/mkoterski/snapshelf/internal/database/imported"
	"github.com/mkoterski/snapshelf/internal/dedupcache"
	"github.com/mkoterski/snapshelf/internal/entities"
	"github.com/mkoterski/snapshelf/internal/settingsstore"
)

const defaultDemoDatabasePath = "./demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}
	if dir := filepath.Dir(*dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	seedSettings(db)

	cache := dedupcache.New(imported.NewRepository(db.DB))
	imports := seedImportedFiles(cache)

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	seedAuditEvents(auditService, imports)

	log.Println("Demo database generated successfully!")
}

// seedSettings configures the importer the way a user who finished setup
// would have: folders added, shortened interval, shelf connection stored.
func seedSettings(db *database.Database) {
	store := settingsstore.New(db)

	if err := store.SetAutoImportEnabled(true); err != nil {
		log.Fatalf("Failed to enable auto-import: %v", err)
	}
	folders := []entities.FolderConfig{
		{URI: "file:///home/demo/Pictures/Camera", DisplayName: "Camera Roll"},
		{URI: "file:///home/demo/Pictures/Screenshots", DisplayName: "Screenshots"},
	}
	if err := store.SetAutoImportFolders(folders); err != nil {
		log.Fatalf("Failed to set folders: %v", err)
	}
	if err := store.SetAutoImportInterval(15); err != nil {
		log.Fatalf("Failed to set interval: %v", err)
	}
	if err := store.SetShelfServerURL("https://shelf.example.com"); err != nil {
		log.Fatalf("Failed to set server URL: %v", err)
	}
	if err := store.SetShelfAPIKey("demo-api-key"); err != nil {
		log.Fatalf("Failed to set API key: %v", err)
	}

	if err := store.SetAutoImportStatus("success", "Imported 3 new files", 3); err != nil {
		log.Fatalf("Failed to set scan status: %v", err)
	}
	if err := store.SetAutoImportLastScanAt(time.Now().Add(-2 * time.Hour)); err != nil {
		log.Fatalf("Failed to set last scan time: %v", err)
	}

	log.Printf("Configured auto-import: %d folders, 15 minute interval", len(folders))
}

// dayImport groups the files imported on a single (backdated) day,
// feeding both the dedup cache and the matching audit history.
type dayImport struct {
	day   time.Time
	files []string
}

func seedImportedFiles(cache *dedupcache.Cache) []dayImport {
	now := time.Now()
	days := make([]dayImport, 0, 14)

	// Two weeks of camera shots, two per day
	shot := 1
	for d := 14; d >= 1; d-- {
		day := now.AddDate(0, 0, -d)
		di := dayImport{day: day}
		for i := 0; i < 2; i++ {
			di.files = append(di.files,
				fmt.Sprintf("file:///home/demo/Pictures/Camera/DSC_%04d.jpg", shot))
			shot++
		}
		days = append(days, di)
	}

	// A burst of screenshots on the most recent three days
	for i := 0; i < 3; i++ {
		idx := len(days) - 3 + i
		days[idx].files = append(days[idx].files,
			fmt.Sprintf("file:///home/demo/Pictures/Screenshots/Screenshot_%s.png",
				days[idx].day.Format("2006-01-02")))
	}

	total := 0
	for _, di := range days {
		for i, uri := range di.files {
			importedAt := di.day.Add(time.Duration(i) * time.Minute)
			cache.MarkImported(uri, importedAt)
			total++
		}
	}

	log.Printf("Seeded %d imported files across %d days", total, len(days))
	return days
}

// seedAuditEvents writes a scan event per seeded day, plus one partial
// run with a matching import failure and a couple of maintenance events.
func seedAuditEvents(auditService *audit.Service, imports []dayImport) {
	logEvent := func(event *entities.AuditEvent) {
		if err := auditService.Log(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}

	for i, di := range imports {
		runID := uuid.New().String()
		event := &entities.AuditEvent{
			EventType:   entities.AuditEventScan,
			Action:      "auto_import_scan",
			Description: fmt.Sprintf("Imported %d new files", len(di.files)),
			Status:      entities.AuditStatusSuccess,
			Metadata:    scanMetadata(runID, len(di.files)),
			CreatedAt:   di.day.Add(5 * time.Minute),
		}

		// One run in the middle of the history went partial
		if i == len(imports)/2 {
			event.Status = entities.AuditStatusFailed
			event.ErrorMsg = "1 of 3 files failed to import"
			logEvent(&entities.AuditEvent{
				EventType:   entities.AuditEventImport,
				Action:      "file_import",
				Description: "File import failed",
				Status:      entities.AuditStatusFailed,
				ErrorMsg:    "DSC_0099.jpg: upload failed: shelf server error: HTTP 503",
				Metadata:    scanMetadata(runID, 0),
				CreatedAt:   di.day.Add(4 * time.Minute),
			})
		}

		logEvent(event)
	}

	logEvent(&entities.AuditEvent{
		EventType:   entities.AuditEventSettings,
		Action:      "settings_update",
		Description: "Auto-import settings updated",
		Status:      entities.AuditStatusSuccess,
		CreatedAt:   imports[0].day.Add(-time.Hour),
	})
	logEvent(&entities.AuditEvent{
		EventType:   entities.AuditEventCache,
		Action:      "cache_remove",
		Description: "Removed file:///home/demo/Pictures/Camera/DSC_0003.jpg from the import cache",
		Status:      entities.AuditStatusSuccess,
		CreatedAt:   imports[len(imports)-1].day.Add(time.Hour),
	})

	log.Printf("Seeded %d audit events", len(imports)+3)
}

func scanMetadata(runID string, imported int) string {
	md, err := json.Marshal(map[string]any{
		"run_id":   runID,
		"imported": imported,
	})
	if err != nil {
		return ""
	}
	return string(md)
}
