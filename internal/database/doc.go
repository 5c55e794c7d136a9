// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, settings access
//	├── imported/        # Imported-file dedup records
//	└── audit/           # Audit event log
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./snapshelf.db")
//
//	// Create domain-specific repositories
//	importedRepo := imported.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
//	// Use repositories
//	exists, err := importedRepo.Exists("file:///photos/cat.jpg")
//	events, total, err := auditRepo.GetEvents(50, 0)
//
// The main Database struct keeps the settings accessors used by the
// settings store; everything else lives in the sub-packages.
package database
