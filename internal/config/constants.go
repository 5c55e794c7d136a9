package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./snapshelf.db"

	// DefaultScanIntervalMinutes is the default auto-import scan interval
	DefaultScanIntervalMinutes = 30
)
