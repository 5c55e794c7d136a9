package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Shelf
		AutoImport
		Watch
		Tasks
		Audit
		Log
	}

	HTTP struct {
		Port     int32
		Host     string
		ReadOnly bool // Block write endpoints (settings, cache, scans)
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Shelf struct {
		ServerURL string
		APIKey    string
		Timeout   time.Duration // Per-call upload/registration timeout
	}
	AutoImport struct {
		Enabled         bool
		Folders         string // Comma-separated folder paths (settings override this)
		IntervalMinutes int
		ScanTimeout     time.Duration
	}
	Watch struct {
		Enabled  bool
		Debounce time.Duration
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Audit struct {
		RetentionDays int    // Days to keep audit events (default: 30)
		ReportsDir    string // Directory for per-run JSON scan reports (empty disables)
	}
	Log struct {
		File       string // Empty disables file logging
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8288)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("http_read_only", false)
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("shelf_server_url", "")
	v.SetDefault("shelf_api_key", "")
	v.SetDefault("shelf_timeout", "60s")
	v.SetDefault("auto_import_enabled", false)
	v.SetDefault("auto_import_folders", "")
	v.SetDefault("auto_import_interval_minutes", DefaultScanIntervalMinutes)
	v.SetDefault("auto_import_scan_timeout", "10m")
	v.SetDefault("auto_import_watch", false)
	v.SetDefault("auto_import_watch_debounce", "2s")
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_reports_dir", "")

	// Log file defaults (rotation handled by lumberjack)
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 20)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("log_max_age_days", 28)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "15m")
	v.SetDefault("task_release_after", "30m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port:     v.GetInt32("PORT"),
			Host:     v.GetString("HOST"),
			ReadOnly: v.GetBool("HTTP_READ_ONLY"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Shelf: Shelf{
			ServerURL: v.GetString("SHELF_SERVER_URL"),
			APIKey:    v.GetString("SHELF_API_KEY"),
			Timeout:   v.GetDuration("SHELF_TIMEOUT"),
		},
		AutoImport: AutoImport{
			Enabled:         v.GetBool("AUTO_IMPORT_ENABLED"),
			Folders:         v.GetString("AUTO_IMPORT_FOLDERS"),
			IntervalMinutes: v.GetInt("AUTO_IMPORT_INTERVAL_MINUTES"),
			ScanTimeout:     v.GetDuration("AUTO_IMPORT_SCAN_TIMEOUT"),
		},
		Watch: Watch{
			Enabled:  v.GetBool("AUTO_IMPORT_WATCH"),
			Debounce: v.GetDuration("AUTO_IMPORT_WATCH_DEBOUNCE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
			ReportsDir:    v.GetString("AUDIT_REPORTS_DIR"),
		},
		Log: Log{
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
	}
}
