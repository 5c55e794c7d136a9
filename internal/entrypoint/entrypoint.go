package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mkoterski/snapshelf/internal/audit"
	"github.com/mkoterski/snapshelf/internal/config"
	"github.com/mkoterski/snapshelf/internal/database"
	auditrepo "github.com/mkoterski/snapshelf/internal/database/audit"
	"github.com/mkoterski/snapshelf/internal/database/imported"
	"github.com/mkoterski/snapshelf/internal/dedupcache"
	"github.com/mkoterski/snapshelf/internal/discovery"
	http_controllers "github.com/mkoterski/snapshelf/internal/http"
	"github.com/mkoterski/snapshelf/internal/importer"
	"github.com/mkoterski/snapshelf/internal/provider/localfs"
	"github.com/mkoterski/snapshelf/internal/scheduler"
	"github.com/mkoterski/snapshelf/internal/settingsstore"
	"github.com/mkoterski/snapshelf/internal/shelf"
	"github.com/mkoterski/snapshelf/internal/tasks"
	"github.com/mkoterski/snapshelf/internal/watcher"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// ReloadFunc is called on SIGHUP to re-read settings without a restart.
type ReloadFunc func()

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// gracefully. SIGHUP invokes onReload and keeps serving.
func Serve(router *gin.Engine, cfg *config.Config, onReload ReloadFunc, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends syscall.SIGTERM, kill -2 is syscall.SIGINT.
	// SIGHUP re-reads settings, anything else stops the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range quit {
		if sig == syscall.SIGHUP {
			log.Printf("Received SIGHUP, reloading settings")
			if onReload != nil {
				onReload()
			}
			continue
		}
		break
	}
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop the scheduler and task queue before the HTTP listener so no
	// new scans begin while the server drains
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the full daemon: database, dedup cache, scan pipeline,
// scheduler, task queue, folder watcher and HTTP admin API.
func Run(cfg *config.Config, version string) {
	setupLogging(cfg)

	log.Printf("Starting Snapshelf v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	settingsStore := settingsstore.New(db)

	// Dedup cache over the imported-files ledger
	cache := dedupcache.New(imported.NewRepository(db.DB))

	// Audit trail for scan runs, imports and settings changes
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))

	// The scan pipeline: discover new images in watched folders, then
	// upload + register each one against the shelf server
	fileProvider := localfs.New()
	shelfClient := shelf.NewClientWithTimeout(cfg.Shelf.Timeout)
	discoveryService := discovery.NewService(fileProvider, cache)
	importService := importer.NewService(fileProvider, shelfClient, cache)

	sched := scheduler.NewAutoImportScheduler(
		settingsStore,
		discoveryService,
		importService,
		auditService,
		scheduler.NewGuard(),
	)

	if cfg.Audit.ReportsDir != "" {
		sched.SetReportStore(audit.NewReportStore(cfg.Audit.ReportsDir))
		log.Printf("Scan reports will be saved to %s", cfg.Audit.ReportsDir)
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var auditCleanupTrigger *scheduler.CronTrigger
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// The scan chain is the durable counterpart of the in-process
		// cron schedule: a queued scan outlives a restart
		scanChain := tasks.NewScanChain(taskClient, sched)
		sched.SetBackgroundTrigger(scanChain)

		taskClient.Register(
			scanChain.Queue(),
			tasks.NewCleanupAuditEventsQueue(auditService),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		// Prune old audit events once a day while the daemon lives
		auditCleanupTrigger = scheduler.NewCronTrigger(func() {
			task := tasks.CleanupAuditEventsTask{RetentionDays: cfg.Audit.RetentionDays}
			if _, err := taskClient.Add(task).Save(); err != nil {
				log.Printf("Failed to enqueue audit cleanup: %v", err)
			}
		})
		if err := auditCleanupTrigger.Start(24 * time.Hour); err != nil {
			log.Printf("Failed to schedule audit cleanup: %v", err)
		}
	}

	// Folder watcher requests a scan shortly after images appear instead
	// of waiting for the next scheduled run
	var watchCancel context.CancelFunc
	if cfg.Watch.Enabled {
		scanFn := func(ctx context.Context) error {
			_, err := sched.TriggerScan(ctx)
			if errors.Is(err, scheduler.ErrScanInProgress) {
				return nil
			}
			return err
		}
		folderWatcher := watcher.New(scanFn, settingsStore)
		if cfg.Watch.Debounce > 0 {
			folderWatcher.SetDebounce(cfg.Watch.Debounce)
		}

		var watchCtx context.Context
		watchCtx, watchCancel = context.WithCancel(context.Background())
		go folderWatcher.Start(watchCtx)
	}

	// Start periodic scanning. A disabled or unconfigured auto-import is
	// a silent no-op, not an error.
	if err := sched.Start(context.Background()); err != nil {
		log.Printf("Failed to start auto-import scheduler: %v", err)
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:      db,
		SettingsStore: settingsStore,
		Scheduler:     sched,
		Cache:         cache,
		ShelfClient:   shelfClient,
		AuditService:  auditService,
		TaskClient:    taskClient,
		TaskWorkers:   cfg.Tasks.Workers,
		ReadOnly:      cfg.HTTP.ReadOnly,
		Version:       version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// SIGHUP re-reads settings and restarts the triggers, covering
	// settings edits made outside the HTTP API
	onReload := func() {
		if err := sched.Reschedule(); err != nil {
			log.Printf("Failed to reschedule after reload: %v", err)
		}
	}

	onShutdown := func(ctx context.Context) {
		sched.Stop()
		if watchCancel != nil {
			watchCancel()
		}
		if auditCleanupTrigger != nil {
			auditCleanupTrigger.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onReload, onShutdown)
}

// setupLogging mirrors log output into a rotating file when LOG_FILE is
// set. Console output always stays on.
func setupLogging(cfg *config.Config) {
	if cfg.Log.File == "" {
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	log.Printf("Logging to %s (max %dMB, %d backups)", cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups)
}
