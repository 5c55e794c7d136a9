package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.ReadOnly {
		router.Use(NewReadOnlyMiddleware(true).Handler())
	}

	// Create controllers with appropriate dependencies
	health := NewHealthController(cfg.Database, cfg.Version)
	autoImportController := NewAutoImportController(cfg.SettingsStore, cfg.Scheduler, cfg.ShelfClient, cfg.AuditService)
	cacheController := NewCacheController(cfg.Cache, cfg.AuditService)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Auto-import settings and scan endpoints
	autoImport := router.Group("/api/autoimport")
	{
		autoImport.GET("/settings", autoImportController.GetSettings)
		autoImport.POST("/settings", autoImportController.UpdateSettings)
		autoImport.POST("/settings/reset", autoImportController.ResetSettings)
		autoImport.POST("/folders", autoImportController.AddFolder)
		autoImport.DELETE("/folders", autoImportController.RemoveFolder)
		autoImport.POST("/scan", autoImportController.ScanNow)
		autoImport.GET("/status", autoImportController.GetStatus)
		autoImport.POST("/validate", autoImportController.ValidateConnection)

		// Dedup cache introspection
		autoImport.GET("/cache/stats", cacheController.GetStats)
		autoImport.GET("/cache/files", cacheController.ListFiles)
		autoImport.DELETE("/cache/files", cacheController.RemoveFile)
		autoImport.POST("/cache/clear", cacheController.Clear)
	}

	// Audit trail endpoint
	if cfg.AuditService != nil {
		auditController := NewAuditController(cfg.AuditService)
		router.GET("/api/audit", auditController.GetAuditEvents)
	}

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		router.GET("/api/tasks/types", tasksController.ListTaskTypes)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	return router
}
