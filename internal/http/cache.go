package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkoterski/snapshelf/internal/audit"
	"github.com/mkoterski/snapshelf/internal/dedupcache"
)

// CacheController exposes the dedup cache to the settings UI: inspect what
// has been imported, forget single files, or wipe the whole cache so
// everything is imported again.
type CacheController struct {
	cache        *dedupcache.Cache
	auditService *audit.Service
}

func NewCacheController(cache *dedupcache.Cache, auditService *audit.Service) *CacheController {
	return &CacheController{
		cache:        cache,
		auditService: auditService,
	}
}

// CacheStatsResponse is the response for GET /api/autoimport/cache/stats
type CacheStatsResponse struct {
	TotalFiles   int64   `json:"total_files"`
	OldestImport *string `json:"oldest_import"`
	NewestImport *string `json:"newest_import"`
}

// GetStats returns dedup cache statistics
func (cc *CacheController) GetStats(c *gin.Context) {
	stats := cc.cache.Stats()

	response := CacheStatsResponse{TotalFiles: stats.TotalFiles}
	if stats.OldestImport != nil {
		s := stats.OldestImport.UTC().Format(time.RFC3339)
		response.OldestImport = &s
	}
	if stats.NewestImport != nil {
		s := stats.NewestImport.UTC().Format(time.RFC3339)
		response.NewestImport = &s
	}

	c.JSON(http.StatusOK, response)
}

// ListFiles returns all imported-file records, oldest first
func (cc *CacheController) ListFiles(c *gin.Context) {
	files := cc.cache.ImportedFiles()

	c.JSON(http.StatusOK, gin.H{
		"files": files,
		"total": len(files),
	})
}

// RemoveFile forgets a single URI so the next scan imports it again
// DELETE /api/autoimport/cache/files?uri=...
func (cc *CacheController) RemoveFile(c *gin.Context) {
	uri := c.Query("uri")
	if uri == "" {
		respondBadRequest(c, "uri query parameter is required")
		return
	}

	err := cc.cache.Remove(uri)
	if cc.auditService != nil {
		cc.auditService.LogCache("cache_remove", "Removed cache entry: "+uri, err)
	}
	if err != nil {
		respondInternalError(c, err, "remove cache entry")
		return
	}

	respondSuccess(c, "Cache entry removed; the file will be re-imported on the next scan")
}

// Clear wipes the dedup cache entirely
// POST /api/autoimport/cache/clear
func (cc *CacheController) Clear(c *gin.Context) {
	err := cc.cache.Clear()
	if cc.auditService != nil {
		cc.auditService.LogCache("cache_clear", "Dedup cache cleared", err)
	}
	if err != nil {
		respondInternalError(c, err, "clear cache")
		return
	}

	respondSuccess(c, "Cache cleared; all files will be re-imported on the next scan")
}
