package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkoterski/snapshelf/internal/audit"
	"github.com/mkoterski/snapshelf/internal/entities"
	"github.com/mkoterski/snapshelf/internal/scheduler"
	"github.com/mkoterski/snapshelf/internal/settingsstore"
	"github.com/mkoterski/snapshelf/internal/shelf"
)

// validateTimeout bounds the shelf server connectivity probe.
const validateTimeout = 10 * time.Second

// AutoImportController handles auto-import settings and scan operations
type AutoImportController struct {
	settingsStore *settingsstore.SettingsStore
	scheduler     *scheduler.AutoImportScheduler
	shelfClient   *shelf.Client
	auditService  *audit.Service
}

// NewAutoImportController creates a new controller
func NewAutoImportController(store *settingsstore.SettingsStore, sched *scheduler.AutoImportScheduler, client *shelf.Client, auditService *audit.Service) *AutoImportController {
	return &AutoImportController{
		settingsStore: store,
		scheduler:     sched,
		shelfClient:   client,
		auditService:  auditService,
	}
}

// IntervalPreset is a suggested scan interval for the settings UI.
type IntervalPreset struct {
	Label   string `json:"label"`
	Minutes int    `json:"minutes"`
}

// AutoImportSettingsResponse is the response for GET /api/autoimport/settings
type AutoImportSettingsResponse struct {
	Config     settingsstore.AutoImportConfigInfo `json:"config"`
	Status     settingsstore.AutoImportStatus     `json:"status"`
	NextRun    *time.Time                         `json:"next_run,omitempty"`
	IsRunning  bool                               `json:"is_running"`
	IsScanning bool                               `json:"is_scanning"`
	Presets    []IntervalPreset                   `json:"presets"`
}

// GetSettings returns the effective auto-import configuration with per-field
// sources, the last scan status and the current scheduler state.
func (c *AutoImportController) GetSettings(ctx *gin.Context) {
	if c.settingsStore == nil {
		respondError(ctx, http.StatusInternalServerError, "Settings store not available")
		return
	}

	response := AutoImportSettingsResponse{
		Config: c.settingsStore.GetAutoImportConfigInfo(),
		Status: c.settingsStore.GetAutoImportStatus(),
		Presets: []IntervalPreset{
			{Label: "Every 5 minutes", Minutes: 5},
			{Label: "Every 15 minutes", Minutes: 15},
			{Label: "Every 30 minutes", Minutes: 30},
			{Label: "Every hour", Minutes: 60},
			{Label: "Every 3 hours", Minutes: 180},
		},
	}
	if c.scheduler != nil {
		response.NextRun = c.scheduler.GetNextRunTime()
		response.IsRunning = c.scheduler.IsRunning()
		response.IsScanning = c.scheduler.IsScanning()
	}

	ctx.JSON(http.StatusOK, response)
}

// UpdateAutoImportSettingsRequest is the request body for POST /api/autoimport/settings
type UpdateAutoImportSettingsRequest struct {
	Enabled         *bool  `json:"enabled"`
	IntervalMinutes *int   `json:"interval_minutes"`
	ServerURL       string `json:"server_url"`
	APIKey          string `json:"api_key"`
}

// UpdateSettings saves auto-import settings and reschedules the scan job so
// changes take effect without a restart.
func (c *AutoImportController) UpdateSettings(ctx *gin.Context) {
	if c.settingsStore == nil {
		respondError(ctx, http.StatusInternalServerError, "Settings store not available")
		return
	}

	var req UpdateAutoImportSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request: "+err.Error())
		return
	}

	if req.ServerURL != "" {
		if err := c.settingsStore.SetShelfServerURL(req.ServerURL); err != nil {
			respondInternalError(ctx, err, "save server URL")
			return
		}
	}

	if req.APIKey != "" {
		if err := c.settingsStore.SetShelfAPIKey(req.APIKey); err != nil {
			respondInternalError(ctx, err, "save API key")
			return
		}
	}

	if req.IntervalMinutes != nil {
		if err := c.settingsStore.SetAutoImportInterval(*req.IntervalMinutes); err != nil {
			respondInternalError(ctx, err, "save scan interval")
			return
		}
	}

	if req.Enabled != nil {
		if err := c.settingsStore.SetAutoImportEnabled(*req.Enabled); err != nil {
			respondInternalError(ctx, err, "save enabled state")
			return
		}
	}

	if c.auditService != nil {
		c.auditService.LogSettings("auto_import_settings_update", "Auto-import settings updated")
	}

	// Apply the new schedule immediately
	if c.scheduler != nil {
		if err := c.scheduler.Reschedule(); err != nil {
			respondError(ctx, http.StatusInternalServerError, "Settings saved but failed to reschedule: "+err.Error())
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Settings saved",
		"config":  c.settingsStore.GetAutoImportConfigInfo(),
	})
}

// ResetSettings clears database overrides, reverting to env/defaults
func (c *AutoImportController) ResetSettings(ctx *gin.Context) {
	if c.settingsStore == nil {
		respondError(ctx, http.StatusInternalServerError, "Settings store not available")
		return
	}

	if err := c.settingsStore.ClearAutoImportSettings(); err != nil {
		respondInternalError(ctx, err, "reset settings")
		return
	}

	if c.auditService != nil {
		c.auditService.LogSettings("auto_import_settings_reset", "Auto-import settings reset to defaults")
	}

	if c.scheduler != nil {
		if err := c.scheduler.Reschedule(); err != nil {
			respondError(ctx, http.StatusInternalServerError, "Settings reset but failed to reschedule: "+err.Error())
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Settings reset",
		"config":  c.settingsStore.GetAutoImportConfigInfo(),
	})
}

// AddFolderRequest is the request body for POST /api/autoimport/folders
type AddFolderRequest struct {
	URI         string `json:"uri" binding:"required"`
	DisplayName string `json:"display_name"`
	AccessGrant string `json:"access_grant"`
}

// AddFolder adds a folder to the watched list
func (c *AutoImportController) AddFolder(ctx *gin.Context) {
	if c.settingsStore == nil {
		respondError(ctx, http.StatusInternalServerError, "Settings store not available")
		return
	}

	var req AddFolderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request: "+err.Error())
		return
	}

	folder := entities.FolderConfig{
		URI:         req.URI,
		DisplayName: req.DisplayName,
		AccessGrant: req.AccessGrant,
	}
	if err := c.settingsStore.AddAutoImportFolder(folder); err != nil {
		respondInternalError(ctx, err, "add folder")
		return
	}

	if c.auditService != nil {
		c.auditService.LogSettings("auto_import_folder_add", "Watched folder added: "+folder.Name())
	}

	// The first folder can turn a previously idle schedule on
	if c.scheduler != nil {
		if err := c.scheduler.Reschedule(); err != nil {
			respondError(ctx, http.StatusInternalServerError, "Folder saved but failed to reschedule: "+err.Error())
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Folder added",
		"folders": c.settingsStore.GetAutoImportFolders(),
	})
}

// RemoveFolder removes a folder from the watched list by URI
func (c *AutoImportController) RemoveFolder(ctx *gin.Context) {
	if c.settingsStore == nil {
		respondError(ctx, http.StatusInternalServerError, "Settings store not available")
		return
	}

	uri := ctx.Query("uri")
	if uri == "" {
		respondBadRequest(ctx, "uri query parameter is required")
		return
	}

	if err := c.settingsStore.RemoveAutoImportFolder(uri); err != nil {
		respondInternalError(ctx, err, "remove folder")
		return
	}

	if c.auditService != nil {
		c.auditService.LogSettings("auto_import_folder_remove", "Watched folder removed: "+uri)
	}

	if c.scheduler != nil {
		if err := c.scheduler.Reschedule(); err != nil {
			respondError(ctx, http.StatusInternalServerError, "Folder removed but failed to reschedule: "+err.Error())
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Folder removed",
		"folders": c.settingsStore.GetAutoImportFolders(),
	})
}

// ScanNow triggers an immediate scan in the background
func (c *AutoImportController) ScanNow(ctx *gin.Context) {
	if c.scheduler == nil {
		respondError(ctx, http.StatusInternalServerError, "Scheduler not available")
		return
	}

	// Check the shelf server is configured before starting anything
	config := c.settingsStore.GetAutoImportConfig()
	if config.ServerURL == "" || config.APIKey == "" {
		respondBadRequest(ctx, "Shelf server not configured. Set the server URL and API key first.")
		return
	}

	if len(config.Folders) == 0 {
		respondBadRequest(ctx, "No folders configured. Add at least one folder first.")
		return
	}

	if c.scheduler.IsScanning() {
		respondConflict(ctx, "Scan already in progress")
		return
	}

	if err := c.scheduler.RunNow(); err != nil {
		respondError(ctx, http.StatusInternalServerError, "Failed to start scan: "+err.Error())
		return
	}

	respondAccepted(ctx, "Scan started in background", nil)
}

// GetStatus returns just the scan status (for polling)
func (c *AutoImportController) GetStatus(ctx *gin.Context) {
	if c.settingsStore == nil {
		respondError(ctx, http.StatusInternalServerError, "Settings store not available")
		return
	}

	status := c.settingsStore.GetAutoImportStatus()
	var nextRun *time.Time
	isRunning := false
	isScanning := false
	if c.scheduler != nil {
		nextRun = c.scheduler.GetNextRunTime()
		isRunning = c.scheduler.IsRunning()
		isScanning = c.scheduler.IsScanning()
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":      status,
		"next_run":    nextRun,
		"is_running":  isRunning,
		"is_scanning": isScanning,
	})
}

// ValidateConnectionRequest is the request body for POST /api/autoimport/validate
type ValidateConnectionRequest struct {
	ServerURL string `json:"server_url"`
	APIKey    string `json:"api_key"`
}

// ValidateConnection checks the shelf server address and API key by pinging
// the server. Fields missing from the request fall back to stored settings,
// so a saved configuration can be re-checked without retyping the key.
func (c *AutoImportController) ValidateConnection(ctx *gin.Context) {
	if c.shelfClient == nil {
		respondError(ctx, http.StatusInternalServerError, "Shelf client not available")
		return
	}

	var req ValidateConnectionRequest
	_ = ctx.ShouldBindJSON(&req)

	creds := shelf.Credentials{ServerURL: req.ServerURL, APIKey: req.APIKey}
	if creds.ServerURL == "" {
		creds.ServerURL = c.settingsStore.GetShelfServerURL()
	}
	if creds.APIKey == "" {
		creds.APIKey = c.settingsStore.GetShelfAPIKey()
	}

	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), validateTimeout)
	defer cancel()

	if err := c.shelfClient.Ping(pingCtx, creds); err != nil {
		ctx.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"message": "Connection is valid",
	})
}
