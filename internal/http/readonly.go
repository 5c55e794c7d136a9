package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ReadOnlyMiddleware blocks configuration changes so a daemon's status
// can be published (monitoring dashboards, shared setups) without
// letting callers alter settings, folders or the dedup cache.
type ReadOnlyMiddleware struct {
	enabled bool
}

// NewReadOnlyMiddleware creates a read-only mode middleware.
func NewReadOnlyMiddleware(enabled bool) *ReadOnlyMiddleware {
	return &ReadOnlyMiddleware{enabled: enabled}
}

// IsEnabled returns whether read-only mode is active.
func (m *ReadOnlyMiddleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that blocks write operations.
func (m *ReadOnlyMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		// Reads are always allowed
		if c.Request.Method == http.MethodGet ||
			c.Request.Method == http.MethodHead ||
			c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		if m.isAllowedPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		respondError(c, http.StatusForbidden, "This action is disabled in read-only mode")
		c.Abort()
	}
}

// isAllowedPath lists the POST endpoints that do not change any state.
func (m *ReadOnlyMiddleware) isAllowedPath(path string) bool {
	allowedPaths := []string{
		// Connectivity check only probes the shelf server
		"/api/autoimport/validate",
	}

	for _, allowed := range allowedPaths {
		if strings.HasPrefix(path, allowed) {
			return true
		}
	}
	return false
}
