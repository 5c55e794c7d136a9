package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoterski/snapshelf/internal/entities"
	"github.com/mkoterski/snapshelf/internal/provider/localfs"
)

type auditPageResponse struct {
	Events      []entities.AuditEvent `json:"events"`
	Page        int                   `json:"page"`
	Limit       int                   `json:"limit"`
	TotalPages  int                   `json:"total_pages"`
	TotalEvents int64                 `json:"total_events"`
}

func TestAuditController_GetAuditEvents(t *testing.T) {
	env := setupAutoImportRouter(t, localfs.NewWithFilesystem(memfs.New()))

	for i := 0; i < 30; i++ {
		require.NoError(t, env.auditSvc.Log(&entities.AuditEvent{
			EventType:   entities.AuditEventScan,
			Action:      "auto_import_scan",
			Description: fmt.Sprintf("scan %d", i),
			Status:      entities.AuditStatusSuccess,
		}))
	}
	require.NoError(t, env.auditSvc.Log(&entities.AuditEvent{
		EventType:   entities.AuditEventSettings,
		Action:      "auto_import_settings_update",
		Description: "settings changed",
		Status:      entities.AuditStatusSuccess,
	}))

	t.Run("default pagination", func(t *testing.T) {
		w := env.request(t, "GET", "/api/audit", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var response auditPageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 1, response.Page)
		assert.Equal(t, 25, response.Limit)
		assert.Equal(t, int64(31), response.TotalEvents)
		assert.Equal(t, 2, response.TotalPages)
		assert.Len(t, response.Events, 25)
	})

	t.Run("second page", func(t *testing.T) {
		w := env.request(t, "GET", "/api/audit?page=2", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var response auditPageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 2, response.Page)
		assert.Len(t, response.Events, 6)
	})

	t.Run("filter by type", func(t *testing.T) {
		w := env.request(t, "GET", "/api/audit?type=settings", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var response auditPageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(1), response.TotalEvents)
		require.Len(t, response.Events, 1)
		assert.Equal(t, entities.AuditEventSettings, response.Events[0].EventType)
	})

	t.Run("bad parameters fall back to defaults", func(t *testing.T) {
		w := env.request(t, "GET", "/api/audit?page=0&limit=9999", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var response auditPageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 1, response.Page)
		assert.Equal(t, 25, response.Limit)
	})
}
