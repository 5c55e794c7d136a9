package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/mkoterski/snapshelf/internal/database/audit"
	"github.com/mkoterski/snapshelf/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogScan records the outcome of a scan run.
func (s *Service) LogScan(runID, description string, imported int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventScan,
		Action:      "auto_import_scan",
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"run_id":   runID,
		"imported": imported,
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogImportError records a single failed file within a scan run.
func (s *Service) LogImportError(runID, message string) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventImport,
		Action:      "file_import",
		Description: "File import failed",
		Status:      entities.AuditStatusFailed,
		ErrorMsg:    truncate(message, 500),
	}

	metadata := map[string]any{"run_id": runID}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	s.LogAsync(event)
}

// LogSettings records a settings change event.
func (s *Service) LogSettings(action, description string) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventSettings,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogCache records a dedup cache maintenance event.
func (s *Service) LogCache(action, description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCache,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, limit, offset)
}

// GetRecentEvents retrieves events recorded since the given time.
func (s *Service) GetRecentEvents(since time.Time) ([]entities.AuditEvent, error) {
	return s.repo.GetRecentEvents(since)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
