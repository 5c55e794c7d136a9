package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkoterski/snapshelf/internal/audit"
	"github.com/mkoterski/snapshelf/internal/discovery"
	"github.com/mkoterski/snapshelf/internal/importer"
	"github.com/mkoterski/snapshelf/internal/settingsstore"
	"github.com/mkoterski/snapshelf/internal/shelf"
)

// ErrScanInProgress is returned for a manual scan request while another
// scan still holds the guard.
var ErrScanInProgress = errors.New("a scan is already in progress")

// ScanTimeout bounds a single scan run end to end.
const ScanTimeout = 10 * time.Minute

// Listener receives scan outcomes: one ImportCompleted per finished run,
// one ImportError per failed file.
type Listener interface {
	ImportCompleted(count int)
	ImportError(message string)
}

// LogListener writes scan outcomes to the process log.
type LogListener struct{}

func (LogListener) ImportCompleted(count int) {
	log.Printf("Auto-import: scan complete, %d files imported", count)
}

func (LogListener) ImportError(message string) {
	log.Printf("Auto-import error: %s", message)
}

// ScanReport summarizes a single scan run.
type ScanReport struct {
	RunID        string    `json:"run_id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Candidates   int       `json:"candidates"`
	Imported     int       `json:"imported"`
	Errors       []string  `json:"errors,omitempty"`
	FolderErrors []string  `json:"folder_errors,omitempty"`
}

// AutoImportScheduler manages periodic folder scans and imports
type AutoImportScheduler struct {
	settingsStore *settingsstore.SettingsStore
	discovery     *discovery.Service
	importer      *importer.Service
	auditService  *audit.Service
	reports       *audit.ReportStore
	guard         *Guard
	listener      Listener

	foreground Trigger
	background Trigger

	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewAutoImportScheduler creates a new scheduler instance
func NewAutoImportScheduler(settingsStore *settingsstore.SettingsStore, discoveryService *discovery.Service, importService *importer.Service, auditService *audit.Service, guard *Guard) *AutoImportScheduler {
	s := &AutoImportScheduler{
		settingsStore: settingsStore,
		discovery:     discoveryService,
		importer:      importService,
		auditService:  auditService,
		guard:         guard,
		listener:      LogListener{},
	}
	s.foreground = NewCronTrigger(s.runScheduledScan)
	return s
}

// SetListener replaces the default logging listener.
func (s *AutoImportScheduler) SetListener(l Listener) {
	s.listener = l
}

// SetBackgroundTrigger attaches a durable trigger that keeps firing
// scans across process restarts. Registration failures at Start are
// logged, not fatal.
func (s *AutoImportScheduler) SetBackgroundTrigger(t Trigger) {
	s.background = t
}

// SetReportStore enables per-run JSON scan reports.
func (s *AutoImportScheduler) SetReportStore(rs *audit.ReportStore) {
	s.reports = rs
}

// Start begins periodic scanning if auto-import is enabled and at least
// one folder is configured.
func (s *AutoImportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	config := s.settingsStore.GetAutoImportConfig()

	if !config.Enabled {
		log.Printf("Auto-import scheduler: disabled")
		return nil
	}

	if len(config.Folders) == 0 {
		log.Printf("Auto-import scheduler: no folders configured, skipping")
		return nil
	}

	every := time.Duration(config.IntervalMinutes) * time.Minute

	if err := s.foreground.Start(every); err != nil {
		return fmt.Errorf("failed to schedule scan job: %w", err)
	}

	if s.background != nil {
		if err := s.background.Start(every); err != nil {
			// Durable scheduling is advisory: the in-process trigger
			// still covers this run of the daemon
			log.Printf("Auto-import scheduler: background trigger unavailable: %v", err)
		}
	}

	// Create cancellable context
	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.isRunning = true

	if next := s.foreground.NextRun(); next != nil {
		log.Printf("Auto-import scheduler: started, scanning every %d minutes. Next run: %v",
			config.IntervalMinutes, next.Format(time.RFC3339))
	} else {
		log.Printf("Auto-import scheduler: started, scanning every %d minutes", config.IntervalMinutes)
	}

	// Monitor for context cancellation
	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop cancels both triggers. Idempotent. A scan already in progress
// runs to completion; only future scans are prevented.
func (s *AutoImportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	s.foreground.Stop()
	if s.background != nil {
		s.background.Stop()
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	s.isRunning = false

	log.Printf("Auto-import scheduler: stopped")
}

// Reschedule restarts the triggers with fresh settings (call after
// settings change).
func (s *AutoImportScheduler) Reschedule() error {
	s.mu.Lock()
	wasRunning := s.isRunning
	s.mu.Unlock()

	if wasRunning {
		s.Stop()
	}

	return s.Start(context.Background())
}

// RunNow triggers an immediate scan in the background.
func (s *AutoImportScheduler) RunNow() error {
	go func() {
		_, _ = s.runScan(context.Background())
	}()
	return nil
}

// TriggerScan runs a scan immediately and waits for it, returning the
// number of files imported. ErrScanInProgress is returned when another
// scan holds the guard; no discovery work happens in that case.
func (s *AutoImportScheduler) TriggerScan(ctx context.Context) (int, error) {
	report, err := s.runScan(ctx)
	if err != nil {
		return 0, err
	}
	return report.Imported, nil
}

// Scan runs a scan immediately, waits for it, and returns the full report.
func (s *AutoImportScheduler) Scan(ctx context.Context) (*ScanReport, error) {
	return s.runScan(ctx)
}

// IsRunning returns whether the scheduler is active
func (s *AutoImportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsScanning returns whether a scan is currently in progress
func (s *AutoImportScheduler) IsScanning() bool {
	return s.guard.Scanning()
}

// GetNextRunTime returns when the next scheduled scan will occur
func (s *AutoImportScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	return s.foreground.NextRun()
}

func (s *AutoImportScheduler) runScheduledScan() {
	_, _ = s.runScan(context.Background())
}

// runScan performs one complete scan: discovery, import, bookkeeping.
func (s *AutoImportScheduler) runScan(ctx context.Context) (*ScanReport, error) {
	if !s.guard.Begin() {
		log.Printf("Auto-import scan: skipped (scan already running)")
		return nil, ErrScanInProgress
	}
	defer s.guard.End()

	report := &ScanReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}

	// Settings may have changed since this run was scheduled
	config := s.settingsStore.GetAutoImportConfig()

	if !config.Enabled {
		log.Printf("Auto-import scan: skipped (disabled)")
		report.FinishedAt = time.Now()
		return report, nil
	}

	if len(config.Folders) == 0 {
		log.Printf("Auto-import scan: skipped (no folders configured)")
		report.FinishedAt = time.Now()
		return report, nil
	}

	if config.ServerURL == "" || config.APIKey == "" {
		log.Printf("Auto-import scan: skipped (shelf server not configured)")
		_ = s.settingsStore.SetAutoImportStatus("failed", "Shelf server not configured", 0)
		if s.auditService != nil {
			s.auditService.LogScan(report.RunID, "Shelf server not configured", 0, shelf.ErrNotConfigured)
		}
		report.FinishedAt = time.Now()
		return report, nil
	}

	log.Printf("Auto-import scan: starting run %s across %d folders", report.RunID, len(config.Folders))
	_ = s.settingsStore.SetAutoImportStatus("running", "Scan in progress", 0)

	scanCtx, cancel := context.WithTimeout(ctx, ScanTimeout)
	defer cancel()

	result := s.discovery.FindNewImages(scanCtx, config.Folders)
	report.Candidates = len(result.Candidates)
	report.FolderErrors = result.FolderErrors

	creds := shelf.Credentials{ServerURL: config.ServerURL, APIKey: config.APIKey}
	outcome := s.importer.ImportAll(scanCtx, creds, result.Candidates)
	report.Imported = outcome.Imported
	report.Errors = outcome.Errors
	report.FinishedAt = time.Now()

	// The timestamp records that a scan attempt happened, whatever the outcome
	_ = s.settingsStore.SetAutoImportLastScanAt(report.FinishedAt)

	s.finishScan(report)
	return report, nil
}

// finishScan records the outcome of a completed scan run.
func (s *AutoImportScheduler) finishScan(report *ScanReport) {
	duration := report.FinishedAt.Sub(report.StartedAt)

	status := "success"
	summary := fmt.Sprintf("Imported %d of %d new files in %v",
		report.Imported, report.Candidates, duration.Round(time.Millisecond))
	switch {
	case report.Candidates > 0 && report.Imported == 0 && len(report.Errors) > 0:
		status = "failed"
		summary = fmt.Sprintf("All %d new files failed to import", report.Candidates)
	case len(report.Errors) > 0 || len(report.FolderErrors) > 0:
		status = "partial"
		summary = fmt.Sprintf("Imported %d of %d new files (%d failed) in %v",
			report.Imported, report.Candidates, len(report.Errors), duration.Round(time.Millisecond))
	}

	log.Printf("Auto-import scan: %s", summary)
	_ = s.settingsStore.SetAutoImportStatus(status, summary, report.Imported)

	if s.auditService != nil {
		var scanErr error
		if len(report.Errors) > 0 {
			scanErr = fmt.Errorf("%d of %d files failed", len(report.Errors), report.Candidates)
		}
		s.auditService.LogScan(report.RunID, summary, report.Imported, scanErr)
		for _, msg := range report.Errors {
			s.auditService.LogImportError(report.RunID, msg)
		}
	}

	if s.reports != nil {
		if _, err := s.reports.SaveReport(report); err != nil {
			log.Printf("Auto-import scan: failed to save report: %v", err)
		}
	}

	s.listener.ImportCompleted(report.Imported)
	for _, msg := range report.Errors {
		s.listener.ImportError(msg)
	}
}
