package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mkoterski/snapshelf/internal/scheduler"
)

// QueueScan is the queue name for durable scan tasks.
const QueueScan = "auto_import_scan"

// Scanner runs one scan and reports how many files were imported.
type Scanner interface {
	TriggerScan(ctx context.Context) (int, error)
}

// ScanTask is one durable scan request. Tasks live in the queue
// database, so a scan scheduled before a shutdown still fires after the
// next start.
type ScanTask struct {
	Reason string `json:"reason,omitempty"`
}

// Config returns the queue configuration for scan tasks.
func (t ScanTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueScan,
		MaxAttempts: 1, // a failed scan is retried by the next scheduled run
		Backoff:     time.Minute,
		Timeout:     15 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ScanChain keeps one scan task pending in the durable queue at all
// times: each processed task runs a scan, then enqueues its successor.
// An interval change takes effect when the current task comes due.
type ScanChain struct {
	client  *Client
	scanner Scanner

	mu          sync.Mutex
	every       time.Duration
	active      bool
	lastEnqueue time.Time
}

func NewScanChain(client *Client, scanner Scanner) *ScanChain {
	return &ScanChain{client: client, scanner: scanner}
}

// Queue returns the backlite queue that processes scan tasks.
// Register it with the client before starting the chain.
func (sc *ScanChain) Queue() backlite.Queue {
	return backlite.NewQueue(func(ctx context.Context, task ScanTask) error {
		return sc.process(ctx, task)
	})
}

// Start activates the chain and seeds it unless a task from a previous
// schedule (possibly a previous process) is already pending.
func (sc *ScanChain) Start(every time.Duration) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.every = every
	sc.active = true

	pending, err := sc.pendingCount()
	if err != nil {
		return fmt.Errorf("scan chain: count pending tasks: %w", err)
	}
	if pending > 0 {
		return nil
	}

	sc.lastEnqueue = time.Now()
	if _, err := sc.client.Add(ScanTask{Reason: "schedule"}).Wait(every).Save(); err != nil {
		return fmt.Errorf("scan chain: seed task: %w", err)
	}
	return nil
}

// Stop deactivates the chain. Pending tasks stay queued; they are
// dropped without re-enqueueing when they come due while inactive.
func (sc *ScanChain) Stop() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.active = false
}

// NextRun estimates when the queued task comes due, or nil when the
// chain is inactive or has not enqueued anything yet.
func (sc *ScanChain) NextRun() *time.Time {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if !sc.active || sc.lastEnqueue.IsZero() {
		return nil
	}
	next := sc.lastEnqueue.Add(sc.every)
	return &next
}

func (sc *ScanChain) process(ctx context.Context, task ScanTask) error {
	sc.mu.Lock()
	active, every := sc.active, sc.every
	sc.mu.Unlock()

	if !active || every <= 0 {
		log.Printf("[TASK] Scan chain inactive, dropping queued scan")
		return nil
	}

	// Re-enqueue before scanning so a failed scan still leaves a
	// future attempt in the queue
	sc.scheduleNext(every)

	count, err := sc.scanner.TriggerScan(ctx)
	if err != nil {
		if errors.Is(err, scheduler.ErrScanInProgress) {
			log.Printf("[TASK] Queued scan skipped: %v", err)
			return nil
		}
		return fmt.Errorf("queued scan: %w", err)
	}

	log.Printf("[TASK] Queued scan complete, %d files imported", count)
	return nil
}

func (sc *ScanChain) scheduleNext(every time.Duration) {
	sc.mu.Lock()
	sc.lastEnqueue = time.Now()
	sc.mu.Unlock()

	if _, err := sc.client.Add(ScanTask{Reason: "chain"}).Wait(every).Save(); err != nil {
		log.Printf("[TASK ERROR] Failed to schedule next scan: %v", err)
	}
}

// pendingCount reports how many scan tasks sit in the queue. Callers
// must hold sc.mu.
func (sc *ScanChain) pendingCount() (int, error) {
	var count int
	err := sc.client.DB().QueryRow(
		"SELECT COUNT(*) FROM backlite_tasks WHERE queue = ?", QueueScan).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
