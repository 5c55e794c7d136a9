package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Trigger starts scan runs on a fixed interval. Implementations differ
// in durability: the cron trigger lives only while the process runs,
// while the task queue trigger survives restarts.
type Trigger interface {
	Start(every time.Duration) error
	Stop()
	NextRun() *time.Time
}

// CronTrigger fires scans from an in-process cron scheduler.
type CronTrigger struct {
	run func()

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	active  bool
}

func NewCronTrigger(run func()) *CronTrigger {
	return &CronTrigger{run: run}
}

// Start schedules the run function at the given interval, replacing any
// previous schedule.
func (t *CronTrigger) Start(every time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()

	t.cron = cron.New()
	t.entryID = t.cron.Schedule(cron.Every(every), cron.FuncJob(t.run))
	t.cron.Start()
	t.active = true
	return nil
}

// Stop cancels future runs and waits for an in-flight run to complete.
func (t *CronTrigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *CronTrigger) stopLocked() {
	if !t.active {
		return
	}
	ctx := t.cron.Stop()
	<-ctx.Done()
	t.active = false
}

// NextRun returns when the trigger will fire next, or nil when stopped.
func (t *CronTrigger) NextRun() *time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active {
		return nil
	}
	for _, entry := range t.cron.Entries() {
		if entry.ID == t.entryID {
			next := entry.Next
			return &next
		}
	}
	return nil
}
