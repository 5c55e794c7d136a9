package scheduler

import "sync"

// Guard serializes scan runs: at most one scan may be active per process.
// A caller that fails to acquire it drops its run instead of queueing.
type Guard struct {
	mu       sync.Mutex
	scanning bool
}

func NewGuard() *Guard {
	return &Guard{}
}

// Begin attempts to move the guard from idle to scanning. It returns
// false, without blocking, when a scan is already active.
func (g *Guard) Begin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.scanning {
		return false
	}
	g.scanning = true
	return true
}

// End returns the guard to idle. Call only after a successful Begin.
func (g *Guard) End() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scanning = false
}

// Scanning reports whether a scan is active right now.
func (g *Guard) Scanning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scanning
}
