package queue

import (
	"context"
	"sync"
	"time"

	"dinemap/internal/logging"
)

// Pinger reports whether the remote API is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor probes the API and fires a queue replay on the offline-to-online
// edge. Replays are edge-triggered: a connection that stays up does not
// re-replay, and the monitor starts in the offline state so the first
// successful probe flushes anything queued from a previous run.
type Monitor struct {
	mu       sync.Mutex
	pinger   Pinger
	queue    *Queue
	interval time.Duration
	online   bool
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}

	stats MonitorStats
}

// MonitorStats tracks probe activity for debugging.
type MonitorStats struct {
	Probes      int
	Transitions int
	Replays     int
	LastProbeAt time.Time
	LastOnline  bool
}

// NewMonitor creates a connectivity monitor.
func NewMonitor(pinger Pinger, q *Queue, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Monitor{
		pinger:   pinger,
		queue:    q,
		interval: interval,
	}
}

// Start begins probing in a background goroutine. Calling Start on a
// running monitor is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	m.mu.Unlock()

	go m.run(ctx)
}

// Stop stops the monitor and waits for the probe loop to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	close(stopCh)
	<-doneCh
	logging.Queue("Connectivity monitor stopped")
}

// Stats returns a copy of the monitor's counters.
func (m *Monitor) Stats() MonitorStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func (m *Monitor) run(ctx context.Context) {
	m.mu.Lock()
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()
	defer close(doneCh)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Probe immediately so a queued backlog is not stuck waiting a full
	// interval after startup.
	m.probe(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	err := m.pinger.Ping(ctx)
	online := err == nil

	m.mu.Lock()
	m.stats.Probes++
	m.stats.LastProbeAt = time.Now()
	m.stats.LastOnline = online
	wasOnline := m.online
	m.online = online
	if online != wasOnline {
		m.stats.Transitions++
	}
	shouldReplay := online && !wasOnline
	if shouldReplay {
		m.stats.Replays++
	}
	m.mu.Unlock()

	if !shouldReplay {
		return
	}

	logging.Queue("Connectivity restored, replaying queued reviews")
	result, rerr := m.queue.Replay(ctx)
	if rerr != nil {
		logging.Get(logging.CategoryQueue).Error("Replay after reconnect failed: %v", rerr)
		return
	}
	if result.Attempted > 0 {
		logging.Queue("Replay complete: %d submitted, %d requeued", result.Submitted, result.Requeued)
	}
}
