package observability

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// RelayStats aggregates the relay metrics exposed on the stats endpoint.
type RelayStats struct {
	// --- RELAY METRICS ---
	ActiveSessions  int64  `json:"active_sessions"`
	SessionsOpened  uint64 `json:"sessions_opened"`
	SessionsClosed  uint64 `json:"sessions_closed"`
	EventsPublished uint64 `json:"events_published"`
	EventsDropped   uint64 `json:"events_dropped"`
	PersistFailures uint64 `json:"persist_failures"`

	// --- SYSTEM METRICS ---
	AllocMemMb    uint64  `json:"alloc_mem_mb"`
	NumGC         uint32  `json:"num_gc"`
	NumGoroutine  int     `json:"num_goroutine"`
	CPUPercent    float64 `json:"cpu_percent"`
	HostUsedMemMb uint64  `json:"host_used_mem_mb"`
}

// Monitor collects relay telemetry with atomic counters and periodically
// folds in Go runtime and host metrics.
type Monitor struct {
	log *slog.Logger

	mu          sync.RWMutex
	latestStats RelayStats

	sessionsOpened  atomic.Uint64
	sessionsClosed  atomic.Uint64
	eventsPublished atomic.Uint64
	eventsDropped   atomic.Uint64
	persistFailures atomic.Uint64
}

func NewMonitor(log *slog.Logger) *Monitor {
	return &Monitor{log: log}
}

func (m *Monitor) IncrSessionsOpened()  { m.sessionsOpened.Add(1) }
func (m *Monitor) IncrSessionsClosed()  { m.sessionsClosed.Add(1) }
func (m *Monitor) IncrEventsPublished() { m.eventsPublished.Add(1) }
func (m *Monitor) IncrPersistFailures() { m.persistFailures.Add(1) }

// AddEventsDropped records lag drops reported by hub subscriptions.
func (m *Monitor) AddEventsDropped(n uint64) { m.eventsDropped.Add(n) }

// Listen refreshes the aggregated snapshot on every tick until ctx is done.
func (m *Monitor) Listen(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("Monitoring stopped")
			return
		case <-ticker.C:
			m.updateStats()
		}
	}
}

func (m *Monitor) updateStats() {
	stats := RelayStats{
		SessionsOpened:  m.sessionsOpened.Load(),
		SessionsClosed:  m.sessionsClosed.Load(),
		EventsPublished: m.eventsPublished.Load(),
		EventsDropped:   m.eventsDropped.Load(),
		PersistFailures: m.persistFailures.Load(),
	}
	stats.ActiveSessions = int64(stats.SessionsOpened) - int64(stats.SessionsClosed)

	// Go runtime metrics
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	stats.AllocMemMb = ms.Alloc / 1024 / 1024
	stats.NumGC = ms.NumGC
	stats.NumGoroutine = runtime.NumGoroutine()

	// Host metrics. Failures are tolerated, the relay counters are the
	// metrics that matter.
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.HostUsedMemMb = vm.Used / 1024 / 1024
	}

	m.mu.Lock()
	m.latestStats = stats
	m.mu.Unlock()

	m.log.Debug("Stats updated",
		"active_sessions", stats.ActiveSessions,
		"events_published", stats.EventsPublished,
		"events_dropped", stats.EventsDropped,
		"mem_mb", stats.AllocMemMb,
	)
}

// Snapshot recomputes the aggregated stats on demand, for callers that
// cannot wait for the next tick (the stats endpoint).
func (m *Monitor) Snapshot() RelayStats {
	m.updateStats()
	return m.GetLatest()
}

func (m *Monitor) GetLatest() RelayStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latestStats
}
