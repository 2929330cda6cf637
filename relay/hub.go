// Package relay is the real-time core of the service: the shared broadcast
// hub, the per-connection session pairing one reader and one writer, and the
// WebSocket upgrade server that ties them together.
package relay

import (
	"sync"
	"sync/atomic"
)

// Hub is the process-wide fan-out primitive. Any session may publish; every
// live subscription receives a copy of every publication, including the
// publisher's own. The hub is created once at server start and outlives every
// session.
//
// Delivery is at-most-once and best-effort: each subscription buffers up to
// the hub capacity, and a publication that finds a subscription's buffer full
// is dropped for that subscription only. Publish never blocks, so a slow
// receiver cannot exert backpressure on anyone else.
type Hub struct {
	capacity int

	mu   sync.RWMutex
	subs map[*Subscription]struct{}

	published atomic.Uint64
	dropped   atomic.Uint64
}

// Subscription is one read cursor on the hub, positioned at "now" when
// created: publications from before Subscribe are never replayed.
type Subscription struct {
	ch      chan []byte
	done    chan struct{}
	dropped atomic.Uint64
}

// C yields publications in publish order. The channel is never closed by the
// hub; readers must also select on Done.
func (s *Subscription) C() <-chan []byte { return s.ch }

// Done is closed when the subscription is severed.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Dropped reports how many publications this subscription lost to a full
// buffer. A non-zero value is a permissible gap, not corruption.
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

// NewHub creates a hub whose subscriptions buffer up to capacity payloads.
func NewHub(capacity int) *Hub {
	return &Hub{
		capacity: capacity,
		subs:     make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a new independent read cursor.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		ch:   make(chan []byte, h.capacity),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe severs a subscription. Safe to call once per subscription; the
// delivery channel is deliberately left open so a concurrent Publish can
// never send on a closed channel.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.done)
	}
	h.mu.Unlock()
}

// Publish delivers payload to every live subscription without blocking.
func (h *Hub) Publish(payload []byte) {
	h.published.Add(1)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.ch <- payload:
		default:
			// Receiver fell behind the bounded buffer: drop for this
			// subscription only and account the lag.
			sub.dropped.Add(1)
			h.dropped.Add(1)
		}
	}
}

// Count returns the number of live subscriptions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Published returns the total number of publications since start.
func (h *Hub) Published() uint64 { return h.published.Load() }

// TotalDropped returns the total lag drops across all subscriptions.
func (h *Hub) TotalDropped() uint64 { return h.dropped.Load() }
