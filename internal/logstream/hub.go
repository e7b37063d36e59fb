package logstream

import "sync"

// subscriberBuffer bounds how far a slow viewer may lag before records
// are dropped for it.
const subscriberBuffer = 64

// Subscriber receives live log records from a Hub
type Subscriber struct {
	ch chan []byte
}

// Records is the stream of encoded log records. The channel is closed on
// Unsubscribe.
func (s *Subscriber) Records() <-chan []byte {
	return s.ch
}

// Hub is the broadcast group for live log viewers. Delivery is
// best-effort: there is no buffering or replay for viewers that connect
// after a record was emitted, and records are dropped for subscribers
// that cannot keep up. The durable sinks remain the source of truth.
//
// The hub is an injected dependency, not a package-level singleton, so
// the fan-out stays testable in isolation.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

// NewHub creates an empty broadcast group
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

// Subscribe admits a new viewer to the broadcast group
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{ch: make(chan []byte, subscriberBuffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes the viewer and closes its record stream
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
}

// Broadcast pushes one encoded record to every subscriber, dropping it
// for any subscriber whose buffer is full.
func (h *Hub) Broadcast(record []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.ch <- record:
		default:
		}
	}
}

// Len reports the current number of subscribers
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
