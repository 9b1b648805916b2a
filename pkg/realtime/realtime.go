// Package realtime fans out change notifications to live search sessions.
//
// The hub is in-process and best effort: every listener owns a buffered
// channel, and a listener whose buffer is full misses the event. Missing an
// invalidation is harmless since the next one triggers the same refresh.
// There is no persistence or replay.
package realtime

import (
	"sync"
	"time"
)

// Event kinds.
const (
	// KindDataChanged is broadcast when the database file changed on disk.
	KindDataChanged = "data_changed"

	// KindConfigChanged is broadcast when the configuration file changed.
	KindConfigChanged = "config_changed"
)

// Event tells listeners that what they display may be stale.
type Event struct {
	Kind string    `json:"kind"`
	Path string    `json:"path,omitempty"`
	At   time.Time `json:"at"`
}

// NewEvent returns an event of kind stamped with the current time.
func NewEvent(kind, path string) Event {
	return Event{Kind: kind, Path: path, At: time.Now().UTC()}
}

// Hub is an in-memory fan-out dispatcher. It is safe for concurrent use.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan Event
	nextID    uint64
	bufSize   int
}

// NewHub constructs a hub with the given per-listener buffer size. If
// bufSize <= 0, a default of 8 is used.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 8
	}
	return &Hub{
		listeners: make(map[uint64]chan Event),
		bufSize:   bufSize,
	}
}

// Register adds a listener. Callers must Unregister the returned id.
func (h *Hub) Register() (uint64, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes the listener and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers ev to every listener with room in its buffer and
// returns how many received it.
func (h *Hub) Broadcast(ev Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, ch := range h.listeners {
		select {
		case ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

// Size returns the current number of listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
