package audit

import (
	"sync"

	"columbarium-backend/internal/models"
)

// Hub fans out freshly persisted audit entries to live subscribers (the
// dashboard's audit feed). Sends never block the interceptor: a subscriber
// that cannot keep up misses entries and catches up from the list endpoint.
type Hub struct {
	mu   sync.Mutex
	subs map[chan *models.AuditLog]struct{}
}

// NewHub creates an audit broadcast hub
func NewHub() *Hub {
	return &Hub{subs: make(map[chan *models.AuditLog]struct{})}
}

// Subscribe registers a new subscriber channel
func (h *Hub) Subscribe() chan *models.AuditLog {
	ch := make(chan *models.AuditLog, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel
func (h *Hub) Unsubscribe(ch chan *models.AuditLog) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Broadcast delivers an entry to every subscriber without blocking
func (h *Hub) Broadcast(entry *models.AuditLog) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- entry:
		default:
		}
	}
}
