package events

import "sync"

// SessionEvent is published after every successful write that changes what
// a session's screens display, so connected devices can refresh instead of
// polling.
type SessionEvent struct {
	SessionID uint   `json:"session_id"`
	Kind      string `json:"kind"` // entry_submitted, session_updated, session_deleted
}

const (
	KindEntrySubmitted = "entry_submitted"
	KindSessionUpdated = "session_updated"
	KindSessionDeleted = "session_deleted"
)

// Hub fans SessionEvents out to subscribers. Slow subscribers are skipped
// rather than blocking the write path; a missed refresh only delays the
// next repaint.
type Hub struct {
	mu   sync.Mutex
	subs map[chan SessionEvent]uint // channel -> session filter (0 = all)
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan SessionEvent]uint)}
}

// Subscribe registers a listener for one session's events, or all sessions
// when sessionID is 0. The returned cancel func must be called to release
// the subscription.
func (h *Hub) Subscribe(sessionID uint) (<-chan SessionEvent, func()) {
	ch := make(chan SessionEvent, 8)
	h.mu.Lock()
	h.subs[ch] = sessionID
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) Publish(ev SessionEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch, filter := range h.subs {
		if filter != 0 && filter != ev.SessionID {
			continue
		}
		select {
		case ch <- ev:
		default:
		}
	}
}
