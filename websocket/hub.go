package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/harborchat/chat_backend/chat"
)

// Hub maintains the set of active sessions and delivers core events to
// them. It implements chat.Emitter.
type Hub struct {
	// Sessions keyed by session id; guarded by mu. Registration comes
	// from connection goroutines while emission comes from the core's
	// serialized context.
	mu       sync.RWMutex
	sessions map[string]*Client
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]*Client),
	}
}

// Register adds a session to the hub. The session must be registered
// before the core is told about the connection, or its greeting would
// be dropped.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.sessions[client.sessionID] = client
	h.mu.Unlock()
}

// Unregister removes a session and closes its send channel. Idempotent.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.sessions[client.sessionID]; ok {
		delete(h.sessions, client.sessionID)
		close(client.send)
	}
	h.mu.Unlock()
}

// ToSession marshals the event and queues it on the session's send
// channel. A session that cannot keep up is dropped.
func (h *Hub) ToSession(sessionID string, ev chat.Event) {
	h.mu.RLock()
	client, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("error marshaling event %s: %v", ev.Type, err)
		return
	}

	select {
	case client.send <- data:
	default:
		h.mu.Lock()
		if _, ok := h.sessions[sessionID]; ok {
			delete(h.sessions, sessionID)
			close(client.send)
		}
		h.mu.Unlock()
	}
}
