package realtime

import (
	"encoding/json"
	"sync"
)

// Frame is the tagged envelope pushed to clients. Type is one of the
// FrameType* constants; Payload is event-specific.
type Frame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Push frame types delivered over a participant's channel.
const (
	FrameTypeMatch       = "MATCH"
	FrameTypeSession     = "SESSION"
	FrameTypeMatchFailed = "MATCH_FAILED"
)

// Hub tracks one active websocket per participant identity and delivers
// tagged frames to it. It is the single in-process implementation of the
// client push channel; a participant's logical address is simply their
// identity key.
type Hub struct {
	mu         sync.RWMutex
	sessions   map[string]*Connection // sessionID -> connection
	byIdentity map[string]string      // identity -> sessionID
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]*Connection),
		byIdentity: make(map[string]string),
	}
}

// Attach registers a connection for its identity. If a previous session
// exists it is removed and closed after the swap, enforcing one active
// socket per participant.
func (h *Hub) Attach(conn *Connection) {
	var previous *Connection

	h.mu.Lock()
	if existingID, ok := h.byIdentity[conn.Identity]; ok {
		if existing := h.sessions[existingID]; existing != nil {
			previous = existing
			h.detachLocked(existingID)
		}
	}
	h.sessions[conn.ID] = conn
	h.byIdentity[conn.Identity] = conn.ID
	h.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a connection if it is still tracked.
func (h *Hub) Detach(conn *Connection) {
	h.mu.Lock()
	h.detachLocked(conn.ID)
	h.mu.Unlock()
}

// Notify marshals a Frame and delivers it to the participant's current
// connection. It reports whether delivery was handed to a live socket;
// participants without an attached socket simply miss the push.
func (h *Hub) Notify(identity string, frameType string, payload any) bool {
	data, err := json.Marshal(Frame{Type: frameType, Payload: payload})
	if err != nil {
		return false
	}

	h.mu.RLock()
	sessionID, ok := h.byIdentity[identity]
	if !ok {
		h.mu.RUnlock()
		return false
	}
	conn := h.sessions[sessionID]
	h.mu.RUnlock()
	if conn == nil {
		return false
	}
	return conn.Send(data) == nil
}

// Close terminates all tracked connections and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*Connection, 0, len(h.sessions))
	for _, conn := range h.sessions {
		conns = append(conns, conn)
	}
	h.sessions = make(map[string]*Connection)
	h.byIdentity = make(map[string]string)
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "hub shutdown")
	}
}

func (h *Hub) detachLocked(sessionID string) {
	conn, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	delete(h.sessions, sessionID)
	if current, ok := h.byIdentity[conn.Identity]; ok && current == sessionID {
		delete(h.byIdentity, conn.Identity)
	}
}
