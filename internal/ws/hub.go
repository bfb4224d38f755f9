package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub routes outbound events to live sessions by their opaque id. A session
// id is the only addressing mechanism; sending to an id with no live session
// is a no-op, which is how delivery from background image tasks to
// disconnected clients resolves.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*Session)}
}

func (h *Hub) Register(s *Session) {
	if s == nil || s.id == "" {
		return
	}
	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()
}

func (h *Hub) Unregister(s *Session) {
	if s == nil {
		return
	}
	h.mu.Lock()
	if h.sessions[s.id] == s {
		delete(h.sessions, s.id)
	}
	h.mu.Unlock()
	s.Close()
}

// Send queues payload for the session, reporting whether a live session
// accepted it. A full send buffer drops the session rather than blocking
// the producer.
func (h *Hub) Send(sessionID string, payload []byte) bool {
	if sessionID == "" || len(payload) == 0 {
		return false
	}
	h.mu.RLock()
	s := h.sessions[sessionID]
	h.mu.RUnlock()
	if s == nil {
		return false
	}
	ok, full := s.enqueue(payload)
	if full {
		h.Unregister(s)
	}
	return ok
}

// SendEvent marshals a named event envelope and queues it for the session.
func (h *Hub) SendEvent(sessionID, event string, data any) bool {
	b, err := json.Marshal(Envelope{Event: event, Data: mustRaw(data)})
	if err != nil {
		return false
	}
	return h.Send(sessionID, b)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func mustRaw(data any) json.RawMessage {
	b, err := json.Marshal(data)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(b)
}

// Envelope is the wire frame in both directions: a named event plus its
// payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Session is one live connection. Its state is the id and the outbound
// queue; a job's entire state lives in the orchestration calls for its
// duration.
type Session struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func NewSession(id string, conn *websocket.Conn) *Session {
	return &Session{
		id:   id,
		conn: conn,
		send: make(chan []byte, 64),
	}
}

func (s *Session) ID() string { return s.id }

// Close marks the session dead and closes the send queue. The closed flag
// and the channel close share one critical section with enqueue, so a send
// racing a teardown resolves as a dropped message, never a panic.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.send)
	s.mu.Unlock()
	if s.conn != nil {
		_ = s.conn.Close()
	}
}

// enqueue queues payload for the write pump. Reports delivery and,
// separately, whether the buffer was full on a live session.
func (s *Session) enqueue(payload []byte) (ok, full bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, false
	}
	select {
	case s.send <- payload:
		return true, false
	default:
		return false, true
	}
}

// WritePump drains the send queue onto the connection. Events queued for one
// session are written in emission order. The session is unregistered when
// the pump stops, so a broken connection does not keep accepting sends.
func (s *Session) WritePump(h *Hub, logger zerolog.Logger) {
	if s.conn == nil {
		return
	}
	defer h.Unregister(s)
	for msg := range s.send {
		_ = s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Debug().Err(err).Str("session", s.id).Msg("write failed, closing session")
			return
		}
	}
}
