package ws

import (
	"encoding/json"
	"sync"

	"github.com/SuryanshuBanerjee/tempmitra/internal/observability"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Counselor message types
const (
	MsgCrisisAlert  MessageType = "crisis_alert"
	MsgSessionEnded MessageType = "session_ended"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans counselor events out to every connected counselor
type Hub struct {
	conns map[*Connection]struct{}

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *Message
	done       chan struct{}
}

// Connection represents a counselor WebSocket connection
type Connection struct {
	CounselorID string
	Send        chan []byte
	Hub         *Hub
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	log := observability.Logger()
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = struct{}{}
			h.mu.Unlock()
			log.Info("counselor connected", "counselor_id", conn.CounselorID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.conns[conn]; ok {
				delete(h.conns, conn)
				close(conn.Send)
				log.Info("counselor disconnected", "counselor_id", conn.CounselorID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Error("ws marshal failed", "type", msg.Type, "error", err)
				continue
			}
			h.mu.RLock()
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
					log.Warn("counselor send buffer full", "counselor_id", conn.CounselorID, "type", msg.Type)
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for conn := range h.conns {
				delete(h.conns, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Close disconnects every counselor and stops the hub
func (h *Hub) Close() {
	close(h.done)
}

// ConnectionCount returns the number of connected counselors
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// BroadcastToCounselors sends a message to every counselor (implements service.Broadcaster)
func (h *Hub) BroadcastToCounselors(msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		observability.Logger().Error("ws payload marshal failed", "type", msgType, "error", err)
		return
	}
	msg := &Message{Type: MessageType(msgType), Payload: data}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}
