// Package notify delivers best-effort "you were hired" pushes to online
// users over websockets. Delivery is decoupled from the hire transition:
// a user being offline or a socket being slow never fails or delays the
// commit that triggered the notification.
package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const clientSendBuffer = 16

type notificationPayload struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub is the process-wide registry of online users. Entries are added when
// a websocket connects and purged when it drops.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
	}
}

// Notify pushes a message to the user if they are online and discards it
// otherwise. The channel send is non-blocking so a stalled client cannot
// hold up the caller.
func (h *Hub) Notify(userID string, message string) {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	data, err := json.Marshal(notificationPayload{
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return
	}

	select {
	case c.send <- data:
	default:
	}
}

// IsOnline reports whether the user currently has a registered connection.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]

	return ok
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	if old, ok := h.clients[c.userID]; ok && old.conn != nil {
		old.conn.Close()
	}
	h.clients[c.userID] = c
	h.mu.Unlock()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if current, ok := h.clients[c.userID]; ok && current == c {
		delete(h.clients, c.userID)
	}
	h.mu.Unlock()
}
