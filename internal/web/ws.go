package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dailywalk/dailywalk/internal/logging"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin policy is enforced by the gateway and CORS layers; the
	// socket itself carries only version notifications.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks connected websocket clients and broadcasts cache lifecycle
// events to them. It implements gateway.Notifier so activation reaches open
// sessions immediately, without waiting for navigation.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*wsClient
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*wsClient)}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// VersionActivated broadcasts the new cache version to every client.
func (h *Hub) VersionActivated(version string) {
	h.Broadcast(map[string]string{
		"event":   "activated",
		"version": version,
	})
}

// Broadcast sends v as JSON to every connected client. Clients whose write
// fails are dropped.
func (h *Hub) Broadcast(v any) {
	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(v); err != nil {
			logging.Warn("websocket write failed", "client_id", c.id, "error", err.Error())
			h.remove(c.id)
			c.conn.Close()
		}
	}
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (h *Hub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c.id] = c
	count := len(h.clients)
	h.mu.Unlock()
	logging.WebSocketEvent("client_connected", count, "client_id", c.id)
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	if _, ok := h.clients[id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, id)
	count := len(h.clients)
	h.mu.Unlock()
	logging.WebSocketEvent("client_disconnected", count, "client_id", id)
}

// handleWS upgrades the connection and keeps it registered until the peer
// goes away. Inbound messages are discarded; the socket is push-only.
func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("websocket upgrade failed", "error", err.Error())
		return
	}
	c := &wsClient{id: uuid.NewString(), conn: conn}
	h.add(c)

	go func() {
		defer func() {
			h.remove(c.id)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
