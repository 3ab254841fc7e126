package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/iiviie/bbsfront/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 8
)

// WSMessage is pushed to every connected page.
type WSMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans board snapshots out to websocket clients.
type Hub struct {
	upgrader websocket.Upgrader
	log      logrus.FieldLogger

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	closed  bool
}

// NewHub creates a hub accepting connections from the given origins ("*" allows all).
func NewHub(origins []string, log logrus.FieldLogger) *Hub {
	h := &Hub{
		log:     log.WithField("component", "hub"),
		clients: make(map[*wsClient]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(origins, r.Header.Get("Origin"), r.Host)
		},
	}
	return h
}

func originAllowed(origins []string, origin, host string) bool {
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && u.Host == host {
		return true
	}
	for _, o := range origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// Broadcast sends the snapshot to every client. Clients that cannot keep up are dropped.
func (h *Hub) Broadcast(table models.Table) {
	msg, err := json.Marshal(WSMessage{Type: "board", Data: table})
	if err != nil {
		h.log.WithError(err).Error("Failed to encode board message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.removeLocked(c)
		}
	}
}

// Serve upgrades the request and streams snapshots until the peer goes away.
// The current snapshot is sent first.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, current models.Table) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("WebSocket upgrade error")
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}
	if msg, err := json.Marshal(WSMessage{Type: "board", Data: current}); err == nil {
		c.send <- msg
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.log.WithField("clients", count).Debug("WebSocket client connected")

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards inbound messages and unregisters the client on close.
func (h *Hub) readPump(c *wsClient) {
	defer func() {
		h.mu.Lock()
		h.removeLocked(c)
		h.mu.Unlock()
		h.log.Debug("WebSocket client disconnected")
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) removeLocked(c *wsClient) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}
