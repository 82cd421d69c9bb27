package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendBufferSize = 16
)

// Hub fans events out to connected clients. Each client joins a private room
// keyed by its account id; Publish is fire-and-forget and a slow or gone
// client drops messages rather than blocking the caller.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*client]struct{}
	upgrader websocket.Upgrader
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The bearer token is the access check; the SPA and API share an origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Publish sends an event to every connection in the account's room. Delivery
// is best-effort; failures only surface in logs.
func (h *Hub) Publish(accountID, event string, payload any) {
	message, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		slog.Warn("realtime marshal failed", "event", event, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[accountID] {
		select {
		case c.send <- message:
		default:
			// Buffer full, client is not keeping up. Drop the event.
		}
	}
}

// Serve upgrades the request and keeps the connection in the account's room
// until the peer goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, accountID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "accountId", accountID, "err", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
	h.join(accountID, c)

	go c.writePump()
	c.readPump()
	h.leave(accountID, c)
}

func (h *Hub) join(accountID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[accountID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[accountID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) leave(accountID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[accountID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, accountID)
		}
	}
	close(c.send)
}

// ConnectionCount reports how many clients are in the account's room.
func (h *Hub) ConnectionCount(accountID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[accountID])
}

func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// Clients only listen; any inbound frame besides control traffic is
		// discarded. Read errors mean the peer is gone.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
