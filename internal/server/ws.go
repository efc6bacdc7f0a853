package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sealedchat/internal/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsEvent is the push frame sent to a connected client.
type wsEvent struct {
	Type    string               `json:"type"`
	Message domain.StoredMessage `json:"message"`
}

// Hub maintains the set of connected clients, one live connection per
// user. Delivery is best-effort: a slow or absent client polls history
// instead, the log stays the source of truth.
type Hub struct {
	clients map[string]*wsClient

	register   chan *wsClient
	unregister chan *wsClient

	mu sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*wsClient),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// A user reconnecting replaces their old connection.
			if old, ok := h.clients[client.userID]; ok {
				close(old.send)
			}
			h.clients[client.userID] = client
			h.mu.Unlock()
			log.Printf("ws: user connected: %s", client.userID)

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("ws: user disconnected: %s", client.userID)
		}
	}
}

// Notify pushes an event to a user's live connection if one exists.
// Returns false when the user is offline or their buffer is full.
func (h *Hub) Notify(userID string, event wsEvent) bool {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: marshal event: %v", err)
		return false
	}

	select {
	case client.send <- payload:
		return true
	default:
		return false
	}
}

// wsClient is a middleman between one websocket connection and the hub.
type wsClient struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// serveWS upgrades the connection. Browsers cannot set headers on
// websocket requests, so the bearer token rides in the query string.
func (r *Router) serveWS(w http.ResponseWriter, req *http.Request) {
	token := req.URL.Query().Get("token")
	userID, _, err := parseToken(r.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("ws: upgrade: %v", err)
		return
	}

	client := &wsClient{
		hub:    r.hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		userID: userID,
	}
	r.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains inbound frames. The protocol is push-only; inbound
// traffic is ignored but must be read to process control frames.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws: read: %v", err)
			}
			return
		}
	}
}

// writePump pumps events from the hub to the websocket connection.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
