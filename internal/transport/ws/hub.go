package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vcaparica/gridforge/internal/grid"
)

const (
	// writeWait bounds how long a write to the peer may take.
	writeWait = 10 * time.Second

	// pongWait is how long we wait for a pong before dropping the peer.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize caps inbound frames; clients are listen-only.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the JSON envelope sent to every subscriber of a session.
type Message struct {
	Session string    `json:"session"`
	Event   string    `json:"event"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

// Client is one WebSocket subscriber attached to a session.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	session string
}

// Hub fans engine events out to the WebSocket clients of each session.
// All session-map access happens on the Run goroutine.
type Hub struct {
	sessions   map[string]map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	logger     *log.Logger
}

// NewHub creates a hub. Call Run on its own goroutine before serving.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run processes registration and broadcast traffic until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case message := <-h.broadcast:
			h.broadcastToSession(message)
		}
	}
}

// BroadcastEvent queues one engine event for every subscriber of session.
func (h *Hub) BroadcastEvent(session string, ev grid.Event) {
	h.broadcast <- Message{
		Session: session,
		Event:   string(ev.Type()),
		At:      ev.When(),
		Payload: ev,
	}
}

// Sink adapts the hub to the func(session, event) shape the SSH server
// exposes for observing per-connection engines.
func (h *Hub) Sink() func(session string, ev grid.Event) {
	return h.BroadcastEvent
}

// ServeWS upgrades an HTTP request and attaches the peer to a session.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, session string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, 256),
		session: session,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.session] == nil {
		h.sessions[client.session] = make(map[*Client]bool)
	}
	h.sessions[client.session][client] = true
	h.logger.Info("client subscribed",
		"session", client.session,
		"subscribers", len(h.sessions[client.session]))
}

func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.sessions[client.session]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.sessions, client.session)
	}
	h.logger.Info("client unsubscribed", "session", client.session)
}

func (h *Hub) broadcastToSession(message Message) {
	clients, ok := h.sessions[message.Session]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("marshal event", "event", message.Event, "err", err)
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Slow consumer: drop it rather than stall the loop.
			delete(clients, client)
			close(client.send)
		}
	}
	if len(clients) == 0 {
		delete(h.sessions, message.Session)
	}
}

// readPump drains inbound frames so ping/pong keepalive works. Clients are
// listen-only; anything they send is discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read", "session", c.session, "err", err)
			}
			return
		}
	}
}

// writePump forwards queued messages to the peer and keeps it alive with
// periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			// Flush whatever else is already queued.
			queued := len(c.send)
			for i := 0; i < queued; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}
			if err := w.Close(); err != nil {
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
