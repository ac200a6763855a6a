package relay

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

// upgrader upgrades HTTP connections to WebSocket.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow connections from any origin (CORS handled by middleware)
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is a single WebSocket connection.
type Client struct {
	hub     *Hub
	handler *Handler
	conn    *websocket.Conn
	log     *zap.Logger

	// Buffered channel of outbound frames
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// Send implements Conn. Frames are dropped (and logged) when the client's
// buffer is full rather than blocking the sender.
func (c *Client) Send(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		c.log.Error("failed to marshal event", zap.String("type", e.Type), zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn("client send buffer full, dropping event", zap.String("type", e.Type))
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump pumps events from the WebSocket connection into the protocol
// handler. Each inbound event is processed to completion before the next
// one is read from this connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.Remove(c)
		c.closeSend()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read error", zap.Error(err))
			}
			break
		}

		var e Event
		if err := json.Unmarshal(data, &e); err != nil {
			c.Send(NewEvent(EventError, ErrorPayload{Message: "invalid event", Details: err.Error()}))
			continue
		}
		c.handler.Dispatch(c, e)
	}
}

// writePump pumps frames from the send channel to the WebSocket connection.
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

			// Each event goes out as its own text frame so the client can
			// parse them independently.
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// WSHandler handles WebSocket upgrade requests.
type WSHandler struct {
	hub     *Hub
	handler *Handler
	log     *zap.Logger
}

// NewWSHandler creates a new WebSocket upgrade handler.
func NewWSHandler(hub *Hub, handler *Handler, log *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, handler: handler, log: log}
}

// ServeWS handles WebSocket upgrade requests at /ws.
// The connection has no identity until the client sends a join event.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:     h.hub,
		handler: h.handler,
		conn:    conn,
		log:     h.log,
		send:    make(chan []byte, 256),
	}
	h.hub.Add(client)

	go client.writePump()
	go client.readPump()
}
