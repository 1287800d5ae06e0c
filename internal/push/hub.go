package push

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Envelope is the frame written to websocket clients
type Envelope struct {
	Channel string      `json:"channel"`
	Event   string      `json:"event"`
	Data    interface{} `json:"data"`
}

type client struct {
	channel string
	conn    *websocket.Conn
	send    chan []byte
}

// Hub is a self-hosted Publisher: each authenticated websocket connection subscribes to its user channel
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*client]struct{}
	upgrader websocket.Upgrader
}

// NewHub creates a hub accepting upgrades from the given origins; an empty list accepts any origin
func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{
		clients: make(map[string]map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
	return h
}

// Trigger writes the event to every connection on channel. Slow connections are dropped.
func (h *Hub) Trigger(channel, event string, data interface{}) error {
	payload, err := json.Marshal(Envelope{Channel: channel, Event: event, Data: data})
	if err != nil {
		return err
	}

	h.mu.RLock()
	var slow []*client
	for c := range h.clients[channel] {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		util.Logger.Warn("dropping slow websocket client", zap.String("channel", channel))
		h.unregister(c)
	}
	return nil
}

// Connections returns the number of open connections on channel
func (h *Hub) Connections(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[channel])
}

// ServeWS upgrades an authenticated request and subscribes it to the caller's user channel.
// It must run behind the auth middleware.
func (h *Hub) ServeWS(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized, no token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		util.Logger.Warn("websocket upgrade failed", zap.String("user_id", userID), zap.Error(err))
		return
	}

	cl := &client{
		channel: UserChannel(userID),
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
	}
	h.register(cl)
	util.Logger.Debug("websocket client connected", zap.String("user_id", userID))

	go h.writePump(cl)
	go h.readPump(cl)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.channel] == nil {
		h.clients[c.channel] = make(map[*client]struct{})
	}
	h.clients[c.channel][c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.clients[c.channel]
	if !ok {
		return
	}
	if _, ok := subs[c]; !ok {
		return
	}
	delete(subs, c)
	if len(subs) == 0 {
		delete(h.clients, c.channel)
	}
	close(c.send)
}

// readPump discards inbound frames; it only keeps the read deadline alive and notices disconnects
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
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

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
