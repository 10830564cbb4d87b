package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Barkoczy/discord-minesweeper/game/engine"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 64
)

// Event names
const (
	EventStart    = "start"
	EventReveal   = "reveal"
	EventFinished = "finished"
	EventEnded    = "ended"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is one board update for a player
type Message struct {
	PlayerID string           `json:"player_id"`
	GameID   string           `json:"game_id,omitempty"`
	Event    string           `json:"event"`
	Outcome  *engine.Outcome  `json:"outcome,omitempty"`
	Message  string           `json:"message,omitempty"`
	Board    *engine.Snapshot `json:"board,omitempty"`
}

// Client is one websocket connection watching a player
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	playerID string
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by player ID. Owned by Run.
	players map[string]map[*Client]bool

	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// counts mirrors len(players[id]) for readers outside Run.
	countsMu sync.RWMutex
	counts   map[string]int

	log logrus.FieldLogger
}

// NewHub creates a new WebSocket hub
func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		players:    make(map[string]map[*Client]bool),
		broadcast:  make(chan Message, sendBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		counts:     make(map[string]int),
		log:        log.WithField("component", "websocket"),
	}
}

// Run starts the hub's event loop. When ctx is done every client is
// disconnected and later calls become no-ops.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for _, clients := range h.players {
			for client := range clients {
				close(client.send)
			}
		}
		h.players = make(map[string]map[*Client]bool)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// ServeWS upgrades the request and subscribes it to playerID's updates
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, playerID string) {
	if playerID == "" {
		http.Error(w, "player query parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		playerID: playerID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// Broadcast queues msg for every client watching msg.PlayerID
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// ClientCount returns how many connections watch playerID
func (h *Hub) ClientCount(playerID string) int {
	h.countsMu.RLock()
	defer h.countsMu.RUnlock()
	return h.counts[playerID]
}

func (h *Hub) setCount(playerID string, n int) {
	h.countsMu.Lock()
	defer h.countsMu.Unlock()
	if n == 0 {
		delete(h.counts, playerID)
		return
	}
	h.counts[playerID] = n
}

func (h *Hub) registerClient(client *Client) {
	if h.players[client.playerID] == nil {
		h.players[client.playerID] = make(map[*Client]bool)
	}
	h.players[client.playerID][client] = true
	h.setCount(client.playerID, len(h.players[client.playerID]))

	h.log.WithFields(logrus.Fields{
		"player":  client.playerID,
		"clients": len(h.players[client.playerID]),
	}).Debug("client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.players[client.playerID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.players, client.playerID)
	}
	h.setCount(client.playerID, len(clients))

	h.log.WithFields(logrus.Fields{
		"player":  client.playerID,
		"clients": len(clients),
	}).Debug("client unregistered")
}

func (h *Hub) broadcastMessage(message Message) {
	clients, ok := h.players[message.PlayerID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal broadcast message")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Slow reader.
			h.unregisterClient(client)
		}
	}
}

// readPump only watches for the peer going away
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
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
				c.hub.log.WithError(err).WithField("player", c.playerID).Warn("websocket read failed")
			}
			return
		}
	}
}

// writePump sends one frame per message plus periodic pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
