// Package spectate streams live frame snapshots to browser viewers over
// WebSocket. A hub fans one session's snapshots out to any number of
// read-only viewers; frames are dropped rather than queued when a viewer
// cannot keep up, so a slow watcher never stalls the game loop.
package spectate

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/ledgegame/ledge/internal/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Viewers never send anything
	// meaningful, so this only bounds junk.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The server binds to localhost; viewers may open the page
		// straight from disk, so any origin is fine.
		return true
	},
}

// Client is a single connected viewer.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of connected viewers and broadcasts frame
// snapshots to them.
type Hub struct {
	logger *log.Logger

	// Registered viewers. Owned by the Run loop.
	clients map[*Client]bool

	// Marshaled snapshots waiting to be fanned out.
	broadcast chan []byte

	// Register requests from new connections.
	register chan *Client

	// Unregister requests from closing connections.
	unregister chan *Client

	stop     chan struct{}
	stopOnce sync.Once

	count atomic.Int64
	last  atomic.Pointer[game.Snapshot]
}

// NewHub creates a hub. Run must be started for viewers to receive
// anything. A nil logger discards hub events.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 8),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
	}
}

// Run drives the hub's event loop until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case data := <-h.broadcast:
			h.fanOut(data)

		case <-h.stop:
			for client := range h.clients {
				h.removeClient(client)
			}
			return
		}
	}
}

// Stop shuts the event loop down and disconnects every viewer.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// Broadcast queues a snapshot for delivery to every viewer. It never
// blocks; when the event loop is behind, the frame is dropped and the
// next one supersedes it.
func (h *Hub) Broadcast(snap game.Snapshot) {
	h.last.Store(&snap)

	data, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error("cannot marshal snapshot", "err", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
	}
}

// LastSnapshot returns the most recently broadcast snapshot, or nil when
// nothing has been broadcast yet.
func (h *Hub) LastSnapshot() *game.Snapshot {
	return h.last.Load()
}

// ClientCount reports the number of connected viewers.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// ServeWS upgrades an HTTP request to a viewer connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}

	// The upgrade can race a shutdown; a stopped hub accepts no viewers.
	select {
	case client.hub.register <- client:
	case <-h.stop:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (h *Hub) addClient(client *Client) {
	h.clients[client] = true
	h.count.Store(int64(len(h.clients)))
	h.logger.Info("viewer connected", "viewers", len(h.clients))

	// Catch the new viewer up right away instead of making it wait for
	// the next frame.
	if snap := h.last.Load(); snap != nil {
		if data, err := json.Marshal(snap); err == nil {
			select {
			case client.send <- data:
			default:
			}
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.count.Store(int64(len(h.clients)))
	h.logger.Info("viewer disconnected", "viewers", len(h.clients))
}

func (h *Hub) fanOut(data []byte) {
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// The viewer's send buffer is full, drop it.
			h.removeClient(client)
		}
	}
}

// readPump drains the connection so pong frames are processed, and
// unregisters the viewer when it goes away.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stop:
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
		// Viewers are read-only; whatever they send is discarded.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("viewer read error", "err", err)
			}
			break
		}
	}
}

// writePump pushes queued snapshots and pings to the connection.
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
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// A viewer only needs the newest frame. Drop whatever
			// backlog built up while the socket was slow.
			for len(c.send) > 0 {
				if m, more := <-c.send; more {
					message = m
				}
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
