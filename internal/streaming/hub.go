// Package streaming broadcasts terrain changes to WebSocket clients.
// A Hub is a terrain.Listener: every chunk addition or surface change is
// encoded as JSON and pushed to all connected clients. Newly connected
// clients first receive the latest state of every chunk.
package streaming

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-terrain/internal/terrain"
)

const (
	// ProtocolVersion is offered as the WebSocket subprotocol.
	ProtocolVersion = "terrain-v1"

	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeTimeout = 10 * time.Second
	sendBuffer   = 256
)

// Message types.
const (
	TypeChunkAdded   = "chunk_added"
	TypeChunkChanged = "chunk_changed"
)

// Message is the envelope of every message sent to clients.
type Message struct {
	Type string    `json:"type"`
	Data ChunkData `json:"data"`
}

// ChunkData is the wire form of one chunk.
type ChunkData struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Position [3]float64 `json:"position"`
	Size     int        `json:"size"` // Vertices per side
	Version  uint64     `json:"version"`
	Heights  []float64  `json:"heights,omitempty"`
}

// Hub tracks connected clients and the latest state of every chunk.
type Hub struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	state   map[int][]byte
	order   []int
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub. Cross-origin connections are accepted; the stream
// is read-only.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			Subprotocols:    []string{ProtocolVersion},
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
		state:   make(map[int][]byte),
	}
}

// ChunkAdded implements terrain.Listener.
func (h *Hub) ChunkAdded(c *terrain.Chunk) {
	h.publish(TypeChunkAdded, c)
}

// ChunkChanged implements terrain.Listener.
func (h *Hub) ChunkChanged(c *terrain.Chunk) {
	h.publish(TypeChunkChanged, c)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) publish(kind string, c *terrain.Chunk) {
	msg, err := json.Marshal(Message{Type: kind, Data: chunkData(c)})
	if err != nil {
		h.logger.Error("encode chunk", "chunk", c.ID, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, seen := h.state[c.ID]; !seen {
		h.order = append(h.order, c.ID)
	}
	h.state[c.ID] = msg

	for cl := range h.clients {
		select {
		case cl.send <- msg:
		default:
			// Slow client; drop it rather than block the UI loop
			h.logger.Warn("client too slow, disconnecting", "remote", cl.conn.RemoteAddr().String())
			h.removeLocked(cl)
		}
	}
}

func chunkData(c *terrain.Chunk) ChunkData {
	return ChunkData{
		ID:       c.ID,
		Name:     c.Name,
		Position: [3]float64{c.Position.X, c.Position.Y, c.Position.Z},
		Size:     c.NumVertices(),
		Version:  c.Version(),
		Heights:  c.Heights(),
	}
}

// ServeHTTP upgrades the request to a WebSocket and streams updates until
// the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	cl := &client{conn: conn, send: make(chan []byte, sendBuffer+len(h.order))}
	for _, id := range h.order {
		cl.send <- h.state[id]
	}
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("client connected", "remote", conn.RemoteAddr().String())

	go h.writePump(cl)
	h.readPump(cl)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for cl := range h.clients {
		h.removeLocked(cl)
	}
}

// removeLocked unregisters cl and closes its send channel. h.mu must be held.
func (h *Hub) removeLocked(cl *client) {
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// readPump discards client messages and keeps the read deadline fresh.
func (h *Hub) readPump(cl *client) {
	defer func() {
		h.mu.Lock()
		h.removeLocked(cl)
		h.mu.Unlock()
		cl.conn.Close()
		h.logger.Info("client disconnected", "remote", cl.conn.RemoteAddr().String())
	}()

	cl.conn.SetReadLimit(4096)
	if err := cl.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}

// writePump sends queued messages and periodic pings.
func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			if err := cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				return
			}
			if !ok {
				//nolint:errcheck // Best-effort close frame
				cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			if err := cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				return
			}
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ListenAndServe serves the hub at /ws on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		h.Close()
		return err
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
