package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/stemsplitter/tracker/internal/model"
	"github.com/stemsplitter/tracker/internal/view"
)

// Client represents a WebSocket client
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, 256),
		done: make(chan struct{}),
	}
}

// Done is closed once the hub has dropped the client
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// SnapshotFunc returns the full state sent to a client when it connects
type SnapshotFunc func() interface{}

// Hub pushes the state of one tracking session to every connected browser
type Hub struct {
	clients map[*Client]bool

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Messages for every client
	broadcast chan []byte

	snapshot SnapshotFunc

	// closed when Run returns
	stopped chan struct{}

	mu sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		stopped:    make(chan struct{}),
	}
}

// SetSnapshot sets the provider of the connect-time snapshot
func (h *Hub) SetSnapshot(fn SnapshotFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshot = fn
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				client.close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("[ws] client %s connected", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()
			log.Printf("[ws] client %s disconnected", client.ID)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// slow client
					client.close()
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register adds a new client
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.stopped:
		client.close()
	}
}

// Unregister removes a client
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopped:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Render broadcasts one job delta
func (h *Hub) Render(d view.Delta) {
	h.send(model.WSMessageTypeDelta, d)
}

// Notify broadcasts a toast
func (h *Hub) Notify(level, message string) {
	h.send(model.WSMessageTypeToast, model.WSToast{Level: level, Message: message})
}

// BroadcastHistory sends the rendered history list
func (h *Hub) BroadcastHistory(jobs []model.Job) {
	h.send(model.WSMessageTypeHistory, view.NewHistoryEntries(jobs, time.Now()))
}

// send never blocks; the message is dropped when the queue is full
func (h *Hub) send(msgType string, data interface{}) {
	payload, err := encode(msgType, data)
	if err != nil {
		log.Printf("[ws] failed to marshal %s message: %v", msgType, err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		log.Printf("[ws] broadcast queue full, dropping %s message", msgType)
	}
}

func encode(msgType string, data interface{}) ([]byte, error) {
	return json.Marshal(model.WSEnvelope{Type: msgType, Data: data})
}

// HandleConnection handles a WebSocket connection
func (h *Hub) HandleConnection(c *websocket.Conn) {
	client := newClient(c)

	h.mu.RLock()
	snapshot := h.snapshot
	h.mu.RUnlock()
	if snapshot != nil {
		if data, err := encode(model.WSMessageTypeSnapshot, snapshot()); err == nil {
			client.Send <- data
		}
	}

	h.Register(client)
	defer h.Unregister(client)

	// Start writer goroutine
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-client.done:
				c.WriteMessage(websocket.CloseMessage, []byte{})
				return

			case message := <-client.Send:
				if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
					return
				}

			case <-ticker.C:
				// Send ping for keep-alive
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// Reader loop
	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[ws] error: %v", err)
			}
			break
		}

		var msg model.WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		if msg.Type == model.WSMessageTypePing {
			data, _ := json.Marshal(model.WSMessage{Type: model.WSMessageTypePong})
			select {
			case client.Send <- data:
			case <-client.done:
			default:
			}
		}
	}
}
