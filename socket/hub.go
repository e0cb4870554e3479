package socket

import (
	"context"
	"encoding/json"
	"sync"

	"contentlib/pkg/logger"
	"contentlib/pkg/metrics"

	"github.com/gorilla/websocket"
)

const (
	sendBufferSize      = 16
	broadcastBufferSize = 64
)

type WSMessage struct {
	Type      string          `json:"type"`
	ContentID int             `json:"content_id"`
	Payload   json.RawMessage `json:"payload"`
}

// Hub fans content change events out to every connected browser. Run owns
// the client registry; everything else talks to it over channels.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan WSMessage
	Register   chan *Client
	Unregister chan *Client

	mu    sync.Mutex
	count int
	done  chan struct{}
}

type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan WSMessage, broadcastBufferSize),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.Clients {
				h.remove(client)
			}
			logger.Sugar.Info("Change feed hub stopped")
			return

		case client := <-h.Register:
			h.Clients[client] = true
			h.setCount(len(h.Clients))
			logger.Sugar.Debugf("Feed client connected (%d total)", len(h.Clients))

		case client := <-h.Unregister:
			if h.Clients[client] {
				h.remove(client)
				logger.Sugar.Debugf("Feed client disconnected (%d total)", len(h.Clients))
			}

		case msg := <-h.Broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Sugar.Errorf("Failed to encode feed message %s: %v", msg.Type, err)
				continue
			}
			for client := range h.Clients {
				select {
				case client.Send <- data:
				default:
					// The client is not draining its buffer.
					logger.Sugar.Warn("Dropping lagging feed client")
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	delete(h.Clients, client)
	close(client.Send)
	h.setCount(len(h.Clients))
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
	metrics.FeedClients.Set(float64(n))
}

// ClientCount reports the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Notify queues a change event. It never blocks the caller: when the
// broadcast queue is full the event is dropped.
func (h *Hub) Notify(eventType string, contentID int, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Sugar.Errorf("Failed to encode %s payload for content %d: %v", eventType, contentID, err)
		return
	}
	select {
	case h.Broadcast <- WSMessage{Type: eventType, ContentID: contentID, Payload: raw}:
	case <-h.done:
	default:
		logger.Sugar.Warnf("Feed queue full, dropping %s for content %d", eventType, contentID)
	}
}

func (h *Hub) register(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}
