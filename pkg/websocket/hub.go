package websocket

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Hub owns every feed connection. All map access happens on the Run goroutine.
type Hub struct {
	clients     map[*Client]bool
	userClients map[uint64]map[*Client]bool
	broadcast   chan []byte
	direct      chan directMessage
	register    chan *Client
	unregister  chan *Client
	done        chan struct{}
	logger      *zap.Logger
}

type directMessage struct {
	userID uint64
	data   []byte
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		userClients: make(map[uint64]map[*Client]bool),
		broadcast:   make(chan []byte, 64),
		direct:      make(chan directMessage, 64),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// Run serves the hub until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.remove(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			if h.userClients[client.UserID] == nil {
				h.userClients[client.UserID] = make(map[*Client]bool)
			}
			h.userClients[client.UserID][client] = true
			h.logger.Info("websocket client registered", zap.Uint64("user_id", client.UserID), zap.String("client_id", client.ID))
		case client := <-h.unregister:
			if h.clients[client] {
				h.remove(client)
				h.logger.Info("websocket client left", zap.Uint64("user_id", client.UserID), zap.String("client_id", client.ID))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				h.deliver(client, message)
			}
		case msg := <-h.direct:
			for client := range h.userClients[msg.userID] {
				h.deliver(client, msg.data)
			}
		}
	}
}

// deliver drops clients that cannot keep up instead of stalling the hub.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		h.logger.Warn("websocket client too slow, disconnecting", zap.String("client_id", client.ID))
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	if set := h.userClients[client.UserID]; set != nil {
		delete(set, client)
		if len(set) == 0 {
			delete(h.userClients, client.UserID)
		}
	}
	close(client.Send)
}

// Register adds the client. Once the hub has stopped the client is closed
// straight away so its write pump exits.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister is a no-op after the hub stopped; Run already closed every client.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast sends the message to every connected client.
func (h *Hub) Broadcast(messageType string, payload interface{}) error {
	data, err := encode(messageType, payload)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("websocket broadcast queue full, message dropped", zap.String("type", messageType))
	}
	return nil
}

// SendMessageToUser sends the message to every connection of one user.
func (h *Hub) SendMessageToUser(userID uint64, payload interface{}, messageType string) error {
	data, err := encode(messageType, payload)
	if err != nil {
		return err
	}
	select {
	case h.direct <- directMessage{userID: userID, data: data}:
	default:
		h.logger.Warn("websocket direct queue full, message dropped", zap.Uint64("user_id", userID), zap.String("type", messageType))
	}
	return nil
}

func encode(messageType string, payload interface{}) ([]byte, error) {
	return json.Marshal(Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
}
