package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"career-compass-be/internal/dto"
	"career-compass-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// usageChannel is the Redis pub/sub channel relaying usage events
// between API instances.
const usageChannel = "usage_events"

// Hub fans usage events out to the websocket connections of a user.
// A user may have several devices connected at once.
type Hub struct {
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance relay, nil in single-node mode
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send pushes a usage event to every connection of the user, locally
// and via Redis to the user's connections on other instances.
func (h *Hub) Send(userId uuid.UUID, payload dto.UsageEventPayload) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "usage",
		"data": payload,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := h.clients[userId]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client buffer full, dropping connection", map[string]interface{}{"user_id": userId})
			close(client.Send)
			h.unregister <- client
		}
	}

	if h.rdb != nil {
		envelope, _ := json.Marshal(relayEnvelope{
			TargetUserID: userId.String(),
			Message:      data,
		})
		h.rdb.Publish(context.Background(), usageChannel, envelope)
	}
}

type relayEnvelope struct {
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

// subscribeToRedis delivers events published by other instances to any
// matching local connections.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, usageChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope relayEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			h.logger.Warn("Hub", "Bad relay payload", map[string]interface{}{"error": err.Error()})
			continue
		}

		uid, err := uuid.Parse(envelope.TargetUserID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients := h.clients[uid]
		h.mu.RUnlock()

		for _, client := range clients {
			select {
			case client.Send <- envelope.Message:
			default:
				close(client.Send)
				h.unregister <- client
			}
		}
	}
}
