package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"ai-coach-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries messages between instances so an athlete connected
// to another instance still receives them.
const ClusterChannel = "cluster_events"

const broadcastTarget = "*"

type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

type Hub struct {
	// UserID -> connected clients (one per device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

// NewHub creates the hub. rdb may be nil for a single instance.
func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.UserID] = append(clients[:i:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
	}
}

// Send pushes {type, data} to every connection of the athlete, here and on
// the other instances.
func (h *Hub) Send(userID uuid.UUID, messageType string, data interface{}) {
	msg, err := json.Marshal(envelope{Type: messageType, Data: data})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode message", map[string]interface{}{"type": messageType, "error": err.Error()})
		return
	}
	h.deliverLocal(userID.String(), msg)
	h.publish(userID.String(), msg)
}

// Broadcast pushes {type, data} to every connected client.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	msg, err := json.Marshal(envelope{Type: messageType, Data: data})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode message", map[string]interface{}{"type": messageType, "error": err.Error()})
		return
	}
	h.deliverLocal(broadcastTarget, msg)
	h.publish(broadcastTarget, msg)
}

// ConnectedClients reports how many local connections the athlete has.
func (h *Hub) ConnectedClients(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) deliverLocal(target string, msg []byte) {
	var stale []*Client

	h.mu.RLock()
	if target == broadcastTarget {
		for _, clients := range h.clients {
			stale = append(stale, offer(clients, msg)...)
		}
	} else if uid, err := uuid.Parse(target); err == nil {
		stale = offer(h.clients[uid], msg)
	}
	h.mu.RUnlock()

	for _, c := range stale {
		h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"user_id": c.UserID})
		go func(c *Client) { h.unregister <- c }(c)
	}
}

// deliverTo answers one connection. The message is dropped when the client
// has already been removed or its buffer is full.
func (h *Hub) deliverTo(client *Client, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients[client.UserID] {
		if c == client {
			offer([]*Client{c}, msg)
			return
		}
	}
}

// offer does a non-blocking send and returns the clients whose buffer is full.
func offer(clients []*Client, msg []byte) []*Client {
	var stale []*Client
	for _, client := range clients {
		select {
		case client.Send <- msg:
		default:
			stale = append(stale, client)
		}
	}
	return stale
}

func (h *Hub) publish(target string, msg []byte) {
	if h.rdb == nil {
		return
	}
	payload, err := json.Marshal(clusterMessage{Origin: h.instanceID, TargetUserID: target, Message: msg})
	if err != nil {
		return
	}
	if err := h.rdb.Publish(context.Background(), ClusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Failed to publish cluster event", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Malformed cluster event", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.instanceID {
				continue
			}
			h.deliverLocal(payload.TargetUserID, payload.Message)
		}
	}
}
