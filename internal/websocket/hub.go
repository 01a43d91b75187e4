package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"wolfpack-be/internal/model"
	"wolfpack-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PositionSink receives member position updates pushed over the socket.
type PositionSink interface {
	SetOwnPosition(userId uuid.UUID, x, y float64)
	Forget(userId uuid.UUID)
}

type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	// Scope rooms: LocationID -> set of clients watching that venue
	rooms map[uuid.UUID]map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// instanceId tags outgoing cluster envelopes so this instance can skip
	// its own echo off the Redis channel.
	instanceId string

	// Optional sink for inbound position messages
	positions PositionSink

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		rdb:        rdb,
		instanceId: uuid.NewString(),
		logger:     log,
	}
}

// SetPositionSink wires the spatial view; must be called before Run.
func (h *Hub) SetPositionSink(sink PositionSink) {
	h.positions = sink
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			if client.LocationID != uuid.Nil {
				if h.rooms[client.LocationID] == nil {
					h.rooms[client.LocationID] = make(map[*Client]bool)
				}
				h.rooms[client.LocationID][client] = true
			}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID, "location_id": client.LocationID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						// Remove from slice
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					if h.positions != nil {
						h.positions.Forget(client.UserID)
					}
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			if room, ok := h.rooms[client.LocationID]; ok {
				delete(room, client)
				if len(room) == 0 {
					delete(h.rooms, client.LocationID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// roomClients copies a room's member list out from under the lock.
func (h *Hub) roomClients(locationId uuid.UUID) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room := make([]*Client, 0, len(h.rooms[locationId]))
	for client := range h.rooms[locationId] {
		room = append(room, client)
	}
	return room
}

// BroadcastScope sends a payload to every client watching a venue, local and
// remote. Implements the sync manager's Broadcaster.
func (h *Hub) BroadcastScope(locationId uuid.UUID, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn("Hub", "Failed to serialize scope payload", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliverLocal(h.roomClients(locationId), data)

	if h.rdb != nil {
		envelope, _ := json.Marshal(map[string]interface{}{
			"origin":             h.instanceId,
			"target_location_id": locationId.String(),
			"message":            json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), "cluster_events", envelope)
	}
}

// Broadcast sends a notification to ALL connected clients.
func (h *Hub) Broadcast(notification model.Notification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.mu.RLock()
	var all []*Client
	for _, clients := range h.clients {
		all = append(all, clients...)
	}
	h.mu.RUnlock()
	h.deliverLocal(all, data)

	// Publish to Redis for other instances
	if h.rdb != nil {
		payload := map[string]interface{}{
			"origin":         h.instanceId,
			"target_user_id": "*", // Wildcard for broadcast
			"message":        json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// Send (NotificationDelivery interface implementation)
func (h *Hub) Send(userID uuid.UUID, notification model.Notification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[userID]...)
	h.mu.RUnlock()
	h.deliverLocal(clients, data)

	// Always publish for multi-device / multi-instance support
	if h.rdb != nil {
		payload := map[string]interface{}{
			"origin":         h.instanceId,
			"target_user_id": userID.String(),
			"message":        json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// deliverLocal writes to each client's send buffer. A full buffer means a
// slow consumer: the frame is dropped and the connection left alone. The
// write pump's ping deadline reaps dead connections, and the unregister
// handler in Run is the only place that closes Send.
func (h *Hub) deliverLocal(clients []*Client, message []byte) {
	for _, client := range clients {
		select {
		case client.Send <- message:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping frame", map[string]interface{}{"user_id": client.UserID})
		}
	}
}

type clusterEnvelope struct {
	Origin           string          `json:"origin"`
	TargetUserID     string          `json:"target_user_id"`
	TargetLocationID string          `json:"target_location_id"`
	Message          json.RawMessage `json:"message"`
}

// handleClusterEnvelope delivers one cluster message to whichever local
// clients it targets. Envelopes originating from this instance were already
// delivered locally before publishing and are skipped.
func (h *Hub) handleClusterEnvelope(payload clusterEnvelope) {
	if payload.Origin == h.instanceId {
		return
	}

	if payload.TargetLocationID != "" {
		locID, err := uuid.Parse(payload.TargetLocationID)
		if err != nil {
			return
		}
		h.deliverLocal(h.roomClients(locID), payload.Message)
		return
	}

	if payload.TargetUserID == "*" {
		h.mu.RLock()
		var all []*Client
		for _, clients := range h.clients {
			all = append(all, clients...)
		}
		h.mu.RUnlock()
		h.deliverLocal(all, payload.Message)
		return
	}

	uid, err := uuid.Parse(payload.TargetUserID)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[uid]...)
	h.mu.RUnlock()
	h.deliverLocal(clients, payload.Message)
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to "cluster_events"; each envelope carries
	// either a target user, a target venue, or the "*" wildcard. Instances
	// deliver to whichever clients they hold locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload clusterEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}
		h.handleClusterEnvelope(payload)
	}
}
