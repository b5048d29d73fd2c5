package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"picstream/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const maxConnsPerUser = 5

// ChatHub manages the WebSocket connections of the chat gateway. Delivery is
// deliberately simple: every event reaches every connected client except the
// sender's own connections, matching the broadcast room model. Clients filter
// by src/dst themselves.
type ChatHub struct {
	mu sync.RWMutex

	// userID hex -> set of active clients (multi-device support)
	userConns map[string]map[*Client]bool
}

// Name returns a human-readable identifier for this hub.
func (h *ChatHub) Name() string { return "chat hub" }

// ChatEvent is the wire envelope for everything the hub broadcasts.
type ChatEvent struct {
	Type    string `json:"type"` // "message", "user_status", "connected_users"
	Src     string `json:"src,omitempty"`
	Dst     string `json:"dst,omitempty"`
	Author  string `json:"author,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// NewChatHub creates a new ChatHub instance
func NewChatHub() *ChatHub {
	return &ChatHub{
		userConns: make(map[string]map[*Client]bool),
	}
}

// Register adds a user's websocket connection. Returns the Client or an
// error when the per-user connection limit is exceeded.
func (h *ChatHub) Register(userID, username string, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()

	if h.userConns[userID] == nil {
		h.userConns[userID] = make(map[*Client]bool)
	}
	if len(h.userConns[userID]) >= maxConnsPerUser {
		h.mu.Unlock()
		return nil, fmt.Errorf("user connection limit reached")
	}

	client := NewClient(h, conn, userID, username)
	h.userConns[userID][client] = true

	onlineIDs := make([]string, 0, len(h.userConns))
	for id := range h.userConns {
		if id != userID {
			onlineIDs = append(onlineIDs, id)
		}
	}
	h.mu.Unlock()

	observability.WebSocketConnections.Inc()
	log.Printf("ChatHub: Registered user %s (Active clients: %d)", userID, len(h.userConns[userID]))

	// Initial snapshot of who else is online.
	if len(onlineIDs) > 0 {
		snapshot := ChatEvent{
			Type:    "connected_users",
			Payload: map[string]any{"user_ids": onlineIDs},
		}
		if jsonMsg, err := json.Marshal(snapshot); err == nil {
			client.TrySend(jsonMsg)
		}
	}

	h.broadcastStatus(userID, "online")
	return client, nil
}

// RegisterClient adds an already-constructed client, bypassing the
// connection limit. Used by tests.
func (h *ChatHub) RegisterClient(client *Client) {
	h.mu.Lock()
	if h.userConns[client.UserID] == nil {
		h.userConns[client.UserID] = make(map[*Client]bool)
	}
	h.userConns[client.UserID][client] = true
	h.mu.Unlock()
	h.broadcastStatus(client.UserID, "online")
}

// UnregisterClient removes a websocket connection. The user goes offline only
// when their last connection is gone.
func (h *ChatHub) UnregisterClient(client *Client) {
	h.mu.Lock()

	clients, ok := h.userConns[client.UserID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(clients, client)
	remaining := len(clients)
	if remaining == 0 {
		delete(h.userConns, client.UserID)
	}
	h.mu.Unlock()

	observability.WebSocketConnections.Dec()

	if remaining > 0 {
		log.Printf("ChatHub: Unregistered client for user %s (Remaining clients: %d)", client.UserID, remaining)
		return
	}

	log.Printf("ChatHub: Unregistered user %s (All connections closed)", client.UserID)
	h.broadcastStatus(client.UserID, "offline")
}

// IsUserOnline returns true when the user has at least one active client.
func (h *ChatHub) IsUserOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.userConns[userID]
	return ok && len(clients) > 0
}

// BroadcastExcept sends an event to every connected client except those
// belonging to exceptUserID. This is the delivery rule for chat messages:
// the sender already has the message locally.
func (h *ChatHub) BroadcastExcept(exceptUserID string, event ChatEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	jsonMsg, err := json.Marshal(event)
	if err != nil {
		log.Printf("ChatHub: Failed to marshal event: %v", err)
		return
	}

	for userID, clients := range h.userConns {
		if userID == exceptUserID {
			continue
		}
		for client := range clients {
			client.TrySend(jsonMsg)
		}
	}
	observability.ChatMessagesTotal.WithLabelValues("broadcast").Inc()
}

// broadcastStatus announces a user going online or offline to everyone else.
func (h *ChatHub) broadcastStatus(userID, status string) {
	h.BroadcastExcept(userID, ChatEvent{
		Type:    "user_status",
		Src:     userID,
		Payload: map[string]any{"status": status, "user_id": userID},
	})
}

// ConnectedUsers returns the ids of all currently connected users.
func (h *ChatHub) ConnectedUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.userConns))
	for id := range h.userConns {
		ids = append(ids, id)
	}
	return ids
}

// StartWiring connects the hub to Redis pub/sub so messages accepted by one
// instance reach clients connected to another.
func (h *ChatHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartChatSubscriber(ctx, func(_, payload string) {
		var event ChatEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Printf("ChatHub: Failed to parse relayed event: %v", err)
			return
		}
		h.BroadcastExcept(event.Src, event)
	})
}

// Shutdown gracefully closes all websocket connections
func (h *ChatHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.userConns {
		for client := range clients {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage,
				[]byte(`{"type":"server_shutdown","message":"Server is shutting down"}`)); err != nil {
				log.Printf("failed to write shutdown message for user %s: %v", userID, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("failed to close websocket for user %s: %v", userID, err)
			}
		}
	}

	h.userConns = make(map[string]map[*Client]bool)
	return nil
}
