package server

import (
	"context"
	"encoding/json"
	"log"

	"picstream/internal/notifications"
	"picstream/internal/observability"
	"picstream/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// incomingChatMessage is what a connected client sends over the socket.
type incomingChatMessage struct {
	Type    string `json:"type"`
	Dst     string `json:"dst"`
	Message string `json:"message"`
}

// WebSocketChatHandler handles WebSocket connections for real-time chat.
// Each accepted message is persisted first, then broadcast to every other
// connected client locally and relayed through Redis for other instances.
func (s *Server) WebSocketChatHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx := context.Background()

		// Locals were set by AuthRequired before the upgrade.
		userIDVal := conn.Locals("userID")
		userID, ok := userIDVal.(primitive.ObjectID)
		if !ok {
			log.Printf("WebSocket Chat: Unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		username, _ := conn.Locals("username").(string)

		if s.chatHub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.chatHub.Register(userID.Hex(), username, conn)
		if err != nil {
			log.Printf("WebSocket Chat: Failed to register user %s: %v", userID.Hex(), err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		log.Printf("WebSocket: User %s (%s) connected to chat", userID.Hex(), username)

		client.IncomingHandler = func(c *notifications.Client, raw []byte) {
			var incoming incomingChatMessage
			if err := json.Unmarshal(raw, &incoming); err != nil {
				log.Printf("WebSocket: Invalid message format from user %s", c.UserID)
				return
			}
			if incoming.Type != "" && incoming.Type != "message" {
				return
			}

			dst, err := primitive.ObjectIDFromHex(incoming.Dst)
			if err != nil {
				c.TrySend([]byte(`{"type":"error","error":"invalid dst"}`))
				return
			}

			observability.ChatMessagesTotal.WithLabelValues("inbound").Inc()

			saved, err := s.chatService.SaveMessage(ctx, service.CreateMessageInput{
				Src:     userID,
				Dst:     dst,
				Author:  c.Username,
				Message: incoming.Message,
			})
			if err != nil {
				c.TrySend([]byte(`{"type":"error","error":"message rejected"}`))
				return
			}

			event := notifications.ChatEvent{
				Type:    "message",
				Src:     saved.Src.Hex(),
				Dst:     saved.Dst.Hex(),
				Author:  saved.Author,
				Payload: saved,
			}

			// With Redis, publish once and let the subscriber deliver on every
			// instance, this one included, so clients never see duplicates.
			// Without Redis, deliver locally.
			if s.notifier != nil {
				if payload, err := json.Marshal(event); err == nil {
					if pubErr := s.notifier.PublishChatEvent(ctx, string(payload)); pubErr == nil {
						return
					} else {
						log.Printf("WebSocket: relay publish failed: %v", pubErr)
					}
				}
			}
			s.chatHub.BroadcastExcept(c.UserID, event)
		}

		// WritePump on its own goroutine; ReadPump blocks until disconnect.
		go client.WritePump()
		client.ReadPump()
	})
}
