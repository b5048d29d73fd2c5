package server

import (
	"picstream/internal/models"
	"picstream/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetConversation handles GET /api/chats/:src/:dst
// @Summary Get the conversation between two users
// @Description Returns messages from both directions; argument order does not matter.
// @Tags chats
// @Produce json
// @Param src path string true "First user ID"
// @Param dst path string true "Second user ID"
// @Success 200 {array} models.ChatMessage
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /chats/{src}/{dst} [get]
func (s *Server) GetConversation(c *fiber.Ctx) error {
	src, err := parseObjectID(c, "src")
	if err != nil {
		return nil
	}
	dst, err := parseObjectID(c, "dst")
	if err != nil {
		return nil
	}
	messages, err := s.chatService.GetConversation(c.Context(), src, dst)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(messages)
}

// GetConversations handles GET /api/chats/:id
// @Summary List every message a user is a party to
// @Tags chats
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} models.ChatMessage
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /chats/{id} [get]
func (s *Server) GetConversations(c *fiber.Ctx) error {
	userID, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}
	messages, err := s.chatService.ListConversations(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(messages)
}

// CreateChatMessage handles POST /api/chats
// @Summary Store a chat message
// @Description REST companion to the WebSocket path; the message is persisted
// @Description but not broadcast.
// @Tags chats
// @Accept json
// @Produce json
// @Param request body service.CreateMessageInput true "New message"
// @Success 201 {object} models.ChatMessage
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /chats [post]
func (s *Server) CreateChatMessage(c *fiber.Ctx) error {
	var req service.CreateMessageInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	msg, err := s.chatService.SaveMessage(c.Context(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
