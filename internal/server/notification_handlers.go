package server

import (
	"picstream/internal/models"
	"picstream/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications/:id
// @Summary List a user's notifications, newest first
// @Tags notifications
// @Produce json
// @Param id path string true "Recipient user ID"
// @Success 200 {array} models.Notification
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id} [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	recipientID, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}
	notifications, err := s.notificationService.ListByRecipient(c.Context(), recipientID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(notifications)
}

// CreateNotification handles POST /api/notifications
// @Summary Create a notification
// @Description isRead always starts false; a missing date defaults to now.
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body service.CreateNotificationInput true "New notification"
// @Success 201 {object} models.Notification
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /notifications [post]
func (s *Server) CreateNotification(c *fiber.Ctx) error {
	var req service.CreateNotificationInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	notification, err := s.notificationService.CreateNotification(c.Context(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(notification)
}

// MarkNotificationRead handles PATCH /api/notifications/:id
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} models.Notification
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id} [patch]
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}
	notification, err := s.notificationService.MarkRead(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(notification)
}
