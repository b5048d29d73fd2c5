package server

import (
	"picstream/internal/models"
	"picstream/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetLikesByUser handles GET /api/likes/:id
// @Summary List the posts a user has liked
// @Tags likes
// @Produce json
// @Param id path string true "Liker user ID"
// @Success 200 {array} models.Like
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /likes/{id} [get]
func (s *Server) GetLikesByUser(c *fiber.Ctx) error {
	likerID, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}
	likes, err := s.likeService.ListLikesByUser(c.Context(), likerID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(likes)
}

// CreateLike handles POST /api/likes
// @Summary Like a post
// @Description A repeat like for the same pair is a 409 conflict.
// @Tags likes
// @Accept json
// @Produce json
// @Param request body service.LikePair true "Like edge"
// @Success 201 {object} models.Like
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /likes [post]
func (s *Server) CreateLike(c *fiber.Ctx) error {
	var req service.LikePair
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	like, err := s.likeService.CreateLike(c.Context(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

// DeleteLike handles DELETE /api/likes
// @Summary Unlike a post
// @Description The pair travels in the body, mirroring the create call.
// @Tags likes
// @Accept json
// @Param request body service.LikePair true "Like edge"
// @Success 204 "No Content"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /likes [delete]
func (s *Server) DeleteLike(c *fiber.Ctx) error {
	var req service.LikePair
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.likeService.DeleteLike(c.Context(), req); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
