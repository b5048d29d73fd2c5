package server

import (
	"picstream/internal/models"
	"picstream/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFollowing handles GET /api/follows/:id
// @Summary List the users a user follows
// @Tags follows
// @Produce json
// @Param id path string true "Follower user ID"
// @Success 200 {array} models.Follow
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /follows/{id} [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	followerID, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}
	follows, err := s.followService.ListFollowing(c.Context(), followerID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(follows)
}

// CreateFollow handles POST /api/follows
// @Summary Follow a user
// @Description A repeat follow for the same pair is a 409 conflict.
// @Tags follows
// @Accept json
// @Produce json
// @Param request body service.FollowPair true "Follow edge"
// @Success 201 {object} models.Follow
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /follows [post]
func (s *Server) CreateFollow(c *fiber.Ctx) error {
	var req service.FollowPair
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	follow, err := s.followService.CreateFollow(c.Context(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(follow)
}

// DeleteFollow handles DELETE /api/follows
// @Summary Unfollow a user
// @Description The pair travels in the body, mirroring the create call.
// @Tags follows
// @Accept json
// @Param request body service.FollowPair true "Follow edge"
// @Success 204 "No Content"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /follows [delete]
func (s *Server) DeleteFollow(c *fiber.Ctx) error {
	var req service.FollowPair
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.followService.DeleteFollow(c.Context(), req); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
