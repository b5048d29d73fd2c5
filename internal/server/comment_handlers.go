package server

import (
	"picstream/internal/models"
	"picstream/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComment handles GET /api/comments/:id
// @Summary Get a comment by id
// @Tags comments
// @Produce json
// @Param id path string true "Comment ID"
// @Success 200 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{id} [get]
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}
	comment, err := s.commentService.GetCommentByID(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(comment)
}

// GetCommentsByPost handles GET /api/comments/post/:id
// @Summary List comments on a post
// @Tags comments
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {array} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/post/{id} [get]
func (s *Server) GetCommentsByPost(c *fiber.Ctx) error {
	postID, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}
	comments, err := s.commentService.ListCommentsByPost(c.Context(), postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/comments
// @Summary Comment on a post
// @Description Also bumps the post's nbComments counter atomically.
// @Tags comments
// @Accept json
// @Produce json
// @Param request body service.CreateCommentInput true "New comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req service.CreateCommentInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
