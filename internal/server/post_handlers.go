package server

import (
	"picstream/internal/models"
	"picstream/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary List posts, newest first
// @Tags posts
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Post
// @Security BearerAuth
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	posts, err := s.postService.ListPosts(c.Context(), limit, offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(posts)
}

// GetPostsByAuthor handles GET /api/posts/user/:id
// @Summary List a user's posts
// @Description The author is not required to still exist; a deleted account's
// @Description posts remain readable.
// @Tags posts
// @Produce json
// @Param id path string true "Author ID"
// @Success 200 {array} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/user/{id} [get]
func (s *Server) GetPostsByAuthor(c *fiber.Ctx) error {
	authorID, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}
	posts, err := s.postService.ListPostsByAuthor(c.Context(), authorID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post by id
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetPostByID(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
// @Summary Publish a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body service.CreatePostInput true "New post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.CreatePostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PATCH /api/posts/:id
// @Summary Update a post
// @Description Counter fields are absolute values here, so a replayed update
// @Description converges instead of compounding.
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body service.UpdatePostInput true "Fields to update"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [patch]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdatePostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), id, req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Description Comments and likes referencing the post are left in place.
// @Tags posts
// @Param id path string true "Post ID"
// @Success 204 "No Content"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.Context(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
