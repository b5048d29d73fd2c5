package server

import (
	"picstream/internal/models"
	"picstream/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /api/users
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.User
// @Security BearerAuth
// @Router /users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	users, err := s.userService.ListUsers(c.Context(), limit, offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(users)
}

// GetUserByUsername handles GET /api/users/:username
// @Summary Get a user by username
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{username} [get]
func (s *Server) GetUserByUsername(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// GetUserByID handles GET /api/users/id/:id
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/id/{id} [get]
func (s *Server) GetUserByID(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// CreateUser handles POST /api/users
// @Summary Register a new account
// @Description Create an account. Profile fields always start at their defaults.
// @Tags users
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "New account"
// @Success 201 {object} object{token=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.Context(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.generateToken(user.ID.Hex(), user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// UpdateUser handles PATCH /api/users/:username
// @Summary Update a user's profile
// @Tags users
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Param request body service.UpdateUserInput true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{username} [patch]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var req service.UpdateUserInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateUser(c.Context(), c.Params("username"), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/users/:username
// @Summary Delete an account
// @Description Removes the account document only; content and edges that
// @Description reference it are left in place.
// @Tags users
// @Param username path string true "Username"
// @Success 204 "No Content"
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{username} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	if err := s.userService.DeleteUser(c.Context(), c.Params("username")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
