package server

import (
	"errors"
	"strconv"

	"picstream/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// errResponseWritten signals that the handler has already written an error
// response and should just return.
var errResponseWritten = errors.New("response already written")

// parseObjectID reads a path parameter as an ObjectID. On a malformed id it
// writes the 400 response itself and returns errResponseWritten.
func parseObjectID(c *fiber.Ctx, param string) (primitive.ObjectID, error) {
	raw := c.Params(param)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid id '"+raw+"'"))
		return primitive.NilObjectID, errResponseWritten
	}
	return id, nil
}

// parsePagination reads limit/offset query params with sane bounds.
func parsePagination(c *fiber.Ctx) (limit, offset int64) {
	limit = 50
	offset = 0
	if v, err := strconv.ParseInt(c.Query("limit", "50"), 10, 64); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	if v, err := strconv.ParseInt(c.Query("offset", "0"), 10, 64); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
