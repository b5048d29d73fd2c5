package server

import (
	"io"

	"picstream/internal/models"
	"picstream/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadMedia handles POST /api/uploads/media
// @Summary Upload a media file
// @Description Accepts one multipart file part named "file". Only image/* and
// @Description video/* content types are stored; the returned path is what a
// @Description post's media field should reference.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Media file"
// @Success 201 {object} service.UploadResult
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /uploads/media [post]
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A multipart 'file' part is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unreadable file part"))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	result, err := s.mediaService.Upload(c.Context(), service.UploadMediaInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
