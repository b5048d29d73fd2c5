package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"picstream/internal/config"
	"picstream/internal/middleware"
	"picstream/internal/models"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultUploadDir       = "./public"
	DefaultMaxUploadSizeMB = 50
)

// UploadMediaInput carries one multipart file part.
type UploadMediaInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// UploadResult is returned to the client so it can reference the stored file
// from a post.
type UploadResult struct {
	Path      string `json:"path"`
	MediaType string `json:"mediaType"`
	Size      int64  `json:"size"`
}

type MediaService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewMediaService(cfg *config.Config) *MediaService {
	uploadDir := DefaultUploadDir
	maxUploadSizeMB := DefaultMaxUploadSizeMB
	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.MaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.MaxUploadSizeMB
		}
	}
	return &MediaService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// mediaTypeFor maps a MIME type onto the post media kinds. Anything outside
// image/* and video/* is rejected.
func mediaTypeFor(contentType string) (string, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaTypeImage, true
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaTypeVideo, true
	}
	return "", false
}

// storedName derives the on-disk filename: the original base name with a
// random 8-hex-character suffix before the extension, so repeated uploads of
// the same file never collide.
func storedName(original string) string {
	base := filepath.Base(original)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "upload"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%s%s", stem, suffix, ext)
}

// Upload validates and persists one media file, returning the public path.
func (s *MediaService) Upload(ctx context.Context, in UploadMediaInput) (*UploadResult, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("file is empty")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError("file exceeds the maximum upload size")
	}

	mediaType, ok := mediaTypeFor(in.ContentType)
	if !ok {
		return nil, models.NewValidationError("only image/* and video/* uploads are accepted")
	}

	// For images, verify the payload really decodes as one. Videos are taken
	// on trust of their declared type.
	if mediaType == models.MediaTypeImage {
		if _, _, err := image.DecodeConfig(bytes.NewReader(in.Content)); err != nil {
			return nil, models.NewValidationError("file does not decode as an image")
		}
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, models.NewInternalError(err)
	}

	name := storedName(in.Filename)
	dest := filepath.Join(s.uploadDir, name)
	if err := os.WriteFile(dest, in.Content, 0o644); err != nil {
		return nil, models.NewInternalError(err)
	}

	middleware.Logger.InfoContext(ctx, "media stored",
		"file", name, "media_type", mediaType, "bytes", len(in.Content))

	return &UploadResult{
		Path:      "/" + name,
		MediaType: mediaType,
		Size:      int64(len(in.Content)),
	}, nil
}
