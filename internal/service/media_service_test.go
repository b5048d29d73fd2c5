package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"picstream/internal/config"
	"picstream/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestMediaService(t *testing.T) *MediaService {
	t.Helper()
	return NewMediaService(&config.Config{UploadDir: t.TempDir(), MaxUploadSizeMB: 1})
}

func TestMediaService_Upload_Image(t *testing.T) {
	t.Parallel()

	svc := newTestMediaService(t)
	res, err := svc.Upload(context.Background(), UploadMediaInput{
		Filename:    "cat.png",
		ContentType: "image/png",
		Content:     pngBytes(t),
	})
	require.NoError(t, err)

	assert.Equal(t, models.MediaTypeImage, res.MediaType)
	assert.Regexp(t, regexp.MustCompile(`^/cat_[0-9a-f]{8}\.png$`), res.Path)

	stored := filepath.Join(svc.uploadDir, strings.TrimPrefix(res.Path, "/"))
	_, statErr := os.Stat(stored)
	assert.NoError(t, statErr)
}

func TestMediaService_Upload_UniqueNames(t *testing.T) {
	t.Parallel()

	svc := newTestMediaService(t)
	content := pngBytes(t)

	first, err := svc.Upload(context.Background(), UploadMediaInput{
		Filename: "cat.png", ContentType: "image/png", Content: content,
	})
	require.NoError(t, err)
	second, err := svc.Upload(context.Background(), UploadMediaInput{
		Filename: "cat.png", ContentType: "image/png", Content: content,
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
}

func TestMediaService_Upload_Rejections(t *testing.T) {
	t.Parallel()

	svc := newTestMediaService(t)

	t.Run("unsupported content type", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Upload(context.Background(), UploadMediaInput{
			Filename: "notes.txt", ContentType: "text/plain", Content: []byte("hello"),
		})
		assertAppError(t, err, models.ErrCodeValidation)
	})

	t.Run("declared image that does not decode", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Upload(context.Background(), UploadMediaInput{
			Filename: "fake.png", ContentType: "image/png", Content: []byte("not an image"),
		})
		assertAppError(t, err, models.ErrCodeValidation)
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Upload(context.Background(), UploadMediaInput{
			Filename: "empty.png", ContentType: "image/png",
		})
		assertAppError(t, err, models.ErrCodeValidation)
	})

	t.Run("oversized file", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Upload(context.Background(), UploadMediaInput{
			Filename:    "big.mp4",
			ContentType: "video/mp4",
			Content:     make([]byte, 2*1024*1024),
		})
		assertAppError(t, err, models.ErrCodeValidation)
	})
}

func TestMediaService_Upload_Video(t *testing.T) {
	t.Parallel()

	svc := newTestMediaService(t)
	res, err := svc.Upload(context.Background(), UploadMediaInput{
		Filename:    "clip.mp4",
		ContentType: "video/mp4",
		Content:     []byte{0x00, 0x00, 0x00, 0x18, 0x66, 0x74, 0x79, 0x70},
	})
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeVideo, res.MediaType)
	assert.Regexp(t, regexp.MustCompile(`^/clip_[0-9a-f]{8}\.mp4$`), res.Path)
}
