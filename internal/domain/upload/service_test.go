package upload

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bakehouse-backend/internal/config"
	"github.com/your-org/bakehouse-backend/internal/pkg/logger"
	"github.com/your-org/bakehouse-backend/internal/pkg/testdb"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func newTestService(t *testing.T, maxSize int64) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		External: config.ExternalConfig{
			Storage: config.StorageConfig{LocalPath: dir, PublicPath: "/uploads/"},
		},
		Upload: config.UploadConfig{
			MaxSize:           maxSize,
			AllowedExtensions: []string{"jpg", "jpeg", "png", "webp", "mp4"},
		},
	}
	return NewService(testdb.Open(t, &UploadedFile{}), cfg, logger.Discard()), dir
}

func TestUploadStoresSniffedImage(t *testing.T) {
	svc, dir := newTestService(t, 1024)
	ctx := context.Background()

	// declared .jpeg but the bytes are PNG; the stored name follows the content
	file, err := svc.Upload(ctx, &UploadRequest{
		File:       bytes.NewReader(pngHeader),
		Filename:   "../../etc/cake.jpeg",
		Category:   "Gallery",
		UploadedBy: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "image/png", file.MimeType)
	assert.Equal(t, "cake.jpeg", file.OriginalName)
	assert.Equal(t, CategoryGallery, file.Category)
	assert.True(t, strings.HasSuffix(file.Filename, ".png"))
	assert.Equal(t, "/uploads/gallery/"+file.Filename, file.URL)
	assert.Equal(t, int64(len(pngHeader)), file.Size)
	assert.True(t, file.IsImage())

	stored, err := os.ReadFile(filepath.Join(dir, "gallery", file.Filename))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)
}

func TestUploadRejections(t *testing.T) {
	svc, _ := newTestService(t, 32)
	ctx := context.Background()

	_, err := svc.Upload(ctx, &UploadRequest{File: bytes.NewReader(pngHeader), Filename: "cake.exe"})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = svc.Upload(ctx, &UploadRequest{File: bytes.NewReader(pngHeader), Filename: "cake"})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = svc.Upload(ctx, &UploadRequest{File: strings.NewReader("just some text"), Filename: "cake.png"})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = svc.Upload(ctx, &UploadRequest{File: bytes.NewReader(nil), Filename: "cake.png"})
	assert.ErrorIs(t, err, ErrEmptyFile)

	big := append(append([]byte{}, pngHeader...), make([]byte, 64)...)
	_, err = svc.Upload(ctx, &UploadRequest{File: bytes.NewReader(big), Filename: "cake.png"})
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestListAndDelete(t *testing.T) {
	svc, dir := newTestService(t, 1024)
	ctx := context.Background()

	first, err := svc.Upload(ctx, &UploadRequest{File: bytes.NewReader(pngHeader), Filename: "a.png", Category: "products"})
	require.NoError(t, err)
	_, err = svc.Upload(ctx, &UploadRequest{File: bytes.NewReader(pngHeader), Filename: "b.png", Category: "gallery"})
	require.NoError(t, err)

	files, total, err := svc.List(ctx, &ListRequest{Category: "products"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, files, 1)
	assert.Equal(t, first.ID, files[0].ID)

	require.NoError(t, svc.Delete(ctx, first.ID))
	_, err = os.Stat(filepath.Join(dir, "products", first.Filename))
	assert.True(t, os.IsNotExist(err))
	assert.ErrorIs(t, svc.Delete(ctx, first.ID), ErrFileNotFound)
}

func TestGetFormattedSize(t *testing.T) {
	assert.Equal(t, "512 B", (&UploadedFile{Size: 512}).GetFormattedSize())
	assert.Equal(t, "1.5 KB", (&UploadedFile{Size: 1536}).GetFormattedSize())
	assert.Equal(t, "5.0 MB", (&UploadedFile{Size: 5 << 20}).GetFormattedSize())
}
