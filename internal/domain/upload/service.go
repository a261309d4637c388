// internal/domain/upload/service.go
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/config"
	"gorm.io/gorm"
)

// sniffLen is how much of the file is read before deciding its type
const sniffLen = 3072

// allowedMimeTypes maps accepted content types to their canonical extension
var allowedMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"video/mp4":  ".mp4",
}

// Upload categories
const (
	CategoryProducts = "products"
	CategoryGallery  = "gallery"
	CategoryGeneral  = "general"
)

// Service handles file upload business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	logger logrus.FieldLogger
}

// NewService creates a new upload service
func NewService(db *gorm.DB, cfg *config.Config, logger logrus.FieldLogger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// UploadRequest describes one incoming file
type UploadRequest struct {
	File       io.Reader
	Filename   string
	Category   string
	UploadedBy uint
}

// ListRequest represents upload list query parameters
type ListRequest struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=50"`
	Category string `form:"category"`
}

// Upload validates, stores and records a file. The content is sniffed; the
// client-declared name only contributes its extension to the allow-list check.
func (s *Service) Upload(ctx context.Context, req *UploadRequest) (*UploadedFile, error) {
	if err := s.checkExtension(req.Filename); err != nil {
		return nil, err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(req.File, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if n == 0 {
		return nil, ErrEmptyFile
	}
	head = head[:n]

	mime := mimetype.Detect(head)
	ext, ok := allowedExtensionFor(mime)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mime.String())
	}

	category := normalizeCategory(req.Category)
	filename := uuid.NewString() + ext
	relativePath := path.Join(category, filename)
	fullPath := filepath.Join(s.config.External.Storage.LocalPath, filepath.FromSlash(relativePath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	size, err := s.writeFile(fullPath, io.MultiReader(bytes.NewReader(head), req.File))
	if err != nil {
		return nil, err
	}

	record := UploadedFile{
		OriginalName: filepath.Base(req.Filename),
		Filename:     filename,
		Path:         relativePath,
		URL:          s.fileURL(relativePath),
		MimeType:     mime.String(),
		Size:         size,
		Category:     category,
		UploadedBy:   req.UploadedBy,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to save file info: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"file_id":   record.ID,
		"mime_type": record.MimeType,
		"size":      record.Size,
		"category":  record.Category,
	}).Info("File uploaded")

	return &record, nil
}

// List returns uploaded files, newest first
func (s *Service) List(ctx context.Context, req *ListRequest) ([]UploadedFile, int64, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 50
	}

	query := s.db.WithContext(ctx).Model(&UploadedFile{})
	if req.Category != "" {
		query = query.Where("category = ?", normalizeCategory(req.Category))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count uploads: %w", err)
	}

	var files []UploadedFile
	err := query.Order("created_at DESC, id DESC").
		Offset((req.Page - 1) * req.Limit).
		Limit(req.Limit).
		Find(&files).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list uploads: %w", err)
	}
	return files, total, nil
}

// Delete removes the record and the stored file
func (s *Service) Delete(ctx context.Context, id uint) error {
	var record UploadedFile
	if err := s.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to get upload: %w", err)
	}

	fullPath := filepath.Join(s.config.External.Storage.LocalPath, filepath.FromSlash(record.Path))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(&record).Error; err != nil {
		return fmt.Errorf("failed to delete file info: %w", err)
	}
	return nil
}

func (s *Service) writeFile(fullPath string, r io.Reader) (int64, error) {
	dst, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	maxSize := s.config.Upload.MaxSize
	written, err := io.Copy(dst, io.LimitReader(r, maxSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(fullPath)
		return 0, fmt.Errorf("failed to save file: %w", err)
	}
	if written > maxSize {
		os.Remove(fullPath)
		return 0, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, maxSize)
	}
	return written, nil
}

func (s *Service) checkExtension(filename string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return fmt.Errorf("%w: missing file extension", ErrUnsupportedType)
	}
	for _, allowed := range s.config.Upload.AllowedExtensions {
		if strings.EqualFold(strings.TrimPrefix(allowed, "."), ext) {
			return nil
		}
	}
	return fmt.Errorf("%w: .%s", ErrUnsupportedType, ext)
}

func (s *Service) fileURL(relativePath string) string {
	return strings.TrimRight(s.config.External.Storage.PublicPath, "/") + "/" + relativePath
}

func allowedExtensionFor(mime *mimetype.MIME) (string, bool) {
	for m := mime; m != nil; m = m.Parent() {
		if ext, ok := allowedMimeTypes[m.String()]; ok {
			return ext, true
		}
	}
	return "", false
}

func normalizeCategory(category string) string {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case CategoryProducts:
		return CategoryProducts
	case CategoryGallery:
		return CategoryGallery
	default:
		return CategoryGeneral
	}
}
