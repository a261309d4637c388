// internal/domain/upload/entity.go
package upload

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("file is empty")
)

// UploadedFile records an image or clip stored for the catalog or gallery
type UploadedFile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OriginalName string    `gorm:"not null;size:255" json:"original_name"`
	Filename     string    `gorm:"not null;size:255;uniqueIndex" json:"filename"`
	Path         string    `gorm:"not null;size:500" json:"path"`
	URL          string    `gorm:"not null;size:500" json:"url"`
	MimeType     string    `gorm:"not null;size:100" json:"mime_type"`
	Size         int64     `gorm:"not null" json:"size"`
	Category     string    `gorm:"size:50;index" json:"category"`
	UploadedBy   uint      `gorm:"not null;index" json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName overrides the table name for UploadedFile
func (UploadedFile) TableName() string { return "uploaded_files" }

// IsImage checks if the file is an image
func (f *UploadedFile) IsImage() bool {
	return strings.HasPrefix(f.MimeType, "image/")
}

// GetFormattedSize returns human-readable file size
func (f *UploadedFile) GetFormattedSize() string {
	const unit = 1024
	if f.Size < unit {
		return fmt.Sprintf("%d B", f.Size)
	}

	div, exp := int64(unit), 0
	for n := f.Size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(f.Size)/float64(div), "KMGTPE"[exp])
}
