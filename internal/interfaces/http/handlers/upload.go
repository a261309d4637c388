// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/config"
	"github.com/your-org/bakehouse-backend/internal/domain/product"
	"github.com/your-org/bakehouse-backend/internal/domain/upload"
	"github.com/your-org/bakehouse-backend/internal/interfaces/http/middleware"
)

// UploadHandler handles admin image uploads
type UploadHandler struct {
	uploadService *upload.Service
	config        *config.Config
	logger        logrus.FieldLogger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *upload.Service, cfg *config.Config, logger logrus.FieldLogger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		config:        cfg,
		logger:        logger,
	}
}

// UploadImage handles POST /admin/uploads
func (h *UploadHandler) UploadImage(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	// the service enforces the exact limit while copying
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.Upload.MaxSize+1<<20)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No file provided",
		})
		return
	}
	defer file.Close()

	uploaded, err := h.uploadService.Upload(c.Request.Context(), &upload.UploadRequest{
		File:       file,
		Filename:   header.Filename,
		Category:   c.PostForm("category"),
		UploadedBy: userID,
	})
	if err != nil {
		h.handleError(c, err, "Failed to upload file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"data":    uploaded,
	})
}

// GetUploads handles GET /admin/uploads
func (h *UploadHandler) GetUploads(c *gin.Context) {
	var req upload.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	files, total, err := h.uploadService.List(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err, "Failed to retrieve uploads")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Uploads retrieved successfully",
		"data": gin.H{
			"files":      files,
			"pagination": product.NewPagination(req.Page, req.Limit, total),
		},
	})
}

// DeleteUpload handles DELETE /admin/uploads/:id
func (h *UploadHandler) DeleteUpload(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.uploadService.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err, "Failed to delete file")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File deleted successfully",
	})
}

func (h *UploadHandler) handleError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, upload.ErrFileNotFound):
		respondError(c, h.logger, http.StatusNotFound, "File not found", err)
	case errors.Is(err, upload.ErrFileTooLarge):
		respondError(c, h.logger, http.StatusRequestEntityTooLarge, "File too large", err)
	case errors.Is(err, upload.ErrUnsupportedType):
		respondError(c, h.logger, http.StatusUnsupportedMediaType, "Unsupported file type", err)
	case errors.Is(err, upload.ErrEmptyFile):
		respondError(c, h.logger, http.StatusBadRequest, "File is empty", err)
	default:
		respondError(c, h.logger, http.StatusInternalServerError, message, err)
	}
}
