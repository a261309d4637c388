// internal/interfaces/http/handlers/gallery.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/domain/gallery"
)

// GalleryHandler handles gallery endpoints
type GalleryHandler struct {
	galleryService *gallery.Service
	logger         logrus.FieldLogger
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(galleryService *gallery.Service, logger logrus.FieldLogger) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
		logger:         logger,
	}
}

// GetItems handles GET /gallery
func (h *GalleryHandler) GetItems(c *gin.Context) {
	var req gallery.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	items, err := h.galleryService.List(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err, "Failed to retrieve gallery")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Gallery retrieved successfully",
		"data":    items,
	})
}

// GetItem handles GET /gallery/:id
func (h *GalleryHandler) GetItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.galleryService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, "Failed to retrieve gallery item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Gallery item retrieved successfully",
		"data":    item,
	})
}

// AdminCreateItem handles POST /admin/gallery
func (h *GalleryHandler) AdminCreateItem(c *gin.Context) {
	var req gallery.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.galleryService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err, "Failed to create gallery item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Gallery item created successfully",
		"data":    item,
	})
}

// AdminUpdateItem handles PUT /admin/gallery/:id
func (h *GalleryHandler) AdminUpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req gallery.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.galleryService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err, "Failed to update gallery item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Gallery item updated successfully",
		"data":    item,
	})
}

// AdminDeleteItem handles DELETE /admin/gallery/:id
func (h *GalleryHandler) AdminDeleteItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.galleryService.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err, "Failed to delete gallery item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Gallery item deleted successfully",
	})
}

func (h *GalleryHandler) handleError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, gallery.ErrItemNotFound):
		respondError(c, h.logger, http.StatusNotFound, "Gallery item not found", err)
	case errors.Is(err, gallery.ErrInvalidItem):
		respondError(c, h.logger, http.StatusBadRequest, "Invalid gallery item", err)
	default:
		respondError(c, h.logger, http.StatusInternalServerError, message, err)
	}
}
