// internal/interfaces/http/handlers/settings.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/domain/settings"
)

// SettingsHandler exposes the website settings
type SettingsHandler struct {
	settingsService *settings.Service
	logger          logrus.FieldLogger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *settings.Service, logger logrus.FieldLogger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// GetSettings handles GET /settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	site, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, http.StatusInternalServerError, "Failed to retrieve settings", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Settings retrieved successfully",
		"data":    site,
	})
}

// AdminSaveSettings handles PUT /admin/settings
func (h *SettingsHandler) AdminSaveSettings(c *gin.Context) {
	var req settings.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	site, err := h.settingsService.Save(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, settings.ErrInvalidSettings) {
			respondError(c, h.logger, http.StatusBadRequest, "Invalid settings", err)
			return
		}
		respondError(c, h.logger, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}

	h.logger.Info("Website settings saved")
	c.JSON(http.StatusOK, gin.H{
		"message": "Settings saved successfully",
		"data":    site,
	})
}
