// internal/interfaces/http/handlers/contact.go
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/pkg/email"
)

// ContactSender forwards contact form messages to the bakery
type ContactSender interface {
	SendContactMessage(ctx context.Context, data email.ContactMessageData) error
}

// ContactRequest is the public contact form
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Phone   string `json:"phone" binding:"max=50"`
	Subject string `json:"subject" binding:"required,max=255"`
	Message string `json:"message" binding:"required,max=5000"`
}

// ContactHandler handles the contact form
type ContactHandler struct {
	sender ContactSender
	logger logrus.FieldLogger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(sender ContactSender, logger logrus.FieldLogger) *ContactHandler {
	return &ContactHandler{
		sender: sender,
		logger: logger,
	}
}

// SendMessage handles POST /contact
func (h *ContactHandler) SendMessage(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	data := email.ContactMessageData{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if err := h.sender.SendContactMessage(c.Request.Context(), data); err != nil {
		respondError(c, h.logger, http.StatusBadGateway, "Failed to send message, please try again later", nil)
		h.logger.WithError(err).Error("Failed to forward contact message")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Thank you for your message! We'll get back to you soon.",
	})
}
