// internal/interfaces/http/handlers/order.go
package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/domain/cart"
	"github.com/your-org/bakehouse-backend/internal/domain/order"
	"github.com/your-org/bakehouse-backend/internal/domain/settings"
	"github.com/your-org/bakehouse-backend/internal/interfaces/http/middleware"
)

// IdempotencyKeyHeader lets clients retry a checkout without placing a second order
const IdempotencyKeyHeader = "Idempotency-Key"

// ReceiptRenderer produces the printable receipt of an order
type ReceiptRenderer interface {
	GenerateReceipt(o *order.Order, site *settings.WebsiteSettings) (*bytes.Buffer, error)
}

// SiteSettings reads the business details printed on receipts
type SiteSettings interface {
	Get(ctx context.Context) (*settings.WebsiteSettings, error)
}

// OrderHandler handles the signed-in customer's order endpoints
type OrderHandler struct {
	orderService *order.Service
	receipts     ReceiptRenderer
	settings     SiteSettings
	logger       logrus.FieldLogger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, receipts ReceiptRenderer, site SiteSettings, logger logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		receipts:     receipts,
		settings:     site,
		logger:       logger,
	}
}

// Checkout handles POST /orders/checkout. Guests check out without an
// account; signed-in customers have the order linked to them.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var customer order.Customer
	if userID, exists := middleware.GetUserIDFromContext(c); exists {
		customer.UserID = &userID
		customer.Email, _ = middleware.GetUserEmailFromContext(c)
	}

	var req order.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	req.IdempotencyKey = strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))

	placed, replayed, err := h.orderService.Checkout(c.Request.Context(), customer, middleware.GetSessionID(c), &req)
	if err != nil {
		h.handleError(c, err, "Failed to place order")
		return
	}

	if replayed {
		c.JSON(http.StatusOK, gin.H{
			"message": "Order already placed",
			"data":    placed,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    placed,
	})
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	req.UserID = &userID

	response, err := h.orderService.GetOrders(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err, "Failed to retrieve orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    response,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, ok := h.ownOrder(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// GetOrderHistory handles GET /orders/:id/history
func (h *OrderHandler) GetOrderHistory(c *gin.Context) {
	o, ok := h.ownOrder(c)
	if !ok {
		return
	}

	history, err := h.orderService.GetStatusHistory(c.Request.Context(), o.ID)
	if err != nil {
		h.handleError(c, err, "Failed to retrieve order history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order history retrieved successfully",
		"data":    history,
	})
}

// GetReceipt handles GET /orders/:id/receipt
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	o, ok := h.ownOrder(c)
	if !ok {
		return
	}

	site, err := h.settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, http.StatusInternalServerError, "Failed to generate receipt", err)
		return
	}

	buf, err := h.receipts.GenerateReceipt(o, site)
	if err != nil {
		respondError(c, h.logger, http.StatusInternalServerError, "Failed to generate receipt", err)
		return
	}

	filename := fmt.Sprintf("receipt-%s.pdf", o.OrderNumber)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ownOrder loads the order named in the path, scoped to the signed-in customer
func (h *OrderHandler) ownOrder(c *gin.Context) (*order.Order, bool) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return nil, false
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil, false
	}

	o, err := h.orderService.GetUserOrder(c.Request.Context(), id, userID)
	if err != nil {
		h.handleError(c, err, "Failed to retrieve order")
		return nil, false
	}
	return o, true
}

func (h *OrderHandler) handleError(c *gin.Context, err error, message string) {
	handleOrderError(c, h.logger, err, message)
}

// handleOrderError maps order and cart errors to responses
func handleOrderError(c *gin.Context, logger logrus.FieldLogger, err error, message string) {
	var verr *order.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Please fill in all required fields",
			"details": verr.Fields,
		})
	case errors.Is(err, order.ErrValidation):
		respondError(c, logger, http.StatusBadRequest, "Invalid request data", err)
	case errors.Is(err, order.ErrEmptyCart):
		respondError(c, logger, http.StatusBadRequest, "Your cart is empty", err)
	case errors.Is(err, cart.ErrSessionRequired):
		respondError(c, logger, http.StatusBadRequest, "Session cookie required", err)
	case errors.Is(err, order.ErrOrderNotFound):
		respondError(c, logger, http.StatusNotFound, "Order not found", err)
	case errors.Is(err, order.ErrInvalidStatus):
		respondError(c, logger, http.StatusBadRequest, "Invalid order status", err)
	case errors.Is(err, order.ErrInvalidTransition):
		respondError(c, logger, http.StatusConflict, "Status change not allowed", err)
	case errors.Is(err, order.ErrCheckoutInProgress):
		respondError(c, logger, http.StatusConflict, "Checkout already in progress", err)
	default:
		respondError(c, logger, http.StatusInternalServerError, message, err)
	}
}
