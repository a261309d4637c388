// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/domain/cart"
	"github.com/your-org/bakehouse-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints. The cart belongs to the browser
// session, so these routes work without signing in.
type CartHandler struct {
	cartService *cart.Service
	logger      logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, logger logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	summary, err := h.cartService.GetCart(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.handleError(c, err, "Failed to retrieve cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    summary,
	})
}

// GetItemCount handles GET /cart/count
func (h *CartHandler) GetItemCount(c *gin.Context) {
	count, err := h.cartService.GetItemCount(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.handleError(c, err, "Failed to retrieve cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data":    gin.H{"count": count},
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	summary, err := h.cartService.AddToCart(c.Request.Context(), middleware.GetSessionID(c), &req)
	if err != nil {
		h.handleError(c, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    summary,
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	summary, err := h.cartService.UpdateCartItem(c.Request.Context(), middleware.GetSessionID(c), productID, *req.Quantity)
	if err != nil {
		h.handleError(c, err, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    summary,
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.cartService.RemoveFromCart(c.Request.Context(), middleware.GetSessionID(c), productID)
	if err != nil {
		h.handleError(c, err, "Failed to remove item from cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    summary,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.ClearCart(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		h.handleError(c, err, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

func (h *CartHandler) handleError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, cart.ErrSessionRequired):
		respondError(c, h.logger, http.StatusBadRequest, "Session cookie required", err)
	case errors.Is(err, cart.ErrProductNotFound):
		respondError(c, h.logger, http.StatusNotFound, "Product not found", err)
	case errors.Is(err, cart.ErrUnavailable):
		respondError(c, h.logger, http.StatusConflict, "Product is out of stock", err)
	case errors.Is(err, cart.ErrQuantityLimit):
		respondError(c, h.logger, http.StatusBadRequest, "Quantity exceeds the per-item limit", err)
	default:
		respondError(c, h.logger, http.StatusInternalServerError, message, err)
	}
}
