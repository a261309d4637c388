// internal/interfaces/http/handlers/admin_order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/domain/order"
	"github.com/your-org/bakehouse-backend/internal/interfaces/http/middleware"
)

// AdminOrderHandler handles the bakery's order management endpoints
type AdminOrderHandler struct {
	orderService *order.Service
	logger       logrus.FieldLogger
}

// NewAdminOrderHandler creates a new admin order handler
func NewAdminOrderHandler(orderService *order.Service, logger logrus.FieldLogger) *AdminOrderHandler {
	return &AdminOrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// ListOrders handles GET /admin/orders
func (h *AdminOrderHandler) ListOrders(c *gin.Context) {
	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	response, err := h.orderService.GetOrders(c.Request.Context(), &req)
	if err != nil {
		handleOrderError(c, h.logger, err, "Failed to retrieve orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    response,
	})
}

// GetOrder handles GET /admin/orders/:id
func (h *AdminOrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	o, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		handleOrderError(c, h.logger, err, "Failed to retrieve order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *AdminOrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	changedBy, _ := middleware.GetUserEmailFromContext(c)
	if changedBy == "" {
		changedBy = "admin"
	}

	o, err := h.orderService.UpdateOrderStatus(c.Request.Context(), id, req.Status, changedBy, req.Notes)
	if err != nil {
		handleOrderError(c, h.logger, err, "Failed to update order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    o,
	})
}

// UpdateOrderNotes handles PUT /admin/orders/:id/notes
func (h *AdminOrderHandler) UpdateOrderNotes(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req order.UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	o, err := h.orderService.UpdateNotes(c.Request.Context(), id, req.Notes)
	if err != nil {
		handleOrderError(c, h.logger, err, "Failed to update order notes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order notes updated successfully",
		"data":    o,
	})
}

// GetOrderHistory handles GET /admin/orders/:id/history
func (h *AdminOrderHandler) GetOrderHistory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	history, err := h.orderService.GetStatusHistory(c.Request.Context(), id)
	if err != nil {
		handleOrderError(c, h.logger, err, "Failed to retrieve order history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order history retrieved successfully",
		"data":    history,
	})
}

// GetStatuses handles GET /admin/orders/statuses
func (h *AdminOrderHandler) GetStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Order statuses retrieved successfully",
		"data":    order.StatusOptions(),
	})
}
