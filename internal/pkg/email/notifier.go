// internal/pkg/email/notifier.go
package email

import (
	"context"
	"fmt"

	"github.com/your-org/bakehouse-backend/internal/domain/order"
)

// OrderNotifier emails customers when their orders are placed or updated
type OrderNotifier struct {
	service  *EmailService
	currency string
}

// NewOrderNotifier adapts the email service to order notifications
func NewOrderNotifier(service *EmailService) *OrderNotifier {
	return &OrderNotifier{
		service:  service,
		currency: service.config.App.CurrencySymbol,
	}
}

// OrderPlaced sends the order confirmation
func (n *OrderNotifier) OrderPlaced(ctx context.Context, o *order.Order) error {
	return n.service.SendOrderConfirmationEmail(ctx, n.ConfirmationData(o))
}

// StatusChanged sends the status update for the given history entry
func (n *OrderNotifier) StatusChanged(ctx context.Context, o *order.Order, entry *order.StatusHistory) error {
	return n.service.SendOrderStatusUpdateEmail(ctx, n.StatusUpdateData(o, entry))
}

// ConfirmationData renders an order into template data
func (n *OrderNotifier) ConfirmationData(o *order.Order) OrderConfirmationData {
	items := make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItem{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Format(n.currency),
			Total:     item.TotalPrice.Format(n.currency),
		}
	}

	return OrderConfirmationData{
		EmailTemplateData:   n.service.base(o.CustomerName, o.CustomerEmail),
		OrderNumber:         o.OrderNumber,
		OrderDate:           o.CreatedAt.Format("2 January 2006 15:04"),
		OrderURL:            n.orderURL(o),
		Items:               items,
		Subtotal:            o.Subtotal.Format(n.currency),
		DeliveryFee:         o.DeliveryFee.Format(n.currency),
		Total:               o.TotalAmount.Format(n.currency),
		DeliveryMethod:      string(o.DeliveryMethod),
		DeliveryAddress:     o.DeliveryAddress,
		SpecialInstructions: o.SpecialInstructions,
	}
}

// StatusUpdateData renders a status change into template data
func (n *OrderNotifier) StatusUpdateData(o *order.Order, entry *order.StatusHistory) OrderStatusUpdateData {
	return OrderStatusUpdateData{
		EmailTemplateData: n.service.base(o.CustomerName, o.CustomerEmail),
		OrderNumber:       o.OrderNumber,
		OrderURL:          n.orderURL(o),
		StatusLabel:       entry.Status.Label(),
		Notes:             entry.Notes,
		UpdatedAt:         entry.Timestamp.Format("2 January 2006 15:04"),
	}
}

func (n *OrderNotifier) orderURL(o *order.Order) string {
	return fmt.Sprintf("%s/orders/%s", n.service.config.App.BaseURL, o.ID)
}
