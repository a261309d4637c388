package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bakehouse-backend/internal/config"
	"github.com/your-org/bakehouse-backend/internal/domain/order"
	"github.com/your-org/bakehouse-backend/internal/domain/settings"
	"github.com/your-org/bakehouse-backend/internal/pkg/money"
)

func testOrder(method order.DeliveryMethod) *order.Order {
	return &order.Order{
		OrderNumber:    "TB-20240301-ABCDEF12",
		Status:         order.StatusBaking,
		Subtotal:       money.FromMinor(10500),
		DeliveryFee:    money.FromMinor(0),
		TotalAmount:    money.FromMinor(10500),
		CustomerName:   "Thabo M",
		CustomerEmail:  "thabo@example.com",
		CustomerPhone:  "082 000 0000",
		DeliveryMethod: method,
		CreatedAt:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Items: []order.OrderItem{
			{ProductName: "Red Velvet Cake", Quantity: 3, UnitPrice: money.FromMinor(3500), TotalPrice: money.FromMinor(10500)},
		},
	}
}

func TestRenderReceiptHTML(t *testing.T) {
	svc := NewService(&config.Config{App: config.AppConfig{CurrencySymbol: "R"}})
	site := settings.Defaults()

	html, err := svc.RenderReceiptHTML(testOrder(order.DeliveryPickup), &site)
	require.NoError(t, err)

	assert.Contains(t, html, "Receipt TB-20240301-ABCDEF12")
	assert.Contains(t, html, site.BusinessName)
	assert.Contains(t, html, "Red Velvet Cake")
	assert.Contains(t, html, "R35.00")
	assert.Contains(t, html, "R105.00")
	assert.Contains(t, html, order.StatusBaking.Label())
	assert.Contains(t, html, "Collection from the bakery")
}

func TestRenderReceiptHTML_Delivery(t *testing.T) {
	svc := NewService(&config.Config{App: config.AppConfig{CurrencySymbol: "R"}})
	o := testOrder(order.DeliveryDelivery)
	o.DeliveryAddress = "4 Long Street"

	html, err := svc.RenderReceiptHTML(o, nil)
	require.NoError(t, err)
	assert.Contains(t, html, "Delivery to 4 Long Street")
}
