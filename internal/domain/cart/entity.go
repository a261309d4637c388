// internal/domain/cart/entity.go
package cart

import (
	"errors"

	"github.com/your-org/bakehouse-backend/internal/pkg/money"
)

// StorageKey prefixes every persisted cart; the session id follows a colon.
const StorageKey = "bakehouse_cart"

var (
	ErrSessionRequired = errors.New("session id required")
	ErrMalformedCart   = errors.New("malformed cart data")
	ErrProductNotFound = errors.New("product not found")
	ErrUnavailable     = errors.New("product is out of stock")
	ErrQuantityLimit   = errors.New("quantity exceeds the per-item limit")
)

// CartItem is one line of the cart. Name, price and image are captured from
// the catalog when the product is first added.
type CartItem struct {
	ID       uint         `json:"id"` // product id
	Name     string       `json:"name"`
	Price    money.Amount `json:"price"` // unit price in cents
	Image    string       `json:"image"`
	Quantity int          `json:"quantity"`
}

// LineTotal returns price times quantity
func (i CartItem) LineTotal() money.Amount {
	return i.Price.Mul(i.Quantity)
}

// Summary is the cart as shown on the cart page, with a delivery estimate
type Summary struct {
	Items                 []CartItem   `json:"items"`
	LineCount             int          `json:"line_count"`
	ItemCount             int          `json:"item_count"`
	Subtotal              money.Amount `json:"subtotal"`
	DeliveryFee           money.Amount `json:"delivery_fee"`
	FreeDeliveryThreshold money.Amount `json:"free_delivery_threshold"`
	FreeDelivery          bool         `json:"free_delivery"`
	Total                 money.Amount `json:"total"`
	Currency              string       `json:"currency"`
}
