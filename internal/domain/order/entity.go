// internal/domain/order/entity.go
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/bakehouse-backend/internal/pkg/money"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrValidation         = errors.New("validation failed")
	ErrCheckoutInProgress = errors.New("checkout already in progress for this idempotency key")
	ErrHistoryImmutable   = errors.New("status history is append-only")
)

// Status is the bakery workflow stage of an order
type Status string

const (
	StatusPlaced         Status = "placed"
	StatusPreparing      Status = "preparing"
	StatusBaking         Status = "baking"
	StatusDecorating     Status = "decorating"
	StatusQualityCheck   Status = "quality_check"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

// Statuses lists every status in workflow order
var Statuses = []Status{
	StatusPlaced,
	StatusPreparing,
	StatusBaking,
	StatusDecorating,
	StatusQualityCheck,
	StatusReady,
	StatusOutForDelivery,
	StatusCompleted,
	StatusCancelled,
}

var statusLabels = map[Status]string{
	StatusPlaced:         "Order Placed",
	StatusPreparing:      "Preparing",
	StatusBaking:         "Baking",
	StatusDecorating:     "Decorating",
	StatusQualityCheck:   "Quality Check",
	StatusReady:          "Ready for Collection/Delivery",
	StatusOutForDelivery: "Out for Delivery",
	StatusCompleted:      "Completed",
	StatusCancelled:      "Cancelled",
}

// ParseStatus validates a status string
func ParseStatus(s string) (Status, error) {
	status := Status(strings.TrimSpace(s))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the human readable name shown to customers and staff
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsTerminal reports whether the order has left the workflow
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// DeliveryMethod is how the customer receives the order
type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryDelivery DeliveryMethod = "delivery"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Order represents a placed bakery order
type Order struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber    string         `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID         *uint          `gorm:"index" json:"user_id"`
	Status         Status         `gorm:"not null;size:32;index" json:"status"`
	PaymentStatus  PaymentStatus  `gorm:"not null;size:32" json:"payment_status"`
	IdempotencyKey *string        `gorm:"uniqueIndex;size:255" json:"-"`

	// Amounts in cents
	Subtotal    money.Amount `gorm:"not null" json:"subtotal"`
	DeliveryFee money.Amount `gorm:"not null" json:"delivery_fee"`
	TotalAmount money.Amount `gorm:"not null" json:"total_amount"`

	// Customer
	CustomerName  string `gorm:"not null;size:255" json:"customer_name"`
	CustomerEmail string `gorm:"not null;size:255;index" json:"customer_email"`
	CustomerPhone string `gorm:"not null;size:50" json:"customer_phone"`

	// Fulfilment
	DeliveryMethod      DeliveryMethod `gorm:"not null;size:20" json:"delivery_method"`
	DeliveryAddress     string         `gorm:"size:500" json:"delivery_address"`
	SpecialInstructions string         `gorm:"type:text" json:"special_instructions"`
	EstimatedCompletion *time.Time     `json:"estimated_completion"`
	AdminNotes          string         `gorm:"type:text" json:"admin_notes"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []StatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"status_history,omitempty"`
}

// OrderItem is a snapshot of a cart line taken at checkout. It is never
// re-linked to the catalog, so later price or name changes do not affect it.
type OrderItem struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	OrderID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID    uint         `gorm:"not null;index" json:"product_id"`
	ProductName  string       `gorm:"not null;size:255" json:"product_name"`
	ProductImage string       `gorm:"size:500" json:"product_image"`
	Quantity     int          `gorm:"not null" json:"quantity"`
	UnitPrice    money.Amount `gorm:"not null" json:"unit_price"`
	TotalPrice   money.Amount `gorm:"not null" json:"total_price"`
	CreatedAt    time.Time    `json:"created_at"`
}

// StatusHistory records one status change. Rows are append-only.
type StatusHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	Status    Status    `gorm:"not null;size:32" json:"status"`
	ChangedBy string    `gorm:"not null;size:255" json:"changed_by"`
	Notes     string    `gorm:"type:text" json:"notes"`
	Timestamp time.Time `gorm:"column:changed_at;not null;index" json:"timestamp"`
}

// TableName overrides
func (Order) TableName() string         { return "orders" }
func (OrderItem) TableName() string     { return "order_items" }
func (StatusHistory) TableName() string { return "order_status_history" }

// BeforeCreate assigns the id and order number
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = generateOrderNumber(o.ID, o.CreatedAt)
	}
	return nil
}

func (h *StatusHistory) BeforeUpdate(tx *gorm.DB) error {
	return ErrHistoryImmutable
}

func (h *StatusHistory) BeforeDelete(tx *gorm.DB) error {
	return ErrHistoryImmutable
}

// StatusLabel returns the display label of the current status
func (o *Order) StatusLabel() string {
	return o.Status.Label()
}

// ItemCount returns the number of units ordered
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// generateOrderNumber formats TB-YYYYMMDD-XXXXXXXX from the creation date and id
func generateOrderNumber(id uuid.UUID, at time.Time) string {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	short := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
	return fmt.Sprintf("TB-%s-%s", at.Format("20060102"), short)
}
