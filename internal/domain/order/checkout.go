// internal/domain/order/checkout.go
package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/pkg/money"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// idempotencyPrefix namespaces checkout reservations in Redis
const idempotencyPrefix = "bakehouse:checkout:idempotency:"

var validate = validator.New()

// Customer identifies who is checking out
type Customer struct {
	UserID *uint
	Email  string
}

// CheckoutRequest represents the order form
type CheckoutRequest struct {
	CustomerName        string         `json:"customer_name" validate:"required,max=255"`
	CustomerEmail       string         `json:"customer_email" validate:"required,email,max=255"`
	CustomerPhone       string         `json:"customer_phone" validate:"required,max=50"`
	DeliveryMethod      DeliveryMethod `json:"delivery_method" validate:"required,oneof=pickup delivery"`
	DeliveryAddress     string         `json:"delivery_address" validate:"required_if=DeliveryMethod delivery,max=500"`
	SpecialInstructions string         `json:"special_instructions" validate:"max=2000"`
	EstimatedCompletion *time.Time     `json:"estimated_completion"`
	IdempotencyKey      string         `json:"-"`
}

// ValidationError lists the offending fields of a checkout request
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validate checks the required fields and normalises whitespace
func (r *CheckoutRequest) Validate() error {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerEmail = strings.TrimSpace(r.CustomerEmail)
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.DeliveryAddress = strings.TrimSpace(r.DeliveryAddress)
	r.DeliveryMethod = DeliveryMethod(strings.ToLower(strings.TrimSpace(string(r.DeliveryMethod))))

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonName(fe.StructField())] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

// Checkout turns the session cart into an order. Validation happens before
// any write; the order, its item snapshots and the initial history entry are
// written in one transaction, then the cart is cleared.
//
// When req.IdempotencyKey is set, retries with the same key return the order
// created by the first attempt and replayed is true.
func (s *Service) Checkout(ctx context.Context, customer Customer, sessionID string, req *CheckoutRequest) (order *Order, replayed bool, err error) {
	if req.CustomerEmail == "" {
		req.CustomerEmail = customer.Email
	}
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key != "" {
		if existing, err := s.findByIdempotencyKey(ctx, key); err == nil {
			return existing, true, nil
		} else if !errors.Is(err, ErrOrderNotFound) {
			return nil, false, err
		}

		var reserved bool
		reserved, err = s.reserve(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if reserved {
			defer func() {
				if err != nil {
					s.release(key)
				}
			}()
		}
	}

	store, err := s.carts.Open(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	lines := store.Items()
	if len(lines) == 0 {
		return nil, false, ErrEmptyCart
	}

	site, err := s.settings.Get(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load delivery pricing: %w", err)
	}

	subtotal := store.Total()
	deliveryFee := money.Amount(0)
	if req.DeliveryMethod == DeliveryDelivery {
		deliveryFee = site.DeliveryFeeFor(subtotal)
	}

	now := s.now()
	order = &Order{
		UserID:              customer.UserID,
		Status:              StatusPlaced,
		PaymentStatus:       PaymentStatusPending,
		Subtotal:            subtotal,
		DeliveryFee:         deliveryFee,
		TotalAmount:         subtotal + deliveryFee,
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		DeliveryMethod:      req.DeliveryMethod,
		DeliveryAddress:     req.DeliveryAddress,
		SpecialInstructions: req.SpecialInstructions,
		EstimatedCompletion: req.EstimatedCompletion,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if req.DeliveryMethod == DeliveryPickup {
		order.DeliveryAddress = ""
	}
	if key != "" {
		order.IdempotencyKey = &key
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}

		items := make([]OrderItem, len(lines))
		for i, line := range lines {
			items[i] = OrderItem{
				OrderID:      order.ID,
				ProductID:    line.ID,
				ProductName:  line.Name,
				ProductImage: line.Image,
				Quantity:     line.Quantity,
				UnitPrice:    line.Price,
				TotalPrice:   line.LineTotal(),
				CreatedAt:    now,
			}
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		entry := StatusHistory{
			OrderID:   order.ID,
			Status:    StatusPlaced,
			ChangedBy: "customer",
			Notes:     "Order placed",
			Timestamp: now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to create status history: %w", err)
		}

		order.Items = items
		order.StatusHistory = []StatusHistory{entry}
		return nil
	})
	if err != nil {
		if key != "" && errors.Is(err, gorm.ErrDuplicatedKey) {
			// a concurrent attempt with the same key won the insert
			if existing, findErr := s.findByIdempotencyKey(ctx, key); findErr == nil {
				return existing, true, nil
			}
		}
		return nil, false, fmt.Errorf("failed to create order: %w", err)
	}

	log := s.logger.WithFields(logrus.Fields{
		"order_id":        order.ID,
		"order_number":    order.OrderNumber,
		"delivery_method": order.DeliveryMethod,
		"total":           order.TotalAmount.Minor(),
	})
	log.Info("Order placed")
	s.metrics.OrderPlaced(string(order.DeliveryMethod))

	if err := store.ClearCart(ctx); err != nil {
		log.WithError(err).Warn("Failed to clear cart after checkout")
	}

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, order); err != nil {
			log.WithError(err).Warn("Failed to send order confirmation email")
		}
	}

	return order, false, nil
}

func (s *Service) findByIdempotencyKey(ctx context.Context, key string) (*Order, error) {
	var found Order
	err := s.db.WithContext(ctx).Select("id").Where("idempotency_key = ?", key).First(&found).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	return s.GetOrder(ctx, found.ID)
}

// reserve claims the key in Redis. A Redis outage is tolerated because the
// unique index on orders.idempotency_key still rejects duplicates.
func (s *Service) reserve(ctx context.Context, key string) (bool, error) {
	if s.reserver == nil {
		return false, nil
	}
	ok, err := s.reserver.SetNX(ctx, idempotencyPrefix+key, "pending", s.config.Order.IdempotencyTTL)
	if err != nil {
		s.logger.WithError(err).Warn("Idempotency reservation unavailable, relying on database constraint")
		return false, nil
	}
	if !ok {
		return false, ErrCheckoutInProgress
	}
	return true, nil
}

func (s *Service) release(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.reserver.Del(ctx, idempotencyPrefix+key); err != nil {
		s.logger.WithError(err).Warn("Failed to release idempotency reservation")
	}
}

var jsonNames = map[string]string{
	"CustomerName":        "customer_name",
	"CustomerEmail":       "customer_email",
	"CustomerPhone":       "customer_phone",
	"DeliveryMethod":      "delivery_method",
	"DeliveryAddress":     "delivery_address",
	"SpecialInstructions": "special_instructions",
}

func jsonName(field string) string {
	if name, ok := jsonNames[field]; ok {
		return name
	}
	return field
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
