// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/config"
	"github.com/your-org/bakehouse-backend/internal/domain/cart"
	"github.com/your-org/bakehouse-backend/internal/domain/settings"
	"github.com/your-org/bakehouse-backend/internal/pkg/metrics"
	"gorm.io/gorm"
)

// CartOpener gives checkout access to the shopper's cart
type CartOpener interface {
	Open(ctx context.Context, sessionID string) (*cart.Store, error)
}

// SettingsReader supplies delivery pricing
type SettingsReader interface {
	Get(ctx context.Context) (*settings.WebsiteSettings, error)
}

// Reserver holds short-lived idempotency reservations
type Reserver interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// Notifier tells customers about their orders. Failures never fail the
// operation that triggered them.
type Notifier interface {
	OrderPlaced(ctx context.Context, o *Order) error
	StatusChanged(ctx context.Context, o *Order, entry *StatusHistory) error
}

// Service handles order business logic
type Service struct {
	db       *gorm.DB
	config   *config.Config
	carts    CartOpener
	settings SettingsReader
	reserver Reserver
	notifier Notifier
	policy   TransitionPolicy
	logger   logrus.FieldLogger
	metrics  *metrics.Recorder
	now      func() time.Time
}

// Dependencies groups the collaborators of the order service
type Dependencies struct {
	Carts    CartOpener
	Settings SettingsReader
	Reserver Reserver
	Notifier Notifier
	Logger   logrus.FieldLogger
	Metrics  *metrics.Recorder
}

// NewService creates a new order service. The transition policy follows
// cfg.Order.StatusPolicy.
func NewService(db *gorm.DB, cfg *config.Config, deps Dependencies) *Service {
	return &Service{
		db:       db,
		config:   cfg,
		carts:    deps.Carts,
		settings: deps.Settings,
		reserver: deps.Reserver,
		notifier: deps.Notifier,
		policy:   PolicyFor(cfg.Order.StatusPolicy),
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit"`
	Status string `form:"status"` // empty or "all" for every status
	Search string `form:"search"`
	UserID *uint  `form:"-"`
}

// OrderResponse represents order response with pagination
type OrderResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdateNotesRequest represents admin notes on an order
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// StatusOption pairs a status with its label
type StatusOption struct {
	Value Status `json:"value"`
	Label string `json:"label"`
}

// StatusOptions lists all statuses with labels, in workflow order
func StatusOptions() []StatusOption {
	options := make([]StatusOption, len(Statuses))
	for i, s := range Statuses {
		options[i] = StatusOption{Value: s, Label: s.Label()}
	}
	return options
}

// GetOrders retrieves orders newest first with filtering and pagination
func (s *Service) GetOrders(ctx context.Context, req *OrderListRequest) (*OrderResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = s.config.Order.PageLimit
	}
	if req.Limit < 1 {
		req.Limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Order{})

	if req.UserID != nil {
		query = query.Where("user_id = ?", *req.UserID)
	}

	if req.Status != "" && req.Status != "all" {
		status, err := ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		query = query.Where("status = ?", status)
	}

	if term := strings.TrimSpace(req.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ? OR customer_phone LIKE ? OR LOWER(CAST(id AS TEXT)) LIKE ? OR LOWER(order_number) LIKE ?",
			like, like, "%"+term+"%", like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	offset := (req.Page - 1) * req.Limit
	err := query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Order("created_at DESC, id DESC").Offset(offset).Limit(req.Limit).Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &OrderResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetOrder retrieves a single order with items and history
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	var order Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &order, nil
}

// GetUserOrder retrieves an order only if it belongs to the user
func (s *Service) GetUserOrder(ctx context.Context, id uuid.UUID, userID uint) (*Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateOrderStatus moves an order to status and appends one history entry.
// Empty notes default to "Status updated to <status>".
func (s *Service) UpdateOrderStatus(ctx context.Context, id uuid.UUID, rawStatus, changedBy, notes string) (*Order, error) {
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(changedBy) == "" {
		changedBy = "admin"
	}
	if strings.TrimSpace(notes) == "" {
		notes = fmt.Sprintf("Status updated to %s", status)
	}

	var entry StatusHistory
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current Order
		if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to load order: %w", err)
		}

		if err := s.policy.Allow(current.Status, status); err != nil {
			return err
		}

		now := s.now()
		err := tx.Model(&current).Updates(map[string]interface{}{
			"status":     status,
			"updated_at": now,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		entry = StatusHistory{
			OrderID:   id,
			Status:    status,
			ChangedBy: changedBy,
			Notes:     notes,
			Timestamp: now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to create status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StatusChanged(string(status))
	s.logger.WithFields(logrus.Fields{
		"order_id":   id,
		"status":     status,
		"changed_by": changedBy,
	}).Info("Order status updated")

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.StatusChanged(ctx, order, &entry); err != nil {
			s.logger.WithError(err).WithField("order_id", id).Warn("Failed to send status update email")
		}
	}

	return order, nil
}

// GetStatusHistory returns every status entry of an order, oldest first
func (s *Service) GetStatusHistory(ctx context.Context, id uuid.UUID) ([]StatusHistory, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if count == 0 {
		return nil, ErrOrderNotFound
	}

	var history []StatusHistory
	err := s.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("changed_at ASC, id ASC").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve status history: %w", err)
	}
	return history, nil
}

// UpdateNotes replaces the admin notes of an order
func (s *Service) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*Order, error) {
	result := s.db.WithContext(ctx).Model(&Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"admin_notes": notes,
			"updated_at":  s.now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update notes: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrOrderNotFound
	}
	return s.GetOrder(ctx, id)
}
