// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/config"
	"github.com/your-org/bakehouse-backend/internal/domain/product"
	"github.com/your-org/bakehouse-backend/internal/domain/settings"
	"github.com/your-org/bakehouse-backend/internal/pkg/metrics"
)

// Catalog looks up products to snapshot into the cart
type Catalog interface {
	GetProduct(ctx context.Context, id uint) (*product.Product, error)
}

// SettingsReader supplies delivery pricing for the cart estimate
type SettingsReader interface {
	Get(ctx context.Context) (*settings.WebsiteSettings, error)
}

// Service opens per-session cart stores backed by Redis
type Service struct {
	kv       KeyValue
	catalog  Catalog
	settings SettingsReader
	config   *config.Config
	logger   logrus.FieldLogger
	metrics  *metrics.Recorder
}

// NewService creates a new cart service
func NewService(kv KeyValue, catalog Catalog, settingsReader SettingsReader, cfg *config.Config, logger logrus.FieldLogger, recorder *metrics.Recorder) *Service {
	return &Service{
		kv:       kv,
		catalog:  catalog,
		settings: settingsReader,
		config:   cfg,
		logger:   logger,
		metrics:  recorder,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// UpdateCartItemRequest represents update cart item request. Zero removes the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=10000"`
}

// Open returns the store for a session, rehydrated from Redis
func (s *Service) Open(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	storage := NewRedisStorage(s.kv, sessionID, s.config.Cart.TTL)
	logger := s.logger.WithField("session_id", sessionID)
	return NewStore(ctx, storage, logger, WithMaxQuantity(s.config.Cart.MaxQuantity)), nil
}

// GetCart returns the session's cart summary
func (s *Service) GetCart(ctx context.Context, sessionID string) (*Summary, error) {
	store, err := s.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.Summarize(ctx, store)
}

// GetItemCount returns the number of units in the session's cart
func (s *Service) GetItemCount(ctx context.Context, sessionID string) (int, error) {
	store, err := s.Open(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return store.ItemCount(), nil
}

// AddToCart snapshots the product from the catalog and adds one unit
func (s *Service) AddToCart(ctx context.Context, sessionID string, req *AddToCartRequest) (*Summary, error) {
	store, err := s.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	prod, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, req.ProductID)
		}
		return nil, err
	}
	if !prod.InStock {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, prod.Name)
	}

	item := CartItem{
		ID:    prod.ID,
		Name:  prod.Name,
		Price: prod.Price,
		Image: prod.Image,
	}
	if err := store.AddToCart(ctx, item); err != nil {
		return nil, err
	}
	s.metrics.CartMutation("add")

	return s.Summarize(ctx, store)
}

// UpdateCartItem sets the quantity of a line
func (s *Service) UpdateCartItem(ctx context.Context, sessionID string, productID uint, quantity int) (*Summary, error) {
	store, err := s.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := store.UpdateQuantity(ctx, productID, quantity); err != nil {
		return nil, err
	}
	s.metrics.CartMutation("update")

	return s.Summarize(ctx, store)
}

// RemoveFromCart drops a line
func (s *Service) RemoveFromCart(ctx context.Context, sessionID string, productID uint) (*Summary, error) {
	store, err := s.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := store.RemoveFromCart(ctx, productID); err != nil {
		return nil, err
	}
	s.metrics.CartMutation("remove")

	return s.Summarize(ctx, store)
}

// ClearCart empties the session's cart
func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	store, err := s.Open(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := store.ClearCart(ctx); err != nil {
		return err
	}
	s.metrics.CartMutation("clear")
	return nil
}

// Summarize computes totals and the delivery estimate for a store
func (s *Service) Summarize(ctx context.Context, store *Store) (*Summary, error) {
	site, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery pricing: %w", err)
	}

	subtotal := store.Total()
	summary := &Summary{
		Items:                 store.Items(),
		LineCount:             store.Len(),
		ItemCount:             store.ItemCount(),
		Subtotal:              subtotal,
		FreeDeliveryThreshold: site.FreeDeliveryThreshold,
		FreeDelivery:          site.QualifiesForFreeDelivery(subtotal),
		Currency:              s.config.App.CurrencySymbol,
	}
	if summary.LineCount > 0 {
		summary.DeliveryFee = site.DeliveryFeeFor(subtotal)
	}
	summary.Total = subtotal + summary.DeliveryFee

	return summary, nil
}
