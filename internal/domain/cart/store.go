// internal/domain/cart/store.go
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/pkg/money"
)

// DefaultMaxQuantity caps the units of a single line
const DefaultMaxQuantity = 99

// Store owns one shopper's cart. Items keep insertion order and there is at
// most one line per product id, holding at most maxQuantity units. Every
// mutation writes the whole list through the storage adapter.
type Store struct {
	mu          sync.Mutex
	items       []CartItem
	maxQuantity int
	storage     Storage
	logger      logrus.FieldLogger
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithMaxQuantity sets the per-line cap. Values below 1 keep the default.
func WithMaxQuantity(n int) StoreOption {
	return func(s *Store) {
		if n >= 1 {
			s.maxQuantity = n
		}
	}
}

// NewStore rehydrates a cart from storage. Missing, unreadable or malformed
// data yields an empty cart. Stored lines above the cap are clamped.
func NewStore(ctx context.Context, storage Storage, logger logrus.FieldLogger, opts ...StoreOption) *Store {
	s := &Store{
		items:       []CartItem{},
		maxQuantity: DefaultMaxQuantity,
		storage:     storage,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	items, err := storage.Load(ctx)
	if err != nil {
		logger.WithError(err).Warn("Discarding unreadable cart, starting empty")
		return s
	}
	for i := range items {
		if items[i].Quantity > s.maxQuantity {
			logger.WithField("product_id", items[i].ID).Warn("Clamping stored cart quantity")
			items[i].Quantity = s.maxQuantity
		}
	}
	if items != nil {
		s.items = items
	}
	return s
}

// MaxQuantity is the per-line cap
func (s *Store) MaxQuantity() int {
	return s.maxQuantity
}

// AddToCart adds one unit of the item. A product already in the cart has its
// quantity incremented; otherwise a new line is appended with quantity 1.
// A line already at the cap is left unchanged and ErrQuantityLimit returned.
func (s *Store) AddToCart(ctx context.Context, item CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(item.ID); i >= 0 {
		if s.items[i].Quantity >= s.maxQuantity {
			return fmt.Errorf("%w: %d", ErrQuantityLimit, s.maxQuantity)
		}
		s.items[i].Quantity++
	} else {
		item.Quantity = 1
		s.items = append(s.items, item)
	}
	return s.persist(ctx)
}

// UpdateQuantity sets the quantity of a line. Zero or less removes it, and an
// unknown id is ignored. Quantities above the cap are rejected with
// ErrQuantityLimit before anything changes.
func (s *Store) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity > s.maxQuantity {
		return fmt.Errorf("%w: %d", ErrQuantityLimit, s.maxQuantity)
	}
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	if quantity <= 0 {
		s.removeAt(i)
	} else {
		s.items[i].Quantity = quantity
	}
	return s.persist(ctx)
}

// RemoveFromCart drops the line for id, if present
func (s *Store) RemoveFromCart(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.removeAt(i)
	return s.persist(ctx)
}

// ClearCart empties the cart
func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []CartItem{}
	return s.persist(ctx)
}

// Total is the sum of price times quantity over all lines
func (s *Store) Total() money.Amount {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total money.Amount
	for _, item := range s.items {
		total += item.LineTotal()
	}
	return total
}

// ItemCount is the number of units, not lines
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the lines in display order
func (s *Store) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len is the number of distinct lines
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) indexOf(id uint) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.items = append(s.items[:i], s.items[i+1:]...)
}

func (s *Store) persist(ctx context.Context) error {
	snapshot := make([]CartItem, len(s.items))
	copy(snapshot, s.items)
	return s.storage.Save(ctx, snapshot)
}
