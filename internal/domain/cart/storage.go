// internal/domain/cart/storage.go
package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/bakehouse-backend/internal/pkg/money"
)

// Storage persists a whole cart. Load returns nil items and no error when
// nothing has been stored yet.
type Storage interface {
	Load(ctx context.Context) ([]CartItem, error)
	Save(ctx context.Context, items []CartItem) error
}

// KeyValue is the subset of the Redis client the cart needs
type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Key returns the storage key for a session
func Key(sessionID string) string {
	return StorageKey + ":" + sessionID
}

// RedisStorage keeps a session's cart as a JSON array under Key(sessionID).
// Each save refreshes the TTL.
type RedisStorage struct {
	kv  KeyValue
	key string
	ttl time.Duration
}

// NewRedisStorage creates storage for one session
func NewRedisStorage(kv KeyValue, sessionID string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{kv: kv, key: Key(sessionID), ttl: ttl}
}

func (r *RedisStorage) Load(ctx context.Context) ([]CartItem, error) {
	raw, err := r.kv.Get(ctx, r.key)
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	return decodeItems([]byte(raw))
}

func (r *RedisStorage) Save(ctx context.Context, items []CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, data, r.ttl); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes the stored cart
func (r *RedisStorage) Delete(ctx context.Context) error {
	return r.kv.Del(ctx, r.key)
}

// MemoryStorage holds the encoded cart in process, for tests and tools
type MemoryStorage struct {
	mu      sync.Mutex
	data    []byte
	LoadErr error
	SaveErr error
}

// NewMemoryStorage returns empty storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// SetRaw replaces the stored bytes, bypassing validation
func (m *MemoryStorage) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
}

// Raw returns the stored bytes
func (m *MemoryStorage) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

func (m *MemoryStorage) Load(ctx context.Context) ([]CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.data == nil {
		return nil, nil
	}
	return decodeItems(m.data)
}

func (m *MemoryStorage) Save(ctx context.Context, items []CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	m.data = data
	return nil
}

// storedItem accepts prices either in cents or as the decorated strings
// ("$35.00") older carts were written with.
type storedItem struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Price    json.RawMessage `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

func decodeItems(data []byte) ([]CartItem, error) {
	var stored []storedItem
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCart, err)
	}

	items := make([]CartItem, 0, len(stored))
	seen := make(map[uint]bool, len(stored))
	for _, s := range stored {
		if s.ID == 0 || s.Quantity < 1 || seen[s.ID] {
			return nil, fmt.Errorf("%w: invalid line for product %d", ErrMalformedCart, s.ID)
		}
		seen[s.ID] = true

		price, err := decodePrice(s.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: product %d: %v", ErrMalformedCart, s.ID, err)
		}

		items = append(items, CartItem{
			ID:       s.ID,
			Name:     s.Name,
			Price:    price,
			Image:    s.Image,
			Quantity: s.Quantity,
		})
	}
	return items, nil
}

func decodePrice(raw json.RawMessage) (money.Amount, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, errors.New("missing price")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return money.Parse(s)
	}
	var cents int64
	if err := json.Unmarshal(raw, &cents); err != nil {
		return 0, err
	}
	return money.FromMinor(cents), nil
}
