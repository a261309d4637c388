// Package redistest provides an in-process stand-in for the Redis client wrapper.
package redistest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned by every call while the client is marked down.
var ErrUnavailable = errors.New("redistest: connection refused")

type entry struct {
	value     string
	expiresAt time.Time
}

// Client mimics the commands the application issues against Redis.
type Client struct {
	mu   sync.Mutex
	data map[string]entry
	down bool
	now  func() time.Time
}

// New returns an empty client.
func New() *Client {
	return &Client{data: make(map[string]entry), now: time.Now}
}

// SetDown makes every subsequent command fail until called with false.
func (c *Client) SetDown(down bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.down = down
}

// Put writes a raw value without expiry.
func (c *Client) Put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry{value: value}
}

// Raw returns the stored value and whether the key exists.
func (c *Client) Raw(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.lookup(key)
	return e.value, ok
}

// TTL returns the remaining time to live, zero for keys without expiry.
func (c *Client) TTL(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.lookup(key)
	if !ok || e.expiresAt.IsZero() {
		return 0
	}
	return e.expiresAt.Sub(c.now())
}

func (c *Client) Health(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return ErrUnavailable
	}
	return nil
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return "", ErrUnavailable
	}
	e, ok := c.lookup(key)
	if !ok {
		return "", goredis.Nil
	}
	return e.value, nil
}

func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return ErrUnavailable
	}
	c.data[key] = c.entry(value, expiration)
	return nil
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return ErrUnavailable
	}
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *Client) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return false, ErrUnavailable
	}
	if _, ok := c.lookup(key); ok {
		return false, nil
	}
	c.data[key] = c.entry(value, expiration)
	return true, nil
}

func (c *Client) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return 0, ErrUnavailable
	}
	e, ok := c.lookup(key)
	var count int64
	if ok {
		fmt.Sscan(e.value, &count)
	} else {
		e.expiresAt = c.now().Add(window)
	}
	count++
	e.value = fmt.Sprint(count)
	c.data[key] = e
	return count, nil
}

func (c *Client) lookup(key string) (entry, bool) {
	e, ok := c.data[key]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.data, key)
		return entry{}, false
	}
	return e, true
}

func (c *Client) entry(value interface{}, expiration time.Duration) entry {
	e := entry{}
	switch v := value.(type) {
	case string:
		e.value = v
	case []byte:
		e.value = string(v)
	default:
		e.value = fmt.Sprint(v)
	}
	if expiration > 0 {
		e.expiresAt = c.now().Add(expiration)
	}
	return e
}
