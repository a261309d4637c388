package redis

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterHook answers INCR, TTL and EXPIRE from memory so the client never
// dials a server.
type counterHook struct {
	mu          sync.Mutex
	counts      map[string]int64
	expiries    map[string]time.Duration
	failExpires int
	expireCalls int
}

func newCounterHook() *counterHook {
	return &counterHook{counts: map[string]int64{}, expiries: map[string]time.Duration{}}
}

func (h *counterHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("dial disabled in tests")
	}
}

func (h *counterHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.apply(cmd)
		return cmd.Err()
	}
}

func (h *counterHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			h.apply(cmd)
			if err := cmd.Err(); err != nil {
				return err
			}
		}
		return nil
	}
}

func (h *counterHook) apply(cmd redis.Cmder) {
	h.mu.Lock()
	defer h.mu.Unlock()

	args := cmd.Args()
	if len(args) < 2 {
		return
	}
	key, _ := args[1].(string)

	switch cmd.Name() {
	case "incr":
		h.counts[key]++
		cmd.(*redis.IntCmd).SetVal(h.counts[key])
	case "ttl":
		ttl, ok := h.expiries[key]
		if !ok {
			ttl = -1
		}
		cmd.(*redis.DurationCmd).SetVal(ttl)
	case "expire":
		h.expireCalls++
		if h.failExpires > 0 {
			h.failExpires--
			cmd.SetErr(errors.New("connection reset"))
			return
		}
		h.expiries[key] = time.Minute
		cmd.(*redis.BoolCmd).SetVal(true)
	}
}

func newHookedClient(hook *counterHook) *Client {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	rdb.AddHook(hook)
	return &Client{Redis: rdb}
}

func TestHitSetsExpiryOnFirstHitOnly(t *testing.T) {
	hook := newCounterHook()
	client := newHookedClient(hook)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, err := client.Hit(ctx, "rl:10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}
	assert.Equal(t, 1, hook.expireCalls)
	assert.Equal(t, time.Minute, hook.expiries["rl:10.0.0.1"])
}

func TestHitRepairsMissingExpiry(t *testing.T) {
	hook := newCounterHook()
	hook.failExpires = 1
	client := newHookedClient(hook)
	ctx := context.Background()

	count, err := client.Hit(ctx, "rl:10.0.0.2", time.Minute)
	require.Error(t, err)
	assert.Equal(t, int64(1), count)
	_, hasExpiry := hook.expiries["rl:10.0.0.2"]
	require.False(t, hasExpiry)

	// the next hit notices the counter has no expiry and sets one
	count, err = client.Hit(ctx, "rl:10.0.0.2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, time.Minute, hook.expiries["rl:10.0.0.2"])
	assert.Equal(t, 2, hook.expireCalls)
}
