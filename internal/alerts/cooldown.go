package alerts

import (
	"context"
	"sync"
	"time"
)

// DefaultCooldown bounds how often one product/level pair is notified.
const DefaultCooldown = 30 * time.Minute

// Cooldown decides whether a keyed notification may be sent now. Allow
// reserves the window when it returns true; Release gives the reservation
// back when delivery failed so the next attempt is not suppressed.
type Cooldown interface {
	Allow(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// MemoryCooldown keeps send times in process memory.
type MemoryCooldown struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	last   map[string]time.Time
}

func NewMemoryCooldown(window time.Duration) *MemoryCooldown {
	if window <= 0 {
		window = DefaultCooldown
	}
	return &MemoryCooldown{
		window: window,
		now:    time.Now,
		last:   map[string]time.Time{},
	}
}

func (c *MemoryCooldown) Allow(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if sent, ok := c.last[key]; ok && now.Sub(sent) < c.window {
		return false, nil
	}
	c.last[key] = now
	return true, nil
}

func (c *MemoryCooldown) Release(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.last, key)
	return nil
}

type cooldownStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CooldownKey(parts ...string) string
}

// RedisCooldown stores the window as a key with a TTL, shared across processes.
type RedisCooldown struct {
	store  cooldownStore
	window time.Duration
}

func NewRedisCooldown(store cooldownStore, window time.Duration) *RedisCooldown {
	if window <= 0 {
		window = DefaultCooldown
	}
	return &RedisCooldown{store: store, window: window}
}

func (c *RedisCooldown) Allow(ctx context.Context, key string) (bool, error) {
	return c.store.SetNX(ctx, c.store.CooldownKey(key), time.Now().UTC().Format(time.RFC3339), c.window)
}

func (c *RedisCooldown) Release(ctx context.Context, key string) error {
	return c.store.Del(ctx, c.store.CooldownKey(key))
}
