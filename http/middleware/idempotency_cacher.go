package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	idemTTL         = 24 * time.Hour
	redisIdemPrefix = "wayfarer-idem:"
)

var (
	_ IdempotencyCacher = (*MemoryCache)(nil)
	_ IdempotencyCacher = RedisCache{}
)

// An IdempotencyCacher keeps the StoredResponse paired to each idempotency key.
// A cancelled ctx makes Get miss and Set do nothing.
//
// Reserve pairs res to key only if nothing is paired to it yet, in one step,
// and reports whether it did. Otherwise, it returns what key already holds.
type IdempotencyCacher interface {
	Get(ctx context.Context, key string) (StoredResponse, bool)
	Reserve(ctx context.Context, key string, res StoredResponse) (StoredResponse, bool)
	Set(ctx context.Context, key string, res StoredResponse)
}

// A MemoryCache keeps StoredResponses in a map, forgetting them on restart.
// Use RedisCache when more than one server answers requests.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

type memoryEntry struct {
	res     StoredResponse
	expires time.Time
}

// NewMemoryCache constructs a MemoryCache keeping entries for ttl, a day if ttl is not positive.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = idemTTL
	}

	return &MemoryCache{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (StoredResponse, bool) {
	if key == "" || ctx.Err() != nil {
		return StoredResponse{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expires) {
		return StoredResponse{}, false
	}

	return e.res, true
}

// Reserve pairs res to key unless an unexpired entry holds it.
// A cancelled ctx reserves nothing but still reports true, as a missed Get would.
func (c *MemoryCache) Reserve(ctx context.Context, key string, res StoredResponse) (StoredResponse, bool) {
	if ctx.Err() != nil {
		return StoredResponse{}, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.sweep()
	if e, ok := c.entries[key]; ok {
		return e.res, false
	}

	c.entries[key] = memoryEntry{res: res, expires: now.Add(c.ttl)}
	return res, true
}

// Set pairs res to key, keeping the expiry of the first Set for key.
// Expired entries are swept on every call.
func (c *MemoryCache) Set(ctx context.Context, key string, res StoredResponse) {
	if ctx.Err() != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.sweep()
	expires := now.Add(c.ttl)
	if e, ok := c.entries[key]; ok {
		expires = e.expires
	}

	c.entries[key] = memoryEntry{res: res, expires: expires}
}

// sweep drops expired entries and returns the time it compared against.
// c.mu must be held.
func (c *MemoryCache) sweep() time.Time {
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}

	return now
}

// A RedisCache keeps StoredResponses in Redis for a day.
type RedisCache struct {
	client redis.Cmdable
}

// NewRedisCache connects a RedisCache with opts.
func NewRedisCache(opts *redis.Options) RedisCache {
	return RedisCache{client: redis.NewClient(opts)}
}

func (c RedisCache) Get(ctx context.Context, key string) (StoredResponse, bool) {
	if ctx.Err() != nil {
		return StoredResponse{}, false
	}

	var res StoredResponse
	if err := c.client.Get(ctx, redisIdemPrefix+key).Scan(&res); err != nil {
		return StoredResponse{}, false
	}

	return res, true
}

// Reserve pairs res to key with SETNX.
// When Redis cannot be reached, Reserve reports true so requests are still served.
func (c RedisCache) Reserve(ctx context.Context, key string, res StoredResponse) (StoredResponse, bool) {
	if ctx.Err() != nil {
		return StoredResponse{}, true
	}

	ok, err := c.client.SetNX(ctx, redisIdemPrefix+key, res, idemTTL).Result()
	if err != nil || ok {
		return res, true
	}

	// An entry expiring in between reads as in flight.
	prev, _ := c.Get(ctx, key)
	return prev, false
}

// Set pairs res to key, restarting its expiry.
func (c RedisCache) Set(ctx context.Context, key string, res StoredResponse) {
	if ctx.Err() != nil {
		return
	}

	c.client.Set(ctx, redisIdemPrefix+key, res, idemTTL)
}
