package cache

import (
	"context"
	"sync"
	"time"

	"pizza-storefront/internal/models"
)

// CouponCache is a read-through cache in front of the coupon store.
// Coupons change rarely, so a short TTL is enough to keep admin edits
// visible without hitting the database on every checkout.
type CouponCache interface {
	Get(ctx context.Context, code string) (*models.Coupon, bool)
	Set(ctx context.Context, code string, c *models.Coupon)
	Invalidate(ctx context.Context, code string)
}

type memoryEntry struct {
	coupon  *models.Coupon
	expires time.Time
}

// MemoryCache is the in-process fallback used when no redis is configured.
type MemoryCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	store map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:   ttl,
		store: make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, code string) (*models.Coupon, bool) {
	c.mu.RLock()
	e, ok := c.store[code]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	cp := *e.coupon
	return &cp, true
}

func (c *MemoryCache) Set(_ context.Context, code string, coupon *models.Coupon) {
	cp := *coupon
	c.mu.Lock()
	c.store[code] = memoryEntry{coupon: &cp, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *MemoryCache) Invalidate(_ context.Context, code string) {
	c.mu.Lock()
	delete(c.store, code)
	c.mu.Unlock()
}
