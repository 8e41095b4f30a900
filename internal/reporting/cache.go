package reporting

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps rendered reports in redis for a short TTL. Every method is
// safe on a nil receiver, so callers without redis configured simply miss.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) GetStatistics(ctx context.Context, f Filter) (*Statistics, bool) {
	var st Statistics
	if !c.get(ctx, "report:stats:"+f.CacheKey(), &st) {
		return nil, false
	}
	return &st, true
}

func (c *Cache) SetStatistics(ctx context.Context, f Filter, st *Statistics) {
	c.set(ctx, "report:stats:"+f.CacheKey(), st)
}

func (c *Cache) GetBilling(ctx context.Context, f Filter) (*Billing, bool) {
	var b Billing
	if !c.get(ctx, "report:billing:"+f.CacheKey(), &b) {
		return nil, false
	}
	return &b, true
}

func (c *Cache) SetBilling(ctx context.Context, f Filter, b *Billing) {
	c.set(ctx, "report:billing:"+f.CacheKey(), b)
}

// get returns false on any miss or error; reports are always rebuildable.
func (c *Cache) get(ctx context.Context, key string, dst any) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (c *Cache) set(ctx context.Context, key string, v any) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, c.ttl)
}
