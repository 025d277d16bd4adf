package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a read-through Redis cache. A nil *Cache is valid and always
// calls the loader.
type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

// New returns nil when addr is empty, which disables caching.
func New(addr, pass string, db int) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func (c *Cache) enabled() bool { return c != nil && c.RDB != nil }

func (c *Cache) Ping(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if !c.enabled() {
		return load(ctx)
	}
	// 先读缓存
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Delete drops keys; a Redis failure only delays freshness until the TTL.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.enabled() || len(keys) == 0 {
		return nil
	}
	return c.RDB.Del(ctx, keys...).Err()
}

func (c *Cache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.RDB.Close()
}
