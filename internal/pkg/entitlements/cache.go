package entitlements

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 5 * time.Minute

// Cache stores serialized subscription-status responses per user so the
// catalog read path avoids a DB round trip. Writes from the reconciler
// invalidate the entry.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func cacheKey(userID uint) string {
	return fmt.Sprintf("entitlement:user:%d", userID)
}

// Get returns the cached response body for a user, or "" on miss or
// cache failure. Cache failures are not errors on the read path.
func (c *Cache) Get(ctx context.Context, userID uint) string {
	if c == nil || c.client == nil {
		return ""
	}
	val, err := c.client.Get(ctx, cacheKey(userID)).Result()
	if err != nil {
		return ""
	}
	return val
}

// Set stores a response body for a user.
func (c *Cache) Set(ctx context.Context, userID uint, body string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, cacheKey(userID), body, cacheTTL).Err()
}

// Invalidate drops the cached entry after an entitlement write.
func (c *Cache) Invalidate(ctx context.Context, userID uint) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, cacheKey(userID)).Err()
}
