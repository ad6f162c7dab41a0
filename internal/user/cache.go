package user

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cacheTTL = 5 * time.Minute

// Cache is a cache-aside layer over user rows. A nil *Cache is valid and
// behaves as a permanent miss, so Redis stays optional in tests.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client}
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func (c *Cache) Get(ctx context.Context, id uuid.UUID) (*User, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, false
	}
	return &u, true
}

func (c *Cache) Set(ctx context.Context, u *User) {
	if c == nil || u == nil {
		return
	}
	data, err := json.Marshal(u)
	if err != nil {
		return
	}
	c.client.Set(ctx, cacheKey(u.ID), data, cacheTTL)
}

func (c *Cache) Invalidate(ctx context.Context, id uuid.UUID) {
	if c == nil {
		return
	}
	c.client.Del(ctx, cacheKey(id))
}
