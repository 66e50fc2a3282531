package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eventvault/racing-api/internal/core/domain"
)

const defaultUserTTL = time.Minute

// UserCache stores users looked up by the auth gates.
// Key format: user:<id>. The password hash is never written.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUserCache wraps client. A non-positive ttl falls back to one minute.
func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = defaultUserTTL
	}
	return &UserCache{client: client, ttl: ttl}
}

func (c *UserCache) Get(ctx context.Context, id string) (*domain.User, bool, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("user cache get: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, false, fmt.Errorf("user cache decode: %w", err)
	}
	return &u, true, nil
}

func (c *UserCache) Set(ctx context.Context, u *domain.User) error {
	raw, err := json.Marshal(domain.ExcludePassword(u))
	if err != nil {
		return fmt.Errorf("user cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(u.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("user cache set: %w", err)
	}
	return nil
}

func (c *UserCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("user cache invalidate: %w", err)
	}
	return nil
}

func (c *UserCache) key(id string) string {
	return "user:" + id
}
