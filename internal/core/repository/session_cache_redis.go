package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yys/user-service/internal/core/domain"
)

// sessionKeyPrefix namespaces token keys in Redis.
const sessionKeyPrefix = "user:token:"

// RedisSessionCache implements domain.SessionCache on a Redis client.
// Expiry is delegated entirely to Redis via the per-key TTL; there is no
// renewal on read and no revocation list.
type RedisSessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a RedisSessionCache with the given token TTL.
func NewSessionCache(client *redis.Client, ttl time.Duration) *RedisSessionCache {
	return &RedisSessionCache{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Set stores the JSON-encoded profile under the namespaced token key.
func (c *RedisSessionCache) Set(ctx context.Context, token string, profile *domain.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal session profile: %w", err)
	}
	if err := c.client.Set(ctx, sessionKey(token), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Get returns the profile stored under the token, or (nil, nil) when the
// token is absent or already expired.
func (c *RedisSessionCache) Get(ctx context.Context, token string) (*domain.Profile, error) {
	data, err := c.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode session profile: %w", err)
	}
	return &profile, nil
}

// Delete removes the token key. Deleting an absent token is a no-op.
func (c *RedisSessionCache) Delete(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
