// Package cache holds the optional Redis-backed token-lookup cache used by
// the confirmation path. Confirmation links get clicked more than once;
// the cache spares the SQL lookup on repeats. Cache absence or failure
// never changes behavior, only cost.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"courier/internal/subscription/models"
)

const keyPrefix = "subscription_token:"

// TokenCache maps tokens to subscriber ids.
type TokenCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// New constructs a cache over any go-redis command interface.
func New(client redis.Cmdable, ttl time.Duration) *TokenCache {
	return &TokenCache{client: client, ttl: ttl}
}

// Get returns the cached subscriber id for a token, with found=false on a
// miss.
func (c *TokenCache) Get(ctx context.Context, token models.SubscriptionToken) (uuid.UUID, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+token.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.UUID{}, false, nil
		}
		return uuid.UUID{}, false, fmt.Errorf("cache get: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		// A corrupt entry behaves like a miss.
		return uuid.UUID{}, false, nil
	}
	return id, true, nil
}

// Set stores the token's subscriber id with the configured TTL.
func (c *TokenCache) Set(ctx context.Context, token models.SubscriptionToken, subscriberID uuid.UUID) error {
	err := c.client.Set(ctx, keyPrefix+token.String(), subscriberID.String(), c.ttl).Err()
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
