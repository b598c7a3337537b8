// Package cache holds Redis-backed read caches. Caches here are advisory:
// callers fall through to the database on miss and treat cache errors as
// misses, never as failures.
package cache

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"luminara/internal/domain/subscription"
	"luminara/internal/shared/logger"
)

// CachedTier is the cached tier resolution for one user.
type CachedTier struct {
	Tier subscription.Tier
	// NotFound marks a confirmed absence of a usable subscription, cached
	// briefly to stop repeated DB lookups for free-trial users.
	NotFound bool
}

// TierCache caches resolved subscription tiers per user.
type TierCache interface {
	GetTier(ctx context.Context, userID uint) (*CachedTier, error)
	SetTier(ctx context.Context, userID uint, tier subscription.Tier) error
	SetNullMarker(ctx context.Context, userID uint) error
	InvalidateTier(ctx context.Context, userID uint) error
}

const (
	tierKeyPrefix  = "access:tier:"
	baseTierTTL    = 5 * time.Minute
	tierTTLJitter  = 2 * time.Minute // anti-stampede
	tierNullTTL    = 1 * time.Minute // anti-penetration
	tierNullMarker = "_none"
)

// RedisTierCache implements TierCache on Redis.
type RedisTierCache struct {
	client *redis.Client
	logger logger.Interface
}

// NewRedisTierCache creates a Redis-based tier cache.
func NewRedisTierCache(client *redis.Client, logger logger.Interface) *RedisTierCache {
	return &RedisTierCache{client: client, logger: logger}
}

func (c *RedisTierCache) key(userID uint) string {
	return fmt.Sprintf("%s%d", tierKeyPrefix, userID)
}

// GetTier retrieves the cached tier. A nil result with nil error is a miss.
func (c *RedisTierCache) GetTier(ctx context.Context, userID uint) (*CachedTier, error) {
	value, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tier from cache: %w", err)
	}

	if value == tierNullMarker {
		return &CachedTier{NotFound: true}, nil
	}

	tier, err := subscription.ParseTier(value)
	if err != nil {
		// stale or corrupt entry, treat as miss
		c.logger.Warnw("invalid tier in cache", "user_id", userID, "value", value)
		return nil, nil
	}

	return &CachedTier{Tier: tier}, nil
}

// SetTier caches the resolved tier with a jittered TTL.
func (c *RedisTierCache) SetTier(ctx context.Context, userID uint, tier subscription.Tier) error {
	ttl := baseTierTTL + rand.N(tierTTLJitter)
	if err := c.client.Set(ctx, c.key(userID), string(tier), ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache tier: %w", err)
	}
	return nil
}

// SetNullMarker caches a short-lived marker for users without a usable
// subscription.
func (c *RedisTierCache) SetNullMarker(ctx context.Context, userID uint) error {
	if err := c.client.Set(ctx, c.key(userID), tierNullMarker, tierNullTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache null marker: %w", err)
	}
	return nil
}

// InvalidateTier drops the cached tier, called by the billing sync when a
// subscription changes.
func (c *RedisTierCache) InvalidateTier(ctx context.Context, userID uint) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate tier cache: %w", err)
	}
	return nil
}
