package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/ecomm/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Constants for Redis cache configuration
const (
	redisRuleKeyPrefix   = "pricing:"
	defaultScanBatchSize = 100
)

// RedisRuleCache implements RuleCache using Redis so multiple instances
// share one candidate cache.
type RedisRuleCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	ttl        time.Duration
	logger     *zap.Logger
}

var _ RuleCache = (*RedisRuleCache)(nil)

// RedisRuleCacheOption is a functional option for configuring the cache
type RedisRuleCacheOption func(*RedisRuleCache)

// WithRedisTTL sets the default TTL for cached candidate lists
func WithRedisTTL(ttl time.Duration) RedisRuleCacheOption {
	return func(c *RedisRuleCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRedisLogger sets the logger for the cache
func WithRedisLogger(logger *zap.Logger) RedisRuleCacheOption {
	return func(c *RedisRuleCache) {
		c.logger = logger
	}
}

// NewRedisRuleCache creates a new Redis-based rule cache
func NewRedisRuleCache(cfg config.RedisConfig, opts ...RedisRuleCacheOption) (*RedisRuleCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisRuleCache{
		client:     client,
		ownsClient: true,
		ttl:        defaultRuleCacheTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisRuleCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisRuleCacheWithClient(client *redis.Client, opts ...RedisRuleCacheOption) *RedisRuleCache {
	cache := &RedisRuleCache{
		client:     client,
		ownsClient: false,
		ttl:        defaultRuleCacheTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// Get returns the cached candidate list for the key and whether it was present
func (c *RedisRuleCache) Get(ctx context.Context, key string) ([]*pricing.PricingRule, bool, error) {
	data, err := c.client.Get(ctx, redisRuleKeyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read rule cache: %w", err)
	}

	var rules []*pricing.PricingRule
	if err := json.Unmarshal(data, &rules); err != nil {
		c.logger.Warn("dropping corrupt rule cache entry", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, redisRuleKeyPrefix+key)
		return nil, false, nil
	}
	return rules, true, nil
}

// Set stores a candidate list under the key for the given TTL
func (c *RedisRuleCache) Set(ctx context.Context, key string, rules []*pricing.PricingRule, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}
	if rules == nil {
		rules = []*pricing.PricingRule{}
	}

	data, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to marshal rules for cache: %w", err)
	}
	return c.client.Set(ctx, redisRuleKeyPrefix+key, data, ttl).Err()
}

// InvalidateAll drops every cached candidate list
func (c *RedisRuleCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, redisRuleKeyPrefix+"*", defaultScanBatchSize).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cached key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan rule cache keys: %w", err)
	}
	c.logger.Info("invalidated all cached rule candidates")
	return nil
}

// Close closes the Redis client when the cache owns it
func (c *RedisRuleCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}
