package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ecomm/backend/internal/domain/pricing"
	"go.uber.org/zap"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
	defaultRuleCacheTTL    = 5 * time.Minute
)

// InMemoryRuleCache implements RuleCache using in-memory storage. Suitable
// for single-instance deployments and as an L1 in front of Redis.
type InMemoryRuleCache struct {
	entries sync.Map // map[string]*ruleCacheEntry
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	// Stats for monitoring
	hits   int64
	misses int64
}

var _ RuleCache = (*InMemoryRuleCache)(nil)

type ruleCacheEntry struct {
	rules     []*pricing.PricingRule
	expiresAt time.Time
}

func (e *ruleCacheEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryRuleCacheOption is a functional option for configuring the cache
type InMemoryRuleCacheOption func(*InMemoryRuleCache)

// WithInMemoryTTL sets the default TTL for cached candidate lists
func WithInMemoryTTL(ttl time.Duration) InMemoryRuleCacheOption {
	return func(c *InMemoryRuleCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryRuleCacheOption {
	return func(c *InMemoryRuleCache) {
		c.logger = logger
	}
}

// NewInMemoryRuleCache creates a new in-memory rule cache
func NewInMemoryRuleCache(opts ...InMemoryRuleCacheOption) *InMemoryRuleCache {
	cache := &InMemoryRuleCache{
		ttl:    defaultRuleCacheTTL,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get returns the cached candidate list for the key and whether it was present
func (c *InMemoryRuleCache) Get(ctx context.Context, key string) ([]*pricing.PricingRule, bool, error) {
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*ruleCacheEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("rule cache hit", zap.String("key", key))
			// The engine sorts candidate lists in place; hand out a copy
			// so concurrent hits never share a backing array.
			rules := make([]*pricing.PricingRule, len(entry.rules))
			copy(rules, entry.rules)
			return rules, true, nil
		}
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("rule cache miss", zap.String("key", key))
	return nil, false, nil
}

// Set stores a candidate list under the key for the given TTL. The list is
// copied; the caller keeps sole ownership of its slice.
func (c *InMemoryRuleCache) Set(ctx context.Context, key string, rules []*pricing.PricingRule, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}
	stored := make([]*pricing.PricingRule, len(rules))
	copy(stored, rules)
	c.entries.Store(key, &ruleCacheEntry{
		rules:     stored,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// InvalidateAll drops every cached candidate list
func (c *InMemoryRuleCache) InvalidateAll(ctx context.Context) error {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
	c.logger.Info("invalidated all cached rule candidates")
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryRuleCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (c *InMemoryRuleCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// cleanupExpired periodically removes expired entries
func (c *InMemoryRuleCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.entries.Range(func(key, value any) bool {
				if value.(*ruleCacheEntry).isExpired() {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}
