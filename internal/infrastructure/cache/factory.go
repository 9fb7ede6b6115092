package cache

import (
	"time"

	"github.com/ecomm/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// RuleCacheFactory creates rule caches based on configuration
type RuleCacheFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// RuleCacheFactoryOption is a functional option for configuring the factory
type RuleCacheFactoryOption func(*RuleCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RuleCacheFactoryOption {
	return func(f *RuleCacheFactory) {
		f.logger = logger
	}
}

// WithTTL sets the default TTL for caches created by the factory
func WithTTL(ttl time.Duration) RuleCacheFactoryOption {
	return func(f *RuleCacheFactory) {
		if ttl > 0 {
			f.ttl = ttl
		}
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) RuleCacheFactoryOption {
	return func(f *RuleCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRuleCacheFactory creates a new factory
func NewRuleCacheFactory(cfg config.RedisConfig, opts ...RuleCacheFactoryOption) *RuleCacheFactory {
	f := &RuleCacheFactory{
		redisConfig:           cfg,
		ttl:                   defaultRuleCacheTTL,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateCache tries Redis first and falls back to in-memory when Redis is
// unavailable and fallback is allowed. In-memory caches are per-process;
// multi-instance deployments should run with Redis so invalidation on rule
// changes reaches every node.
func (f *RuleCacheFactory) CreateCache() (RuleCache, error) {
	redisCache, err := NewRedisRuleCache(f.redisConfig, WithRedisTTL(f.ttl), WithRedisLogger(f.logger))
	if err == nil {
		f.logger.Info("using Redis rule cache", zap.String("addr", f.redisConfig.Addr()))
		return redisCache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, err
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory rule cache", zap.Error(err))
	return NewInMemoryRuleCache(WithInMemoryTTL(f.ttl), WithInMemoryLogger(f.logger)), nil
}
