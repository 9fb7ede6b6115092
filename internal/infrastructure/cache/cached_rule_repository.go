package cache

import (
	"context"
	"time"

	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CachedRuleRepository decorates a PricingRuleRepository with a candidate
// cache. Cache failures never fail a pricing request; the lookup falls
// through to the source. Saving a rule invalidates the whole cache because
// one rule can affect many request shapes.
type CachedRuleRepository struct {
	inner  pricing.PricingRuleRepository
	cache  RuleCache
	ttl    time.Duration
	logger *zap.Logger
}

var _ pricing.PricingRuleRepository = (*CachedRuleRepository)(nil)

// NewCachedRuleRepository creates a caching decorator around the repository
func NewCachedRuleRepository(inner pricing.PricingRuleRepository, ruleCache RuleCache, ttl time.Duration, logger *zap.Logger) *CachedRuleRepository {
	if ttl <= 0 {
		ttl = defaultRuleCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRuleRepository{
		inner:  inner,
		cache:  ruleCache,
		ttl:    ttl,
		logger: logger,
	}
}

// FindActiveRules returns cached candidates when present, otherwise loads
// from the source and populates the cache.
func (r *CachedRuleRepository) FindActiveRules(ctx context.Context, productID uuid.UUID, categoryID, customerID *uuid.UUID, groupIDs []uuid.UUID, at time.Time) ([]*pricing.PricingRule, error) {
	key := CandidateKey(productID, categoryID, customerID, groupIDs, at)

	cached, hit, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("rule cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return cached, nil
	}

	rules, err := r.inner.FindActiveRules(ctx, productID, categoryID, customerID, groupIDs, at)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, rules, r.ttl); err != nil {
		r.logger.Warn("rule cache write failed", zap.String("key", key), zap.Error(err))
	}
	return rules, nil
}

// FindByID loads the rule from the source; single-rule lookups are rare
// enough (impact previews, admin edits) that caching them is not worth the
// invalidation traffic.
func (r *CachedRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PricingRule, error) {
	return r.inner.FindByID(ctx, id)
}

// Save persists the rule and invalidates all cached candidate lists
func (r *CachedRuleRepository) Save(ctx context.Context, rule *pricing.PricingRule) error {
	if err := r.inner.Save(ctx, rule); err != nil {
		return err
	}
	if err := r.cache.InvalidateAll(ctx); err != nil {
		r.logger.Warn("rule cache invalidation failed", zap.Error(err))
	}
	return nil
}
