package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/ecomm/backend/internal/domain/shared"
	"github.com/ecomm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPricingRuleRepository implements pricing.PricingRuleRepository using GORM
type GormPricingRuleRepository struct {
	db *gorm.DB
}

var _ pricing.PricingRuleRepository = (*GormPricingRuleRepository)(nil)

// NewGormPricingRuleRepository creates a new GormPricingRuleRepository
func NewGormPricingRuleRepository(db *gorm.DB) *GormPricingRuleRepository {
	return &GormPricingRuleRepository{db: db}
}

// FindActiveRules returns the candidate rules for the request. The SQL side
// narrows to active rules inside their validity window; allow-list scope
// matching runs in Go because the lists live in JSON columns.
func (r *GormPricingRuleRepository) FindActiveRules(ctx context.Context, productID uuid.UUID, categoryID, customerID *uuid.UUID, groupIDs []uuid.UUID, at time.Time) ([]*pricing.PricingRule, error) {
	var ruleModels []models.PricingRuleModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", pricing.RuleStatusActive).
		Where("start_date IS NULL OR start_date <= ?", at).
		Where("end_date IS NULL OR end_date >= ?", at).
		Order("priority DESC, created_at ASC").
		Find(&ruleModels).Error; err != nil {
		return nil, err
	}

	rules := make([]*pricing.PricingRule, len(ruleModels))
	for i := range ruleModels {
		rules[i] = ruleModels[i].ToDomain()
	}
	return pricing.FilterCandidates(rules, productID, categoryID, customerID, groupIDs, at), nil
}

// FindByID returns the rule or shared.ErrRuleNotFound
func (r *GormPricingRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PricingRule, error) {
	var model models.PricingRuleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrRuleNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a rule
func (r *GormPricingRuleRepository) Save(ctx context.Context, rule *pricing.PricingRule) error {
	var model models.PricingRuleModel
	model.FromDomain(rule)
	return r.db.WithContext(ctx).Save(&model).Error
}
