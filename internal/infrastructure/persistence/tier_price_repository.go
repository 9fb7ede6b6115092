package persistence

import (
	"context"
	"time"

	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/ecomm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTierPriceRepository implements pricing.TierPriceRepository using GORM
type GormTierPriceRepository struct {
	db *gorm.DB
}

var _ pricing.TierPriceRepository = (*GormTierPriceRepository)(nil)

// NewGormTierPriceRepository creates a new GormTierPriceRepository
func NewGormTierPriceRepository(db *gorm.DB) *GormTierPriceRepository {
	return &GormTierPriceRepository{db: db}
}

// FindApplicableTier returns the winning tier for the product, quantity,
// optional variant and optional customer group at the given instant. The
// query narrows to rows whose quantity band contains the quantity; the
// highest-minimum tie-break happens in the domain so it matches the
// in-memory selection used by tests.
func (r *GormTierPriceRepository) FindApplicableTier(ctx context.Context, productID uuid.UUID, quantity int, variantID, customerGroupID *uuid.UUID, at time.Time) (*pricing.TierPrice, error) {
	var tierModels []models.TierPriceModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Where("quantity_min <= ?", quantity).
		Where("quantity_max IS NULL OR quantity_max >= ?", quantity).
		Where("start_date IS NULL OR start_date <= ?", at).
		Where("end_date IS NULL OR end_date >= ?", at).
		Find(&tierModels).Error; err != nil {
		return nil, err
	}

	tiers := make([]*pricing.TierPrice, len(tierModels))
	for i := range tierModels {
		tiers[i] = tierModels[i].ToDomain()
	}
	return pricing.SelectApplicableTier(tiers, quantity, variantID, customerGroupID, at), nil
}

// Save creates or updates a tier price
func (r *GormTierPriceRepository) Save(ctx context.Context, tier *pricing.TierPrice) error {
	var model models.TierPriceModel
	model.FromDomain(tier)
	return r.db.WithContext(ctx).Save(&model).Error
}
