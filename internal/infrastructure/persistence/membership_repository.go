package persistence

import (
	"context"

	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/ecomm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMembershipRepository implements pricing.MembershipRepository using GORM
type GormMembershipRepository struct {
	db *gorm.DB
}

var _ pricing.MembershipRepository = (*GormMembershipRepository)(nil)

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// GetCustomerBenefits returns all benefits granted by the customer's
// membership tier; an empty slice when they have none.
func (r *GormMembershipRepository) GetCustomerBenefits(ctx context.Context, customerID uuid.UUID) ([]pricing.MembershipBenefit, error) {
	var benefitModels []models.MembershipBenefitModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&benefitModels).Error; err != nil {
		return nil, err
	}

	benefits := make([]pricing.MembershipBenefit, len(benefitModels))
	for i := range benefitModels {
		benefits[i] = benefitModels[i].ToDomain()
	}
	return benefits, nil
}
