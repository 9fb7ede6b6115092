package persistence

import (
	"context"
	"errors"

	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/ecomm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLoyaltyRepository implements pricing.LoyaltyRepository using GORM
type GormLoyaltyRepository struct {
	db *gorm.DB
}

var _ pricing.LoyaltyRepository = (*GormLoyaltyRepository)(nil)

// NewGormLoyaltyRepository creates a new GormLoyaltyRepository
func NewGormLoyaltyRepository(db *gorm.DB) *GormLoyaltyRepository {
	return &GormLoyaltyRepository{db: db}
}

// FindCustomerPoints returns the customer's loyalty account, or nil when
// they have never earned points.
func (r *GormLoyaltyRepository) FindCustomerPoints(ctx context.Context, customerID uuid.UUID) (*pricing.LoyaltyAccount, error) {
	var model models.LoyaltyAccountModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
