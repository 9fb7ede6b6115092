package persistence

import (
	"context"
	"errors"

	"github.com/ecomm/backend/internal/domain/basket"
	"github.com/ecomm/backend/internal/domain/shared"
	"github.com/ecomm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBasketRepository implements basket.Repository using GORM
type GormBasketRepository struct {
	db *gorm.DB
}

var _ basket.Repository = (*GormBasketRepository)(nil)

// NewGormBasketRepository creates a new GormBasketRepository
func NewGormBasketRepository(db *gorm.DB) *GormBasketRepository {
	return &GormBasketRepository{db: db}
}

// FindByID returns the basket with its items, or shared.ErrBasketNotFound
func (r *GormBasketRepository) FindByID(ctx context.Context, id uuid.UUID) (*basket.Basket, error) {
	var model models.BasketModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrBasketNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a basket together with its items. Lines removed
// from the domain aggregate are deleted.
func (r *GormBasketRepository) Save(ctx context.Context, b *basket.Basket) error {
	var model models.BasketModel
	model.FromDomain(b)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(&model).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(model.Items))
		for i := range model.Items {
			model.Items[i].BasketID = model.ID
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return err
			}
			keep = append(keep, model.Items[i].ID)
		}

		cleanup := tx.Where("basket_id = ?", model.ID)
		if len(keep) > 0 {
			cleanup = cleanup.Where("id NOT IN ?", keep)
		}
		return cleanup.Delete(&models.BasketItemModel{}).Error
	})
}

// Delete removes a basket and its items
func (r *GormBasketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("basket_id = ?", id).Delete(&models.BasketItemModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BasketModel{}, "id = ?", id).Error
	})
}
