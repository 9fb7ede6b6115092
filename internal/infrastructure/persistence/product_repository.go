package persistence

import (
	"context"
	"errors"

	"github.com/ecomm/backend/internal/domain/catalog"
	"github.com/ecomm/backend/internal/domain/shared"
	"github.com/ecomm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindVariant finds a variant by its ID
func (r *GormProductRepository) FindVariant(ctx context.Context, variantID uuid.UUID) (*catalog.Variant, error) {
	var model models.VariantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrVariantNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindDefaultVariant finds the default variant of a product
func (r *GormProductRepository) FindDefaultVariant(ctx context.Context, productID uuid.UUID) (*catalog.Variant, error) {
	var model models.VariantModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND is_default = ?", productID, true).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNoDefaultVariant
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a product together with its variants
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Variants").Save(&model).Error; err != nil {
			return err
		}
		for i := range model.Variants {
			model.Variants[i].ProductID = model.ID
			if err := tx.Save(&model.Variants[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
