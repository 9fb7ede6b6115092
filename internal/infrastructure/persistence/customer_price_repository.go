package persistence

import (
	"context"
	"time"

	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/ecomm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerPriceRepository implements pricing.CustomerPriceRepository using GORM
type GormCustomerPriceRepository struct {
	db *gorm.DB
}

var _ pricing.CustomerPriceRepository = (*GormCustomerPriceRepository)(nil)

// NewGormCustomerPriceRepository creates a new GormCustomerPriceRepository
func NewGormCustomerPriceRepository(db *gorm.DB) *GormCustomerPriceRepository {
	return &GormCustomerPriceRepository{db: db}
}

// FindPriceListsForCustomer returns the active lists assigned to the customer
// or their groups, valid at the given instant, ordered by priority descending
// then creation time ascending. Assignment lists are JSON columns, so the
// membership check runs in Go over the active window-valid lists.
func (r *GormCustomerPriceRepository) FindPriceListsForCustomer(ctx context.Context, customerID uuid.UUID, groupIDs []uuid.UUID, at time.Time) ([]*pricing.CustomerPriceList, error) {
	var listModels []models.PriceListModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", pricing.PriceListStatusActive).
		Where("start_date IS NULL OR start_date <= ?", at).
		Where("end_date IS NULL OR end_date >= ?", at).
		Find(&listModels).Error; err != nil {
		return nil, err
	}

	var lists []*pricing.CustomerPriceList
	for i := range listModels {
		list := listModels[i].ToDomain()
		if list.AppliesToCustomer(customerID, groupIDs) {
			lists = append(lists, list)
		}
	}
	pricing.SortPriceListsByPriority(lists)
	return lists, nil
}

// FindPricesForProduct returns the entries for the product (and optionally
// its variant) belonging to any of the given lists.
func (r *GormCustomerPriceRepository) FindPricesForProduct(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, priceListIDs []uuid.UUID) ([]*pricing.CustomerPrice, error) {
	if len(priceListIDs) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Where("price_list_id IN ?", priceListIDs)
	if variantID != nil {
		query = query.Where("variant_id IS NULL OR variant_id = ?", *variantID)
	} else {
		query = query.Where("variant_id IS NULL")
	}

	var priceModels []models.CustomerPriceModel
	if err := query.Find(&priceModels).Error; err != nil {
		return nil, err
	}

	prices := make([]*pricing.CustomerPrice, len(priceModels))
	for i := range priceModels {
		prices[i] = priceModels[i].ToDomain()
	}
	return prices, nil
}

// SaveList creates or updates a price list
func (r *GormCustomerPriceRepository) SaveList(ctx context.Context, list *pricing.CustomerPriceList) error {
	var model models.PriceListModel
	model.FromDomain(list)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SavePrice creates or updates a price entry
func (r *GormCustomerPriceRepository) SavePrice(ctx context.Context, price *pricing.CustomerPrice) error {
	var model models.CustomerPriceModel
	model.FromDomain(price)
	return r.db.WithContext(ctx).Save(&model).Error
}
