package catalog

import (
	"errors"

	"github.com/ecomm/backend/internal/domain/shared"
	"github.com/ecomm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusArchived ProductStatus = "archived"
)

// Product is the catalog aggregate root consumed by the pricing engine.
// Pricing only reads category and currency from it; merchandising fields
// live in the storefront service.
type Product struct {
	shared.BaseEntity
	Name         string
	CategoryID   *uuid.UUID
	CurrencyCode valueobject.Currency
	Status       ProductStatus
	Variants     []Variant
}

// Variant is a sellable variation of a product carrying the actual prices
type Variant struct {
	shared.BaseEntity
	ProductID uuid.UUID
	SKU       string
	Price     decimal.Decimal
	SalePrice *decimal.Decimal
	Cost      *decimal.Decimal
	IsDefault bool
}

// NewProduct creates a new product with the given name and currency
func NewProduct(name string, currency valueobject.Currency) (*Product, error) {
	if name == "" {
		return nil, errors.New("product name cannot be empty")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &Product{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		CurrencyCode: currency,
		Status:       ProductStatusActive,
	}, nil
}

// NewVariant creates a new variant for the given product
func NewVariant(productID uuid.UUID, sku string, price decimal.Decimal) (*Variant, error) {
	if sku == "" {
		return nil, errors.New("variant SKU cannot be empty")
	}
	if price.IsNegative() {
		return nil, errors.New("variant price cannot be negative")
	}
	return &Variant{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		SKU:        sku,
		Price:      price,
	}, nil
}

// IsActive returns true if the product can be priced and sold
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// DefaultVariant returns the variant flagged as default, or nil when none is
func (p *Product) DefaultVariant() *Variant {
	for i := range p.Variants {
		if p.Variants[i].IsDefault {
			return &p.Variants[i]
		}
	}
	return nil
}

// EffectivePrice returns the sale price when one is set and lower than the
// list price, otherwise the list price.
func (v *Variant) EffectivePrice() decimal.Decimal {
	if v.SalePrice != nil && v.SalePrice.LessThan(v.Price) {
		return *v.SalePrice
	}
	return v.Price
}

// SetSalePrice sets a promotional sale price on the variant
func (v *Variant) SetSalePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errors.New("sale price cannot be negative")
	}
	v.SalePrice = &price
	return nil
}

// ClearSalePrice removes the promotional sale price
func (v *Variant) ClearSalePrice() {
	v.SalePrice = nil
}

// Margin returns the difference between effective price and cost, when cost is known
func (v *Variant) Margin() (decimal.Decimal, bool) {
	if v.Cost == nil {
		return decimal.Zero, false
	}
	return v.EffectivePrice().Sub(*v.Cost), true
}
