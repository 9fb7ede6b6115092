package models

import (
	"github.com/ecomm/backend/internal/domain/catalog"
	"github.com/ecomm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Name         string                `gorm:"type:varchar(200);not null"`
	CategoryID   *uuid.UUID            `gorm:"type:uuid;index"`
	CurrencyCode string                `gorm:"type:varchar(3);not null;default:'USD'"`
	Status       catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Variants     []VariantModel        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		CategoryID:   m.CategoryID,
		CurrencyCode: valueobject.Currency(m.CurrencyCode),
		Status:       m.Status,
	}
	for i := range m.Variants {
		p.Variants = append(p.Variants, *m.Variants[i].ToDomain())
	}
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.CategoryID = p.CategoryID
	m.CurrencyCode = string(p.CurrencyCode)
	m.Status = p.Status
	m.Variants = m.Variants[:0]
	for i := range p.Variants {
		var vm VariantModel
		vm.FromDomain(&p.Variants[i])
		m.Variants = append(m.Variants, vm)
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// VariantModel is the persistence model for the Variant domain entity.
type VariantModel struct {
	BaseModel
	ProductID uuid.UUID        `gorm:"type:uuid;not null;index"`
	SKU       string           `gorm:"type:varchar(64);not null;uniqueIndex"`
	Price     decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Cost      *decimal.Decimal `gorm:"type:decimal(18,4)"`
	IsDefault bool             `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (VariantModel) TableName() string {
	return "product_variants"
}

// ToDomain converts the persistence model to a domain Variant entity.
func (m *VariantModel) ToDomain() *catalog.Variant {
	return &catalog.Variant{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		SKU:        m.SKU,
		Price:      m.Price,
		SalePrice:  m.SalePrice,
		Cost:       m.Cost,
		IsDefault:  m.IsDefault,
	}
}

// FromDomain populates the persistence model from a domain Variant entity.
func (m *VariantModel) FromDomain(v *catalog.Variant) {
	m.FromDomainBaseEntity(v.BaseEntity)
	m.ProductID = v.ProductID
	m.SKU = v.SKU
	m.Price = v.Price
	m.SalePrice = v.SalePrice
	m.Cost = v.Cost
	m.IsDefault = v.IsDefault
}
