package models

import (
	"github.com/ecomm/backend/internal/domain/basket"
	"github.com/ecomm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BasketModel is the persistence model for the Basket domain entity.
type BasketModel struct {
	BaseModel
	CustomerID *uuid.UUID          `gorm:"type:uuid;index"`
	Status     basket.BasketStatus `gorm:"type:varchar(20);not null;default:'open'"`
	Currency   string              `gorm:"type:varchar(3);not null;default:'USD'"`
	Subtotal   decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Items      []BasketItemModel   `gorm:"foreignKey:BasketID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (BasketModel) TableName() string {
	return "baskets"
}

// ToDomain converts the persistence model to a domain Basket entity.
func (m *BasketModel) ToDomain() *basket.Basket {
	b := &basket.Basket{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		Status:     m.Status,
		Currency:   valueobject.Currency(m.Currency),
		Subtotal:   m.Subtotal,
	}
	for i := range m.Items {
		b.Items = append(b.Items, *m.Items[i].ToDomain())
	}
	return b
}

// FromDomain populates the persistence model from a domain Basket entity.
func (m *BasketModel) FromDomain(b *basket.Basket) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.CustomerID = b.CustomerID
	m.Status = b.Status
	m.Currency = string(b.Currency)
	m.Subtotal = b.Subtotal
	m.Items = m.Items[:0]
	for i := range b.Items {
		var im BasketItemModel
		im.FromDomain(&b.Items[i])
		m.Items = append(m.Items, im)
	}
}

// BasketItemModel is the persistence model for a basket line.
type BasketItemModel struct {
	BaseModel
	BasketID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID *uuid.UUID      `gorm:"type:uuid"`
	Quantity  int             `gorm:"not null;default:1"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (BasketItemModel) TableName() string {
	return "basket_items"
}

// ToDomain converts the persistence model to a domain BasketItem entity.
func (m *BasketItemModel) ToDomain() *basket.BasketItem {
	return &basket.BasketItem{
		BaseEntity: m.BaseModel.ToDomain(),
		BasketID:   m.BasketID,
		ProductID:  m.ProductID,
		VariantID:  m.VariantID,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
	}
}

// FromDomain populates the persistence model from a domain BasketItem entity.
func (m *BasketItemModel) FromDomain(i *basket.BasketItem) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.BasketID = i.BasketID
	m.ProductID = i.ProductID
	m.VariantID = i.VariantID
	m.Quantity = i.Quantity
	m.UnitPrice = i.UnitPrice
}
