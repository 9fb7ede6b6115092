package models

import (
	"time"

	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TierPriceModel is the persistence model for the TierPrice domain entity.
type TierPriceModel struct {
	BaseModel
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_tier_product"`
	VariantID       *uuid.UUID      `gorm:"type:uuid;index"`
	QuantityMin     int             `gorm:"not null"`
	QuantityMax     *int            `gorm:""`
	Price           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CustomerGroupID *uuid.UUID      `gorm:"type:uuid;index"`
	StartDate       *time.Time      `gorm:""`
	EndDate         *time.Time      `gorm:""`
}

// TableName returns the table name for GORM
func (TierPriceModel) TableName() string {
	return "tier_prices"
}

// ToDomain converts the persistence model to a domain TierPrice entity.
func (m *TierPriceModel) ToDomain() *pricing.TierPrice {
	return &pricing.TierPrice{
		BaseEntity:      m.BaseModel.ToDomain(),
		ProductID:       m.ProductID,
		VariantID:       m.VariantID,
		QuantityMin:     m.QuantityMin,
		QuantityMax:     m.QuantityMax,
		Price:           m.Price,
		CustomerGroupID: m.CustomerGroupID,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
	}
}

// FromDomain populates the persistence model from a domain TierPrice entity.
func (m *TierPriceModel) FromDomain(t *pricing.TierPrice) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.ProductID = t.ProductID
	m.VariantID = t.VariantID
	m.QuantityMin = t.QuantityMin
	m.QuantityMax = t.QuantityMax
	m.Price = t.Price
	m.CustomerGroupID = t.CustomerGroupID
	m.StartDate = t.StartDate
	m.EndDate = t.EndDate
}

// PriceListModel is the persistence model for the CustomerPriceList entity.
type PriceListModel struct {
	BaseModel
	Name             string                  `gorm:"type:varchar(200);not null"`
	Description      string                  `gorm:"type:text"`
	CustomerIDs      UUIDList                `gorm:"type:jsonb"`
	CustomerGroupIDs UUIDList                `gorm:"type:jsonb"`
	Priority         int                     `gorm:"not null;default:0;index"`
	StartDate        *time.Time              `gorm:""`
	EndDate          *time.Time              `gorm:""`
	Status           pricing.PriceListStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (PriceListModel) TableName() string {
	return "customer_price_lists"
}

// ToDomain converts the persistence model to a domain CustomerPriceList entity.
func (m *PriceListModel) ToDomain() *pricing.CustomerPriceList {
	return &pricing.CustomerPriceList{
		BaseEntity:       m.BaseModel.ToDomain(),
		Name:             m.Name,
		Description:      m.Description,
		CustomerIDs:      m.CustomerIDs,
		CustomerGroupIDs: m.CustomerGroupIDs,
		Priority:         m.Priority,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		Status:           m.Status,
	}
}

// FromDomain populates the persistence model from a domain CustomerPriceList entity.
func (m *PriceListModel) FromDomain(l *pricing.CustomerPriceList) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.Name = l.Name
	m.Description = l.Description
	m.CustomerIDs = l.CustomerIDs
	m.CustomerGroupIDs = l.CustomerGroupIDs
	m.Priority = l.Priority
	m.StartDate = l.StartDate
	m.EndDate = l.EndDate
	m.Status = l.Status
}

// CustomerPriceModel is the persistence model for the CustomerPrice entity.
type CustomerPriceModel struct {
	BaseModel
	PriceListID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID              `gorm:"type:uuid;not null;index"`
	VariantID       *uuid.UUID             `gorm:"type:uuid;index"`
	AdjustmentType  pricing.AdjustmentType `gorm:"type:varchar(20);not null"`
	AdjustmentValue decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (CustomerPriceModel) TableName() string {
	return "customer_prices"
}

// ToDomain converts the persistence model to a domain CustomerPrice entity.
func (m *CustomerPriceModel) ToDomain() *pricing.CustomerPrice {
	return &pricing.CustomerPrice{
		BaseEntity:      m.BaseModel.ToDomain(),
		PriceListID:     m.PriceListID,
		ProductID:       m.ProductID,
		VariantID:       m.VariantID,
		AdjustmentType:  m.AdjustmentType,
		AdjustmentValue: m.AdjustmentValue,
	}
}

// FromDomain populates the persistence model from a domain CustomerPrice entity.
func (m *CustomerPriceModel) FromDomain(p *pricing.CustomerPrice) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.PriceListID = p.PriceListID
	m.ProductID = p.ProductID
	m.VariantID = p.VariantID
	m.AdjustmentType = p.AdjustmentType
	m.AdjustmentValue = p.AdjustmentValue
}

// PricingRuleModel is the persistence model for the PricingRule entity.
// Allow-lists, conditions and adjustments are JSON columns; scope matching
// over the allow-lists happens in Go after the candidate fetch.
type PricingRuleModel struct {
	BaseModel
	Name               string             `gorm:"type:varchar(200);not null"`
	Description        string             `gorm:"type:text"`
	Type               pricing.RuleType   `gorm:"type:varchar(32);not null"`
	Scope              pricing.RuleScope  `gorm:"type:varchar(32);not null;index"`
	Status             pricing.RuleStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Priority           int                `gorm:"not null;default:0;index"`
	Conditions         ConditionList      `gorm:"type:jsonb"`
	Adjustments        AdjustmentList     `gorm:"type:jsonb"`
	ProductIDs         UUIDList           `gorm:"type:jsonb"`
	CategoryIDs        UUIDList           `gorm:"type:jsonb"`
	CustomerIDs        UUIDList           `gorm:"type:jsonb"`
	CustomerGroupIDs   UUIDList           `gorm:"type:jsonb"`
	StartDate          *time.Time         `gorm:""`
	EndDate            *time.Time         `gorm:""`
	MinimumQuantity    *int               `gorm:""`
	MaximumQuantity    *int               `gorm:""`
	MinimumOrderAmount *decimal.Decimal   `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (PricingRuleModel) TableName() string {
	return "pricing_rules"
}

// ToDomain converts the persistence model to a domain PricingRule entity.
func (m *PricingRuleModel) ToDomain() *pricing.PricingRule {
	return &pricing.PricingRule{
		BaseEntity:         m.BaseModel.ToDomain(),
		Name:               m.Name,
		Description:        m.Description,
		Type:               m.Type,
		Scope:              m.Scope,
		Status:             m.Status,
		Priority:           m.Priority,
		Conditions:         m.Conditions,
		Adjustments:        m.Adjustments,
		ProductIDs:         m.ProductIDs,
		CategoryIDs:        m.CategoryIDs,
		CustomerIDs:        m.CustomerIDs,
		CustomerGroupIDs:   m.CustomerGroupIDs,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		MinimumQuantity:    m.MinimumQuantity,
		MaximumQuantity:    m.MaximumQuantity,
		MinimumOrderAmount: m.MinimumOrderAmount,
	}
}

// FromDomain populates the persistence model from a domain PricingRule entity.
func (m *PricingRuleModel) FromDomain(r *pricing.PricingRule) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.Name = r.Name
	m.Description = r.Description
	m.Type = r.Type
	m.Scope = r.Scope
	m.Status = r.Status
	m.Priority = r.Priority
	m.Conditions = r.Conditions
	m.Adjustments = r.Adjustments
	m.ProductIDs = r.ProductIDs
	m.CategoryIDs = r.CategoryIDs
	m.CustomerIDs = r.CustomerIDs
	m.CustomerGroupIDs = r.CustomerGroupIDs
	m.StartDate = r.StartDate
	m.EndDate = r.EndDate
	m.MinimumQuantity = r.MinimumQuantity
	m.MaximumQuantity = r.MaximumQuantity
	m.MinimumOrderAmount = r.MinimumOrderAmount
}

// MembershipBenefitModel is the persistence model for membership benefits.
type MembershipBenefitModel struct {
	BaseModel
	CustomerID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	Name               string              `gorm:"type:varchar(200);not null"`
	Type               pricing.BenefitType `gorm:"type:varchar(32);not null"`
	DiscountPercentage *decimal.Decimal    `gorm:"type:decimal(5,2)"`
}

// TableName returns the table name for GORM
func (MembershipBenefitModel) TableName() string {
	return "membership_benefits"
}

// ToDomain converts the persistence model to a domain MembershipBenefit entity.
func (m *MembershipBenefitModel) ToDomain() pricing.MembershipBenefit {
	return pricing.MembershipBenefit{
		BaseEntity:         m.BaseModel.ToDomain(),
		CustomerID:         m.CustomerID,
		Name:               m.Name,
		Type:               m.Type,
		DiscountPercentage: m.DiscountPercentage,
	}
}

// LoyaltyAccountModel is the persistence model for loyalty point balances.
type LoyaltyAccountModel struct {
	BaseModel
	CustomerID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CurrentPoints int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (LoyaltyAccountModel) TableName() string {
	return "loyalty_accounts"
}

// ToDomain converts the persistence model to a domain LoyaltyAccount entity.
func (m *LoyaltyAccountModel) ToDomain() *pricing.LoyaltyAccount {
	return &pricing.LoyaltyAccount{
		BaseEntity:    m.BaseModel.ToDomain(),
		CustomerID:    m.CustomerID,
		CurrentPoints: m.CurrentPoints,
	}
}
