package handler

import (
	"time"

	apppricing "github.com/ecomm/backend/internal/application/pricing"
	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalculatePriceRequest is the body of POST /pricing/calculate.
// AdditionalData carries the open calculation hints: applyLoyaltyDiscount,
// loyaltyPointsToApply, pointsToMoneyRatio, customerAttributes.
type CalculatePriceRequest struct {
	ProductID        uuid.UUID      `json:"product_id" binding:"required"`
	VariantID        *uuid.UUID     `json:"variant_id,omitempty"`
	CustomerID       *uuid.UUID     `json:"customer_id,omitempty"`
	CustomerGroupIDs []uuid.UUID    `json:"customer_group_ids,omitempty"`
	Quantity         int            `json:"quantity,omitempty" binding:"omitempty,min=1"`
	Date             *time.Time     `json:"date,omitempty"`
	CartTotal        *float64       `json:"cart_total,omitempty" binding:"omitempty,min=0"`
	AdditionalData   map[string]any `json:"additional_data,omitempty"`
}

// BatchItemRequest is one item of a batch calculation
type BatchItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity,omitempty" binding:"omitempty,min=1"`
}

// CalculateBatchRequest is the body of POST /pricing/calculate-batch
type CalculateBatchRequest struct {
	Items            []BatchItemRequest `json:"items" binding:"required,min=1,dive"`
	CustomerID       *uuid.UUID         `json:"customer_id,omitempty"`
	CustomerGroupIDs []uuid.UUID        `json:"customer_group_ids,omitempty"`
	Date             *time.Time         `json:"date,omitempty"`
	CartTotal        *float64           `json:"cart_total,omitempty" binding:"omitempty,min=0"`
	AdditionalData   map[string]any     `json:"additional_data,omitempty"`
}

// RuleImpactRequest is the body of POST /pricing/rules/:id/impact
type RuleImpactRequest struct {
	ProductID        uuid.UUID      `json:"product_id" binding:"required"`
	VariantID        *uuid.UUID     `json:"variant_id,omitempty"`
	CustomerID       *uuid.UUID     `json:"customer_id,omitempty"`
	CustomerGroupIDs []uuid.UUID    `json:"customer_group_ids,omitempty"`
	Quantity         int            `json:"quantity,omitempty" binding:"omitempty,min=1"`
	Date             *time.Time     `json:"date,omitempty"`
	CartTotal        *float64       `json:"cart_total,omitempty" binding:"omitempty,min=0"`
	AdditionalData   map[string]any `json:"additional_data,omitempty"`
}

// toPriceContext builds the calculation context shared by the price layers
func toPriceContext(variantID, customerID *uuid.UUID, groupIDs []uuid.UUID, quantity int, date *time.Time, cartTotal *float64, additionalData map[string]any) pricing.PriceContext {
	pctx := pricing.PriceContext{
		VariantID:        variantID,
		CustomerID:       customerID,
		CustomerGroupIDs: groupIDs,
		Quantity:         quantity,
		AdditionalData:   additionalData,
	}
	if date != nil {
		pctx.Date = *date
	}
	if cartTotal != nil {
		pctx.CartTotal = decimal.NewFromFloat(*cartTotal)
	}
	return pctx
}

func (r CalculatePriceRequest) toPriceContext() pricing.PriceContext {
	return toPriceContext(r.VariantID, r.CustomerID, r.CustomerGroupIDs, r.Quantity, r.Date, r.CartTotal, r.AdditionalData)
}

func (r CalculateBatchRequest) toPriceContext() pricing.PriceContext {
	return toPriceContext(nil, r.CustomerID, r.CustomerGroupIDs, 0, r.Date, r.CartTotal, r.AdditionalData)
}

func (r CalculateBatchRequest) toItems() []apppricing.PriceItem {
	items := make([]apppricing.PriceItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = apppricing.PriceItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		}
	}
	return items
}

func (r RuleImpactRequest) toPriceContext() pricing.PriceContext {
	return toPriceContext(r.VariantID, r.CustomerID, r.CustomerGroupIDs, r.Quantity, r.Date, r.CartTotal, r.AdditionalData)
}
