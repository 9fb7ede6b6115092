package pricing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Well-known keys in PriceContext.AdditionalData.
const (
	DataKeyApplyLoyaltyDiscount = "applyLoyaltyDiscount"
	DataKeyLoyaltyPointsToApply = "loyaltyPointsToApply"
	DataKeyPointsToMoneyRatio   = "pointsToMoneyRatio"
	DataKeyCustomerAttributes   = "customerAttributes"
)

// DefaultPointsToMoneyRatio is the monetary value of a single loyalty point
// when the caller does not supply one.
var DefaultPointsToMoneyRatio = decimal.NewFromFloat(0.01)

// PriceContext carries everything the engine knows about the pricing request:
// who is buying, how much, when, and any extra hints supplied by the caller.
// The zero value is usable; Normalized fills in quantity and date defaults.
type PriceContext struct {
	VariantID        *uuid.UUID      `json:"variant_id,omitempty"`
	CustomerID       *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerGroupIDs []uuid.UUID     `json:"customer_group_ids,omitempty"`
	Quantity         int             `json:"quantity,omitempty"`
	Date             time.Time       `json:"date,omitempty"`
	CartTotal        decimal.Decimal `json:"cart_total,omitempty"`

	// Identifiers of the items being priced, matched against rule
	// allow-lists during eligibility checks
	ProductIDs []uuid.UUID `json:"product_ids,omitempty"`
	VariantIDs []uuid.UUID `json:"variant_ids,omitempty"`

	AdditionalData map[string]any `json:"additional_data,omitempty"`
}

// WithItem returns a copy whose product/variant identifier sets include the
// item currently being priced.
func (c PriceContext) WithItem(productID uuid.UUID, variantID *uuid.UUID) PriceContext {
	if !containsUUID(c.ProductIDs, productID) {
		c.ProductIDs = append(append([]uuid.UUID(nil), c.ProductIDs...), productID)
	}
	if variantID != nil && !containsUUID(c.VariantIDs, *variantID) {
		c.VariantIDs = append(append([]uuid.UUID(nil), c.VariantIDs...), *variantID)
	}
	return c
}

// Normalized returns a copy with defaults applied: quantity floors at 1 and
// a zero date becomes the current time.
func (c PriceContext) Normalized() PriceContext {
	if c.Quantity < 1 {
		c.Quantity = 1
	}
	if c.Date.IsZero() {
		c.Date = time.Now()
	}
	return c
}

// PrimaryGroupID returns the first customer group, or nil when the customer
// belongs to none.
func (c PriceContext) PrimaryGroupID() *uuid.UUID {
	if len(c.CustomerGroupIDs) == 0 {
		return nil
	}
	id := c.CustomerGroupIDs[0]
	return &id
}

// ApplyLoyaltyDiscount reports whether the caller opted into redeeming
// loyalty points on this request.
func (c PriceContext) ApplyLoyaltyDiscount() bool {
	v, ok := c.AdditionalData[DataKeyApplyLoyaltyDiscount]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return false
	}
}

// LoyaltyPointsToApply returns the number of points the caller asked to
// redeem, or 0 when absent or unparsable.
func (c PriceContext) LoyaltyPointsToApply() int64 {
	v, ok := c.AdditionalData[DataKeyLoyaltyPointsToApply]
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case int:
		return int64(t)
	case int64:
		return t
	case float64:
		return int64(t)
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return 0
		}
		return d.IntPart()
	default:
		return 0
	}
}

// PointsToMoneyRatio returns the caller-supplied point valuation, falling
// back to DefaultPointsToMoneyRatio.
func (c PriceContext) PointsToMoneyRatio() decimal.Decimal {
	v, ok := c.AdditionalData[DataKeyPointsToMoneyRatio]
	if !ok {
		return DefaultPointsToMoneyRatio
	}
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t)
	case int:
		return decimal.NewFromInt(int64(t))
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return DefaultPointsToMoneyRatio
		}
		return d
	case decimal.Decimal:
		return t
	default:
		return DefaultPointsToMoneyRatio
	}
}

// CustomerAttributes returns the attribute map used by customer_attribute
// conditions. Values are stringified so evaluators compare uniformly.
func (c PriceContext) CustomerAttributes() map[string]string {
	v, ok := c.AdditionalData[DataKeyCustomerAttributes]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case map[string]string:
		return t
	case map[string]any:
		attrs := make(map[string]string, len(t))
		for k, val := range t {
			attrs[k] = fmt.Sprintf("%v", val)
		}
		return attrs
	default:
		return nil
	}
}
