package pricing

import (
	"time"

	"github.com/ecomm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TierPrice is a quantity-break override for a product or one of its
// variants. A nil CustomerGroupID makes the tier generic; a nil QuantityMax
// leaves the band open-ended.
type TierPrice struct {
	shared.BaseEntity
	ProductID       uuid.UUID
	VariantID       *uuid.UUID
	QuantityMin     int
	QuantityMax     *int
	Price           decimal.Decimal
	CustomerGroupID *uuid.UUID
	StartDate       *time.Time
	EndDate         *time.Time
}

// AppliesTo reports whether the tier covers the given quantity, variant,
// customer group and instant. Tiers pinned to a variant only match that
// variant; tiers pinned to a group only match customers in that group.
func (t *TierPrice) AppliesTo(quantity int, variantID, groupID *uuid.UUID, at time.Time) bool {
	if quantity < t.QuantityMin {
		return false
	}
	if t.QuantityMax != nil && quantity > *t.QuantityMax {
		return false
	}
	if t.VariantID != nil && (variantID == nil || *variantID != *t.VariantID) {
		return false
	}
	if t.CustomerGroupID != nil && (groupID == nil || *groupID != *t.CustomerGroupID) {
		return false
	}
	if t.StartDate != nil && at.Before(*t.StartDate) {
		return false
	}
	if t.EndDate != nil && at.After(*t.EndDate) {
		return false
	}
	return true
}

// SelectApplicableTier picks the winning tier among candidates: the highest
// quantityMin that still covers the quantity, with group-specific tiers
// beating generic ones on a tie. Returns nil when nothing matches.
func SelectApplicableTier(tiers []*TierPrice, quantity int, variantID, groupID *uuid.UUID, at time.Time) *TierPrice {
	var best *TierPrice
	for _, tier := range tiers {
		if !tier.AppliesTo(quantity, variantID, groupID, at) {
			continue
		}
		if best == nil || tier.QuantityMin > best.QuantityMin {
			best = tier
			continue
		}
		if tier.QuantityMin == best.QuantityMin && tier.CustomerGroupID != nil && best.CustomerGroupID == nil {
			best = tier
		}
	}
	return best
}
