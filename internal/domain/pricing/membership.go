package pricing

import (
	"github.com/ecomm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BenefitType classifies what a membership tier grants
type BenefitType string

const (
	BenefitDiscount        BenefitType = "discount"
	BenefitFreeShipping    BenefitType = "freeShipping"
	BenefitExclusiveAccess BenefitType = "exclusiveAccess"
	BenefitReward          BenefitType = "reward"
)

// MembershipBenefit is a perk granted by a customer's membership tier.
// Only discount benefits carry a DiscountPercentage; the engine ignores
// the rest.
type MembershipBenefit struct {
	shared.BaseEntity
	CustomerID         uuid.UUID
	Name               string
	Type               BenefitType
	DiscountPercentage *decimal.Decimal
}

// BestDiscountBenefit picks the discount benefit with the highest positive
// percentage. Benefits never stack; returns nil when the customer has no
// usable discount.
func BestDiscountBenefit(benefits []MembershipBenefit) *MembershipBenefit {
	var best *MembershipBenefit
	for i := range benefits {
		b := &benefits[i]
		if b.Type != BenefitDiscount || b.DiscountPercentage == nil || !b.DiscountPercentage.IsPositive() {
			continue
		}
		if best == nil || b.DiscountPercentage.GreaterThan(*best.DiscountPercentage) {
			best = b
		}
	}
	return best
}
