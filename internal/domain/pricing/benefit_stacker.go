package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BenefitStacker layers membership and loyalty benefits on top of the
// rule-adjusted price. Benefit lookups are best-effort: a failing
// membership or loyalty backend degrades the price, never the request.
type BenefitStacker struct {
	memberships MembershipRepository
	loyalty     LoyaltyRepository
	logger      *zap.Logger
}

// NewBenefitStacker creates a benefit stacker. A nil logger is replaced
// with a no-op logger.
func NewBenefitStacker(memberships MembershipRepository, loyalty LoyaltyRepository, logger *zap.Logger) *BenefitStacker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BenefitStacker{
		memberships: memberships,
		loyalty:     loyalty,
		logger:      logger,
	}
}

// ApplyMembershipDiscount applies the customer's single best membership
// discount percentage. Returns the new price and an audit entry, or the
// unchanged price and nil when no discount applies.
func (s *BenefitStacker) ApplyMembershipDiscount(ctx context.Context, customerID *uuid.UUID, current decimal.Decimal) (decimal.Decimal, *AppliedRule) {
	if s.memberships == nil || customerID == nil {
		return current, nil
	}

	benefits, err := s.memberships.GetCustomerBenefits(ctx, *customerID)
	if err != nil {
		s.logger.Warn("membership benefit lookup failed, pricing without membership discount",
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
		return current, nil
	}

	best := BestDiscountBenefit(benefits)
	if best == nil {
		return current, nil
	}

	pct := *best.DiscountPercentage
	next := Adjustment{Type: AdjustmentPercentage, Value: pct}.Apply(current)
	if next.Equal(current) {
		return current, nil
	}

	name := best.Name
	if name == "" {
		name = "Membership discount"
	}
	return next, &AppliedRule{
		RuleID:          "membership:" + best.ID.String(),
		RuleName:        name,
		AdjustmentType:  AdjustmentPercentage,
		AdjustmentValue: pct,
		Impact:          current.Sub(next),
	}
}

// ApplyLoyaltyRedemption previews a loyalty point redemption when the
// request opted in. The deduction is points * ratio, clamped so the price
// never goes below zero; the audit entry records the actual impact.
// No points are consumed here, redemption settles at checkout.
func (s *BenefitStacker) ApplyLoyaltyRedemption(ctx context.Context, pctx PriceContext, current decimal.Decimal) (decimal.Decimal, *AppliedRule) {
	if s.loyalty == nil || pctx.CustomerID == nil || !pctx.ApplyLoyaltyDiscount() {
		return current, nil
	}

	account, err := s.loyalty.FindCustomerPoints(ctx, *pctx.CustomerID)
	if err != nil {
		s.logger.Warn("loyalty point lookup failed, pricing without loyalty redemption",
			zap.String("customer_id", pctx.CustomerID.String()),
			zap.Error(err))
		return current, nil
	}
	if account == nil {
		return current, nil
	}

	points := pctx.LoyaltyPointsToApply()
	if !account.CanRedeem(points) {
		return current, nil
	}

	deduction := RedemptionValue(points, pctx.PointsToMoneyRatio())
	next := current.Sub(deduction)
	if next.IsNegative() {
		next = decimal.Zero
	}
	if next.Equal(current) {
		return current, nil
	}

	return next, &AppliedRule{
		RuleID:          "loyalty:" + account.ID.String(),
		RuleName:        fmt.Sprintf("Loyalty redemption (%d points)", points),
		AdjustmentType:  AdjustmentFixed,
		AdjustmentValue: deduction,
		Impact:          current.Sub(next),
	}
}
