package pricing

import (
	"github.com/ecomm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoyaltyAccount tracks a customer's redeemable point balance
type LoyaltyAccount struct {
	shared.BaseEntity
	CustomerID    uuid.UUID
	CurrentPoints int64
}

// CanRedeem reports whether the account can cover the requested points
func (a *LoyaltyAccount) CanRedeem(points int64) bool {
	return points > 0 && points <= a.CurrentPoints
}

// RedemptionValue converts a point count into money using the given ratio
func RedemptionValue(points int64, ratio decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(points).Mul(ratio)
}
