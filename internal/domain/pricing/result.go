package pricing

import (
	"github.com/ecomm/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AppliedRule is one audit entry in a pricing result. Every price layer
// that changes the price appends exactly one entry, using its first
// adjustment as the representative when a rule carries several.
type AppliedRule struct {
	RuleID          string          `json:"rule_id"`
	RuleName        string          `json:"rule_name"`
	AdjustmentType  AdjustmentType  `json:"adjustment_type"`
	AdjustmentValue decimal.Decimal `json:"adjustment_value"`
	Impact          decimal.Decimal `json:"impact"`
}

// Result is the outcome of a price calculation for one product
type Result struct {
	OriginalPrice decimal.Decimal      `json:"original_price"`
	FinalPrice    decimal.Decimal      `json:"final_price"`
	Currency      valueobject.Currency `json:"currency"`
	AppliedRules  []AppliedRule        `json:"applied_rules"`
}

// TotalDiscount returns how much the engine shaved off the original price
func (r Result) TotalDiscount() decimal.Decimal {
	return r.OriginalPrice.Sub(r.FinalPrice)
}

// RuleImpact quantifies what a single rule does to a product's base price
// in isolation.
type RuleImpact struct {
	PriceBeforeRule  decimal.Decimal      `json:"price_before_rule"`
	PriceAfterRule   decimal.Decimal      `json:"price_after_rule"`
	Impact           decimal.Decimal      `json:"impact"`
	PercentageImpact decimal.Decimal      `json:"percentage_impact"`
	Currency         valueobject.Currency `json:"currency"`
}
