package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleEngine applies promotional rules to a price. Candidate selection is
// the repository's concern; the engine performs exact eligibility checks
// and applies eligible rules in priority order.
type RuleEngine struct {
	conditions *ConditionRegistry
}

// NewRuleEngine creates a rule engine. A nil registry gets the built-in
// condition evaluators.
func NewRuleEngine(registry *ConditionRegistry) *RuleEngine {
	if registry == nil {
		registry = NewConditionRegistry()
	}
	return &RuleEngine{conditions: registry}
}

// FilterCandidates performs the broad candidate phase over an in-memory
// rule set: active rules inside their validity window whose scope
// allow-list matches the request. Shared by repositories that cannot
// express the scope match in their query language.
func FilterCandidates(rules []*PricingRule, productID uuid.UUID, categoryID, customerID *uuid.UUID, groupIDs []uuid.UUID, at time.Time) []*PricingRule {
	candidates := make([]*PricingRule, 0, len(rules))
	for _, r := range rules {
		if !r.IsActive() || !r.InValidityWindow(at) {
			continue
		}
		if !r.MatchesScope(productID, categoryID, customerID, groupIDs) {
			continue
		}
		candidates = append(candidates, r)
	}
	return candidates
}

// IsEligible performs the exact eligibility phase for one rule: validity
// window against the request date, quantity bounds, minimum order amount,
// an exact scope re-check (the candidate phase is deliberately inclusive),
// and every attached condition.
func (e *RuleEngine) IsEligible(rule *PricingRule, ctx PriceContext) bool {
	if !rule.InValidityWindow(ctx.Date) {
		return false
	}
	switch rule.Scope {
	case RuleScopeProduct:
		if !intersectsUUID(rule.ProductIDs, ctx.ProductIDs) {
			return false
		}
	case RuleScopeCustomer:
		if ctx.CustomerID == nil || !containsUUID(rule.CustomerIDs, *ctx.CustomerID) {
			return false
		}
	case RuleScopeCustomerGroup:
		if !intersectsUUID(rule.CustomerGroupIDs, ctx.CustomerGroupIDs) {
			return false
		}
	}
	if rule.MinimumQuantity != nil && ctx.Quantity < *rule.MinimumQuantity {
		return false
	}
	if rule.MaximumQuantity != nil && ctx.Quantity > *rule.MaximumQuantity {
		return false
	}
	if rule.MinimumOrderAmount != nil && ctx.CartTotal.LessThan(*rule.MinimumOrderAmount) {
		return false
	}
	return e.conditions.EvaluateAll(rule.Conditions, ctx)
}

// Apply runs eligible rules against the price in priority order. All
// adjustments of a rule are applied in sequence, but the audit trail
// records one entry per rule that changed the price, described by the
// rule's first adjustment.
func (e *RuleEngine) Apply(rules []*PricingRule, current decimal.Decimal, ctx PriceContext) (decimal.Decimal, []AppliedRule) {
	SortRulesByPriority(rules)

	var applied []AppliedRule
	for _, rule := range rules {
		if len(rule.Adjustments) == 0 || !e.IsEligible(rule, ctx) {
			continue
		}
		before := current
		current = e.ApplyAdjustments(rule, current)
		if current.Equal(before) {
			continue
		}
		applied = append(applied, AppliedRule{
			RuleID:          rule.ID.String(),
			RuleName:        rule.Name,
			AdjustmentType:  rule.Adjustments[0].Type,
			AdjustmentValue: rule.Adjustments[0].Value,
			Impact:          before.Sub(current),
		})
	}
	return current, applied
}

// ApplyAdjustments runs every adjustment of a rule over the price without
// any eligibility check. Used directly for rule impact previews.
func (e *RuleEngine) ApplyAdjustments(rule *PricingRule, current decimal.Decimal) decimal.Decimal {
	for _, adj := range rule.Adjustments {
		current = adj.Apply(current)
	}
	return current
}
