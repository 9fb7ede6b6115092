package pricing

import (
	"sort"
	"time"

	"github.com/ecomm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleType classifies what drives a promotional rule
type RuleType string

const (
	RuleTypeQuantityBased   RuleType = "QUANTITY_BASED"
	RuleTypeTimeBased       RuleType = "TIME_BASED"
	RuleTypeCustomerSegment RuleType = "CUSTOMER_SEGMENT"
	RuleTypeBundle          RuleType = "BUNDLE"
	RuleTypeDynamic         RuleType = "DYNAMIC"
	RuleTypeContract        RuleType = "CONTRACT"
)

// RuleScope controls which allow-list a rule is matched against
type RuleScope string

const (
	RuleScopeGlobal        RuleScope = "GLOBAL"
	RuleScopeProduct       RuleScope = "PRODUCT"
	RuleScopeCategory      RuleScope = "CATEGORY"
	RuleScopeCustomer      RuleScope = "CUSTOMER"
	RuleScopeCustomerGroup RuleScope = "CUSTOMER_GROUP"
)

// RuleStatus represents the lifecycle status of a pricing rule
type RuleStatus string

const (
	RuleStatusActive   RuleStatus = "active"
	RuleStatusInactive RuleStatus = "inactive"
	RuleStatusDraft    RuleStatus = "draft"
	RuleStatusArchived RuleStatus = "archived"
)

// AdjustmentType determines how an adjustment value transforms a price
type AdjustmentType string

const (
	// AdjustmentFixed sets the price to an absolute value
	AdjustmentFixed AdjustmentType = "FIXED"
	// AdjustmentPercentage discounts the price by a percentage
	AdjustmentPercentage AdjustmentType = "PERCENTAGE"
	// AdjustmentOverride sets the price to an absolute value, same as FIXED
	AdjustmentOverride AdjustmentType = "OVERRIDE"
)

// Adjustment is a single price transformation carried by a rule or a
// customer price entry.
type Adjustment struct {
	Type   AdjustmentType  `json:"type"`
	Value  decimal.Decimal `json:"value"`
	Target string          `json:"target,omitempty"`
}

// Apply transforms the given price. FIXED and OVERRIDE replace it with the
// adjustment value; PERCENTAGE multiplies by (1 - value/100). Unknown types
// leave the price untouched.
func (a Adjustment) Apply(current decimal.Decimal) decimal.Decimal {
	switch a.Type {
	case AdjustmentFixed, AdjustmentOverride:
		return a.Value
	case AdjustmentPercentage:
		factor := decimal.NewFromInt(1).Sub(a.Value.Div(decimal.NewFromInt(100)))
		return current.Mul(factor)
	default:
		return current
	}
}

// PricingRule is a promotional rule. Scope allow-lists decide whether the
// rule is a candidate for a request; eligibility constraints (quantities,
// order amount, conditions) decide whether it actually applies.
type PricingRule struct {
	shared.BaseEntity
	Name        string
	Description string
	Type        RuleType
	Scope       RuleScope
	Status      RuleStatus
	Priority    int
	Conditions  []Condition
	Adjustments []Adjustment

	// Scope allow-lists, consulted according to Scope
	ProductIDs       []uuid.UUID
	CategoryIDs      []uuid.UUID
	CustomerIDs      []uuid.UUID
	CustomerGroupIDs []uuid.UUID

	StartDate *time.Time
	EndDate   *time.Time

	MinimumQuantity    *int
	MaximumQuantity    *int
	MinimumOrderAmount *decimal.Decimal
}

// IsActive returns true if the rule may be evaluated at all
func (r *PricingRule) IsActive() bool {
	return r.Status == RuleStatusActive
}

// InValidityWindow returns true when the given instant falls inside the
// rule's optional start/end window. Absent bounds are open-ended.
func (r *PricingRule) InValidityWindow(at time.Time) bool {
	if r.StartDate != nil && at.Before(*r.StartDate) {
		return false
	}
	if r.EndDate != nil && at.After(*r.EndDate) {
		return false
	}
	return true
}

// MatchesScope checks the rule's allow-list against the request identifiers.
// GLOBAL rules match everything; other scopes match when the corresponding
// identifier is present in the allow-list.
func (r *PricingRule) MatchesScope(productID uuid.UUID, categoryID *uuid.UUID, customerID *uuid.UUID, groupIDs []uuid.UUID) bool {
	switch r.Scope {
	case RuleScopeGlobal:
		return true
	case RuleScopeProduct:
		return containsUUID(r.ProductIDs, productID)
	case RuleScopeCategory:
		return categoryID != nil && containsUUID(r.CategoryIDs, *categoryID)
	case RuleScopeCustomer:
		return customerID != nil && containsUUID(r.CustomerIDs, *customerID)
	case RuleScopeCustomerGroup:
		return intersectsUUID(r.CustomerGroupIDs, groupIDs)
	default:
		return false
	}
}

// SortRulesByPriority orders rules by descending priority, creation time
// ascending as the tie-breaker so older rules win ties deterministically.
func SortRulesByPriority(rules []*PricingRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].CreatedAt.Before(rules[j].CreatedAt)
	})
}

func containsUUID(list []uuid.UUID, id uuid.UUID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func intersectsUUID(list []uuid.UUID, other []uuid.UUID) bool {
	for _, id := range other {
		if containsUUID(list, id) {
			return true
		}
	}
	return false
}
