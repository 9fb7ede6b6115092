package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TierPriceRepository resolves quantity-break overrides
type TierPriceRepository interface {
	// FindApplicableTier returns the winning tier for the product, quantity,
	// optional variant and optional customer group at the given instant, or
	// nil when no tier matches.
	FindApplicableTier(ctx context.Context, productID uuid.UUID, quantity int, variantID, customerGroupID *uuid.UUID, at time.Time) (*TierPrice, error)

	// Save creates or updates a tier price
	Save(ctx context.Context, tier *TierPrice) error
}

// CustomerPriceRepository resolves negotiated price lists
type CustomerPriceRepository interface {
	// FindPriceListsForCustomer returns the active lists assigned to the
	// customer or their groups, valid at the given instant, ordered by
	// priority descending then creation time ascending.
	FindPriceListsForCustomer(ctx context.Context, customerID uuid.UUID, groupIDs []uuid.UUID, at time.Time) ([]*CustomerPriceList, error)

	// FindPricesForProduct returns the entries for the product (and
	// optionally its variant) belonging to any of the given lists.
	FindPricesForProduct(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, priceListIDs []uuid.UUID) ([]*CustomerPrice, error)

	// SaveList creates or updates a price list
	SaveList(ctx context.Context, list *CustomerPriceList) error

	// SavePrice creates or updates a price entry
	SavePrice(ctx context.Context, price *CustomerPrice) error
}

// PricingRuleRepository resolves promotional rules
type PricingRuleRepository interface {
	// FindActiveRules returns the candidate rules for the request: active,
	// inside their validity window at the given instant, and matching the
	// request through their scope allow-lists. Eligibility beyond scope is
	// the engine's job.
	FindActiveRules(ctx context.Context, productID uuid.UUID, categoryID, customerID *uuid.UUID, groupIDs []uuid.UUID, at time.Time) ([]*PricingRule, error)

	// FindByID returns the rule or shared.ErrRuleNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*PricingRule, error)

	// Save creates or updates a rule
	Save(ctx context.Context, rule *PricingRule) error
}

// MembershipRepository exposes the membership service's benefit lookup
type MembershipRepository interface {
	// GetCustomerBenefits returns all benefits granted by the customer's
	// membership tier; an empty slice when they have none.
	GetCustomerBenefits(ctx context.Context, customerID uuid.UUID) ([]MembershipBenefit, error)
}

// LoyaltyRepository exposes the loyalty service's point balance lookup
type LoyaltyRepository interface {
	// FindCustomerPoints returns the customer's loyalty account, or nil
	// when they have never earned points.
	FindCustomerPoints(ctx context.Context, customerID uuid.UUID) (*LoyaltyAccount, error)
}
