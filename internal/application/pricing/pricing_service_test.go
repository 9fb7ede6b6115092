package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecomm/backend/internal/domain/catalog"
	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/ecomm/backend/internal/domain/shared"
	"github.com/ecomm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProductRepo struct {
	product *catalog.Product
	variant *catalog.Variant
}

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if s.product == nil || s.product.ID != id {
		return nil, shared.ErrProductNotFound
	}
	return s.product, nil
}

func (s *stubProductRepo) FindVariant(ctx context.Context, variantID uuid.UUID) (*catalog.Variant, error) {
	if s.variant == nil || s.variant.ID != variantID {
		return nil, shared.ErrVariantNotFound
	}
	return s.variant, nil
}

func (s *stubProductRepo) FindDefaultVariant(ctx context.Context, productID uuid.UUID) (*catalog.Variant, error) {
	if s.variant == nil {
		return nil, shared.ErrNoDefaultVariant
	}
	return s.variant, nil
}

func (s *stubProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	return nil
}

type stubTierRepo struct {
	tiers []*pricing.TierPrice
	err   error
}

func (s *stubTierRepo) FindApplicableTier(ctx context.Context, productID uuid.UUID, quantity int, variantID, groupID *uuid.UUID, at time.Time) (*pricing.TierPrice, error) {
	if s.err != nil {
		return nil, s.err
	}
	return pricing.SelectApplicableTier(s.tiers, quantity, variantID, groupID, at), nil
}

func (s *stubTierRepo) Save(ctx context.Context, tier *pricing.TierPrice) error { return nil }

type stubCustomerPriceRepo struct {
	lists  []*pricing.CustomerPriceList
	prices []*pricing.CustomerPrice
}

func (s *stubCustomerPriceRepo) FindPriceListsForCustomer(ctx context.Context, customerID uuid.UUID, groupIDs []uuid.UUID, at time.Time) ([]*pricing.CustomerPriceList, error) {
	var matched []*pricing.CustomerPriceList
	for _, l := range s.lists {
		if l.IsActive() && l.InValidityWindow(at) && l.AppliesToCustomer(customerID, groupIDs) {
			matched = append(matched, l)
		}
	}
	return matched, nil
}

func (s *stubCustomerPriceRepo) FindPricesForProduct(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, listIDs []uuid.UUID) ([]*pricing.CustomerPrice, error) {
	var matched []*pricing.CustomerPrice
	for _, p := range s.prices {
		if p.ProductID == productID {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (s *stubCustomerPriceRepo) SaveList(ctx context.Context, list *pricing.CustomerPriceList) error {
	return nil
}

func (s *stubCustomerPriceRepo) SavePrice(ctx context.Context, price *pricing.CustomerPrice) error {
	return nil
}

type stubRuleRepo struct {
	rules []*pricing.PricingRule
}

func (s *stubRuleRepo) FindActiveRules(ctx context.Context, productID uuid.UUID, categoryID, customerID *uuid.UUID, groupIDs []uuid.UUID, at time.Time) ([]*pricing.PricingRule, error) {
	return pricing.FilterCandidates(s.rules, productID, categoryID, customerID, groupIDs, at), nil
}

func (s *stubRuleRepo) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PricingRule, error) {
	for _, r := range s.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, shared.ErrRuleNotFound
}

func (s *stubRuleRepo) Save(ctx context.Context, rule *pricing.PricingRule) error { return nil }

type stubMembershipRepo struct {
	benefits []pricing.MembershipBenefit
	err      error
}

func (s *stubMembershipRepo) GetCustomerBenefits(ctx context.Context, customerID uuid.UUID) ([]pricing.MembershipBenefit, error) {
	return s.benefits, s.err
}

type stubLoyaltyRepo struct {
	account *pricing.LoyaltyAccount
}

func (s *stubLoyaltyRepo) FindCustomerPoints(ctx context.Context, customerID uuid.UUID) (*pricing.LoyaltyAccount, error) {
	return s.account, nil
}

type fixture struct {
	productID uuid.UUID
	variantID uuid.UUID
	products  *stubProductRepo
	tiers     *stubTierRepo
	prices    *stubCustomerPriceRepo
	rules     *stubRuleRepo
	members   *stubMembershipRepo
	loyalty   *stubLoyaltyRepo
}

func newFixture(t *testing.T, basePrice float64) *fixture {
	t.Helper()
	product, err := catalog.NewProduct("Trail Runner", valueobject.USD)
	require.NoError(t, err)
	variant, err := catalog.NewVariant(product.ID, "TR-42", decimal.NewFromFloat(basePrice))
	require.NoError(t, err)
	variant.IsDefault = true
	product.Variants = []catalog.Variant{*variant}

	return &fixture{
		productID: product.ID,
		variantID: variant.ID,
		products:  &stubProductRepo{product: product, variant: variant},
		tiers:     &stubTierRepo{},
		prices:    &stubCustomerPriceRepo{},
		rules:     &stubRuleRepo{},
		members:   &stubMembershipRepo{},
		loyalty:   &stubLoyaltyRepo{},
	}
}

func (f *fixture) service() *Service {
	stacker := pricing.NewBenefitStacker(f.members, f.loyalty, zap.NewNop())
	return NewService(f.products, f.tiers, f.prices, f.rules, pricing.NewRuleEngine(nil), stacker, zap.NewNop())
}

func globalRule(name string, priority int, adjType pricing.AdjustmentType, value int64) *pricing.PricingRule {
	r := &pricing.PricingRule{
		Name:        name,
		Type:        pricing.RuleTypeDynamic,
		Scope:       pricing.RuleScopeGlobal,
		Status:      pricing.RuleStatusActive,
		Priority:    priority,
		Adjustments: []pricing.Adjustment{{Type: adjType, Value: decimal.NewFromInt(value)}},
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	return r
}

func TestCalculatePricePassThrough(t *testing.T) {
	f := newFixture(t, 50)
	svc := f.service()

	result, err := svc.CalculatePrice(context.Background(), f.productID, pricing.PriceContext{})
	require.NoError(t, err)

	assert.Equal(t, "50", result.OriginalPrice.String())
	assert.Equal(t, "50", result.FinalPrice.String())
	assert.Equal(t, valueobject.USD, result.Currency)
	assert.Empty(t, result.AppliedRules)
}

func TestCalculatePriceNotFoundErrors(t *testing.T) {
	f := newFixture(t, 50)
	svc := f.service()

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.CalculatePrice(context.Background(), uuid.New(), pricing.PriceContext{})
		assert.ErrorIs(t, err, shared.ErrProductNotFound)
	})

	t.Run("unknown variant", func(t *testing.T) {
		bogus := uuid.New()
		_, err := svc.CalculatePrice(context.Background(), f.productID, pricing.PriceContext{VariantID: &bogus})
		assert.ErrorIs(t, err, shared.ErrVariantNotFound)
	})

	t.Run("no default variant", func(t *testing.T) {
		f.products.variant = nil
		_, err := svc.CalculatePrice(context.Background(), f.productID, pricing.PriceContext{})
		assert.ErrorIs(t, err, shared.ErrNoDefaultVariant)
	})
}

func TestCalculatePriceTierOverride(t *testing.T) {
	f := newFixture(t, 10)
	t1 := &pricing.TierPrice{ProductID: f.productID, QuantityMin: 1, Price: decimal.NewFromInt(10)}
	t1.ID = uuid.New()
	t10 := &pricing.TierPrice{ProductID: f.productID, QuantityMin: 10, Price: decimal.NewFromInt(8)}
	t10.ID = uuid.New()
	f.tiers.tiers = []*pricing.TierPrice{t1, t10}
	svc := f.service()

	t.Run("highest quantityMin wins and overrides outright", func(t *testing.T) {
		result, err := svc.CalculatePrice(context.Background(), f.productID, pricing.PriceContext{Quantity: 12})
		require.NoError(t, err)

		assert.Equal(t, "8", result.FinalPrice.String())
		require.Len(t, result.AppliedRules, 1)
		assert.Equal(t, pricing.AdjustmentOverride, result.AppliedRules[0].AdjustmentType)
		assert.True(t, result.AppliedRules[0].Impact.Equal(decimal.NewFromInt(2)))
	})

	t.Run("quantity 1 skips tiers", func(t *testing.T) {
		result, err := svc.CalculatePrice(context.Background(), f.productID, pricing.PriceContext{Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, "10", result.FinalPrice.String())
		assert.Empty(t, result.AppliedRules)
	})

	t.Run("tier lookup failure aborts", func(t *testing.T) {
		f.tiers.err = errors.New("db down")
		defer func() { f.tiers.err = nil }()
		_, err := svc.CalculatePrice(context.Background(), f.productID, pricing.PriceContext{Quantity: 12})
		assert.Error(t, err)
	})
}

func TestCalculatePriceCustomerPriceList(t *testing.T) {
	f := newFixture(t, 100)
	customerID := uuid.New()

	newList := func(name string, priority int, createdAt time.Time) *pricing.CustomerPriceList {
		l := &pricing.CustomerPriceList{
			Name:        name,
			CustomerIDs: []uuid.UUID{customerID},
			Priority:    priority,
			Status:      pricing.PriceListStatusActive,
		}
		l.ID = uuid.New()
		l.CreatedAt = createdAt
		return l
	}
	newPrice := func(listID uuid.UUID, adjType pricing.AdjustmentType, value int64) *pricing.CustomerPrice {
		p := &pricing.CustomerPrice{
			PriceListID:     listID,
			ProductID:       f.productID,
			AdjustmentType:  adjType,
			AdjustmentValue: decimal.NewFromInt(value),
		}
		p.ID = uuid.New()
		return p
	}

	now := time.Now()
	lower := newList("standard contract", 1, now.Add(-time.Hour))
	higher := newList("vip contract", 10, now)
	f.prices.lists = []*pricing.CustomerPriceList{lower, higher}
	f.prices.prices = []*pricing.CustomerPrice{
		newPrice(lower.ID, pricing.AdjustmentFixed, 90),
		newPrice(higher.ID, pricing.AdjustmentPercentage, 20),
	}
	svc := f.service()

	result, err := svc.CalculatePrice(context.Background(), f.productID, pricing.PriceContext{CustomerID: &customerID})
	require.NoError(t, err)

	// Only the highest-priority list applies: 100 * 0.8, not the fixed 90.
	assert.Equal(t, "80", result.FinalPrice.String())
	require.Len(t, result.AppliedRules, 1)
	assert.Equal(t, "vip contract", result.AppliedRules[0].RuleName)
}

func TestCalculatePriceRuleOrdering(t *testing.T) {
	f := newFixture(t, 100)
	f.rules.rules = []*pricing.PricingRule{
		globalRule("low priority", 1, pricing.AdjustmentPercentage, 10),
		globalRule("high priority", 5, pricing.AdjustmentPercentage, 10),
	}
	svc := f.service()

	result, err := svc.CalculatePrice(context.Background(), f.productID, pricing.PriceContext{})
	require.NoError(t, err)

	assert.Equal(t, "81", result.FinalPrice.String())
	require.Len(t, result.AppliedRules, 2)
	assert.Equal(t, "high priority", result.AppliedRules[0].RuleName)
	assert.Equal(t, "low priority", result.AppliedRules[1].RuleName)
}

func TestCalculatePriceFixedRule(t *testing.T) {
	f := newFixture(t, 50)
	f.rules.rules = []*pricing.PricingRule{globalRule("flat forty", 1, pricing.AdjustmentFixed, 40)}
	svc := f.service()

	result, err := svc.CalculatePrice(context.Background(), f.productID, pricing.PriceContext{})
	require.NoError(t, err)

	assert.Equal(t, "50", result.OriginalPrice.String())
	assert.Equal(t, "40", result.FinalPrice.String())
	require.Len(t, result.AppliedRules, 1)
}

func TestCalculatePriceFutureRuleNeverApplies(t *testing.T) {
	f := newFixture(t, 50)
	rule := globalRule("next month", 1, pricing.AdjustmentPercentage, 50)
	future := time.Now().Add(30 * 24 * time.Hour)
	rule.StartDate = &future
	f.rules.rules = []*pricing.PricingRule{rule}
	svc := f.service()

	result, err := svc.CalculatePrice(context.Background(), f.productID, pricing.PriceContext{})
	require.NoError(t, err)
	assert.Equal(t, "50", result.FinalPrice.String())
	assert.Empty(t, result.AppliedRules)
}

func TestCalculatePriceMembershipPicksBest(t *testing.T) {
	f := newFixture(t, 100)
	customerID := uuid.New()
	five := decimal.NewFromInt(5)
	fifteen := decimal.NewFromInt(15)
	f.members.benefits = []pricing.MembershipBenefit{
		{Name: "silver", Type: pricing.BenefitDiscount, DiscountPercentage: &five},
		{Name: "gold", Type: pricing.BenefitDiscount, DiscountPercentage: &fifteen},
	}
	svc := f.service()

	result, err := svc.CalculatePrice(context.Background(), f.productID, pricing.PriceContext{CustomerID: &customerID})
	require.NoError(t, err)

	assert.Equal(t, "85", result.FinalPrice.String())
	require.Len(t, result.AppliedRules, 1)
	assert.Equal(t, "gold", result.AppliedRules[0].RuleName)
}

func TestCalculatePriceMembershipFailureIsNonFatal(t *testing.T) {
	f := newFixture(t, 100)
	customerID := uuid.New()
	f.members.err = errors.New("membership service down")
	svc := f.service()

	result, err := svc.CalculatePrice(context.Background(), f.productID, pricing.PriceContext{CustomerID: &customerID})
	require.NoError(t, err)
	assert.Equal(t, "100", result.FinalPrice.String())
}

func TestCalculatePriceLoyaltyFloor(t *testing.T) {
	f := newFixture(t, 5)
	customerID := uuid.New()
	account := &pricing.LoyaltyAccount{CustomerID: customerID, CurrentPoints: 10000}
	account.ID = uuid.New()
	f.loyalty.account = account
	svc := f.service()

	result, err := svc.CalculatePrice(context.Background(), f.productID, pricing.PriceContext{
		CustomerID: &customerID,
		AdditionalData: map[string]any{
			"applyLoyaltyDiscount": true,
			"loyaltyPointsToApply": float64(2000),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "0", result.FinalPrice.String())
	require.Len(t, result.AppliedRules, 1)
	assert.True(t, result.AppliedRules[0].Impact.Equal(decimal.NewFromInt(5)), "impact records the actual reduction")
}

func TestCalculatePriceRoundsOnceAtEnd(t *testing.T) {
	f := newFixture(t, 99.99)
	f.rules.rules = []*pricing.PricingRule{
		globalRule("first", 5, pricing.AdjustmentPercentage, 7),
		globalRule("second", 1, pricing.AdjustmentPercentage, 3),
	}
	svc := f.service()

	result, err := svc.CalculatePrice(context.Background(), f.productID, pricing.PriceContext{})
	require.NoError(t, err)

	// 99.99 * 0.93 * 0.97 = 90.201..., rounded once at the end
	assert.Equal(t, "90.2", result.FinalPrice.String())
	assert.Equal(t, int32(2), -result.FinalPrice.Exponent())
}

func TestCalculatePrices(t *testing.T) {
	f := newFixture(t, 50)
	svc := f.service()

	t.Run("keys by product and product:variant", func(t *testing.T) {
		variantID := f.variantID
		items := []PriceItem{
			{ProductID: f.productID},
			{ProductID: f.productID, VariantID: &variantID, Quantity: 2},
		}

		results, err := svc.CalculatePrices(context.Background(), items, pricing.PriceContext{})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Contains(t, results, f.productID.String())
		assert.Contains(t, results, f.productID.String()+":"+variantID.String())
	})

	t.Run("unknown product fails the batch", func(t *testing.T) {
		items := []PriceItem{{ProductID: uuid.New()}}
		_, err := svc.CalculatePrices(context.Background(), items, pricing.PriceContext{})
		assert.ErrorIs(t, err, shared.ErrProductNotFound)
	})
}

func TestCalculateRuleImpact(t *testing.T) {
	f := newFixture(t, 100)
	rule := globalRule("ten percent off", 1, pricing.AdjustmentPercentage, 10)
	f.rules.rules = []*pricing.PricingRule{rule}
	svc := f.service()

	t.Run("isolates the rule against the raw base price", func(t *testing.T) {
		impact, err := svc.CalculateRuleImpact(context.Background(), rule.ID, f.productID, pricing.PriceContext{})
		require.NoError(t, err)

		assert.Equal(t, "90", impact.PriceBeforeRule.String(), "full pipeline already includes the rule")
		assert.Equal(t, "90", impact.PriceAfterRule.String())
		assert.Equal(t, "10", impact.Impact.String())
		assert.Equal(t, "10", impact.PercentageImpact.String())
	})

	t.Run("unknown rule errors", func(t *testing.T) {
		_, err := svc.CalculateRuleImpact(context.Background(), uuid.New(), f.productID, pricing.PriceContext{})
		assert.ErrorIs(t, err, shared.ErrRuleNotFound)
	})
}

func TestCalculateRuleImpactZeroBasePrice(t *testing.T) {
	f := newFixture(t, 0)
	rule := globalRule("ten percent off", 1, pricing.AdjustmentPercentage, 10)
	f.rules.rules = []*pricing.PricingRule{rule}
	svc := f.service()

	impact, err := svc.CalculateRuleImpact(context.Background(), rule.ID, f.productID, pricing.PriceContext{})
	require.NoError(t, err)
	assert.True(t, impact.PercentageImpact.IsZero(), "zero base price yields zero percentage impact")
}

func TestCalculatePriceIdempotent(t *testing.T) {
	f := newFixture(t, 100)
	f.rules.rules = []*pricing.PricingRule{globalRule("steady", 1, pricing.AdjustmentPercentage, 10)}
	svc := f.service()

	ctx := pricing.PriceContext{Date: time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)}
	first, err := svc.CalculatePrice(context.Background(), f.productID, ctx)
	require.NoError(t, err)
	second, err := svc.CalculatePrice(context.Background(), f.productID, ctx)
	require.NoError(t, err)

	assert.True(t, first.FinalPrice.Equal(second.FinalPrice))
	assert.Equal(t, len(first.AppliedRules), len(second.AppliedRules))
}
