package pricing

import (
	"context"
	"fmt"

	"github.com/ecomm/backend/internal/domain/catalog"
	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/ecomm/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service is the pricing orchestrator. It resolves the base price from the
// catalog and pipes it through the price layers in a fixed order: tier
// override, customer price list, promotional rules, membership discount,
// loyalty redemption. Each layer consumes the price produced by the
// previous one and contributes an audit entry when it changes the price.
type Service struct {
	products       catalog.ProductRepository
	tiers          pricing.TierPriceRepository
	customerPrices pricing.CustomerPriceRepository
	rules          pricing.PricingRuleRepository
	engine         *pricing.RuleEngine
	benefits       *pricing.BenefitStacker
	logger         *zap.Logger
}

// NewService creates the pricing orchestrator
func NewService(
	products catalog.ProductRepository,
	tiers pricing.TierPriceRepository,
	customerPrices pricing.CustomerPriceRepository,
	rules pricing.PricingRuleRepository,
	engine *pricing.RuleEngine,
	benefits *pricing.BenefitStacker,
	logger *zap.Logger,
) *Service {
	if engine == nil {
		engine = pricing.NewRuleEngine(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		products:       products,
		tiers:          tiers,
		customerPrices: customerPrices,
		rules:          rules,
		engine:         engine,
		benefits:       benefits,
		logger:         logger,
	}
}

// CalculatePrice computes the final price of one product for the given
// request context. The calculation is read-only; loyalty redemption is a
// preview and points are debited elsewhere.
func (s *Service) CalculatePrice(ctx context.Context, productID uuid.UUID, pctx pricing.PriceContext) (*pricing.Result, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "pricing", "calculate",
		telemetry.WithAttribute(telemetry.SpanAttrProductID, productID),
		telemetry.WithAttribute(telemetry.SpanAttrQuantity, pctx.Quantity),
	)
	defer span.End()

	pctx = pctx.Normalized()

	product, variant, err := s.resolveProductVariant(ctx, productID, pctx.VariantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	variantID := variant.ID
	pctx = pctx.WithItem(productID, &variantID)

	original := variant.EffectivePrice()
	current := original
	applied := make([]pricing.AppliedRule, 0, 4)

	// Quantity tier override
	if pctx.Quantity > 1 {
		current, applied, err = s.applyTier(ctx, productID, &variantID, pctx, current, applied)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	// Negotiated customer price
	if pctx.CustomerID != nil {
		current, applied, err = s.applyCustomerPrice(ctx, productID, &variantID, pctx, current, applied)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	// Promotional rules
	current, applied, err = s.applyRules(ctx, product, pctx, current, applied)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	// Benefits, best effort
	if s.benefits != nil {
		if next, entry := s.benefits.ApplyMembershipDiscount(ctx, pctx.CustomerID, current); entry != nil {
			current = next
			applied = append(applied, *entry)
		}
		if next, entry := s.benefits.ApplyLoyaltyRedemption(ctx, pctx, current); entry != nil {
			current = next
			applied = append(applied, *entry)
		}
	}

	if current.IsNegative() {
		current = decimal.Zero
	}

	result := &pricing.Result{
		OriginalPrice: original,
		FinalPrice:    current.Round(2),
		Currency:      product.CurrencyCode,
		AppliedRules:  applied,
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrFinalPrice, result.FinalPrice.String(),
		"applied_rules", len(applied),
	)
	return result, nil
}

// CalculatePrices runs CalculatePrice for each item, keyed by product ID or
// "productId:variantId". Items are independent; a failing item fails the
// whole batch so callers never act on a partial cart.
func (s *Service) CalculatePrices(ctx context.Context, items []PriceItem, pctx pricing.PriceContext) (map[string]*pricing.Result, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "pricing", "calculate_batch",
		telemetry.WithAttribute(telemetry.SpanAttrItemCount, len(items)),
	)
	defer span.End()

	results := make(map[string]*pricing.Result, len(items))
	for _, item := range items {
		itemCtx := pctx
		itemCtx.VariantID = item.VariantID
		itemCtx.Quantity = item.Quantity
		if itemCtx.Quantity < 1 {
			itemCtx.Quantity = 1
		}

		result, err := s.CalculatePrice(ctx, item.ProductID, itemCtx)
		if err != nil {
			err = fmt.Errorf("pricing item %s: %w", item.Key(), err)
			telemetry.RecordError(span, err)
			return nil, err
		}
		results[item.Key()] = result
	}
	return results, nil
}

// CalculateRuleImpact previews what a single rule does to a product's base
// price. The before price runs the full pipeline; the after price applies
// only the named rule's adjustments to the raw original price, bypassing
// every other layer.
func (s *Service) CalculateRuleImpact(ctx context.Context, ruleID, productID uuid.UUID, pctx pricing.PriceContext) (*pricing.RuleImpact, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "pricing", "rule_impact",
		telemetry.WithAttribute(telemetry.SpanAttrRuleID, ruleID),
		telemetry.WithAttribute(telemetry.SpanAttrProductID, productID),
	)
	defer span.End()

	rule, err := s.rules.FindByID(ctx, ruleID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	full, err := s.CalculatePrice(ctx, productID, pctx)
	if err != nil {
		return nil, err
	}

	original := full.OriginalPrice
	after := s.engine.ApplyAdjustments(rule, original)
	if after.IsNegative() {
		after = decimal.Zero
	}
	after = after.Round(2)

	impact := original.Sub(after)
	pctImpact := decimal.Zero
	if !original.IsZero() {
		pctImpact = impact.Div(original).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &pricing.RuleImpact{
		PriceBeforeRule:  full.FinalPrice,
		PriceAfterRule:   after,
		Impact:           impact,
		PercentageImpact: pctImpact,
		Currency:         full.Currency,
	}, nil
}

func (s *Service) resolveProductVariant(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*catalog.Product, *catalog.Variant, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	var variant *catalog.Variant
	if variantID != nil {
		variant, err = s.products.FindVariant(ctx, *variantID)
	} else {
		variant, err = s.products.FindDefaultVariant(ctx, productID)
	}
	if err != nil {
		return nil, nil, err
	}
	return product, variant, nil
}

func (s *Service) applyTier(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, pctx pricing.PriceContext, current decimal.Decimal, applied []pricing.AppliedRule) (decimal.Decimal, []pricing.AppliedRule, error) {
	tier, err := s.tiers.FindApplicableTier(ctx, productID, pctx.Quantity, variantID, pctx.PrimaryGroupID(), pctx.Date)
	if err != nil {
		return current, applied, fmt.Errorf("tier lookup: %w", err)
	}
	if tier == nil || tier.Price.Equal(current) {
		return current, applied, nil
	}

	before := current
	current = tier.Price
	applied = append(applied, pricing.AppliedRule{
		RuleID:          "tier:" + tier.ID.String(),
		RuleName:        fmt.Sprintf("Tier price (min qty %d)", tier.QuantityMin),
		AdjustmentType:  pricing.AdjustmentOverride,
		AdjustmentValue: tier.Price,
		Impact:          before.Sub(current),
	})
	return current, applied, nil
}

func (s *Service) applyCustomerPrice(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, pctx pricing.PriceContext, current decimal.Decimal, applied []pricing.AppliedRule) (decimal.Decimal, []pricing.AppliedRule, error) {
	lists, err := s.customerPrices.FindPriceListsForCustomer(ctx, *pctx.CustomerID, pctx.CustomerGroupIDs, pctx.Date)
	if err != nil {
		return current, applied, fmt.Errorf("price list lookup: %w", err)
	}
	if len(lists) == 0 {
		return current, applied, nil
	}

	pricing.SortPriceListsByPriority(lists)
	listIDs := make([]uuid.UUID, len(lists))
	for i, l := range lists {
		listIDs[i] = l.ID
	}

	prices, err := s.customerPrices.FindPricesForProduct(ctx, productID, variantID, listIDs)
	if err != nil {
		return current, applied, fmt.Errorf("customer price lookup: %w", err)
	}

	entry := pricing.FirstPriceForLists(prices, listIDs)
	if entry == nil {
		return current, applied, nil
	}

	before := current
	current = entry.Adjustment().Apply(current)
	if current.Equal(before) {
		return current, applied, nil
	}

	listName := ""
	for _, l := range lists {
		if l.ID == entry.PriceListID {
			listName = l.Name
			break
		}
	}
	if listName == "" {
		listName = "Customer price"
	}
	applied = append(applied, pricing.AppliedRule{
		RuleID:          "customer-price:" + entry.ID.String(),
		RuleName:        listName,
		AdjustmentType:  entry.AdjustmentType,
		AdjustmentValue: entry.AdjustmentValue,
		Impact:          before.Sub(current),
	})
	return current, applied, nil
}

func (s *Service) applyRules(ctx context.Context, product *catalog.Product, pctx pricing.PriceContext, current decimal.Decimal, applied []pricing.AppliedRule) (decimal.Decimal, []pricing.AppliedRule, error) {
	candidates, err := s.rules.FindActiveRules(ctx, product.ID, product.CategoryID, pctx.CustomerID, pctx.CustomerGroupIDs, pctx.Date)
	if err != nil {
		return current, applied, fmt.Errorf("rule lookup: %w", err)
	}

	next, entries := s.engine.Apply(candidates, current, pctx)
	return next, append(applied, entries...), nil
}
