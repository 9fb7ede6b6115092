package basket

import (
	"context"

	appricing "github.com/ecomm/backend/internal/application/pricing"
	"github.com/ecomm/backend/internal/domain/basket"
	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PriceCalculator is the slice of the pricing service the decorator needs
type PriceCalculator interface {
	CalculatePrices(ctx context.Context, items []appricing.PriceItem, pctx pricing.PriceContext) (map[string]*pricing.Result, error)
}

// PricingAwareRepository wraps a plain basket repository and reprices the
// basket on every save, so persisted unit prices and the subtotal always
// reflect current pricing. Composed explicitly at construction time.
type PricingAwareRepository struct {
	inner  basket.Repository
	pricer PriceCalculator
	logger *zap.Logger
}

var _ basket.Repository = (*PricingAwareRepository)(nil)

// NewPricingAwareRepository decorates the given repository with repricing
func NewPricingAwareRepository(inner basket.Repository, pricer PriceCalculator, logger *zap.Logger) *PricingAwareRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingAwareRepository{inner: inner, pricer: pricer, logger: logger}
}

// FindByID delegates to the wrapped repository
func (r *PricingAwareRepository) FindByID(ctx context.Context, id uuid.UUID) (*basket.Basket, error) {
	return r.inner.FindByID(ctx, id)
}

// Save reprices the basket's items and refreshes the subtotal before
// persisting. Pricing failures are logged and the basket is saved with its
// last known prices rather than blocking the mutation.
func (r *PricingAwareRepository) Save(ctx context.Context, b *basket.Basket) error {
	r.reprice(ctx, b)
	return r.inner.Save(ctx, b)
}

// Delete delegates to the wrapped repository
func (r *PricingAwareRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.inner.Delete(ctx, id)
}

func (r *PricingAwareRepository) reprice(ctx context.Context, b *basket.Basket) {
	if r.pricer == nil || len(b.Items) == 0 {
		b.RecalculateSubtotal()
		return
	}

	items := make([]appricing.PriceItem, len(b.Items))
	for i, line := range b.Items {
		items[i] = appricing.PriceItem{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
		}
	}

	results, err := r.pricer.CalculatePrices(ctx, items, pricing.PriceContext{
		CustomerID: b.CustomerID,
		CartTotal:  b.Subtotal,
	})
	if err != nil {
		r.logger.Warn("basket repricing failed, keeping last known prices",
			zap.String("basket_id", b.ID.String()),
			zap.Error(err))
		b.RecalculateSubtotal()
		return
	}

	for i := range b.Items {
		if result, ok := results[items[i].Key()]; ok {
			b.Items[i].UnitPrice = result.FinalPrice
		}
	}
	b.RecalculateSubtotal()
}
