package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceContextNormalized(t *testing.T) {
	t.Run("defaults quantity and date", func(t *testing.T) {
		got := PriceContext{}.Normalized()
		assert.Equal(t, 1, got.Quantity)
		assert.WithinDuration(t, time.Now(), got.Date, time.Second)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		got := PriceContext{Quantity: 7, Date: date}.Normalized()
		assert.Equal(t, 7, got.Quantity)
		assert.Equal(t, date, got.Date)
	})

	t.Run("floors zero and negative quantity", func(t *testing.T) {
		assert.Equal(t, 1, PriceContext{Quantity: -3}.Normalized().Quantity)
	})
}

func TestPriceContextPrimaryGroupID(t *testing.T) {
	assert.Nil(t, PriceContext{}.PrimaryGroupID())

	first := uuid.New()
	got := PriceContext{CustomerGroupIDs: []uuid.UUID{first, uuid.New()}}.PrimaryGroupID()
	require.NotNil(t, got)
	assert.Equal(t, first, *got)
}

func TestPriceContextLoyaltyFields(t *testing.T) {
	t.Run("opt-in accepts bool and string forms", func(t *testing.T) {
		for _, v := range []any{true, "true", "1", float64(1)} {
			ctx := PriceContext{AdditionalData: map[string]any{DataKeyApplyLoyaltyDiscount: v}}
			assert.True(t, ctx.ApplyLoyaltyDiscount(), "value %v", v)
		}
		for _, v := range []any{false, "false", float64(0), nil, "yes please"} {
			ctx := PriceContext{AdditionalData: map[string]any{DataKeyApplyLoyaltyDiscount: v}}
			assert.False(t, ctx.ApplyLoyaltyDiscount(), "value %v", v)
		}
	})

	t.Run("points to apply parses numeric forms", func(t *testing.T) {
		for _, v := range []any{1000, int64(1000), float64(1000), "1000"} {
			ctx := PriceContext{AdditionalData: map[string]any{DataKeyLoyaltyPointsToApply: v}}
			assert.Equal(t, int64(1000), ctx.LoyaltyPointsToApply(), "value %v", v)
		}
		assert.Zero(t, PriceContext{}.LoyaltyPointsToApply())
	})

	t.Run("ratio falls back to default", func(t *testing.T) {
		assert.True(t, PriceContext{}.PointsToMoneyRatio().Equal(DefaultPointsToMoneyRatio))

		ctx := PriceContext{AdditionalData: map[string]any{DataKeyPointsToMoneyRatio: 0.05}}
		assert.True(t, ctx.PointsToMoneyRatio().Equal(decimal.NewFromFloat(0.05)))
	})
}

func TestPriceContextCustomerAttributes(t *testing.T) {
	t.Run("stringifies mixed values", func(t *testing.T) {
		ctx := PriceContext{AdditionalData: map[string]any{
			DataKeyCustomerAttributes: map[string]any{"tier": "gold", "orders": 12},
		}}
		attrs := ctx.CustomerAttributes()
		assert.Equal(t, "gold", attrs["tier"])
		assert.Equal(t, "12", attrs["orders"])
	})

	t.Run("nil when absent or wrong shape", func(t *testing.T) {
		assert.Nil(t, PriceContext{}.CustomerAttributes())

		ctx := PriceContext{AdditionalData: map[string]any{DataKeyCustomerAttributes: "gold"}}
		assert.Nil(t, ctx.CustomerAttributes())
	})
}
