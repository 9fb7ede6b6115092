package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apppricing "github.com/ecomm/backend/internal/application/pricing"
	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/ecomm/backend/internal/domain/shared"
	"github.com/ecomm/backend/internal/domain/shared/valueobject"
	"github.com/ecomm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// mockPriceCalculator is a mock implementation of PriceCalculator
type mockPriceCalculator struct {
	result  *pricing.Result
	results map[string]*pricing.Result
	impact  *pricing.RuleImpact
	err     error

	lastProductID uuid.UUID
	lastRuleID    uuid.UUID
	lastContext   pricing.PriceContext
	lastItems     []apppricing.PriceItem
}

func (m *mockPriceCalculator) CalculatePrice(ctx context.Context, productID uuid.UUID, pctx pricing.PriceContext) (*pricing.Result, error) {
	m.lastProductID = productID
	m.lastContext = pctx
	return m.result, m.err
}

func (m *mockPriceCalculator) CalculatePrices(ctx context.Context, items []apppricing.PriceItem, pctx pricing.PriceContext) (map[string]*pricing.Result, error) {
	m.lastItems = items
	m.lastContext = pctx
	return m.results, m.err
}

func (m *mockPriceCalculator) CalculateRuleImpact(ctx context.Context, ruleID, productID uuid.UUID, pctx pricing.PriceContext) (*pricing.RuleImpact, error) {
	m.lastRuleID = ruleID
	m.lastProductID = productID
	m.lastContext = pctx
	return m.impact, m.err
}

func newPricingRouter(calc PriceCalculator, maxBatchItems int) *gin.Engine {
	h := NewPricingHandler(calc, maxBatchItems, nil)
	router := gin.New()
	group := router.Group("")
	h.RegisterRoutes(group)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestPricingHandler_Calculate(t *testing.T) {
	productID := uuid.New()

	t.Run("returns the calculated price", func(t *testing.T) {
		calc := &mockPriceCalculator{
			result: &pricing.Result{
				OriginalPrice: decimal.NewFromInt(100),
				FinalPrice:    decimal.NewFromInt(80),
				Currency:      valueobject.USD,
				AppliedRules: []pricing.AppliedRule{
					{RuleID: uuid.New().String(), RuleName: "Summer sale"},
				},
			},
		}
		router := newPricingRouter(calc, 100)

		w := postJSON(t, router, "/pricing/calculate", gin.H{
			"product_id": productID,
			"quantity":   3,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, productID, calc.lastProductID)
		assert.Equal(t, 3, calc.lastContext.Quantity)

		var resp struct {
			Success bool           `json:"success"`
			Data    pricing.Result `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.True(t, resp.Data.FinalPrice.Equal(decimal.NewFromInt(80)))
		assert.Len(t, resp.Data.AppliedRules, 1)
	})

	t.Run("additional data reaches the calculation context", func(t *testing.T) {
		calc := &mockPriceCalculator{result: &pricing.Result{Currency: valueobject.USD}}
		router := newPricingRouter(calc, 100)

		w := postJSON(t, router, "/pricing/calculate", gin.H{
			"product_id": productID,
			"additional_data": gin.H{
				"applyLoyaltyDiscount": true,
				"loyaltyPointsToApply": 250,
				"pointsToMoneyRatio":   0.02,
				"customerAttributes":   gin.H{"segment": "wholesale"},
			},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, calc.lastContext.ApplyLoyaltyDiscount())
		assert.Equal(t, int64(250), calc.lastContext.LoyaltyPointsToApply())
		assert.True(t, calc.lastContext.PointsToMoneyRatio().Equal(decimal.NewFromFloat(0.02)))
		assert.Equal(t, "wholesale", calc.lastContext.CustomerAttributes()["segment"])
	})

	t.Run("missing product_id fails validation", func(t *testing.T) {
		router := newPricingRouter(&mockPriceCalculator{}, 100)

		w := postJSON(t, router, "/pricing/calculate", gin.H{"quantity": 2})

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
	})

	t.Run("unknown product maps to 404", func(t *testing.T) {
		calc := &mockPriceCalculator{err: shared.ErrProductNotFound}
		router := newPricingRouter(calc, 100)

		w := postJSON(t, router, "/pricing/calculate", gin.H{"product_id": productID})

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("unexpected errors are not leaked", func(t *testing.T) {
		calc := &mockPriceCalculator{err: fmt.Errorf("pq: connection refused")}
		router := newPricingRouter(calc, 100)

		w := postJSON(t, router, "/pricing/calculate", gin.H{"product_id": productID})

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, "connection refused")
	})
}

func TestPricingHandler_CalculateBatch(t *testing.T) {
	t.Run("returns keyed results", func(t *testing.T) {
		first := uuid.New()
		second := uuid.New()
		calc := &mockPriceCalculator{
			results: map[string]*pricing.Result{
				first.String():  {FinalPrice: decimal.NewFromInt(10), Currency: valueobject.USD},
				second.String(): {FinalPrice: decimal.NewFromInt(20), Currency: valueobject.USD},
			},
		}
		router := newPricingRouter(calc, 100)

		w := postJSON(t, router, "/pricing/calculate-batch", gin.H{
			"items": []gin.H{
				{"product_id": first, "quantity": 1},
				{"product_id": second, "quantity": 5},
			},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, calc.lastItems, 2)
		assert.Equal(t, 5, calc.lastItems[1].Quantity)

		var resp struct {
			Success bool                      `json:"success"`
			Data    map[string]pricing.Result `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 2)
	})

	t.Run("rejects oversized batches", func(t *testing.T) {
		calc := &mockPriceCalculator{}
		router := newPricingRouter(calc, 2)

		items := make([]gin.H, 3)
		for i := range items {
			items[i] = gin.H{"product_id": uuid.New()}
		}
		w := postJSON(t, router, "/pricing/calculate-batch", gin.H{"items": items})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, calc.lastItems, "calculator must not run for rejected batches")

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidationRange, resp.Error.Code)
	})

	t.Run("empty item list fails validation", func(t *testing.T) {
		router := newPricingRouter(&mockPriceCalculator{}, 100)

		w := postJSON(t, router, "/pricing/calculate-batch", gin.H{"items": []gin.H{}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPricingHandler_RuleImpact(t *testing.T) {
	ruleID := uuid.New()
	productID := uuid.New()

	t.Run("returns the impact preview", func(t *testing.T) {
		calc := &mockPriceCalculator{
			impact: &pricing.RuleImpact{
				PriceBeforeRule:  decimal.NewFromInt(90),
				PriceAfterRule:   decimal.NewFromInt(85),
				Impact:           decimal.NewFromInt(15),
				PercentageImpact: decimal.NewFromInt(15),
				Currency:         valueobject.USD,
			},
		}
		router := newPricingRouter(calc, 100)

		w := postJSON(t, router, "/pricing/rules/"+ruleID.String()+"/impact", gin.H{
			"product_id": productID,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, ruleID, calc.lastRuleID)
		assert.Equal(t, productID, calc.lastProductID)

		var resp struct {
			Success bool               `json:"success"`
			Data    pricing.RuleImpact `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Data.Impact.Equal(decimal.NewFromInt(15)))
	})

	t.Run("cart total and additional data reach the before-price context", func(t *testing.T) {
		calc := &mockPriceCalculator{impact: &pricing.RuleImpact{Currency: valueobject.USD}}
		router := newPricingRouter(calc, 100)

		w := postJSON(t, router, "/pricing/rules/"+ruleID.String()+"/impact", gin.H{
			"product_id": productID,
			"cart_total": 150.0,
			"additional_data": gin.H{
				"applyLoyaltyDiscount": true,
			},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, calc.lastContext.CartTotal.Equal(decimal.NewFromInt(150)))
		assert.True(t, calc.lastContext.ApplyLoyaltyDiscount())
	})

	t.Run("malformed rule ID is a bad request", func(t *testing.T) {
		router := newPricingRouter(&mockPriceCalculator{}, 100)

		w := postJSON(t, router, "/pricing/rules/not-a-uuid/impact", gin.H{
			"product_id": productID,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown rule maps to 404", func(t *testing.T) {
		calc := &mockPriceCalculator{err: shared.ErrRuleNotFound}
		router := newPricingRouter(calc, 100)

		w := postJSON(t, router, "/pricing/rules/"+ruleID.String()+"/impact", gin.H{
			"product_id": productID,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
