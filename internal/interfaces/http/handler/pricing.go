package handler

import (
	"context"
	"fmt"

	apppricing "github.com/ecomm/backend/internal/application/pricing"
	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/ecomm/backend/internal/interfaces/http/dto"
	"github.com/ecomm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PriceCalculator is the application service surface the HTTP layer needs
type PriceCalculator interface {
	CalculatePrice(ctx context.Context, productID uuid.UUID, pctx pricing.PriceContext) (*pricing.Result, error)
	CalculatePrices(ctx context.Context, items []apppricing.PriceItem, pctx pricing.PriceContext) (map[string]*pricing.Result, error)
	CalculateRuleImpact(ctx context.Context, ruleID, productID uuid.UUID, pctx pricing.PriceContext) (*pricing.RuleImpact, error)
}

var _ PriceCalculator = (*apppricing.Service)(nil)

// PricingHandler exposes the price calculation endpoints
type PricingHandler struct {
	BaseHandler
	calculator    PriceCalculator
	maxBatchItems int
	logger        *zap.Logger
}

// NewPricingHandler creates a pricing handler
func NewPricingHandler(calculator PriceCalculator, maxBatchItems int, logger *zap.Logger) *PricingHandler {
	if maxBatchItems <= 0 {
		maxBatchItems = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingHandler{
		calculator:    calculator,
		maxBatchItems: maxBatchItems,
		logger:        logger,
	}
}

// RegisterRoutes registers pricing routes
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/pricing")
	{
		group.POST("/calculate", h.Calculate)
		group.POST("/calculate-batch", h.CalculateBatch)
		group.POST("/rules/:id/impact", h.RuleImpact)
	}
}

// Calculate computes the final price of a single product
// @Summary Calculate product price
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body CalculatePriceRequest true "Price calculation request"
// @Success 200 {object} dto.Response
// @Router /pricing/calculate [post]
func (h *PricingHandler) Calculate(c *gin.Context) {
	var req CalculatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.calculator.CalculatePrice(c.Request.Context(), req.ProductID, req.toPriceContext())
	if err != nil {
		h.logger.Warn("price calculation failed",
			zap.String("product_id", req.ProductID.String()),
			zap.Error(err))
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CalculateBatch computes prices for multiple products in one call
// @Summary Calculate prices for a batch of products
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body CalculateBatchRequest true "Batch calculation request"
// @Success 200 {object} dto.Response
// @Router /pricing/calculate-batch [post]
func (h *PricingHandler) CalculateBatch(c *gin.Context) {
	var req CalculateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if len(req.Items) > h.maxBatchItems {
		h.ErrorWithStatus(c, dto.GetHTTPStatus(dto.ErrCodeValidationRange), dto.ErrCodeValidationRange,
			fmt.Sprintf("Batch size %d exceeds the maximum of %d items", len(req.Items), h.maxBatchItems))
		return
	}

	results, err := h.calculator.CalculatePrices(c.Request.Context(), req.toItems(), req.toPriceContext())
	if err != nil {
		h.logger.Warn("batch price calculation failed",
			zap.Int("item_count", len(req.Items)),
			zap.Error(err))
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// RuleImpact previews the effect of one pricing rule on a product
// @Summary Preview the impact of a pricing rule
// @Tags pricing
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param request body RuleImpactRequest true "Impact preview request"
// @Success 200 {object} dto.Response
// @Router /pricing/rules/{id}/impact [post]
func (h *PricingHandler) RuleImpact(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}
	ruleID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	var req RuleImpactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	impact, err := h.calculator.CalculateRuleImpact(c.Request.Context(), ruleID, req.ProductID, req.toPriceContext())
	if err != nil {
		h.logger.Warn("rule impact preview failed",
			zap.String("rule_id", ruleID.String()),
			zap.String("product_id", req.ProductID.String()),
			zap.Error(err))
		h.HandleError(c, err)
		return
	}
	h.Success(c, impact)
}
