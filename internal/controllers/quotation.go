package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/services"
	"github.com/andimendes/zap-desk-engine/pkg/api"
)

type QuotationController struct {
	quotationService services.QuotationServiceInterface
	logger           *zap.Logger
}

func NewQuotationController(quotationService services.QuotationServiceInterface, logger *zap.Logger) *QuotationController {
	return &QuotationController{
		quotationService: quotationService,
		logger:           logger,
	}
}

func (c *QuotationController) CreateForDeal(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	dealID, err := paramID(ctx, "deal_id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	quotation, err := c.quotationService.CreateForDeal(ctx.Request().Context(), tenantID, dealID)
	if err != nil {
		c.logger.Error("failed to create quotation", zap.Int64("deal_id", dealID), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Quotation created", quotation)
}

func (c *QuotationController) GetByDeal(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	dealID, err := paramID(ctx, "deal_id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	quotation, err := c.quotationService.GetByDeal(ctx.Request().Context(), tenantID, dealID)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Quotation retrieved", quotation)
}

func (c *QuotationController) AddItem(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	quotationID, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.AddLineItemDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	quotation, err := c.quotationService.AddItem(ctx.Request().Context(), tenantID, quotationID, payload)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Line item added", quotation)
}

func (c *QuotationController) RemoveItem(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	quotationID, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	itemID, err := paramID(ctx, "item_id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	quotation, err := c.quotationService.RemoveItem(ctx.Request().Context(), tenantID, quotationID, itemID)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Line item removed", quotation)
}

func (c *QuotationController) MarkSent(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	quotationID, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	quotation, err := c.quotationService.MarkSent(ctx.Request().Context(), tenantID, quotationID)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Quotation sent", quotation)
}

func (c *QuotationController) Approve(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	quotationID, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	quotation, err := c.quotationService.Approve(ctx.Request().Context(), tenantID, quotationID)
	if err != nil {
		c.logger.Warn("quotation approval rejected", zap.Int64("quotation_id", quotationID), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Quotation approved", quotation)
}

func (c *QuotationController) Reject(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	quotationID, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	quotation, err := c.quotationService.Reject(ctx.Request().Context(), tenantID, quotationID)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Quotation rejected", quotation)
}
