package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/services"
	"github.com/andimendes/zap-desk-engine/pkg/api"
	"github.com/andimendes/zap-desk-engine/pkg/utils"
)

type DealController struct {
	dealService services.DealServiceInterface
	logger      *zap.Logger
}

func NewDealController(dealService services.DealServiceInterface, logger *zap.Logger) *DealController {
	return &DealController{
		dealService: dealService,
		logger:      logger,
	}
}

func (c *DealController) GetDeals(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())

	deals, total, err := c.dealService.GetDeals(ctx.Request().Context(), tenantID, filter)
	if err != nil {
		c.logger.Error("failed to list deals", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessList(ctx, "Deals retrieved", deals, total, filter.Page, filter.Limit)
}

func (c *DealController) FindDeal(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	deal, err := c.dealService.FindDeal(ctx.Request().Context(), tenantID, id)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Deal retrieved", deal)
}

func (c *DealController) CreateDeal(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.CreateDealDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	deal, err := c.dealService.CreateDeal(ctx.Request().Context(), tenantID, payload)
	if err != nil {
		c.logger.Error("failed to create deal", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Deal created", deal)
}

func (c *DealController) UpdateDeal(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.UpdateDealDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	deal, err := c.dealService.UpdateDeal(ctx.Request().Context(), tenantID, id, payload)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Deal updated", deal)
}

func (c *DealController) DeleteDeal(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	if err := c.dealService.DeleteDeal(ctx.Request().Context(), tenantID, id); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Deal deleted", nil)
}
