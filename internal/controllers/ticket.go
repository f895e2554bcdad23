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

type TicketController struct {
	ticketService services.TicketServiceInterface
	logger        *zap.Logger
}

func NewTicketController(ticketService services.TicketServiceInterface, logger *zap.Logger) *TicketController {
	return &TicketController{
		ticketService: ticketService,
		logger:        logger,
	}
}

func (c *TicketController) GetTickets(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())

	tickets, total, err := c.ticketService.GetTickets(ctx.Request().Context(), tenantID, filter)
	if err != nil {
		c.logger.Error("failed to list tickets", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessList(ctx, "Tickets retrieved", tickets, total, filter.Page, filter.Limit)
}

func (c *TicketController) FindTicket(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	ticket, err := c.ticketService.FindTicket(ctx.Request().Context(), tenantID, id)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Ticket retrieved", ticket)
}

func (c *TicketController) CreateTicket(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.CreateTicketDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	ticket, err := c.ticketService.CreateTicket(ctx.Request().Context(), tenantID, payload)
	if err != nil {
		c.logger.Error("failed to create ticket", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Ticket created", ticket)
}

func (c *TicketController) UpdateTicket(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.UpdateTicketDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	ticket, err := c.ticketService.UpdateTicket(ctx.Request().Context(), tenantID, id, payload)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Ticket updated", ticket)
}

func (c *TicketController) DeleteTicket(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	if err := c.ticketService.DeleteTicket(ctx.Request().Context(), tenantID, id); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Ticket deleted", nil)
}
