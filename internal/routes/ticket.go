package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/andimendes/zap-desk-engine/internal/controllers"
	"github.com/andimendes/zap-desk-engine/pkg/constants"
	"github.com/andimendes/zap-desk-engine/pkg/middleware"
)

func runTicketRouter(g *echo.Group, ctrl *controllers.TicketController, authMW *middleware.AuthMiddleware) {
	tickets := g.Group("/tickets", authMW.RequireModule(constants.ModuleTickets))

	tickets.GET("", ctrl.GetTickets)
	tickets.GET("/:id", ctrl.FindTicket)
	tickets.POST("", ctrl.CreateTicket)
	tickets.PUT("/:id", ctrl.UpdateTicket)
	tickets.DELETE("/:id", ctrl.DeleteTicket)
}
