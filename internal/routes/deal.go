package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/andimendes/zap-desk-engine/internal/controllers"
	"github.com/andimendes/zap-desk-engine/pkg/constants"
	"github.com/andimendes/zap-desk-engine/pkg/middleware"
)

func runDealRouter(g *echo.Group, ctrl *controllers.DealController, authMW *middleware.AuthMiddleware) {
	deals := g.Group("/deals", authMW.RequireModule(constants.ModuleDeals))

	deals.GET("", ctrl.GetDeals)
	deals.GET("/:id", ctrl.FindDeal)
	deals.POST("", ctrl.CreateDeal)
	deals.PUT("/:id", ctrl.UpdateDeal)
	deals.DELETE("/:id", ctrl.DeleteDeal)
}
