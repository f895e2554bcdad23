package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/andimendes/zap-desk-engine/internal/controllers"
	"github.com/andimendes/zap-desk-engine/pkg/constants"
	"github.com/andimendes/zap-desk-engine/pkg/middleware"
)

func runQuotationRouter(g *echo.Group, ctrl *controllers.QuotationController, authMW *middleware.AuthMiddleware) {
	quotations := g.Group("/quotations", authMW.RequireModule(constants.ModuleQuotations))

	quotations.POST("/deal/:deal_id", ctrl.CreateForDeal)
	quotations.GET("/deal/:deal_id", ctrl.GetByDeal)
	quotations.POST("/:id/items", ctrl.AddItem)
	quotations.DELETE("/:id/items/:item_id", ctrl.RemoveItem)
	quotations.POST("/:id/send", ctrl.MarkSent)
	quotations.POST("/:id/approve", ctrl.Approve)
	quotations.POST("/:id/reject", ctrl.Reject)
}
