package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/andimendes/zap-desk-engine/internal/controllers"
	"github.com/andimendes/zap-desk-engine/pkg/constants"
	"github.com/andimendes/zap-desk-engine/pkg/middleware"
)

func runBoardRouter(g *echo.Group, ctrl *controllers.BoardController, authMW *middleware.AuthMiddleware) {
	boards := g.Group("/boards", authMW.RequireModule(constants.ModulePipelines))

	boards.GET("/:pipeline_id", ctrl.GetBoard)
	boards.POST("/:pipeline_id/transitions", ctrl.RequestTransition)
}
