package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/andimendes/zap-desk-engine/internal/controllers"
	"github.com/andimendes/zap-desk-engine/pkg/constants"
	"github.com/andimendes/zap-desk-engine/pkg/middleware"
)

func runPipelineRouter(g *echo.Group, ctrl *controllers.PipelineController, authMW *middleware.AuthMiddleware) {
	pipelines := g.Group("/pipelines", authMW.RequireModule(constants.ModulePipelines))

	pipelines.GET("", ctrl.GetPipelines)
	pipelines.GET("/:id", ctrl.GetPipeline)
	pipelines.POST("", ctrl.CreatePipeline)
	pipelines.DELETE("/:id", ctrl.DeletePipeline)

	pipelines.POST("/:id/stages", ctrl.CreateStage)
	pipelines.PUT("/stages/:stage_id", ctrl.UpdateStage)
	pipelines.DELETE("/stages/:stage_id", ctrl.DeleteStage)
}
