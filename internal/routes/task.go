package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/andimendes/zap-desk-engine/internal/controllers"
	"github.com/andimendes/zap-desk-engine/pkg/constants"
	"github.com/andimendes/zap-desk-engine/pkg/middleware"
)

func runTaskRouter(g *echo.Group, ctrl *controllers.TaskController, authMW *middleware.AuthMiddleware) {
	tasks := g.Group("/tasks", authMW.RequireModule(constants.ModuleTasks))

	tasks.GET("/card/:card_id", ctrl.GetTasksForCard)
	tasks.POST("", ctrl.CreateTask)
	tasks.PUT("/:id", ctrl.UpdateTask)
	tasks.DELETE("/:id", ctrl.DeleteTask)
}
