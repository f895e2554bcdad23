package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/entities"
	"github.com/andimendes/zap-desk-engine/internal/services"
	"github.com/andimendes/zap-desk-engine/pkg/api"
	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
)

type TaskController struct {
	taskService services.TaskServiceInterface
	logger      *zap.Logger
}

func NewTaskController(taskService services.TaskServiceInterface, logger *zap.Logger) *TaskController {
	return &TaskController{
		taskService: taskService,
		logger:      logger,
	}
}

func cardKindParam(ctx echo.Context) (entities.PipelineKind, error) {
	kind := entities.PipelineKind(ctx.QueryParam("card_kind"))
	if kind != entities.PipelineKindTicket && kind != entities.PipelineKindDeal {
		return "", apperrors.NewInvalidInputError("card_kind must be ticket or deal")
	}
	return kind, nil
}

func (c *TaskController) GetTasksForCard(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	kind, err := cardKindParam(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	cardID, err := paramID(ctx, "card_id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	tasks, err := c.taskService.GetTasksForCard(ctx.Request().Context(), tenantID, kind, cardID)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessList(ctx, "Tasks retrieved", tasks, uint64(len(tasks)), 1, len(tasks))
}

func (c *TaskController) CreateTask(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.CreateTaskDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	task, err := c.taskService.CreateTask(ctx.Request().Context(), tenantID, payload)
	if err != nil {
		c.logger.Error("failed to create task", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Task created", task)
}

func (c *TaskController) UpdateTask(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.UpdateTaskDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	task, err := c.taskService.UpdateTask(ctx.Request().Context(), tenantID, id, payload)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Task updated", task)
}

func (c *TaskController) DeleteTask(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	if err := c.taskService.DeleteTask(ctx.Request().Context(), tenantID, id); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Task deleted", nil)
}
