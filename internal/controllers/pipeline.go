package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/services"
	"github.com/andimendes/zap-desk-engine/pkg/api"
)

type PipelineController struct {
	pipelineService services.PipelineServiceInterface
	logger          *zap.Logger
}

func NewPipelineController(pipelineService services.PipelineServiceInterface, logger *zap.Logger) *PipelineController {
	return &PipelineController{
		pipelineService: pipelineService,
		logger:          logger,
	}
}

func (c *PipelineController) GetPipelines(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	pipelines, err := c.pipelineService.GetPipelines(ctx.Request().Context(), tenantID)
	if err != nil {
		c.logger.Error("failed to list pipelines", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessList(ctx, "Pipelines retrieved", pipelines, uint64(len(pipelines)), 1, len(pipelines))
}

func (c *PipelineController) GetPipeline(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	pipeline, err := c.pipelineService.GetPipeline(ctx.Request().Context(), tenantID, id)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Pipeline retrieved", pipeline)
}

func (c *PipelineController) CreatePipeline(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.CreatePipelineDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	pipeline, err := c.pipelineService.CreatePipeline(ctx.Request().Context(), tenantID, payload)
	if err != nil {
		c.logger.Error("failed to create pipeline", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Pipeline created", pipeline)
}

func (c *PipelineController) CreateStage(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	pipelineID, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.CreateStageDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	stage, err := c.pipelineService.CreateStage(ctx.Request().Context(), tenantID, pipelineID, payload)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Stage created", stage)
}

func (c *PipelineController) UpdateStage(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	stageID, err := paramID(ctx, "stage_id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.UpdateStageDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	stage, err := c.pipelineService.UpdateStage(ctx.Request().Context(), tenantID, stageID, payload)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Stage updated", stage)
}

func (c *PipelineController) DeleteStage(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	stageID, err := paramID(ctx, "stage_id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	if err := c.pipelineService.DeleteStage(ctx.Request().Context(), tenantID, stageID); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Stage deleted", nil)
}

func (c *PipelineController) DeletePipeline(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	if err := c.pipelineService.DeletePipeline(ctx.Request().Context(), tenantID, id); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Pipeline deleted", nil)
}
