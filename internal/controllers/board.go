package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/services"
	"github.com/andimendes/zap-desk-engine/pkg/api"
)

type BoardController struct {
	boardService services.BoardServiceInterface
	logger       *zap.Logger
}

func NewBoardController(boardService services.BoardServiceInterface, logger *zap.Logger) *BoardController {
	return &BoardController{
		boardService: boardService,
		logger:       logger,
	}
}

// GetBoard renders the kanban view of one pipeline: ordered columns
// with deadline and progress decorations.
func (c *BoardController) GetBoard(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	pipelineID, err := paramID(ctx, "pipeline_id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	board, err := c.boardService.GetBoard(ctx.Request().Context(), tenantID, pipelineID)
	if err != nil {
		c.logger.Error("failed to render board",
			zap.Int64("pipeline_id", pipelineID),
			zap.Error(err),
		)
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Board rendered", board)
}

// RequestTransition moves a card to another stage. A stale board
// answers with a conflict; the client re-reads and retries.
func (c *BoardController) RequestTransition(ctx echo.Context) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	pipelineID, err := paramID(ctx, "pipeline_id")
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.TransitionDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	if err := c.boardService.RequestTransition(ctx.Request().Context(), tenantID, pipelineID, payload); err != nil {
		c.logger.Warn("stage transition rejected",
			zap.Int64("pipeline_id", pipelineID),
			zap.Int64("card_id", payload.CardID),
			zap.Error(err),
		)
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Card moved", nil)
}
