package routes

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/authz"
	"github.com/andimendes/zap-desk-engine/internal/controllers"
	"github.com/andimendes/zap-desk-engine/internal/events"
	"github.com/andimendes/zap-desk-engine/internal/repositories"
	"github.com/andimendes/zap-desk-engine/internal/services"
	"github.com/andimendes/zap-desk-engine/pkg/config"
	"github.com/andimendes/zap-desk-engine/pkg/eventbus"
	"github.com/andimendes/zap-desk-engine/pkg/middleware"
	"github.com/andimendes/zap-desk-engine/pkg/service"
)

// InitRouter wires repositories, services and controllers together and
// mounts every route group under /api.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	apiGroup := e.Group("/api")

	gatekeeper := authz.NewGatekeeper()
	authMW := middleware.NewAuthMiddleware(jwtSvc, gatekeeper, logger)
	bus := eventbus.New(logger)

	// repositories
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	stageRepo := repositories.NewStageRepository(dbConn)
	ticketRepo := repositories.NewTicketRepository(dbConn)
	dealRepo := repositories.NewDealRepository(dbConn)
	taskRepo := repositories.NewTaskRepository(dbConn)
	quotationRepo := repositories.NewQuotationRepository(dbConn)

	// services
	directory := services.NewStageDirectory(stageRepo, cacheRepo, cfg.Cache.StageDirectoryTTL, logger)
	progress := services.NewProgressLedger(taskRepo, logger)
	pipelineService := services.NewPipelineService(stageRepo, directory, bus, logger)
	boardService := services.NewBoardService(stageRepo, ticketRepo, dealRepo, directory, progress, bus, logger)
	ticketService := services.NewTicketService(ticketRepo, stageRepo, directory, bus, logger)
	dealService := services.NewDealService(dealRepo, stageRepo, directory, bus, logger)
	taskService := services.NewTaskService(taskRepo, ticketRepo, dealRepo, logger)
	quotationService := services.NewQuotationService(quotationRepo, dealRepo, bus, logger)

	// Change feed: card writes stale the affected board; stage-set
	// changes stale every board of that pipeline plus the directory
	// cache of other instances.
	bus.Subscribe(events.CardsChangedName, func(_ context.Context, event eventbus.Event) error {
		if e, ok := event.(events.CardsChangedEvent); ok {
			boardService.InvalidateBoards(e.TenantID, e.PipelineID)
		}
		return nil
	})
	bus.Subscribe(events.StagesChangedName, func(ctx context.Context, event eventbus.Event) error {
		if e, ok := event.(events.StagesChangedEvent); ok {
			directory.Invalidate(ctx, e.PipelineID)
			boardService.InvalidatePipeline(e.PipelineID)
		}
		return nil
	})

	secureGroup := apiGroup.Group("", authMW.Auth)

	runTicketRouter(secureGroup, controllers.NewTicketController(ticketService, logger), authMW)
	runDealRouter(secureGroup, controllers.NewDealController(dealService, logger), authMW)
	runPipelineRouter(secureGroup, controllers.NewPipelineController(pipelineService, logger), authMW)
	runBoardRouter(secureGroup, controllers.NewBoardController(boardService, logger), authMW)
	runTaskRouter(secureGroup, controllers.NewTaskController(taskService, logger), authMW)
	runQuotationRouter(secureGroup, controllers.NewQuotationController(quotationService, logger), authMW)
}
