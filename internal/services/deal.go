package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/entities"
	"github.com/andimendes/zap-desk-engine/internal/events"
	"github.com/andimendes/zap-desk-engine/internal/repositories"
	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
	"github.com/andimendes/zap-desk-engine/pkg/eventbus"
	"github.com/andimendes/zap-desk-engine/pkg/types"
)

type DealServiceInterface interface {
	GetDeals(ctx context.Context, tenantID int64, filter types.Filter) ([]dto.DealDTO, uint64, error)
	FindDeal(ctx context.Context, tenantID, dealID int64) (*dto.DealDTO, error)
	CreateDeal(ctx context.Context, tenantID int64, payload dto.CreateDealDTO) (*dto.DealDTO, error)
	UpdateDeal(ctx context.Context, tenantID, dealID int64, payload dto.UpdateDealDTO) (*dto.DealDTO, error)
	DeleteDeal(ctx context.Context, tenantID, dealID int64) error
}

type DealService struct {
	dealRepo  repositories.DealRepositoryInterface
	stageRepo repositories.StageRepositoryInterface
	directory StageDirectoryInterface
	bus       *eventbus.Bus
	logger    *zap.Logger
}

func NewDealService(
	dealRepo repositories.DealRepositoryInterface,
	stageRepo repositories.StageRepositoryInterface,
	directory StageDirectoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) DealServiceInterface {
	return &DealService{
		dealRepo:  dealRepo,
		stageRepo: stageRepo,
		directory: directory,
		bus:       bus,
		logger:    logger,
	}
}

func dealToDTO(d *entities.Deal) *dto.DealDTO {
	return &dto.DealDTO{
		ID:         d.ID,
		Title:      d.Title,
		PipelineID: d.PipelineID,
		StageID:    d.StageID,
		ValueCents: d.ValueCents,
		OwnerID:    d.OwnerID,
		CreatedAt:  d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  d.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *DealService) GetDeals(ctx context.Context, tenantID int64, filter types.Filter) ([]dto.DealDTO, uint64, error) {
	deals, total, err := s.dealRepo.GetDeals(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.DealDTO, 0, len(deals))
	for i := range deals {
		out = append(out, *dealToDTO(&deals[i]))
	}
	return out, total, nil
}

func (s *DealService) findOwned(ctx context.Context, tenantID, dealID int64) (*entities.Deal, error) {
	deal, err := s.dealRepo.FindDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return deal, nil
}

func (s *DealService) FindDeal(ctx context.Context, tenantID, dealID int64) (*dto.DealDTO, error) {
	deal, err := s.findOwned(ctx, tenantID, dealID)
	if err != nil {
		return nil, err
	}
	return dealToDTO(deal), nil
}

// CreateDeal places the new deal in the first stage of the chosen
// funnel. The funnel must belong to the tenant and be a deal pipeline.
func (s *DealService) CreateDeal(ctx context.Context, tenantID int64, payload dto.CreateDealDTO) (*dto.DealDTO, error) {
	pipeline, err := s.stageRepo.FindPipeline(ctx, payload.PipelineID)
	if err != nil {
		return nil, err
	}
	if pipeline.Kind != entities.PipelineKindDeal || pipeline.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	first, err := s.directory.FirstStage(ctx, pipeline.ID)
	if err != nil {
		return nil, err
	}

	deal, err := s.dealRepo.CreateDeal(ctx, tenantID, first.ID, payload)
	if err != nil {
		return nil, err
	}
	s.logger.Info("deal created",
		zap.Int64("deal_id", deal.ID),
		zap.Int64("pipeline_id", pipeline.ID),
		zap.Int64("tenant_id", tenantID),
	)
	s.publishChanged(ctx, tenantID, pipeline.ID)
	return dealToDTO(deal), nil
}

func (s *DealService) UpdateDeal(ctx context.Context, tenantID, dealID int64, payload dto.UpdateDealDTO) (*dto.DealDTO, error) {
	existing, err := s.findOwned(ctx, tenantID, dealID)
	if err != nil {
		return nil, err
	}
	if err := s.dealRepo.UpdateDeal(ctx, dealID, payload); err != nil {
		return nil, err
	}

	deal, err := s.dealRepo.FindDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	s.publishChanged(ctx, tenantID, existing.PipelineID)
	return dealToDTO(deal), nil
}

func (s *DealService) DeleteDeal(ctx context.Context, tenantID, dealID int64) error {
	existing, err := s.findOwned(ctx, tenantID, dealID)
	if err != nil {
		return err
	}
	if err := s.dealRepo.DeleteDeal(ctx, dealID); err != nil {
		return err
	}
	s.publishChanged(ctx, tenantID, existing.PipelineID)
	return nil
}

func (s *DealService) publishChanged(ctx context.Context, tenantID, pipelineID int64) {
	s.bus.Publish(ctx, events.CardsChangedEvent{
		TenantID:   tenantID,
		PipelineID: pipelineID,
		Kind:       entities.PipelineKindDeal,
	})
}
