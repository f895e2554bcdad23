package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/entities"
	"github.com/andimendes/zap-desk-engine/internal/events"
	"github.com/andimendes/zap-desk-engine/internal/repositories"
	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
	"github.com/andimendes/zap-desk-engine/pkg/eventbus"
)

type PipelineServiceInterface interface {
	GetPipelines(ctx context.Context, tenantID int64) ([]dto.PipelineDTO, error)
	GetPipeline(ctx context.Context, tenantID, pipelineID int64) (*dto.PipelineDTO, error)
	CreatePipeline(ctx context.Context, tenantID int64, payload dto.CreatePipelineDTO) (*dto.PipelineDTO, error)
	CreateStage(ctx context.Context, tenantID, pipelineID int64, payload dto.CreateStageDTO) (*dto.StageDTO, error)
	UpdateStage(ctx context.Context, tenantID, stageID int64, payload dto.UpdateStageDTO) (*dto.StageDTO, error)
	DeleteStage(ctx context.Context, tenantID, stageID int64) error
	DeletePipeline(ctx context.Context, tenantID, pipelineID int64) error
}

// PipelineService manages tenant deal funnels. The fixed ticket
// pipeline is visible through it but never writable.
type PipelineService struct {
	stageRepo repositories.StageRepositoryInterface
	directory StageDirectoryInterface
	bus       *eventbus.Bus
	logger    *zap.Logger
}

func NewPipelineService(
	stageRepo repositories.StageRepositoryInterface,
	directory StageDirectoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) PipelineServiceInterface {
	return &PipelineService{
		stageRepo: stageRepo,
		directory: directory,
		bus:       bus,
		logger:    logger,
	}
}

func stageToDTO(s entities.Stage) dto.StageDTO {
	return dto.StageDTO{
		ID:           s.ID,
		PipelineID:   s.PipelineID,
		Name:         s.Name,
		Code:         s.Code,
		DisplayOrder: s.DisplayOrder,
	}
}

func pipelineToDTO(p *entities.Pipeline, stages []entities.Stage) *dto.PipelineDTO {
	out := &dto.PipelineDTO{
		ID:     p.ID,
		Name:   p.Name,
		Kind:   string(p.Kind),
		Fixed:  p.Fixed,
		Stages: make([]dto.StageDTO, 0, len(stages)),
	}
	for _, s := range stages {
		out.Stages = append(out.Stages, stageToDTO(s))
	}
	return out
}

// resolveWritablePipeline loads a pipeline and checks it may be edited
// by the tenant. The fixed pipeline and other tenants' pipelines are
// rejected before any write happens.
func (s *PipelineService) resolveWritablePipeline(ctx context.Context, tenantID, pipelineID int64) (*entities.Pipeline, error) {
	pipeline, err := s.stageRepo.FindPipeline(ctx, pipelineID)
	if err != nil {
		return nil, err
	}
	if pipeline.Fixed {
		return nil, apperrors.ErrPipelineReadOnly
	}
	if pipeline.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return pipeline, nil
}

func (s *PipelineService) GetPipelines(ctx context.Context, tenantID int64) ([]dto.PipelineDTO, error) {
	pipelines, err := s.stageRepo.GetPipelines(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PipelineDTO, 0, len(pipelines))
	for i := range pipelines {
		stages, err := s.directory.Stages(ctx, pipelines[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *pipelineToDTO(&pipelines[i], stages))
	}
	return out, nil
}

func (s *PipelineService) GetPipeline(ctx context.Context, tenantID, pipelineID int64) (*dto.PipelineDTO, error) {
	pipeline, err := s.stageRepo.FindPipeline(ctx, pipelineID)
	if err != nil {
		return nil, err
	}
	if !pipeline.Fixed && pipeline.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	stages, err := s.directory.Stages(ctx, pipeline.ID)
	if err != nil {
		return nil, err
	}
	return pipelineToDTO(pipeline, stages), nil
}

func (s *PipelineService) CreatePipeline(ctx context.Context, tenantID int64, payload dto.CreatePipelineDTO) (*dto.PipelineDTO, error) {
	pipeline, stages, err := s.stageRepo.CreatePipeline(ctx, tenantID, payload)
	if err != nil {
		return nil, err
	}
	s.logger.Info("pipeline created",
		zap.Int64("pipeline_id", pipeline.ID),
		zap.Int64("tenant_id", tenantID),
	)
	s.bus.Publish(ctx, events.StagesChangedEvent{PipelineID: pipeline.ID})
	return pipelineToDTO(pipeline, stages), nil
}

func (s *PipelineService) CreateStage(ctx context.Context, tenantID, pipelineID int64, payload dto.CreateStageDTO) (*dto.StageDTO, error) {
	if _, err := s.resolveWritablePipeline(ctx, tenantID, pipelineID); err != nil {
		return nil, err
	}

	stage, err := s.stageRepo.CreateStage(ctx, pipelineID, payload)
	if err != nil {
		return nil, err
	}
	s.directory.Invalidate(ctx, pipelineID)
	s.bus.Publish(ctx, events.StagesChangedEvent{PipelineID: pipelineID})

	out := stageToDTO(*stage)
	return &out, nil
}

func (s *PipelineService) UpdateStage(ctx context.Context, tenantID, stageID int64, payload dto.UpdateStageDTO) (*dto.StageDTO, error) {
	existing, err := s.stageRepo.FindStage(ctx, stageID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveWritablePipeline(ctx, tenantID, existing.PipelineID); err != nil {
		return nil, err
	}

	stage, err := s.stageRepo.UpdateStage(ctx, stageID, payload)
	if err != nil {
		return nil, err
	}
	s.directory.Invalidate(ctx, stage.PipelineID)
	s.bus.Publish(ctx, events.StagesChangedEvent{PipelineID: stage.PipelineID})

	out := stageToDTO(*stage)
	return &out, nil
}

func (s *PipelineService) DeleteStage(ctx context.Context, tenantID, stageID int64) error {
	existing, err := s.stageRepo.FindStage(ctx, stageID)
	if err != nil {
		return err
	}
	if _, err := s.resolveWritablePipeline(ctx, tenantID, existing.PipelineID); err != nil {
		return err
	}

	if err := s.stageRepo.DeleteStage(ctx, stageID); err != nil {
		return err
	}
	s.directory.Invalidate(ctx, existing.PipelineID)
	s.bus.Publish(ctx, events.StagesChangedEvent{PipelineID: existing.PipelineID})
	return nil
}

func (s *PipelineService) DeletePipeline(ctx context.Context, tenantID, pipelineID int64) error {
	if _, err := s.resolveWritablePipeline(ctx, tenantID, pipelineID); err != nil {
		return err
	}

	if err := s.stageRepo.DeletePipeline(ctx, pipelineID); err != nil {
		return err
	}
	s.directory.Invalidate(ctx, pipelineID)
	s.bus.Publish(ctx, events.StagesChangedEvent{PipelineID: pipelineID})
	s.logger.Info("pipeline deleted", zap.Int64("pipeline_id", pipelineID))
	return nil
}
