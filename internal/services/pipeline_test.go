package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/entities"
	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
	"github.com/andimendes/zap-desk-engine/pkg/eventbus"
	"github.com/andimendes/zap-desk-engine/pkg/utils"
)

func seedTicketPipeline(repo *fakeStageRepo) entities.Pipeline {
	pipeline := entities.Pipeline{ID: 1, Name: "Atendimento", Kind: entities.PipelineKindTicket, Fixed: true}
	repo.addPipeline(pipeline,
		entities.Stage{ID: 11, PipelineID: 1, Name: "Aberto", Code: "OPEN", DisplayOrder: 1},
		entities.Stage{ID: 12, PipelineID: 1, Name: "Em Atendimento", Code: "IN_PROGRESS", DisplayOrder: 2},
		entities.Stage{ID: 13, PipelineID: 1, Name: "Resolvido", Code: "RESOLVED", DisplayOrder: 3},
		entities.Stage{ID: 14, PipelineID: 1, Name: "Fechado", Code: "CLOSED", DisplayOrder: 4},
	)
	return pipeline
}

func newPipelineFixture(repo *fakeStageRepo) PipelineServiceInterface {
	directory := newTestDirectory(repo, newFakeCache())
	return NewPipelineService(repo, directory, eventbus.New(zap.NewNop()), zap.NewNop())
}

func TestPipelineService_FixedPipelineIsReadOnly(t *testing.T) {
	repo := newFakeStageRepo()
	seedTicketPipeline(repo)
	svc := newPipelineFixture(repo)

	_, err := svc.CreateStage(context.Background(), 1, 1, dto.CreateStageDTO{Name: "Extra", DisplayOrder: 5})
	assert.ErrorIs(t, err, apperrors.ErrPipelineReadOnly)

	_, err = svc.UpdateStage(context.Background(), 1, 12, dto.UpdateStageDTO{Name: utils.ToPtr("Triagem")})
	assert.ErrorIs(t, err, apperrors.ErrPipelineReadOnly)

	err = svc.DeleteStage(context.Background(), 1, 12)
	assert.ErrorIs(t, err, apperrors.ErrPipelineReadOnly)

	err = svc.DeletePipeline(context.Background(), 1, 1)
	assert.ErrorIs(t, err, apperrors.ErrPipelineReadOnly)
}

func TestPipelineService_FixedPipelineStillReadable(t *testing.T) {
	repo := newFakeStageRepo()
	seedTicketPipeline(repo)
	svc := newPipelineFixture(repo)

	pipeline, err := svc.GetPipeline(context.Background(), 42, 1)
	require.NoError(t, err)
	assert.True(t, pipeline.Fixed)
	require.Len(t, pipeline.Stages, 4)
	assert.Equal(t, "Aberto", pipeline.Stages[0].Name)
}

func TestPipelineService_TenantIsolation(t *testing.T) {
	repo := newFakeStageRepo()
	seedDealFunnel(repo, 2)
	svc := newPipelineFixture(repo)

	_, err := svc.GetPipeline(context.Background(), 1, 7)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.CreateStage(context.Background(), 1, 7, dto.CreateStageDTO{Name: "Extra", DisplayOrder: 9})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPipelineService_CreatePipelineWithStages(t *testing.T) {
	repo := newFakeStageRepo()
	svc := newPipelineFixture(repo)

	pipeline, err := svc.CreatePipeline(context.Background(), 1, dto.CreatePipelineDTO{
		Name: "Funil Enterprise",
		Stages: []dto.CreateStageDTO{
			{Name: "Prospecção", DisplayOrder: 1},
			{Name: "Negociação", DisplayOrder: 2},
			{Name: "Ganho", DisplayOrder: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "deal", pipeline.Kind)
	require.Len(t, pipeline.Stages, 3)
	assert.Equal(t, "Prospecção", pipeline.Stages[0].Name)
}

func TestPipelineService_StageChangeInvalidatesDirectory(t *testing.T) {
	repo := newFakeStageRepo()
	seedDealFunnel(repo, 1)
	cache := newFakeCache()
	directory := newTestDirectory(repo, cache)
	svc := NewPipelineService(repo, directory, eventbus.New(zap.NewNop()), zap.NewNop())

	_, err := directory.Stages(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 1, repo.getStagesCalls)

	_, err = svc.CreateStage(context.Background(), 1, 7, dto.CreateStageDTO{Name: "Perdido", DisplayOrder: 4})
	require.NoError(t, err)

	stages, err := directory.Stages(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.getStagesCalls, "cache entry must be dropped on stage change")
	assert.Len(t, stages, 4)
}
