package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/entities"
)

func newTestDirectory(repo *fakeStageRepo, cache *fakeCache) StageDirectoryInterface {
	return NewStageDirectory(repo, cache, 10*time.Minute, zap.NewNop())
}

func seedDealFunnel(repo *fakeStageRepo, tenantID int64) entities.Pipeline {
	pipeline := entities.Pipeline{ID: 7, TenantID: tenantID, Name: "Funil Padrão", Kind: entities.PipelineKindDeal}
	repo.addPipeline(pipeline,
		entities.Stage{ID: 71, PipelineID: 7, Name: "Prospecção", DisplayOrder: 1},
		entities.Stage{ID: 72, PipelineID: 7, Name: "Proposta", DisplayOrder: 2},
		entities.Stage{ID: 73, PipelineID: 7, Name: "Ganho", DisplayOrder: 3},
	)
	return pipeline
}

func TestStageDirectory_StagesCachesAfterFirstLoad(t *testing.T) {
	repo := newFakeStageRepo()
	seedDealFunnel(repo, 1)
	cache := newFakeCache()
	directory := newTestDirectory(repo, cache)

	first, err := directory.Stages(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, 1, repo.getStagesCalls)

	second, err := directory.Stages(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.getStagesCalls, "second read must come from cache")
}

func TestStageDirectory_InvalidateForcesReload(t *testing.T) {
	repo := newFakeStageRepo()
	seedDealFunnel(repo, 1)
	cache := newFakeCache()
	directory := newTestDirectory(repo, cache)

	_, err := directory.Stages(context.Background(), 7)
	require.NoError(t, err)

	directory.Invalidate(context.Background(), 7)

	_, err = directory.Stages(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.getStagesCalls)
}

func TestStageDirectory_CorruptCacheEntryIsDropped(t *testing.T) {
	repo := newFakeStageRepo()
	seedDealFunnel(repo, 1)
	cache := newFakeCache()
	cache.store["stage_directory:7"] = "{not json"
	directory := newTestDirectory(repo, cache)

	stages, err := directory.Stages(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, stages, 3)
	assert.Equal(t, 1, repo.getStagesCalls)
}

func TestStageDirectory_Contains(t *testing.T) {
	repo := newFakeStageRepo()
	seedDealFunnel(repo, 1)
	directory := newTestDirectory(repo, newFakeCache())

	ok, err := directory.Contains(context.Background(), 7, 72)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = directory.Contains(context.Background(), 7, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStageDirectory_FirstStageFollowsDisplayOrder(t *testing.T) {
	repo := newFakeStageRepo()
	seedDealFunnel(repo, 1)
	directory := newTestDirectory(repo, newFakeCache())

	first, err := directory.FirstStage(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Prospecção", first.Name)
}
