package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/entities"
	"github.com/andimendes/zap-desk-engine/internal/repositories"
)

type StageDirectoryInterface interface {
	Stages(ctx context.Context, pipelineID int64) ([]entities.Stage, error)
	Contains(ctx context.Context, pipelineID, stageID int64) (bool, error)
	FirstStage(ctx context.Context, pipelineID int64) (*entities.Stage, error)
	Invalidate(ctx context.Context, pipelineID int64)
}

// StageDirectory is the single source of truth for which stages belong
// to a pipeline and in what order. Reads go through a redis cache; stage
// writes invalidate it via the change feed.
type StageDirectory struct {
	stageRepo repositories.StageRepositoryInterface
	cache     repositories.CacheRepositoryInterface
	ttl       time.Duration
	logger    *zap.Logger
}

func NewStageDirectory(
	stageRepo repositories.StageRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	ttl time.Duration,
	logger *zap.Logger,
) StageDirectoryInterface {
	return &StageDirectory{
		stageRepo: stageRepo,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
	}
}

func stageDirectoryKey(pipelineID int64) string {
	return fmt.Sprintf("stage_directory:%d", pipelineID)
}

func (d *StageDirectory) Stages(ctx context.Context, pipelineID int64) ([]entities.Stage, error) {
	key := stageDirectoryKey(pipelineID)

	if cached, err := d.cache.Get(ctx, key); err == nil && cached != "" {
		var stages []entities.Stage
		if err := json.Unmarshal([]byte(cached), &stages); err == nil {
			return stages, nil
		}
		d.logger.Warn("corrupt stage directory cache entry, dropping it", zap.String("key", key))
		_ = d.cache.Del(ctx, key)
	}

	stages, err := d.stageRepo.GetStages(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stages); err == nil {
		if err := d.cache.Set(ctx, key, string(payload), d.ttl); err != nil {
			d.logger.Warn("failed to cache stage directory", zap.Error(err))
		}
	}
	return stages, nil
}

func (d *StageDirectory) Contains(ctx context.Context, pipelineID, stageID int64) (bool, error) {
	stages, err := d.Stages(ctx, pipelineID)
	if err != nil {
		return false, err
	}
	for _, s := range stages {
		if s.ID == stageID {
			return true, nil
		}
	}
	return false, nil
}

// FirstStage returns the entry stage new cards are placed in.
func (d *StageDirectory) FirstStage(ctx context.Context, pipelineID int64) (*entities.Stage, error) {
	stages, err := d.Stages(ctx, pipelineID)
	if err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("pipeline %d has no stages", pipelineID)
	}
	first := stages[0]
	return &first, nil
}

func (d *StageDirectory) Invalidate(ctx context.Context, pipelineID int64) {
	if err := d.cache.Del(ctx, stageDirectoryKey(pipelineID)); err != nil {
		d.logger.Warn("failed to invalidate stage directory cache", zap.Error(err))
	}
}
