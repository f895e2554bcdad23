package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/entities"
	"github.com/andimendes/zap-desk-engine/internal/repositories"
)

// SummarizeTasks aggregates a card's tasks into a completion ratio plus
// an overdue flag. Pure; recomputed on every read.
func SummarizeTasks(tasks []entities.Task, now time.Time) dto.ProgressDTO {
	summary := dto.ProgressDTO{Total: len(tasks)}
	for _, t := range tasks {
		if t.Done {
			summary.Completed++
			continue
		}
		if t.DueAt.Valid && t.DueAt.Time.Before(now) {
			summary.HasOverdueOpenTask = true
		}
	}
	return summary
}

type ProgressLedgerInterface interface {
	Summarize(ctx context.Context, kind entities.PipelineKind, cardID int64) (dto.ProgressDTO, error)
	SummarizeAll(ctx context.Context, kind entities.PipelineKind, cardIDs []int64) (map[int64]dto.ProgressDTO, error)
}

// ProgressLedger reads tasks from the record store and aggregates them.
// It never creates or mutates tasks.
type ProgressLedger struct {
	taskRepo repositories.TaskRepositoryInterface
	logger   *zap.Logger
	now      func() time.Time
}

func NewProgressLedger(taskRepo repositories.TaskRepositoryInterface, logger *zap.Logger) *ProgressLedger {
	return &ProgressLedger{
		taskRepo: taskRepo,
		logger:   logger,
		now:      time.Now,
	}
}

func (l *ProgressLedger) Summarize(ctx context.Context, kind entities.PipelineKind, cardID int64) (dto.ProgressDTO, error) {
	tasks, err := l.taskRepo.GetTasksForCard(ctx, kind, cardID)
	if err != nil {
		return dto.ProgressDTO{}, err
	}
	return SummarizeTasks(tasks, l.now()), nil
}

// SummarizeAll is the batch variant used by the board read path.
func (l *ProgressLedger) SummarizeAll(ctx context.Context, kind entities.PipelineKind, cardIDs []int64) (map[int64]dto.ProgressDTO, error) {
	byCard, err := l.taskRepo.MapTasksForCards(ctx, kind, cardIDs)
	if err != nil {
		return nil, err
	}

	now := l.now()
	summaries := make(map[int64]dto.ProgressDTO, len(cardIDs))
	for _, id := range cardIDs {
		summaries[id] = SummarizeTasks(byCard[id], now)
	}
	return summaries, nil
}
