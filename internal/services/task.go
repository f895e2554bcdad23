package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/entities"
	"github.com/andimendes/zap-desk-engine/internal/repositories"
	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
)

type TaskServiceInterface interface {
	GetTasksForCard(ctx context.Context, tenantID int64, kind entities.PipelineKind, cardID int64) ([]dto.TaskDTO, error)
	CreateTask(ctx context.Context, tenantID int64, payload dto.CreateTaskDTO) (*dto.TaskDTO, error)
	UpdateTask(ctx context.Context, tenantID, taskID int64, payload dto.UpdateTaskDTO) (*dto.TaskDTO, error)
	DeleteTask(ctx context.Context, tenantID, taskID int64) error
}

// TaskService manages the sub-activities of tickets and deals. Every
// operation resolves the owning card first so one tenant can never
// touch another tenant's tasks.
type TaskService struct {
	taskRepo   repositories.TaskRepositoryInterface
	ticketRepo repositories.TicketRepositoryInterface
	dealRepo   repositories.DealRepositoryInterface
	logger     *zap.Logger
}

func NewTaskService(
	taskRepo repositories.TaskRepositoryInterface,
	ticketRepo repositories.TicketRepositoryInterface,
	dealRepo repositories.DealRepositoryInterface,
	logger *zap.Logger,
) TaskServiceInterface {
	return &TaskService{
		taskRepo:   taskRepo,
		ticketRepo: ticketRepo,
		dealRepo:   dealRepo,
		logger:     logger,
	}
}

func taskToDTO(t *entities.Task) *dto.TaskDTO {
	return &dto.TaskDTO{
		ID:        t.ID,
		CardKind:  string(t.CardKind),
		CardID:    t.CardID,
		Title:     t.Title,
		Done:      t.Done,
		DueAt:     t.DueAt,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

func (s *TaskService) checkCardOwnership(ctx context.Context, tenantID int64, kind entities.PipelineKind, cardID int64) error {
	switch kind {
	case entities.PipelineKindTicket:
		ticket, err := s.ticketRepo.FindTicket(ctx, cardID)
		if err != nil {
			return err
		}
		if ticket.TenantID != tenantID {
			return apperrors.ErrNotFound
		}
	case entities.PipelineKindDeal:
		deal, err := s.dealRepo.FindDeal(ctx, cardID)
		if err != nil {
			return err
		}
		if deal.TenantID != tenantID {
			return apperrors.ErrNotFound
		}
	default:
		return apperrors.NewInvalidInputError("card_kind must be ticket or deal")
	}
	return nil
}

func (s *TaskService) GetTasksForCard(ctx context.Context, tenantID int64, kind entities.PipelineKind, cardID int64) ([]dto.TaskDTO, error) {
	if err := s.checkCardOwnership(ctx, tenantID, kind, cardID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.GetTasksForCard(ctx, kind, cardID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaskDTO, 0, len(tasks))
	for i := range tasks {
		out = append(out, *taskToDTO(&tasks[i]))
	}
	return out, nil
}

func (s *TaskService) CreateTask(ctx context.Context, tenantID int64, payload dto.CreateTaskDTO) (*dto.TaskDTO, error) {
	if err := s.checkCardOwnership(ctx, tenantID, entities.PipelineKind(payload.CardKind), payload.CardID); err != nil {
		return nil, err
	}
	task, err := s.taskRepo.CreateTask(ctx, payload)
	if err != nil {
		return nil, err
	}
	return taskToDTO(task), nil
}

func (s *TaskService) findOwned(ctx context.Context, tenantID, taskID int64) (*entities.Task, error) {
	task, err := s.taskRepo.FindTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCardOwnership(ctx, tenantID, task.CardKind, task.CardID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, tenantID, taskID int64, payload dto.UpdateTaskDTO) (*dto.TaskDTO, error) {
	if _, err := s.findOwned(ctx, tenantID, taskID); err != nil {
		return nil, err
	}
	if err := s.taskRepo.UpdateTask(ctx, taskID, payload); err != nil {
		return nil, err
	}
	task, err := s.taskRepo.FindTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return taskToDTO(task), nil
}

func (s *TaskService) DeleteTask(ctx context.Context, tenantID, taskID int64) error {
	if _, err := s.findOwned(ctx, tenantID, taskID); err != nil {
		return err
	}
	return s.taskRepo.DeleteTask(ctx, taskID)
}
