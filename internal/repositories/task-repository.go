package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/entities"
	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
)

const (
	taskTable  = "tasks"
	taskFields = "id, card_kind, card_id, title, done, due_at, created_at, updated_at"
)

type TaskRepositoryInterface interface {
	GetTasksForCard(ctx context.Context, kind entities.PipelineKind, cardID int64) ([]entities.Task, error)
	MapTasksForCards(ctx context.Context, kind entities.PipelineKind, cardIDs []int64) (map[int64][]entities.Task, error)
	FindTask(ctx context.Context, id int64) (*entities.Task, error)
	CreateTask(ctx context.Context, payload dto.CreateTaskDTO) (*entities.Task, error)
	UpdateTask(ctx context.Context, id int64, payload dto.UpdateTaskDTO) error
	DeleteTask(ctx context.Context, id int64) error
}

type taskRepository struct {
	storage *pgxpool.Pool
}

func NewTaskRepository(storage *pgxpool.Pool) TaskRepositoryInterface {
	return &taskRepository{storage: storage}
}

func scanTask(row pgx.Row) (*entities.Task, error) {
	var t entities.Task
	err := row.Scan(&t.ID, &t.CardKind, &t.CardID, &t.Title, &t.Done, &t.DueAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &t, nil
}

func (r *taskRepository) GetTasksForCard(ctx context.Context, kind entities.PipelineKind, cardID int64) ([]entities.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE card_kind = $1 AND card_id = $2 ORDER BY created_at", taskFields, taskTable)
	rows, err := r.storage.Query(ctx, query, kind, cardID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]entities.Task, 0)
	for rows.Next() {
		var t entities.Task
		if err := rows.Scan(&t.ID, &t.CardKind, &t.CardID, &t.Title, &t.Done, &t.DueAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// MapTasksForCards loads the tasks of many cards in one round trip, for
// the board read path.
func (r *taskRepository) MapTasksForCards(ctx context.Context, kind entities.PipelineKind, cardIDs []int64) (map[int64][]entities.Task, error) {
	byCard := make(map[int64][]entities.Task, len(cardIDs))
	if len(cardIDs) == 0 {
		return byCard, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE card_kind = $1 AND card_id = ANY($2) ORDER BY created_at", taskFields, taskTable)
	rows, err := r.storage.Query(ctx, query, kind, cardIDs)
	if err != nil {
		return nil, fmt.Errorf("map tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t entities.Task
		if err := rows.Scan(&t.ID, &t.CardKind, &t.CardID, &t.Title, &t.Done, &t.DueAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		byCard[t.CardID] = append(byCard[t.CardID], t)
	}
	return byCard, rows.Err()
}

func (r *taskRepository) FindTask(ctx context.Context, id int64) (*entities.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", taskFields, taskTable)
	return scanTask(r.storage.QueryRow(ctx, query, id))
}

func (r *taskRepository) CreateTask(ctx context.Context, payload dto.CreateTaskDTO) (*entities.Task, error) {
	query := fmt.Sprintf(
		"INSERT INTO %s (card_kind, card_id, title, due_at) VALUES ($1, $2, $3, $4) RETURNING %s",
		taskTable, taskFields,
	)
	return scanTask(r.storage.QueryRow(ctx, query, payload.CardKind, payload.CardID, payload.Title, payload.DueAt))
}

func (r *taskRepository) UpdateTask(ctx context.Context, id int64, payload dto.UpdateTaskDTO) error {
	setClauses := "updated_at = NOW()"
	args := []interface{}{}
	argID := 1

	if payload.Title != nil {
		setClauses += fmt.Sprintf(", title = $%d", argID)
		args = append(args, *payload.Title)
		argID++
	}
	if payload.Done != nil {
		setClauses += fmt.Sprintf(", done = $%d", argID)
		args = append(args, *payload.Done)
		argID++
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", taskTable, setClauses, argID)
	args = append(args, id)

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *taskRepository) DeleteTask(ctx context.Context, id int64) error {
	tag, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", taskTable), id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
