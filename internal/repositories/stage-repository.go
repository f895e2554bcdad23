package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/entities"
	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
)

const (
	pipelineTable  = "pipelines"
	pipelineFields = "id, tenant_id, name, kind, fixed, created_at, updated_at"
	stageTable     = "stages"
	stageFields    = "id, pipeline_id, name, code, display_order, created_at, updated_at"
)

type StageRepositoryInterface interface {
	FindPipeline(ctx context.Context, id int64) (*entities.Pipeline, error)
	FindTicketPipeline(ctx context.Context) (*entities.Pipeline, error)
	GetPipelines(ctx context.Context, tenantID int64) ([]entities.Pipeline, error)
	GetStages(ctx context.Context, pipelineID int64) ([]entities.Stage, error)
	FindStage(ctx context.Context, stageID int64) (*entities.Stage, error)
	CreatePipeline(ctx context.Context, tenantID int64, payload dto.CreatePipelineDTO) (*entities.Pipeline, []entities.Stage, error)
	CreateStage(ctx context.Context, pipelineID int64, payload dto.CreateStageDTO) (*entities.Stage, error)
	UpdateStage(ctx context.Context, stageID int64, payload dto.UpdateStageDTO) (*entities.Stage, error)
	DeleteStage(ctx context.Context, stageID int64) error
	DeletePipeline(ctx context.Context, pipelineID int64) error
}

type stageRepository struct {
	storage *pgxpool.Pool
}

func NewStageRepository(storage *pgxpool.Pool) StageRepositoryInterface {
	return &stageRepository{storage: storage}
}

func scanPipeline(row pgx.Row) (*entities.Pipeline, error) {
	var p entities.Pipeline
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Kind, &p.Fixed, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan pipeline: %w", err)
	}
	return &p, nil
}

func (r *stageRepository) FindPipeline(ctx context.Context, id int64) (*entities.Pipeline, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", pipelineFields, pipelineTable)
	return scanPipeline(r.storage.QueryRow(ctx, query, id))
}

func (r *stageRepository) FindTicketPipeline(ctx context.Context) (*entities.Pipeline, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE kind = 'ticket' AND fixed LIMIT 1", pipelineFields, pipelineTable)
	return scanPipeline(r.storage.QueryRow(ctx, query))
}

func (r *stageRepository) GetPipelines(ctx context.Context, tenantID int64) ([]entities.Pipeline, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE tenant_id = $1 OR fixed ORDER BY id", pipelineFields, pipelineTable)
	rows, err := r.storage.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list pipelines: %w", err)
	}
	defer rows.Close()

	pipelines := make([]entities.Pipeline, 0)
	for rows.Next() {
		var p entities.Pipeline
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Kind, &p.Fixed, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pipeline row: %w", err)
		}
		pipelines = append(pipelines, p)
	}
	return pipelines, rows.Err()
}

func (r *stageRepository) GetStages(ctx context.Context, pipelineID int64) ([]entities.Stage, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE pipeline_id = $1 ORDER BY display_order", stageFields, stageTable)
	rows, err := r.storage.Query(ctx, query, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	stages := make([]entities.Stage, 0)
	for rows.Next() {
		var s entities.Stage
		var code sql.NullString
		if err := rows.Scan(&s.ID, &s.PipelineID, &s.Name, &code, &s.DisplayOrder, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stage row: %w", err)
		}
		s.Code = code.String
		stages = append(stages, s)
	}
	return stages, rows.Err()
}

func (r *stageRepository) FindStage(ctx context.Context, stageID int64) (*entities.Stage, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", stageFields, stageTable)
	var s entities.Stage
	var code sql.NullString
	err := r.storage.QueryRow(ctx, query, stageID).Scan(
		&s.ID, &s.PipelineID, &s.Name, &code, &s.DisplayOrder, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find stage: %w", err)
	}
	s.Code = code.String
	return &s, nil
}

func (r *stageRepository) CreatePipeline(ctx context.Context, tenantID int64, payload dto.CreatePipelineDTO) (pipeline *entities.Pipeline, stages []entities.Stage, err error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	insertPipeline := fmt.Sprintf("INSERT INTO %s (tenant_id, name, kind) VALUES ($1, $2, 'deal') RETURNING %s", pipelineTable, pipelineFields)
	pipeline = &entities.Pipeline{}
	if err = tx.QueryRow(ctx, insertPipeline, tenantID, payload.Name).Scan(
		&pipeline.ID, &pipeline.TenantID, &pipeline.Name, &pipeline.Kind, &pipeline.Fixed, &pipeline.CreatedAt, &pipeline.UpdatedAt,
	); err != nil {
		return nil, nil, fmt.Errorf("insert pipeline: %w", err)
	}

	insertStage := fmt.Sprintf("INSERT INTO %s (pipeline_id, name, code, display_order) VALUES ($1, $2, NULLIF($3, ''), $4) RETURNING %s", stageTable, stageFields)
	stages = make([]entities.Stage, 0, len(payload.Stages))
	for _, sp := range payload.Stages {
		var s entities.Stage
		var code sql.NullString
		if err = tx.QueryRow(ctx, insertStage, pipeline.ID, sp.Name, sp.Code, sp.DisplayOrder).Scan(
			&s.ID, &s.PipelineID, &s.Name, &code, &s.DisplayOrder, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			if isUniqueViolation(err) {
				return nil, nil, apperrors.ErrConflict
			}
			return nil, nil, fmt.Errorf("insert stage: %w", err)
		}
		s.Code = code.String
		stages = append(stages, s)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}
	return pipeline, stages, nil
}

func (r *stageRepository) CreateStage(ctx context.Context, pipelineID int64, payload dto.CreateStageDTO) (*entities.Stage, error) {
	query := fmt.Sprintf("INSERT INTO %s (pipeline_id, name, code, display_order) VALUES ($1, $2, NULLIF($3, ''), $4) RETURNING %s", stageTable, stageFields)
	var s entities.Stage
	var code sql.NullString
	err := r.storage.QueryRow(ctx, query, pipelineID, payload.Name, payload.Code, payload.DisplayOrder).Scan(
		&s.ID, &s.PipelineID, &s.Name, &code, &s.DisplayOrder, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, fmt.Errorf("insert stage: %w", err)
	}
	s.Code = code.String
	return &s, nil
}

func (r *stageRepository) UpdateStage(ctx context.Context, stageID int64, payload dto.UpdateStageDTO) (*entities.Stage, error) {
	setClauses := "updated_at = NOW()"
	args := []interface{}{}
	argID := 1

	if payload.Name != nil {
		setClauses += fmt.Sprintf(", name = $%d", argID)
		args = append(args, *payload.Name)
		argID++
	}
	if payload.DisplayOrder != nil {
		setClauses += fmt.Sprintf(", display_order = $%d", argID)
		args = append(args, *payload.DisplayOrder)
		argID++
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s", stageTable, setClauses, argID, stageFields)
	args = append(args, stageID)

	var s entities.Stage
	var code sql.NullString
	err := r.storage.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.PipelineID, &s.Name, &code, &s.DisplayOrder, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, fmt.Errorf("update stage: %w", err)
	}
	s.Code = code.String
	return &s, nil
}

// DeleteStage refuses to remove a stage that still has cards assigned,
// so no entity is ever left in an undefined stage.
func (r *stageRepository) DeleteStage(ctx context.Context, stageID int64) error {
	var inUse int64
	countQuery := `
		SELECT (SELECT COUNT(*) FROM tickets WHERE stage_id = $1)
		     + (SELECT COUNT(*) FROM deals WHERE stage_id = $1)`
	if err := r.storage.QueryRow(ctx, countQuery, stageID).Scan(&inUse); err != nil {
		return fmt.Errorf("count stage references: %w", err)
	}
	if inUse > 0 {
		return apperrors.ErrStageInUse
	}

	tag, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", stageTable), stageID)
	if err != nil {
		return fmt.Errorf("delete stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *stageRepository) DeletePipeline(ctx context.Context, pipelineID int64) error {
	var inUse int64
	if err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM deals WHERE pipeline_id = $1`, pipelineID).Scan(&inUse); err != nil {
		return fmt.Errorf("count pipeline references: %w", err)
	}
	if inUse > 0 {
		return apperrors.ErrStageInUse
	}

	tag, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND NOT fixed", pipelineTable), pipelineID)
	if err != nil {
		return fmt.Errorf("delete pipeline: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
