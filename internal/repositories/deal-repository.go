package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/entities"
	"github.com/andimendes/zap-desk-engine/internal/infrastructure/bd"
	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
	"github.com/andimendes/zap-desk-engine/pkg/types"
)

const (
	dealTable  = "deals"
	dealFields = "id, tenant_id, title, pipeline_id, stage_id, value_cents, owner_id, created_at, updated_at"
)

var dealFilterColumns = map[string]string{
	"pipeline_id": "pipeline_id",
	"stage_id":    "stage_id",
	"owner_id":    "owner_id",
	"created_at":  "created_at",
}

type DealRepositoryInterface interface {
	GetDeals(ctx context.Context, tenantID int64, filter types.Filter) ([]entities.Deal, uint64, error)
	FindDeal(ctx context.Context, id int64) (*entities.Deal, error)
	CreateDeal(ctx context.Context, tenantID int64, stageID int64, payload dto.CreateDealDTO) (*entities.Deal, error)
	UpdateDeal(ctx context.Context, id int64, payload dto.UpdateDealDTO) error
	DeleteDeal(ctx context.Context, id int64) error
	ListCards(ctx context.Context, tenantID, pipelineID int64) ([]entities.Card, error)
	UpdateCardStage(ctx context.Context, cardID int64, stageID int64) error
}

type dealRepository struct {
	storage *pgxpool.Pool
}

func NewDealRepository(storage *pgxpool.Pool) DealRepositoryInterface {
	return &dealRepository{storage: storage}
}

func scanDeal(row pgx.Row) (*entities.Deal, error) {
	var d entities.Deal
	err := row.Scan(&d.ID, &d.TenantID, &d.Title, &d.PipelineID, &d.StageID, &d.ValueCents, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan deal: %w", err)
	}
	return &d, nil
}

func (r *dealRepository) GetDeals(ctx context.Context, tenantID int64, filter types.Filter) ([]entities.Deal, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := bd.ApplyListParams(
		psql.Select("COUNT(*)").From(dealTable).Where(sq.Eq{"tenant_id": tenantID}),
		types.Filter{Filter: filter.Filter},
		dealFilterColumns,
	)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build deal count query: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count deals: %w", err)
	}

	builder := bd.ApplyListParams(
		psql.Select(dealFields).From(dealTable).Where(sq.Eq{"tenant_id": tenantID}),
		filter,
		dealFilterColumns,
	)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("created_at DESC")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build deal list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	deals := make([]entities.Deal, 0)
	for rows.Next() {
		var d entities.Deal
		if err := rows.Scan(&d.ID, &d.TenantID, &d.Title, &d.PipelineID, &d.StageID, &d.ValueCents, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan deal row: %w", err)
		}
		deals = append(deals, d)
	}
	return deals, total, rows.Err()
}

func (r *dealRepository) FindDeal(ctx context.Context, id int64) (*entities.Deal, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", dealFields, dealTable)
	return scanDeal(r.storage.QueryRow(ctx, query, id))
}

func (r *dealRepository) CreateDeal(ctx context.Context, tenantID int64, stageID int64, payload dto.CreateDealDTO) (*entities.Deal, error) {
	query := fmt.Sprintf(
		"INSERT INTO %s (tenant_id, title, pipeline_id, stage_id, value_cents, owner_id) VALUES ($1, $2, $3, $4, $5, $6) RETURNING %s",
		dealTable, dealFields,
	)
	return scanDeal(r.storage.QueryRow(ctx, query, tenantID, payload.Title, payload.PipelineID, stageID, payload.ValueCents, payload.OwnerID))
}

func (r *dealRepository) UpdateDeal(ctx context.Context, id int64, payload dto.UpdateDealDTO) error {
	setClauses := "updated_at = NOW()"
	args := []interface{}{}
	argID := 1

	if payload.Title != nil {
		setClauses += fmt.Sprintf(", title = $%d", argID)
		args = append(args, *payload.Title)
		argID++
	}
	if payload.ValueCents != nil {
		setClauses += fmt.Sprintf(", value_cents = $%d", argID)
		args = append(args, *payload.ValueCents)
		argID++
	}
	if payload.OwnerID != nil {
		setClauses += fmt.Sprintf(", owner_id = $%d", argID)
		args = append(args, *payload.OwnerID)
		argID++
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", dealTable, setClauses, argID)
	args = append(args, id)

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *dealRepository) DeleteDeal(ctx context.Context, id int64) error {
	tag, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", dealTable), id)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *dealRepository) ListCards(ctx context.Context, tenantID, pipelineID int64) ([]entities.Card, error) {
	query := fmt.Sprintf("SELECT id, title, stage_id, value_cents, owner_id, created_at FROM %s WHERE tenant_id = $1 AND pipeline_id = $2", dealTable)
	rows, err := r.storage.Query(ctx, query, tenantID, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("list deal cards: %w", err)
	}
	defer rows.Close()

	cards := make([]entities.Card, 0)
	for rows.Next() {
		c := entities.Card{Kind: entities.PipelineKindDeal}
		if err := rows.Scan(&c.ID, &c.Title, &c.StageID, &c.ValueCents, &c.OwnerID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan deal card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *dealRepository) UpdateCardStage(ctx context.Context, cardID int64, stageID int64) error {
	tag, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET stage_id = $1, updated_at = NOW() WHERE id = $2", dealTable),
		stageID, cardID,
	)
	if err != nil {
		return fmt.Errorf("update deal stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
