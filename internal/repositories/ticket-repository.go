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
	ticketTable  = "tickets"
	ticketFields = "id, tenant_id, subject, stage_id, allotted_hours, owner_id, created_at, updated_at"
)

// ticketFilterColumns whitelists the fields clients may filter/sort by.
var ticketFilterColumns = map[string]string{
	"stage_id":   "stage_id",
	"owner_id":   "owner_id",
	"created_at": "created_at",
}

type TicketRepositoryInterface interface {
	GetTickets(ctx context.Context, tenantID int64, filter types.Filter) ([]entities.Ticket, uint64, error)
	FindTicket(ctx context.Context, id int64) (*entities.Ticket, error)
	CreateTicket(ctx context.Context, tenantID int64, stageID int64, payload dto.CreateTicketDTO) (*entities.Ticket, error)
	UpdateTicket(ctx context.Context, id int64, payload dto.UpdateTicketDTO) error
	DeleteTicket(ctx context.Context, id int64) error
	ListCards(ctx context.Context, tenantID, pipelineID int64) ([]entities.Card, error)
	UpdateCardStage(ctx context.Context, cardID int64, stageID int64) error
}

type ticketRepository struct {
	storage *pgxpool.Pool
}

func NewTicketRepository(storage *pgxpool.Pool) TicketRepositoryInterface {
	return &ticketRepository{storage: storage}
}

func scanTicket(row pgx.Row) (*entities.Ticket, error) {
	var t entities.Ticket
	err := row.Scan(&t.ID, &t.TenantID, &t.Subject, &t.StageID, &t.AllottedHours, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan ticket: %w", err)
	}
	return &t, nil
}

func (r *ticketRepository) GetTickets(ctx context.Context, tenantID int64, filter types.Filter) ([]entities.Ticket, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := bd.ApplyListParams(
		psql.Select("COUNT(*)").From(ticketTable).Where(sq.Eq{"tenant_id": tenantID}),
		types.Filter{Filter: filter.Filter},
		ticketFilterColumns,
	)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build ticket count query: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tickets: %w", err)
	}

	builder := bd.ApplyListParams(
		psql.Select(ticketFields).From(ticketTable).Where(sq.Eq{"tenant_id": tenantID}),
		filter,
		ticketFilterColumns,
	)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("created_at DESC")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build ticket list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]entities.Ticket, 0)
	for rows.Next() {
		var t entities.Ticket
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Subject, &t.StageID, &t.AllottedHours, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan ticket row: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, total, rows.Err()
}

func (r *ticketRepository) FindTicket(ctx context.Context, id int64) (*entities.Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", ticketFields, ticketTable)
	return scanTicket(r.storage.QueryRow(ctx, query, id))
}

func (r *ticketRepository) CreateTicket(ctx context.Context, tenantID int64, stageID int64, payload dto.CreateTicketDTO) (*entities.Ticket, error) {
	query := fmt.Sprintf(
		"INSERT INTO %s (tenant_id, subject, stage_id, allotted_hours, owner_id) VALUES ($1, $2, $3, $4, $5) RETURNING %s",
		ticketTable, ticketFields,
	)
	return scanTicket(r.storage.QueryRow(ctx, query, tenantID, payload.Subject, stageID, payload.AllottedHours, payload.OwnerID))
}

func (r *ticketRepository) UpdateTicket(ctx context.Context, id int64, payload dto.UpdateTicketDTO) error {
	setClauses := "updated_at = NOW()"
	args := []interface{}{}
	argID := 1

	if payload.Subject != nil {
		setClauses += fmt.Sprintf(", subject = $%d", argID)
		args = append(args, *payload.Subject)
		argID++
	}
	if payload.AllottedHours != nil {
		setClauses += fmt.Sprintf(", allotted_hours = $%d", argID)
		args = append(args, *payload.AllottedHours)
		argID++
	}
	if payload.OwnerID != nil {
		setClauses += fmt.Sprintf(", owner_id = $%d", argID)
		args = append(args, *payload.OwnerID)
		argID++
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", ticketTable, setClauses, argID)
	args = append(args, id)

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ticketRepository) DeleteTicket(ctx context.Context, id int64) error {
	tag, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", ticketTable), id)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListCards returns the board view of a tenant's tickets. The pipeline
// argument is accepted for symmetry with deals; tickets always live in
// the fixed pipeline.
func (r *ticketRepository) ListCards(ctx context.Context, tenantID, _ int64) ([]entities.Card, error) {
	query := fmt.Sprintf("SELECT id, subject, stage_id, allotted_hours, owner_id, created_at FROM %s WHERE tenant_id = $1", ticketTable)
	rows, err := r.storage.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list ticket cards: %w", err)
	}
	defer rows.Close()

	cards := make([]entities.Card, 0)
	for rows.Next() {
		c := entities.Card{Kind: entities.PipelineKindTicket}
		if err := rows.Scan(&c.ID, &c.Title, &c.StageID, &c.AllottedHours, &c.OwnerID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *ticketRepository) UpdateCardStage(ctx context.Context, cardID int64, stageID int64) error {
	tag, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET stage_id = $1, updated_at = NOW() WHERE id = $2", ticketTable),
		stageID, cardID,
	)
	if err != nil {
		return fmt.Errorf("update ticket stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
