package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/entities"
	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
)

const (
	quotationTable  = "quotations"
	quotationFields = "id, ref, deal_id, status, created_at, updated_at"
	lineItemTable   = "quotation_line_items"
	lineItemFields  = "id, quotation_id, product_ref, quantity, unit_price_cents, created_at"
)

type QuotationRepositoryInterface interface {
	FindQuotation(ctx context.Context, id int64) (*entities.Quotation, error)
	FindByDeal(ctx context.Context, dealID int64) (*entities.Quotation, error)
	ListItems(ctx context.Context, quotationID int64) ([]entities.LineItem, error)
	CreateForDeal(ctx context.Context, dealID int64) (*entities.Quotation, error)
	AddItem(ctx context.Context, quotationID int64, payload dto.AddLineItemDTO) (*entities.LineItem, error)
	RemoveItem(ctx context.Context, quotationID, itemID int64) error
	SetStatus(ctx context.Context, id int64, from, to entities.QuotationStatus) error
	ApproveAndSetDealValue(ctx context.Context, quotationID, dealID, totalCents int64) error
}

type quotationRepository struct {
	storage *pgxpool.Pool
}

func NewQuotationRepository(storage *pgxpool.Pool) QuotationRepositoryInterface {
	return &quotationRepository{storage: storage}
}

func scanQuotation(row pgx.Row) (*entities.Quotation, error) {
	var q entities.Quotation
	err := row.Scan(&q.ID, &q.Ref, &q.DealID, &q.Status, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan quotation: %w", err)
	}
	return &q, nil
}

func (r *quotationRepository) FindQuotation(ctx context.Context, id int64) (*entities.Quotation, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", quotationFields, quotationTable)
	return scanQuotation(r.storage.QueryRow(ctx, query, id))
}

func (r *quotationRepository) FindByDeal(ctx context.Context, dealID int64) (*entities.Quotation, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE deal_id = $1", quotationFields, quotationTable)
	return scanQuotation(r.storage.QueryRow(ctx, query, dealID))
}

func (r *quotationRepository) ListItems(ctx context.Context, quotationID int64) ([]entities.LineItem, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE quotation_id = $1 ORDER BY id", lineItemFields, lineItemTable)
	rows, err := r.storage.Query(ctx, query, quotationID)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()

	items := make([]entities.LineItem, 0)
	for rows.Next() {
		var li entities.LineItem
		if err := rows.Scan(&li.ID, &li.QuotationID, &li.ProductRef, &li.Quantity, &li.UnitPriceCents, &li.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		items = append(items, li)
	}
	return items, rows.Err()
}

func (r *quotationRepository) CreateForDeal(ctx context.Context, dealID int64) (*entities.Quotation, error) {
	query := fmt.Sprintf("INSERT INTO %s (ref, deal_id) VALUES ($1, $2) RETURNING %s", quotationTable, quotationFields)
	q, err := scanQuotation(r.storage.QueryRow(ctx, query, uuid.New(), dealID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrQuotationExists
		}
		return nil, err
	}
	return q, nil
}

func (r *quotationRepository) AddItem(ctx context.Context, quotationID int64, payload dto.AddLineItemDTO) (*entities.LineItem, error) {
	query := fmt.Sprintf(
		"INSERT INTO %s (quotation_id, product_ref, quantity, unit_price_cents) VALUES ($1, $2, $3, $4) RETURNING %s",
		lineItemTable, lineItemFields,
	)
	var li entities.LineItem
	err := r.storage.QueryRow(ctx, query, quotationID, payload.ProductRef, payload.Quantity, payload.UnitPriceCents).Scan(
		&li.ID, &li.QuotationID, &li.ProductRef, &li.Quantity, &li.UnitPriceCents, &li.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert line item: %w", err)
	}
	return &li, nil
}

func (r *quotationRepository) RemoveItem(ctx context.Context, quotationID, itemID int64) error {
	tag, err := r.storage.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND quotation_id = $2", lineItemTable),
		itemID, quotationID,
	)
	if err != nil {
		return fmt.Errorf("delete line item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetStatus advances the workflow with a compare-and-set on the current
// status, so a concurrent writer can never move a quotation backwards.
func (r *quotationRepository) SetStatus(ctx context.Context, id int64, from, to entities.QuotationStatus) error {
	tag, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3", quotationTable),
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("update quotation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// ApproveAndSetDealValue flips the quotation to APPROVED and writes the
// computed total into the parent deal in a single transaction, so the
// value propagation happens exactly once or not at all.
func (r *quotationRepository) ApproveAndSetDealValue(ctx context.Context, quotationID, dealID, totalCents int64) (err error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3", quotationTable),
		entities.QuotationApproved, quotationID, entities.QuotationSent,
	)
	if err != nil {
		return fmt.Errorf("approve quotation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = apperrors.ErrConflict
		return err
	}

	if _, err = tx.Exec(ctx,
		"UPDATE deals SET value_cents = $1, updated_at = NOW() WHERE id = $2",
		totalCents, dealID,
	); err != nil {
		return fmt.Errorf("propagate deal value: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
