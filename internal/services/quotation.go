package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/entities"
	"github.com/andimendes/zap-desk-engine/internal/events"
	"github.com/andimendes/zap-desk-engine/internal/repositories"
	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
	"github.com/andimendes/zap-desk-engine/pkg/eventbus"
)

type QuotationServiceInterface interface {
	CreateForDeal(ctx context.Context, tenantID, dealID int64) (*dto.QuotationDTO, error)
	GetByDeal(ctx context.Context, tenantID, dealID int64) (*dto.QuotationDTO, error)
	AddItem(ctx context.Context, tenantID, quotationID int64, payload dto.AddLineItemDTO) (*dto.QuotationDTO, error)
	RemoveItem(ctx context.Context, tenantID, quotationID, itemID int64) (*dto.QuotationDTO, error)
	MarkSent(ctx context.Context, tenantID, quotationID int64) (*dto.QuotationDTO, error)
	Approve(ctx context.Context, tenantID, quotationID int64) (*dto.QuotationDTO, error)
	Reject(ctx context.Context, tenantID, quotationID int64) (*dto.QuotationDTO, error)
}

// QuotationService runs the Draft -> Sent -> {Approved, Rejected}
// workflow. Line items only change while Draft; approval writes the
// quotation total into the parent deal's value exactly once.
type QuotationService struct {
	quotationRepo repositories.QuotationRepositoryInterface
	dealRepo      repositories.DealRepositoryInterface
	bus           *eventbus.Bus
	logger        *zap.Logger
}

func NewQuotationService(
	quotationRepo repositories.QuotationRepositoryInterface,
	dealRepo repositories.DealRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) QuotationServiceInterface {
	return &QuotationService{
		quotationRepo: quotationRepo,
		dealRepo:      dealRepo,
		bus:           bus,
		logger:        logger,
	}
}

func quotationToDTO(q *entities.Quotation, items []entities.LineItem) *dto.QuotationDTO {
	out := &dto.QuotationDTO{
		ID:         q.ID,
		Ref:        q.Ref.String(),
		DealID:     q.DealID,
		Status:     string(q.Status),
		Items:      make([]dto.LineItemDTO, 0, len(items)),
		TotalCents: entities.TotalCents(items),
		CreatedAt:  q.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  q.UpdatedAt.Format(time.RFC3339),
	}
	for _, li := range items {
		out.Items = append(out.Items, dto.LineItemDTO{
			ID:             li.ID,
			ProductRef:     li.ProductRef,
			Quantity:       li.Quantity,
			UnitPriceCents: li.UnitPriceCents,
			SubtotalCents:  li.SubtotalCents(),
		})
	}
	return out
}

func (s *QuotationService) ownedDeal(ctx context.Context, tenantID, dealID int64) (*entities.Deal, error) {
	deal, err := s.dealRepo.FindDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return deal, nil
}

func (s *QuotationService) findOwned(ctx context.Context, tenantID, quotationID int64) (*entities.Quotation, *entities.Deal, error) {
	quotation, err := s.quotationRepo.FindQuotation(ctx, quotationID)
	if err != nil {
		return nil, nil, err
	}
	deal, err := s.ownedDeal(ctx, tenantID, quotation.DealID)
	if err != nil {
		return nil, nil, err
	}
	return quotation, deal, nil
}

func (s *QuotationService) render(ctx context.Context, quotation *entities.Quotation) (*dto.QuotationDTO, error) {
	items, err := s.quotationRepo.ListItems(ctx, quotation.ID)
	if err != nil {
		return nil, err
	}
	return quotationToDTO(quotation, items), nil
}

// CreateForDeal attaches a fresh Draft quotation to the deal. A deal
// holds at most one quotation; a second create reports the conflict.
func (s *QuotationService) CreateForDeal(ctx context.Context, tenantID, dealID int64) (*dto.QuotationDTO, error) {
	if _, err := s.ownedDeal(ctx, tenantID, dealID); err != nil {
		return nil, err
	}
	quotation, err := s.quotationRepo.CreateForDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("quotation created",
		zap.Int64("quotation_id", quotation.ID),
		zap.Int64("deal_id", dealID),
		zap.String("ref", quotation.Ref.String()),
	)
	return quotationToDTO(quotation, nil), nil
}

func (s *QuotationService) GetByDeal(ctx context.Context, tenantID, dealID int64) (*dto.QuotationDTO, error) {
	if _, err := s.ownedDeal(ctx, tenantID, dealID); err != nil {
		return nil, err
	}
	quotation, err := s.quotationRepo.FindByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, quotation)
}

func (s *QuotationService) AddItem(ctx context.Context, tenantID, quotationID int64, payload dto.AddLineItemDTO) (*dto.QuotationDTO, error) {
	quotation, _, err := s.findOwned(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}
	if quotation.Status != entities.QuotationDraft {
		return nil, apperrors.ErrQuotationFrozen
	}
	if _, err := s.quotationRepo.AddItem(ctx, quotationID, payload); err != nil {
		return nil, err
	}
	return s.render(ctx, quotation)
}

func (s *QuotationService) RemoveItem(ctx context.Context, tenantID, quotationID, itemID int64) (*dto.QuotationDTO, error) {
	quotation, _, err := s.findOwned(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}
	if quotation.Status != entities.QuotationDraft {
		return nil, apperrors.ErrQuotationFrozen
	}
	if err := s.quotationRepo.RemoveItem(ctx, quotationID, itemID); err != nil {
		return nil, err
	}
	return s.render(ctx, quotation)
}

// MarkSent advances Draft to Sent. Calling it on a quotation that is
// already Sent is a no-op rather than an error.
func (s *QuotationService) MarkSent(ctx context.Context, tenantID, quotationID int64) (*dto.QuotationDTO, error) {
	quotation, _, err := s.findOwned(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}
	if quotation.Status == entities.QuotationSent {
		return s.render(ctx, quotation)
	}
	if !quotation.Status.CanAdvanceTo(entities.QuotationSent) {
		return nil, apperrors.ErrInvalidTransition
	}

	if err := s.quotationRepo.SetStatus(ctx, quotationID, entities.QuotationDraft, entities.QuotationSent); err != nil {
		return nil, err
	}
	quotation.Status = entities.QuotationSent
	return s.render(ctx, quotation)
}

// Approve moves Sent to Approved and writes the quotation total into
// the parent deal's value in the same transaction. Re-approving an
// Approved quotation returns its current state without touching the
// store, so the deal value is propagated exactly once.
func (s *QuotationService) Approve(ctx context.Context, tenantID, quotationID int64) (*dto.QuotationDTO, error) {
	quotation, deal, err := s.findOwned(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}
	if quotation.Status == entities.QuotationApproved {
		return s.render(ctx, quotation)
	}
	if !quotation.Status.CanAdvanceTo(entities.QuotationApproved) {
		return nil, apperrors.ErrInvalidTransition
	}

	items, err := s.quotationRepo.ListItems(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	total := entities.TotalCents(items)

	if err := s.quotationRepo.ApproveAndSetDealValue(ctx, quotationID, deal.ID, total); err != nil {
		return nil, err
	}
	quotation.Status = entities.QuotationApproved
	s.logger.Info("quotation approved",
		zap.Int64("quotation_id", quotationID),
		zap.Int64("deal_id", deal.ID),
		zap.Int64("total_cents", total),
	)
	s.bus.Publish(ctx, events.CardsChangedEvent{
		TenantID:   deal.TenantID,
		PipelineID: deal.PipelineID,
		Kind:       entities.PipelineKindDeal,
	})
	return quotationToDTO(quotation, items), nil
}

// Reject moves Sent to Rejected and leaves the deal's value alone.
// Re-rejecting a Rejected quotation is a no-op.
func (s *QuotationService) Reject(ctx context.Context, tenantID, quotationID int64) (*dto.QuotationDTO, error) {
	quotation, _, err := s.findOwned(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}
	if quotation.Status == entities.QuotationRejected {
		return s.render(ctx, quotation)
	}
	if !quotation.Status.CanAdvanceTo(entities.QuotationRejected) {
		return nil, apperrors.ErrInvalidTransition
	}

	if err := s.quotationRepo.SetStatus(ctx, quotationID, entities.QuotationSent, entities.QuotationRejected); err != nil {
		return nil, err
	}
	quotation.Status = entities.QuotationRejected
	return s.render(ctx, quotation)
}
