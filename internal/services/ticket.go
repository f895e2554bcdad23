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
	"github.com/andimendes/zap-desk-engine/pkg/types"
)

type TicketServiceInterface interface {
	GetTickets(ctx context.Context, tenantID int64, filter types.Filter) ([]dto.TicketDTO, uint64, error)
	FindTicket(ctx context.Context, tenantID, ticketID int64) (*dto.TicketDTO, error)
	CreateTicket(ctx context.Context, tenantID int64, payload dto.CreateTicketDTO) (*dto.TicketDTO, error)
	UpdateTicket(ctx context.Context, tenantID, ticketID int64, payload dto.UpdateTicketDTO) (*dto.TicketDTO, error)
	DeleteTicket(ctx context.Context, tenantID, ticketID int64) error
}

type TicketService struct {
	ticketRepo repositories.TicketRepositoryInterface
	stageRepo  repositories.StageRepositoryInterface
	directory  StageDirectoryInterface
	bus        *eventbus.Bus
	logger     *zap.Logger
}

func NewTicketService(
	ticketRepo repositories.TicketRepositoryInterface,
	stageRepo repositories.StageRepositoryInterface,
	directory StageDirectoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) TicketServiceInterface {
	return &TicketService{
		ticketRepo: ticketRepo,
		stageRepo:  stageRepo,
		directory:  directory,
		bus:        bus,
		logger:     logger,
	}
}

func ticketToDTO(t *entities.Ticket) *dto.TicketDTO {
	return &dto.TicketDTO{
		ID:            t.ID,
		Subject:       t.Subject,
		StageID:       t.StageID,
		AllottedHours: t.AllottedHours,
		OwnerID:       t.OwnerID,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *TicketService) GetTickets(ctx context.Context, tenantID int64, filter types.Filter) ([]dto.TicketDTO, uint64, error) {
	tickets, total, err := s.ticketRepo.GetTickets(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.TicketDTO, 0, len(tickets))
	for i := range tickets {
		out = append(out, *ticketToDTO(&tickets[i]))
	}
	return out, total, nil
}

func (s *TicketService) findOwned(ctx context.Context, tenantID, ticketID int64) (*entities.Ticket, error) {
	ticket, err := s.ticketRepo.FindTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return ticket, nil
}

func (s *TicketService) FindTicket(ctx context.Context, tenantID, ticketID int64) (*dto.TicketDTO, error) {
	ticket, err := s.findOwned(ctx, tenantID, ticketID)
	if err != nil {
		return nil, err
	}
	return ticketToDTO(ticket), nil
}

// CreateTicket places the new ticket in the first stage of the fixed
// ticket pipeline.
func (s *TicketService) CreateTicket(ctx context.Context, tenantID int64, payload dto.CreateTicketDTO) (*dto.TicketDTO, error) {
	pipeline, err := s.stageRepo.FindTicketPipeline(ctx)
	if err != nil {
		return nil, err
	}
	first, err := s.directory.FirstStage(ctx, pipeline.ID)
	if err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.CreateTicket(ctx, tenantID, first.ID, payload)
	if err != nil {
		return nil, err
	}
	s.logger.Info("ticket created",
		zap.Int64("ticket_id", ticket.ID),
		zap.Int64("tenant_id", tenantID),
	)
	s.bus.Publish(ctx, events.CardsChangedEvent{
		TenantID:   tenantID,
		PipelineID: pipeline.ID,
		Kind:       entities.PipelineKindTicket,
	})
	return ticketToDTO(ticket), nil
}

func (s *TicketService) UpdateTicket(ctx context.Context, tenantID, ticketID int64, payload dto.UpdateTicketDTO) (*dto.TicketDTO, error) {
	if _, err := s.findOwned(ctx, tenantID, ticketID); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.UpdateTicket(ctx, ticketID, payload); err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.FindTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	s.publishChanged(ctx, tenantID)
	return ticketToDTO(ticket), nil
}

func (s *TicketService) DeleteTicket(ctx context.Context, tenantID, ticketID int64) error {
	if _, err := s.findOwned(ctx, tenantID, ticketID); err != nil {
		return err
	}
	if err := s.ticketRepo.DeleteTicket(ctx, ticketID); err != nil {
		return err
	}
	s.publishChanged(ctx, tenantID)
	return nil
}

func (s *TicketService) publishChanged(ctx context.Context, tenantID int64) {
	pipeline, err := s.stageRepo.FindTicketPipeline(ctx)
	if err != nil {
		s.logger.Warn("ticket pipeline lookup failed, skipping change event", zap.Error(err))
		return
	}
	s.bus.Publish(ctx, events.CardsChangedEvent{
		TenantID:   tenantID,
		PipelineID: pipeline.ID,
		Kind:       entities.PipelineKindTicket,
	})
}
