package services

import (
	"context"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
	"github.com/andimendes/zap-desk-engine/pkg/eventbus"
	"github.com/andimendes/zap-desk-engine/pkg/utils"
)

func newTicketFixture(repo *fakeStageRepo, ticketRepo *fakeTicketRepo) TicketServiceInterface {
	directory := newTestDirectory(repo, newFakeCache())
	return NewTicketService(ticketRepo, repo, directory, eventbus.New(zap.NewNop()), zap.NewNop())
}

func TestTicketService_CreatePlacesTicketInFirstStage(t *testing.T) {
	repo := newFakeStageRepo()
	seedTicketPipeline(repo)
	ticketRepo := newFakeTicketRepo()
	svc := newTicketFixture(repo, ticketRepo)

	ticket, err := svc.CreateTicket(context.Background(), 1, dto.CreateTicketDTO{
		Subject:       "Impressora parada",
		AllottedHours: null.Float64From(8),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(11), ticket.StageID, "new ticket starts in the first pipeline stage")
	assert.Equal(t, float64(8), ticket.AllottedHours.Float64)
}

func TestTicketService_CreateFailsWithoutTicketPipeline(t *testing.T) {
	repo := newFakeStageRepo()
	svc := newTicketFixture(repo, newFakeTicketRepo())

	_, err := svc.CreateTicket(context.Background(), 1, dto.CreateTicketDTO{Subject: "Sem fila"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTicketService_TenantIsolation(t *testing.T) {
	repo := newFakeStageRepo()
	seedTicketPipeline(repo)
	ticketRepo := newFakeTicketRepo()
	svc := newTicketFixture(repo, ticketRepo)

	ticket, err := svc.CreateTicket(context.Background(), 1, dto.CreateTicketDTO{Subject: "VPN fora"})
	require.NoError(t, err)

	_, err = svc.FindTicket(context.Background(), 2, ticket.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = svc.UpdateTicket(context.Background(), 2, ticket.ID, dto.UpdateTicketDTO{Subject: utils.ToPtr("x")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	err = svc.DeleteTicket(context.Background(), 2, ticket.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTicketService_UpdateReturnsFreshState(t *testing.T) {
	repo := newFakeStageRepo()
	seedTicketPipeline(repo)
	ticketRepo := newFakeTicketRepo()
	svc := newTicketFixture(repo, ticketRepo)

	ticket, err := svc.CreateTicket(context.Background(), 1, dto.CreateTicketDTO{Subject: "Sem acesso"})
	require.NoError(t, err)

	updated, err := svc.UpdateTicket(context.Background(), 1, ticket.ID, dto.UpdateTicketDTO{
		Subject:       utils.ToPtr("Sem acesso ao ERP"),
		AllottedHours: utils.ToPtr(48.0),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sem acesso ao ERP", updated.Subject)
	assert.Equal(t, float64(48), updated.AllottedHours.Float64)
}
