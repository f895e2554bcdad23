package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/entities"
	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
	"github.com/andimendes/zap-desk-engine/pkg/eventbus"
)

func newTestBoard(source *fakeCardSource, repo *fakeStageRepo) *Board {
	directory := newTestDirectory(repo, newFakeCache())
	bus := eventbus.New(zap.NewNop())
	return newBoard(1, 7, entities.PipelineKindDeal, source, directory, fakeProgressLedger{}, bus, zap.NewNop())
}

func TestBoard_TransitionMovesCardAndPersists(t *testing.T) {
	repo := newFakeStageRepo()
	seedDealFunnel(repo, 1)
	source := newFakeCardSource(entities.Card{ID: 100, Kind: entities.PipelineKindDeal, Title: "Migração ERP", StageID: 71})
	board := newTestBoard(source, repo)

	err := board.RequestTransition(context.Background(), dto.TransitionDTO{CardID: 100, FromStageID: 71, ToStageID: 72})
	require.NoError(t, err)

	assert.Equal(t, 1, source.updateCalls)
	assert.Equal(t, int64(72), source.cards[100].StageID)

	rendered, err := board.Columns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, rendered.Columns[0].Count)
	assert.Equal(t, 1, rendered.Columns[1].Count)
}

func TestBoard_TransitionToCurrentStageIsNoOp(t *testing.T) {
	repo := newFakeStageRepo()
	seedDealFunnel(repo, 1)
	source := newFakeCardSource(entities.Card{ID: 100, StageID: 71})
	board := newTestBoard(source, repo)

	err := board.RequestTransition(context.Background(), dto.TransitionDTO{CardID: 100, FromStageID: 71, ToStageID: 71})
	require.NoError(t, err)

	assert.Zero(t, source.updateCalls, "no-op move must not write")
}

func TestBoard_TransitionToUnknownStageRejectedBeforeAnyWrite(t *testing.T) {
	repo := newFakeStageRepo()
	seedDealFunnel(repo, 1)
	source := newFakeCardSource(entities.Card{ID: 100, StageID: 71})
	board := newTestBoard(source, repo)

	err := board.RequestTransition(context.Background(), dto.TransitionDTO{CardID: 100, FromStageID: 71, ToStageID: 999})
	assert.ErrorIs(t, err, apperrors.ErrUnknownStage)
	assert.Zero(t, source.updateCalls)

	rendered, err := board.Columns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rendered.Columns[0].Count, "card must remain where it was")
}

func TestBoard_TransitionOfMissingCard(t *testing.T) {
	repo := newFakeStageRepo()
	seedDealFunnel(repo, 1)
	source := newFakeCardSource()
	board := newTestBoard(source, repo)

	err := board.RequestTransition(context.Background(), dto.TransitionDTO{CardID: 42, FromStageID: 71, ToStageID: 72})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Zero(t, source.updateCalls)
}

func TestBoard_PersistFailureMarksStaleAndReloadRecovers(t *testing.T) {
	repo := newFakeStageRepo()
	seedDealFunnel(repo, 1)
	source := newFakeCardSource(entities.Card{ID: 100, StageID: 71})
	board := newTestBoard(source, repo)
	require.NoError(t, board.Reload(context.Background()))

	source.failUpdate = errors.New("connection reset")
	err := board.RequestTransition(context.Background(), dto.TransitionDTO{CardID: 100, FromStageID: 71, ToStageID: 72})
	assert.ErrorIs(t, err, apperrors.ErrBoardStale)

	// The store never changed, so the reconciling read shows the card
	// back in its original stage.
	source.failUpdate = nil
	rendered, err := board.Columns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rendered.Columns[0].Count)
	assert.Equal(t, 0, rendered.Columns[1].Count)
}

func TestBoard_ColumnsExcludeCardsInUnknownStages(t *testing.T) {
	repo := newFakeStageRepo()
	seedDealFunnel(repo, 1)
	source := newFakeCardSource(
		entities.Card{ID: 100, StageID: 71},
		entities.Card{ID: 101, StageID: 555},
	)
	board := newTestBoard(source, repo)

	rendered, err := board.Columns(context.Background())
	require.NoError(t, err)

	total := 0
	for _, col := range rendered.Columns {
		total += col.Count
	}
	assert.Equal(t, 1, total, "card in a stage the directory does not know is left out")
}

func TestBoard_ColumnsDecorateDeadlineAndValue(t *testing.T) {
	repo := newFakeStageRepo()
	seedDealFunnel(repo, 1)
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	source := newFakeCardSource(entities.Card{
		ID:            100,
		Kind:          entities.PipelineKindDeal,
		Title:         "Contrato anual",
		StageID:       71,
		AllottedHours: null.Float64From(24),
		ValueCents:    null.Int64From(500000),
		CreatedAt:     created,
	})
	board := newTestBoard(source, repo)
	board.now = func() time.Time { return created.Add(48 * time.Hour) }

	rendered, err := board.Columns(context.Background())
	require.NoError(t, err)

	require.Len(t, rendered.Columns[0].Cards, 1)
	card := rendered.Columns[0].Cards[0]
	assert.Equal(t, string(DeadlineBreached), card.Deadline.State)
	assert.Equal(t, int64(500000), card.ValueCents.Int64)
}

func TestBoard_ClosedTicketShowsNoDeadline(t *testing.T) {
	repo := newFakeStageRepo()
	seedTicketPipeline(repo)
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	source := newFakeCardSource(entities.Card{
		ID:            200,
		Kind:          entities.PipelineKindTicket,
		Title:         "Impressora parada",
		StageID:       14,
		AllottedHours: null.Float64From(8),
		CreatedAt:     created,
	})
	directory := newTestDirectory(repo, newFakeCache())
	board := newBoard(1, 1, entities.PipelineKindTicket, source, directory, fakeProgressLedger{}, eventbus.New(zap.NewNop()), zap.NewNop())
	board.now = func() time.Time { return created.Add(72 * time.Hour) }

	rendered, err := board.Columns(context.Background())
	require.NoError(t, err)

	require.Len(t, rendered.Columns[3].Cards, 1)
	assert.Equal(t, string(DeadlineNone), rendered.Columns[3].Cards[0].Deadline.State)
}

func TestBoardService_RejectsForeignPipeline(t *testing.T) {
	repo := newFakeStageRepo()
	seedDealFunnel(repo, 2)
	svc := NewBoardService(repo, newFakeCardSource(), newFakeCardSource(), newTestDirectory(repo, newFakeCache()), fakeProgressLedger{}, eventbus.New(zap.NewNop()), zap.NewNop())

	_, err := svc.GetBoard(context.Background(), 1, 7)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
