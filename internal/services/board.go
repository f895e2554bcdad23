package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/entities"
	"github.com/andimendes/zap-desk-engine/internal/events"
	"github.com/andimendes/zap-desk-engine/internal/repositories"
	"github.com/andimendes/zap-desk-engine/pkg/constants"
	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
	"github.com/andimendes/zap-desk-engine/pkg/eventbus"
)

// CardSource is the slice of a record repository the board needs:
// loading a pipeline's cards and persisting a single stage move. Both
// the ticket and the deal repository satisfy it.
type CardSource interface {
	ListCards(ctx context.Context, tenantID, pipelineID int64) ([]entities.Card, error)
	UpdateCardStage(ctx context.Context, cardID int64, stageID int64) error
}

// Board holds one tenant's kanban view of one pipeline: an owned
// snapshot of every card keyed by ID. Transitions update the snapshot
// optimistically and then persist; when persisting fails the board
// marks itself stale and the caller reloads from the record store
// instead of trying to patch the snapshot back.
type Board struct {
	tenantID   int64
	pipelineID int64
	kind       entities.PipelineKind

	mu     sync.RWMutex
	cards  map[int64]entities.Card
	loaded bool
	stale  bool

	source    CardSource
	directory StageDirectoryInterface
	progress  ProgressLedgerInterface
	bus       *eventbus.Bus
	logger    *zap.Logger
	now       func() time.Time
}

func newBoard(
	tenantID, pipelineID int64,
	kind entities.PipelineKind,
	source CardSource,
	directory StageDirectoryInterface,
	progress ProgressLedgerInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) *Board {
	return &Board{
		tenantID:   tenantID,
		pipelineID: pipelineID,
		kind:       kind,
		cards:      make(map[int64]entities.Card),
		source:     source,
		directory:  directory,
		progress:   progress,
		bus:        bus,
		logger:     logger,
		now:        time.Now,
	}
}

// Reload replaces the snapshot wholesale from the record store. It is
// both the initial load and the reconciliation path after a failed
// transition; there is no per-card repair.
func (b *Board) Reload(ctx context.Context) error {
	cards, err := b.source.ListCards(ctx, b.tenantID, b.pipelineID)
	if err != nil {
		return fmt.Errorf("reload board: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.cards = make(map[int64]entities.Card, len(cards))
	for _, c := range cards {
		b.cards[c.ID] = c
	}
	b.loaded = true
	b.stale = false
	return nil
}

// Invalidate marks the snapshot stale so the next read reloads it.
func (b *Board) Invalidate() {
	b.mu.Lock()
	b.stale = true
	b.mu.Unlock()
}

func (b *Board) ensureFresh(ctx context.Context) error {
	b.mu.RLock()
	ok := b.loaded && !b.stale
	b.mu.RUnlock()
	if ok {
		return nil
	}
	return b.Reload(ctx)
}

// RequestTransition moves a card to another stage. Validation happens
// before any state changes: an unknown destination stage or a missing
// card leaves both the snapshot and the store untouched. A move onto
// the card's current stage is a no-op and performs zero writes.
func (b *Board) RequestTransition(ctx context.Context, payload dto.TransitionDTO) error {
	if err := b.ensureFresh(ctx); err != nil {
		return err
	}

	ok, err := b.directory.Contains(ctx, b.pipelineID, payload.ToStageID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrUnknownStage
	}

	b.mu.Lock()
	card, found := b.cards[payload.CardID]
	if !found {
		b.mu.Unlock()
		return apperrors.ErrNotFound
	}
	if card.StageID == payload.ToStageID {
		b.mu.Unlock()
		return nil
	}

	// Optimistic: the snapshot moves first so the next read already
	// shows the card in its new column.
	fromStageID := card.StageID
	card.StageID = payload.ToStageID
	b.cards[payload.CardID] = card
	b.mu.Unlock()

	if err := b.source.UpdateCardStage(ctx, payload.CardID, payload.ToStageID); err != nil {
		b.logger.Warn("stage move failed to persist, marking board stale",
			zap.Int64("card_id", payload.CardID),
			zap.Int64("from_stage_id", fromStageID),
			zap.Int64("to_stage_id", payload.ToStageID),
			zap.Error(err),
		)
		b.Invalidate()
		return apperrors.ErrBoardStale
	}

	b.bus.Publish(ctx, events.CardsChangedEvent{
		TenantID:   b.tenantID,
		PipelineID: b.pipelineID,
		Kind:       b.kind,
	})
	return nil
}

// Columns renders the snapshot grouped by the pipeline's stage order,
// each card decorated with its derived deadline state and task
// progress. Cards pointing at a stage the directory no longer knows are
// left out of the render rather than invented a column.
func (b *Board) Columns(ctx context.Context) (*dto.BoardDTO, error) {
	if err := b.ensureFresh(ctx); err != nil {
		return nil, err
	}

	stages, err := b.directory.Stages(ctx, b.pipelineID)
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	cards := make([]entities.Card, 0, len(b.cards))
	for _, c := range b.cards {
		cards = append(cards, c)
	}
	b.mu.RUnlock()

	cardIDs := make([]int64, 0, len(cards))
	for _, c := range cards {
		cardIDs = append(cardIDs, c.ID)
	}
	progressByCard, err := b.progress.SummarizeAll(ctx, b.kind, cardIDs)
	if err != nil {
		return nil, err
	}

	codeByStage := make(map[int64]string, len(stages))
	for _, stage := range stages {
		codeByStage[stage.ID] = stage.Code
	}

	now := b.now()
	byStage := make(map[int64][]dto.BoardCardDTO, len(stages))
	for _, c := range cards {
		deadline := ClassifyDeadline(c.CreatedAt, c.AllottedHours, now)
		// The clock stops once a ticket reaches a final stage; a closed
		// ticket is never rendered as breached.
		if c.Kind == entities.PipelineKindTicket && constants.IsFinalTicketStage(codeByStage[c.StageID]) {
			deadline = DeadlineInfo{State: DeadlineNone}
		}
		byStage[c.StageID] = append(byStage[c.StageID], dto.BoardCardDTO{
			ID:         c.ID,
			Kind:       string(c.Kind),
			Title:      c.Title,
			StageID:    c.StageID,
			ValueCents: c.ValueCents,
			OwnerID:    c.OwnerID,
			CreatedAt:  c.CreatedAt.Format(time.RFC3339),
			Deadline: dto.DeadlineDTO{
				State:         string(deadline.State),
				DaysRemaining: deadline.DaysRemaining,
			},
			Progress: progressByCard[c.ID],
		})
	}

	board := &dto.BoardDTO{
		PipelineID: b.pipelineID,
		Columns:    make([]dto.BoardColumnDTO, 0, len(stages)),
	}
	for _, stage := range stages {
		column := dto.BoardColumnDTO{
			Stage: stageToDTO(stage),
			Cards: byStage[stage.ID],
			Count: len(byStage[stage.ID]),
		}
		if column.Cards == nil {
			column.Cards = []dto.BoardCardDTO{}
		}
		board.Columns = append(board.Columns, column)
	}
	return board, nil
}

type BoardServiceInterface interface {
	GetBoard(ctx context.Context, tenantID, pipelineID int64) (*dto.BoardDTO, error)
	RequestTransition(ctx context.Context, tenantID, pipelineID int64, payload dto.TransitionDTO) error
	InvalidateBoards(tenantID, pipelineID int64)
	InvalidatePipeline(pipelineID int64)
}

// BoardService hands out one Board per (tenant, pipeline) pair and
// routes each to the right record source by the pipeline's kind.
type BoardService struct {
	stageRepo  repositories.StageRepositoryInterface
	ticketSrc  CardSource
	dealSrc    CardSource
	directory StageDirectoryInterface
	progress  ProgressLedgerInterface
	bus       *eventbus.Bus
	logger    *zap.Logger

	mu     sync.Mutex
	boards map[string]*Board
}

func NewBoardService(
	stageRepo repositories.StageRepositoryInterface,
	ticketSrc CardSource,
	dealSrc CardSource,
	directory StageDirectoryInterface,
	progress ProgressLedgerInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) *BoardService {
	return &BoardService{
		stageRepo: stageRepo,
		ticketSrc: ticketSrc,
		dealSrc:   dealSrc,
		directory: directory,
		progress:  progress,
		bus:       bus,
		logger:    logger,
		boards:    make(map[string]*Board),
	}
}

func boardKey(tenantID, pipelineID int64) string {
	return fmt.Sprintf("%d:%d", tenantID, pipelineID)
}

func (s *BoardService) board(ctx context.Context, tenantID, pipelineID int64) (*Board, error) {
	key := boardKey(tenantID, pipelineID)

	s.mu.Lock()
	if b, ok := s.boards[key]; ok {
		s.mu.Unlock()
		return b, nil
	}
	s.mu.Unlock()

	pipeline, err := s.stageRepo.FindPipeline(ctx, pipelineID)
	if err != nil {
		return nil, err
	}
	if !pipeline.Fixed && pipeline.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}

	source := s.dealSrc
	if pipeline.Kind == entities.PipelineKindTicket {
		source = s.ticketSrc
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.boards[key]; ok {
		return b, nil
	}
	b := newBoard(tenantID, pipelineID, pipeline.Kind, source, s.directory, s.progress, s.bus, s.logger)
	s.boards[key] = b
	return b, nil
}

func (s *BoardService) GetBoard(ctx context.Context, tenantID, pipelineID int64) (*dto.BoardDTO, error) {
	b, err := s.board(ctx, tenantID, pipelineID)
	if err != nil {
		return nil, err
	}
	return b.Columns(ctx)
}

func (s *BoardService) RequestTransition(ctx context.Context, tenantID, pipelineID int64, payload dto.TransitionDTO) error {
	b, err := s.board(ctx, tenantID, pipelineID)
	if err != nil {
		return err
	}
	return b.RequestTransition(ctx, payload)
}

// InvalidateBoards marks a single tenant's board of a pipeline stale.
func (s *BoardService) InvalidateBoards(tenantID, pipelineID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.boards[boardKey(tenantID, pipelineID)]; ok {
		b.Invalidate()
	}
}

// InvalidatePipeline marks every tenant's board of a pipeline stale.
// Used when the pipeline's stage set changes.
func (s *BoardService) InvalidatePipeline(pipelineID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.boards {
		if b.pipelineID == pipelineID {
			b.Invalidate()
		}
	}
}
