package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/andimendes/zap-desk-engine/internal/dto"
	"github.com/andimendes/zap-desk-engine/internal/entities"
	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
	"github.com/andimendes/zap-desk-engine/pkg/types"
)

// In-memory fakes for the repository interfaces. Write methods count
// their invocations so tests can assert that no-op paths really perform
// zero writes.

type fakeStageRepo struct {
	pipelines      map[int64]*entities.Pipeline
	stages         map[int64][]entities.Stage
	getStagesCalls int
}

func newFakeStageRepo() *fakeStageRepo {
	return &fakeStageRepo{
		pipelines: make(map[int64]*entities.Pipeline),
		stages:    make(map[int64][]entities.Stage),
	}
}

func (f *fakeStageRepo) addPipeline(p entities.Pipeline, stages ...entities.Stage) {
	cp := p
	f.pipelines[p.ID] = &cp
	f.stages[p.ID] = stages
}

func (f *fakeStageRepo) FindPipeline(_ context.Context, id int64) (*entities.Pipeline, error) {
	if p, ok := f.pipelines[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeStageRepo) FindTicketPipeline(_ context.Context) (*entities.Pipeline, error) {
	for _, p := range f.pipelines {
		if p.Kind == entities.PipelineKindTicket && p.Fixed {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeStageRepo) GetPipelines(_ context.Context, tenantID int64) ([]entities.Pipeline, error) {
	out := make([]entities.Pipeline, 0)
	for _, p := range f.pipelines {
		if p.TenantID == tenantID || p.Fixed {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStageRepo) GetStages(_ context.Context, pipelineID int64) ([]entities.Stage, error) {
	f.getStagesCalls++
	return f.stages[pipelineID], nil
}

func (f *fakeStageRepo) FindStage(_ context.Context, stageID int64) (*entities.Stage, error) {
	for _, stages := range f.stages {
		for _, s := range stages {
			if s.ID == stageID {
				cp := s
				return &cp, nil
			}
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeStageRepo) CreatePipeline(_ context.Context, tenantID int64, payload dto.CreatePipelineDTO) (*entities.Pipeline, []entities.Stage, error) {
	id := int64(len(f.pipelines) + 1)
	p := entities.Pipeline{ID: id, TenantID: tenantID, Name: payload.Name, Kind: entities.PipelineKindDeal}
	stages := make([]entities.Stage, 0, len(payload.Stages))
	for i, sp := range payload.Stages {
		stages = append(stages, entities.Stage{
			ID:           id*100 + int64(i),
			PipelineID:   id,
			Name:         sp.Name,
			Code:         sp.Code,
			DisplayOrder: sp.DisplayOrder,
		})
	}
	f.addPipeline(p, stages...)
	return &p, stages, nil
}

func (f *fakeStageRepo) CreateStage(_ context.Context, pipelineID int64, payload dto.CreateStageDTO) (*entities.Stage, error) {
	s := entities.Stage{
		ID:           int64(1000 + len(f.stages[pipelineID])),
		PipelineID:   pipelineID,
		Name:         payload.Name,
		Code:         payload.Code,
		DisplayOrder: payload.DisplayOrder,
	}
	f.stages[pipelineID] = append(f.stages[pipelineID], s)
	return &s, nil
}

func (f *fakeStageRepo) UpdateStage(_ context.Context, stageID int64, payload dto.UpdateStageDTO) (*entities.Stage, error) {
	for pid, stages := range f.stages {
		for i, s := range stages {
			if s.ID == stageID {
				if payload.Name != nil {
					s.Name = *payload.Name
				}
				if payload.DisplayOrder != nil {
					s.DisplayOrder = *payload.DisplayOrder
				}
				f.stages[pid][i] = s
				return &s, nil
			}
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeStageRepo) DeleteStage(_ context.Context, stageID int64) error {
	for pid, stages := range f.stages {
		for i, s := range stages {
			if s.ID == stageID {
				f.stages[pid] = append(stages[:i:i], stages[i+1:]...)
				return nil
			}
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeStageRepo) DeletePipeline(_ context.Context, pipelineID int64) error {
	if _, ok := f.pipelines[pipelineID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.pipelines, pipelineID)
	delete(f.stages, pipelineID)
	return nil
}

type fakeCache struct {
	store    map[string]string
	setCalls int
	delCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.store[key]; ok {
		return v, nil
	}
	return "", errors.New("cache miss")
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.setCalls++
	f.store[key] = value.(string)
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	f.delCalls++
	for _, k := range keys {
		delete(f.store, k)
	}
	return nil
}

type fakeCardSource struct {
	cards       map[int64]entities.Card
	updateCalls int
	failUpdate  error
}

func newFakeCardSource(cards ...entities.Card) *fakeCardSource {
	f := &fakeCardSource{cards: make(map[int64]entities.Card)}
	for _, c := range cards {
		f.cards[c.ID] = c
	}
	return f
}

func (f *fakeCardSource) ListCards(_ context.Context, _, _ int64) ([]entities.Card, error) {
	out := make([]entities.Card, 0, len(f.cards))
	for _, c := range f.cards {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCardSource) UpdateCardStage(_ context.Context, cardID int64, stageID int64) error {
	f.updateCalls++
	if f.failUpdate != nil {
		return f.failUpdate
	}
	c, ok := f.cards[cardID]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.StageID = stageID
	f.cards[cardID] = c
	return nil
}

type fakeProgressLedger struct{}

func (fakeProgressLedger) Summarize(_ context.Context, _ entities.PipelineKind, _ int64) (dto.ProgressDTO, error) {
	return dto.ProgressDTO{}, nil
}

func (fakeProgressLedger) SummarizeAll(_ context.Context, _ entities.PipelineKind, cardIDs []int64) (map[int64]dto.ProgressDTO, error) {
	out := make(map[int64]dto.ProgressDTO, len(cardIDs))
	for _, id := range cardIDs {
		out[id] = dto.ProgressDTO{}
	}
	return out, nil
}

type fakeTaskRepo struct {
	tasks map[int64][]entities.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[int64][]entities.Task)}
}

func (f *fakeTaskRepo) GetTasksForCard(_ context.Context, _ entities.PipelineKind, cardID int64) ([]entities.Task, error) {
	return f.tasks[cardID], nil
}

func (f *fakeTaskRepo) MapTasksForCards(_ context.Context, _ entities.PipelineKind, cardIDs []int64) (map[int64][]entities.Task, error) {
	out := make(map[int64][]entities.Task)
	for _, id := range cardIDs {
		out[id] = f.tasks[id]
	}
	return out, nil
}

func (f *fakeTaskRepo) FindTask(_ context.Context, id int64) (*entities.Task, error) {
	for _, tasks := range f.tasks {
		for _, t := range tasks {
			if t.ID == id {
				cp := t
				return &cp, nil
			}
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeTaskRepo) CreateTask(_ context.Context, payload dto.CreateTaskDTO) (*entities.Task, error) {
	t := entities.Task{
		ID:       int64(len(f.tasks[payload.CardID]) + 1),
		CardKind: entities.PipelineKind(payload.CardKind),
		CardID:   payload.CardID,
		Title:    payload.Title,
		DueAt:    payload.DueAt,
	}
	f.tasks[payload.CardID] = append(f.tasks[payload.CardID], t)
	return &t, nil
}

func (f *fakeTaskRepo) UpdateTask(_ context.Context, id int64, payload dto.UpdateTaskDTO) error {
	for cardID, tasks := range f.tasks {
		for i, t := range tasks {
			if t.ID == id {
				if payload.Title != nil {
					t.Title = *payload.Title
				}
				if payload.Done != nil {
					t.Done = *payload.Done
				}
				f.tasks[cardID][i] = t
				return nil
			}
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeTaskRepo) DeleteTask(_ context.Context, id int64) error {
	for cardID, tasks := range f.tasks {
		for i, t := range tasks {
			if t.ID == id {
				f.tasks[cardID] = append(tasks[:i:i], tasks[i+1:]...)
				return nil
			}
		}
	}
	return apperrors.ErrNotFound
}

type fakeDealRepo struct {
	deals map[int64]*entities.Deal
}

func newFakeDealRepo(deals ...entities.Deal) *fakeDealRepo {
	f := &fakeDealRepo{deals: make(map[int64]*entities.Deal)}
	for _, d := range deals {
		cp := d
		f.deals[d.ID] = &cp
	}
	return f
}

func (f *fakeDealRepo) GetDeals(_ context.Context, _ int64, _ types.Filter) ([]entities.Deal, uint64, error) {
	out := make([]entities.Deal, 0, len(f.deals))
	for _, d := range f.deals {
		out = append(out, *d)
	}
	return out, uint64(len(out)), nil
}

func (f *fakeDealRepo) FindDeal(_ context.Context, id int64) (*entities.Deal, error) {
	if d, ok := f.deals[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeDealRepo) CreateDeal(_ context.Context, tenantID int64, stageID int64, payload dto.CreateDealDTO) (*entities.Deal, error) {
	d := &entities.Deal{
		ID:         int64(len(f.deals) + 1),
		TenantID:   tenantID,
		Title:      payload.Title,
		PipelineID: payload.PipelineID,
		StageID:    stageID,
		ValueCents: payload.ValueCents,
		OwnerID:    payload.OwnerID,
	}
	f.deals[d.ID] = d
	cp := *d
	return &cp, nil
}

func (f *fakeDealRepo) UpdateDeal(_ context.Context, id int64, payload dto.UpdateDealDTO) error {
	d, ok := f.deals[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if payload.Title != nil {
		d.Title = *payload.Title
	}
	if payload.ValueCents != nil {
		d.ValueCents.SetValid(*payload.ValueCents)
	}
	return nil
}

func (f *fakeDealRepo) DeleteDeal(_ context.Context, id int64) error {
	if _, ok := f.deals[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.deals, id)
	return nil
}

func (f *fakeDealRepo) ListCards(_ context.Context, tenantID, pipelineID int64) ([]entities.Card, error) {
	out := make([]entities.Card, 0)
	for _, d := range f.deals {
		if d.TenantID == tenantID && d.PipelineID == pipelineID {
			out = append(out, entities.Card{
				ID:         d.ID,
				Kind:       entities.PipelineKindDeal,
				Title:      d.Title,
				StageID:    d.StageID,
				ValueCents: d.ValueCents,
				OwnerID:    d.OwnerID,
				CreatedAt:  d.CreatedAt,
			})
		}
	}
	return out, nil
}

func (f *fakeDealRepo) UpdateCardStage(_ context.Context, cardID int64, stageID int64) error {
	d, ok := f.deals[cardID]
	if !ok {
		return apperrors.ErrNotFound
	}
	d.StageID = stageID
	return nil
}

type fakeQuotationRepo struct {
	quotations map[int64]*entities.Quotation
	items      map[int64][]entities.LineItem
	deals      *fakeDealRepo

	approveCalls   int
	setStatusCalls int
}

func newFakeQuotationRepo(deals *fakeDealRepo) *fakeQuotationRepo {
	return &fakeQuotationRepo{
		quotations: make(map[int64]*entities.Quotation),
		items:      make(map[int64][]entities.LineItem),
		deals:      deals,
	}
}

func (f *fakeQuotationRepo) FindQuotation(_ context.Context, id int64) (*entities.Quotation, error) {
	if q, ok := f.quotations[id]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeQuotationRepo) FindByDeal(_ context.Context, dealID int64) (*entities.Quotation, error) {
	for _, q := range f.quotations {
		if q.DealID == dealID {
			cp := *q
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeQuotationRepo) ListItems(_ context.Context, quotationID int64) ([]entities.LineItem, error) {
	return f.items[quotationID], nil
}

func (f *fakeQuotationRepo) CreateForDeal(_ context.Context, dealID int64) (*entities.Quotation, error) {
	for _, q := range f.quotations {
		if q.DealID == dealID {
			return nil, apperrors.ErrQuotationExists
		}
	}
	q := &entities.Quotation{
		ID:     int64(len(f.quotations) + 1),
		Ref:    uuid.New(),
		DealID: dealID,
		Status: entities.QuotationDraft,
	}
	f.quotations[q.ID] = q
	cp := *q
	return &cp, nil
}

func (f *fakeQuotationRepo) AddItem(_ context.Context, quotationID int64, payload dto.AddLineItemDTO) (*entities.LineItem, error) {
	li := entities.LineItem{
		ID:             int64(len(f.items[quotationID]) + 1),
		QuotationID:    quotationID,
		ProductRef:     payload.ProductRef,
		Quantity:       payload.Quantity,
		UnitPriceCents: payload.UnitPriceCents,
	}
	f.items[quotationID] = append(f.items[quotationID], li)
	return &li, nil
}

func (f *fakeQuotationRepo) RemoveItem(_ context.Context, quotationID, itemID int64) error {
	items := f.items[quotationID]
	for i, li := range items {
		if li.ID == itemID {
			f.items[quotationID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeQuotationRepo) SetStatus(_ context.Context, id int64, from, to entities.QuotationStatus) error {
	f.setStatusCalls++
	q, ok := f.quotations[id]
	if !ok || q.Status != from {
		return apperrors.ErrConflict
	}
	q.Status = to
	return nil
}

func (f *fakeQuotationRepo) ApproveAndSetDealValue(_ context.Context, quotationID, dealID, totalCents int64) error {
	f.approveCalls++
	q, ok := f.quotations[quotationID]
	if !ok || q.Status != entities.QuotationSent {
		return apperrors.ErrConflict
	}
	q.Status = entities.QuotationApproved
	if d, ok := f.deals.deals[dealID]; ok {
		d.ValueCents.SetValid(totalCents)
	}
	return nil
}

type fakeTicketRepo struct {
	tickets map[int64]*entities.Ticket
}

func newFakeTicketRepo(tickets ...entities.Ticket) *fakeTicketRepo {
	f := &fakeTicketRepo{tickets: make(map[int64]*entities.Ticket)}
	for _, t := range tickets {
		cp := t
		f.tickets[t.ID] = &cp
	}
	return f
}

func (f *fakeTicketRepo) GetTickets(_ context.Context, tenantID int64, _ types.Filter) ([]entities.Ticket, uint64, error) {
	out := make([]entities.Ticket, 0, len(f.tickets))
	for _, t := range f.tickets {
		if t.TenantID == tenantID {
			out = append(out, *t)
		}
	}
	return out, uint64(len(out)), nil
}

func (f *fakeTicketRepo) FindTicket(_ context.Context, id int64) (*entities.Ticket, error) {
	if t, ok := f.tickets[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeTicketRepo) CreateTicket(_ context.Context, tenantID int64, stageID int64, payload dto.CreateTicketDTO) (*entities.Ticket, error) {
	t := &entities.Ticket{
		ID:            int64(len(f.tickets) + 1),
		TenantID:      tenantID,
		Subject:       payload.Subject,
		StageID:       stageID,
		AllottedHours: payload.AllottedHours,
		OwnerID:       payload.OwnerID,
	}
	f.tickets[t.ID] = t
	cp := *t
	return &cp, nil
}

func (f *fakeTicketRepo) UpdateTicket(_ context.Context, id int64, payload dto.UpdateTicketDTO) error {
	t, ok := f.tickets[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if payload.Subject != nil {
		t.Subject = *payload.Subject
	}
	if payload.AllottedHours != nil {
		t.AllottedHours.SetValid(*payload.AllottedHours)
	}
	if payload.OwnerID != nil {
		t.OwnerID.SetValid(*payload.OwnerID)
	}
	return nil
}

func (f *fakeTicketRepo) DeleteTicket(_ context.Context, id int64) error {
	if _, ok := f.tickets[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.tickets, id)
	return nil
}

func (f *fakeTicketRepo) ListCards(_ context.Context, tenantID, _ int64) ([]entities.Card, error) {
	out := make([]entities.Card, 0)
	for _, t := range f.tickets {
		if t.TenantID == tenantID {
			out = append(out, entities.Card{
				ID:            t.ID,
				Kind:          entities.PipelineKindTicket,
				Title:         t.Subject,
				StageID:       t.StageID,
				AllottedHours: t.AllottedHours,
				OwnerID:       t.OwnerID,
				CreatedAt:     t.CreatedAt,
			})
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) UpdateCardStage(_ context.Context, cardID int64, stageID int64) error {
	t, ok := f.tickets[cardID]
	if !ok {
		return apperrors.ErrNotFound
	}
	t.StageID = stageID
	return nil
}
