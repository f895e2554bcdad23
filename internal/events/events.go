package events

import "github.com/andimendes/zap-desk-engine/internal/entities"

// Change-feed event names. Deliveries may arrive duplicated or out of
// order; consumers only ever react by re-deriving their views.
const (
	CardsChangedName  = "cards.changed"
	StagesChangedName = "stages.changed"
)

// CardsChangedEvent says something about a pipeline's tickets or deals
// changed (create, update, stage move, quotation approval).
type CardsChangedEvent struct {
	TenantID   int64
	PipelineID int64
	Kind       entities.PipelineKind
}

func (e CardsChangedEvent) Name() string { return CardsChangedName }

// StagesChangedEvent says a pipeline's stage set or ordering changed.
type StagesChangedEvent struct {
	PipelineID int64
}

func (e StagesChangedEvent) Name() string { return StagesChangedName }
