package dto

import "github.com/aarondl/null/v8"

// DeadlineDTO is the derived SLA classification of a card. It is
// recomputed on every read and never stored.
type DeadlineDTO struct {
	State         string `json:"state"`
	DaysRemaining int    `json:"days_remaining,omitempty"`
}

type BoardCardDTO struct {
	ID         int64       `json:"id"`
	Kind       string      `json:"kind"`
	Title      string      `json:"title"`
	StageID    int64       `json:"stage_id"`
	ValueCents null.Int64  `json:"value_cents,omitempty"`
	OwnerID    null.Int64  `json:"owner_id"`
	CreatedAt  string      `json:"created_at"`
	Deadline   DeadlineDTO `json:"deadline"`
	Progress   ProgressDTO `json:"progress"`
}

type BoardColumnDTO struct {
	Stage StageDTO       `json:"stage"`
	Cards []BoardCardDTO `json:"cards"`
	Count int            `json:"count"`
}

type BoardDTO struct {
	PipelineID int64            `json:"pipeline_id"`
	Columns    []BoardColumnDTO `json:"columns"`
}

// TransitionDTO is a request to move a card between stages. FromStageID
// is what the client last saw; the engine tolerates it being out of date.
type TransitionDTO struct {
	CardID      int64 `json:"card_id" validate:"required,gt=0"`
	FromStageID int64 `json:"from_stage_id" validate:"required,gt=0"`
	ToStageID   int64 `json:"to_stage_id" validate:"required,gt=0"`
}
