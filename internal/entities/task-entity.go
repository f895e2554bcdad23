package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Task is a sub-activity attached to a ticket or deal. The engine only
// aggregates tasks; creation and deletion are user actions.
type Task struct {
	ID        int64        `json:"id"`
	CardKind  PipelineKind `json:"card_kind"`
	CardID    int64        `json:"card_id"`
	Title     string       `json:"title"`
	Done      bool         `json:"done"`
	DueAt     null.Time    `json:"due_at"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
