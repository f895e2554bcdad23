package dto

import "github.com/aarondl/null/v8"

type CreateTaskDTO struct {
	CardKind string    `json:"card_kind" validate:"required,oneof=ticket deal"`
	CardID   int64     `json:"card_id" validate:"required,gt=0"`
	Title    string    `json:"title" validate:"required,min=1"`
	DueAt    null.Time `json:"due_at"`
}

type UpdateTaskDTO struct {
	Title *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Done  *bool   `json:"done,omitempty"`
}

type TaskDTO struct {
	ID        int64     `json:"id"`
	CardKind  string    `json:"card_kind"`
	CardID    int64     `json:"card_id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	DueAt     null.Time `json:"due_at"`
	CreatedAt string    `json:"created_at"`
}

// ProgressDTO is the aggregated completion state of a card's tasks.
// Total 0 means "no tasks", not 100% complete.
type ProgressDTO struct {
	Completed          int  `json:"completed"`
	Total              int  `json:"total"`
	HasOverdueOpenTask bool `json:"has_overdue_open_task"`
}
