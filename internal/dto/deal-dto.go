package dto

import "github.com/aarondl/null/v8"

type CreateDealDTO struct {
	Title      string     `json:"title" validate:"required,min=1"`
	PipelineID int64      `json:"pipeline_id" validate:"required,gt=0"`
	ValueCents null.Int64 `json:"value_cents" validate:"omitempty,gte=0"`
	OwnerID    null.Int64 `json:"owner_id" validate:"omitempty,gt=0"`
}

type UpdateDealDTO struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,min=1"`
	ValueCents *int64  `json:"value_cents,omitempty" validate:"omitempty,gte=0"`
	OwnerID    *int64  `json:"owner_id,omitempty" validate:"omitempty,gt=0"`
}

type DealDTO struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	PipelineID int64      `json:"pipeline_id"`
	StageID    int64      `json:"stage_id"`
	ValueCents null.Int64 `json:"value_cents"`
	OwnerID    null.Int64 `json:"owner_id"`
	CreatedAt  string     `json:"created_at"`
	UpdatedAt  string     `json:"updated_at"`
}
