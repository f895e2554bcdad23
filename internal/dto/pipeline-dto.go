package dto

// CreateStageDTO is one stage of a new pipeline or a stage being added.
type CreateStageDTO struct {
	Name         string `json:"name" validate:"required,min=1"`
	Code         string `json:"code" validate:"omitempty,uppercase,min=2"`
	DisplayOrder int    `json:"display_order" validate:"required,gte=1"`
}

// CreatePipelineDTO creates a tenant deal funnel with its ordered stages.
type CreatePipelineDTO struct {
	Name   string           `json:"name" validate:"required,min=1"`
	Stages []CreateStageDTO `json:"stages" validate:"required,min=1,dive"`
}

type UpdateStageDTO struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1"`
	DisplayOrder *int    `json:"display_order,omitempty" validate:"omitempty,gte=1"`
}

type StageDTO struct {
	ID           int64  `json:"id"`
	PipelineID   int64  `json:"pipeline_id"`
	Name         string `json:"name"`
	Code         string `json:"code,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

type PipelineDTO struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Kind   string     `json:"kind"`
	Fixed  bool       `json:"fixed"`
	Stages []StageDTO `json:"stages"`
}
