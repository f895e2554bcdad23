package entities

import "time"

type PipelineKind string

const (
	PipelineKindTicket PipelineKind = "ticket"
	PipelineKindDeal   PipelineKind = "deal"
)

// Pipeline is an ordered sequence of stages that tickets or deals move
// through. The ticket pipeline is fixed and global; deal pipelines are
// tenant-defined.
type Pipeline struct {
	ID        int64        `json:"id"`
	TenantID  int64        `json:"tenant_id"`
	Name      string       `json:"name"`
	Kind      PipelineKind `json:"kind"`
	Fixed     bool         `json:"fixed"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Stage is one slot in a pipeline. DisplayOrder is unique within the
// pipeline (enforced by the database).
type Stage struct {
	ID           int64     `json:"id"`
	PipelineID   int64     `json:"pipeline_id"`
	Name         string    `json:"name"`
	Code         string    `json:"code,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
