package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Deal is a sales opportunity moving through a tenant-defined funnel.
// ValueCents is normally user-entered but is overwritten when the deal's
// quotation is approved.
type Deal struct {
	ID         int64      `json:"id"`
	TenantID   int64      `json:"tenant_id"`
	Title      string     `json:"title"`
	PipelineID int64      `json:"pipeline_id"`
	StageID    int64      `json:"stage_id"`
	ValueCents null.Int64 `json:"value_cents"`
	OwnerID    null.Int64 `json:"owner_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
