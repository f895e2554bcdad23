package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Card is the pipeline-agnostic view of a ticket or deal that the board
// works with. AllottedHours is only set for tickets, ValueCents only for
// deals.
type Card struct {
	ID            int64        `json:"id"`
	Kind          PipelineKind `json:"kind"`
	Title         string       `json:"title"`
	StageID       int64        `json:"stage_id"`
	AllottedHours null.Float64 `json:"allotted_hours,omitempty"`
	ValueCents    null.Int64   `json:"value_cents,omitempty"`
	OwnerID       null.Int64   `json:"owner_id"`
	CreatedAt     time.Time    `json:"created_at"`
}
