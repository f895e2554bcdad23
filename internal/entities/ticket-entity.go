package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Ticket is a support request moving through the fixed ticket pipeline.
// AllottedHours is the SLA budget measured from CreatedAt; absent means
// the ticket has no deadline.
type Ticket struct {
	ID            int64        `json:"id"`
	TenantID      int64        `json:"tenant_id"`
	Subject       string       `json:"subject"`
	StageID       int64        `json:"stage_id"`
	AllottedHours null.Float64 `json:"allotted_hours"`
	OwnerID       null.Int64   `json:"owner_id"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
