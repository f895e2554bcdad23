package dto

import "github.com/aarondl/null/v8"

type CreateTicketDTO struct {
	Subject       string       `json:"subject" validate:"required,min=1"`
	AllottedHours null.Float64 `json:"allotted_hours" validate:"omitempty,gt=0"`
	OwnerID       null.Int64   `json:"owner_id" validate:"omitempty,gt=0"`
}

type UpdateTicketDTO struct {
	Subject       *string  `json:"subject,omitempty" validate:"omitempty,min=1"`
	AllottedHours *float64 `json:"allotted_hours,omitempty" validate:"omitempty,gt=0"`
	OwnerID       *int64   `json:"owner_id,omitempty" validate:"omitempty,gt=0"`
}

type TicketDTO struct {
	ID            int64        `json:"id"`
	Subject       string       `json:"subject"`
	StageID       int64        `json:"stage_id"`
	AllottedHours null.Float64 `json:"allotted_hours"`
	OwnerID       null.Int64   `json:"owner_id"`
	CreatedAt     string       `json:"created_at"`
	UpdatedAt     string       `json:"updated_at"`
}
