package entities

import (
	"time"

	"github.com/google/uuid"
)

// QuotationStatus is a closed set; a quotation only ever advances
// forward and never leaves a terminal status.
type QuotationStatus string

const (
	QuotationDraft    QuotationStatus = "DRAFT"
	QuotationSent     QuotationStatus = "SENT"
	QuotationApproved QuotationStatus = "APPROVED"
	QuotationRejected QuotationStatus = "REJECTED"
)

func (s QuotationStatus) Terminal() bool {
	return s == QuotationApproved || s == QuotationRejected
}

// CanAdvanceTo reports whether the workflow allows moving from s to next.
func (s QuotationStatus) CanAdvanceTo(next QuotationStatus) bool {
	switch s {
	case QuotationDraft:
		return next == QuotationSent
	case QuotationSent:
		return next == QuotationApproved || next == QuotationRejected
	default:
		return false
	}
}

// Quotation is the approval sub-workflow attached to at most one deal.
// Its approval fixes the parent deal's value.
type Quotation struct {
	ID        int64           `json:"id"`
	Ref       uuid.UUID       `json:"ref"`
	DealID    int64           `json:"deal_id"`
	Status    QuotationStatus `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LineItem is a priced row of a quotation.
type LineItem struct {
	ID             int64     `json:"id"`
	QuotationID    int64     `json:"quotation_id"`
	ProductRef     string    `json:"product_ref"`
	Quantity       int64     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	CreatedAt      time.Time `json:"created_at"`
}

// SubtotalCents is always derived, never stored.
func (li LineItem) SubtotalCents() int64 {
	return li.Quantity * li.UnitPriceCents
}

// TotalCents sums line item subtotals; the quotation total is always the
// live sum and is never cached independently of its items.
func TotalCents(items []LineItem) int64 {
	var total int64
	for _, li := range items {
		total += li.SubtotalCents()
	}
	return total
}
