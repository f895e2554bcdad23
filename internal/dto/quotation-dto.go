package dto

type AddLineItemDTO struct {
	ProductRef     string `json:"product_ref" validate:"required,min=1"`
	Quantity       int64  `json:"quantity" validate:"required,gt=0"`
	UnitPriceCents int64  `json:"unit_price_cents" validate:"gte=0"`
}

type LineItemDTO struct {
	ID             int64  `json:"id"`
	ProductRef     string `json:"product_ref"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

type QuotationDTO struct {
	ID         int64         `json:"id"`
	Ref        string        `json:"ref"`
	DealID     int64         `json:"deal_id"`
	Status     string        `json:"status"`
	Items      []LineItemDTO `json:"items"`
	TotalCents int64         `json:"total_cents"`
	CreatedAt  string        `json:"created_at"`
	UpdatedAt  string        `json:"updated_at"`
}
