package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteRequest carries the caller supplied parameters. Nil pointers mean the
// parameter was not given and the category default applies.
type QuoteRequest struct {
	OfferingID  uuid.UUID
	ServiceDate time.Time
	Pax         *int
	Nights      *int
	Days        *int
	Distance    *decimal.Decimal
	Hours       *decimal.Decimal
	Children    *int
	ChildAges   []int
	BoardType   BoardType
	WithDriver  bool
}

type QuotePricing struct {
	RateID       uuid.UUID                  `json:"rate_id"`
	PricingModel string                     `json:"pricing_model"`
	Breakdown    map[string]decimal.Decimal `json:"breakdown"`
	Notes        []string                   `json:"notes,omitempty"`
	TotalCostTry decimal.Decimal            `json:"total_cost_try"`
}

type QuoteResult struct {
	OfferingID    uuid.UUID       `json:"offering_id"`
	Category      ServiceCategory `json:"category"`
	OfferingTitle string          `json:"offering_title"`
	SupplierName  string          `json:"supplier_name"`
	ServiceDate   string          `json:"service_date"`
	Details       map[string]any  `json:"details"`
	Pricing       QuotePricing    `json:"pricing"`
}
