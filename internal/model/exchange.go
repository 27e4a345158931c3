package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExchangeRate struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	Rate         decimal.Decimal `json:"rate"`
	RateDate     time.Time       `json:"rate_date"`
	CreatedAt    time.Time       `json:"created_at"`
}

// BookingRateLock is the exchange rate frozen on a booking when the
// quotation was accepted.
type BookingRateLock struct {
	BookingID      uuid.UUID       `json:"booking_id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	ExchangeRateID uuid.UUID       `json:"exchange_rate_id"`
	FromCurrency   string          `json:"from_currency"`
	ToCurrency     string          `json:"to_currency"`
	Rate           decimal.Decimal `json:"rate"`
	RateDate       time.Time       `json:"rate_date"`
	LockedAt       time.Time       `json:"locked_at"`
}
