package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/tourops-pricing/internal/model"
)

// Stores report missing rows with gorm.ErrRecordNotFound.

type OfferingCatalog interface {
	GetOffering(ctx context.Context, tenantID, id uuid.UUID) (*model.ServiceOffering, error)
}

type RateStore interface {
	FindCandidates(ctx context.Context, query model.RateQuery) ([]model.RateRecord, error)
	GetRate(ctx context.Context, tenantID, id uuid.UUID) (*model.RateRecord, error)
	ListRates(ctx context.Context, tenantID, offeringID uuid.UUID) ([]model.RateRecord, error)
	// SaveRate inserts rate when its ID is nil and updates it otherwise. The
	// guard runs against the offering's other active seasons inside the same
	// atomic unit as the write.
	SaveRate(ctx context.Context, rate model.RateRecord, guard model.RateGuard) (*model.RateRecord, error)
	DeactivateRate(ctx context.Context, tenantID, id uuid.UUID) error
}

type CurrencyStore interface {
	FindLatestRate(ctx context.Context, tenantID uuid.UUID, from, to string) (*model.ExchangeRate, error)
	CreateRate(ctx context.Context, rate model.ExchangeRate) (*model.ExchangeRate, error)
	// LockBookingRate stores lock unless the booking already has one, and
	// returns whichever lock is in effect.
	LockBookingRate(ctx context.Context, lock model.BookingRateLock) (*model.BookingRateLock, error)
}

// ExchangeCache returns (nil, nil) on a miss.
type ExchangeCache interface {
	Get(ctx context.Context, key string) (*model.ExchangeRate, error)
	Set(ctx context.Context, key string, rate model.ExchangeRate, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type QuoteDocumentGenerator interface {
	Generate(quote model.QuoteResult) ([]byte, error)
}

type RateSheetGenerator interface {
	Generate(offering model.ServiceOffering, rates []model.RateRecord) ([]byte, error)
}

type DocumentResult struct {
	FileName string
	Content  []byte
}
