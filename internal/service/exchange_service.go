package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/tourops-pricing/internal/metrics"
	"github.com/nurpe/tourops-pricing/internal/model"
	"github.com/nurpe/tourops-pricing/internal/pricing"
)

// ExchangeService looks up the newest recorded rate of a currency pair and
// freezes it on bookings. The newest rate wins even when a booking's service
// date lies in a period an older rate was recorded for.
type ExchangeService struct {
	store CurrencyStore
	cache ExchangeCache
	ttl   time.Duration
	log   zerolog.Logger
	now   func() time.Time
}

type CreateExchangeRateInput struct {
	Principal    model.Principal
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal
	RateDate     time.Time
}

// NewExchangeService accepts a nil cache, in which case every lookup goes to
// the store.
func NewExchangeService(store CurrencyStore, cache ExchangeCache, ttl time.Duration, log zerolog.Logger) *ExchangeService {
	return &ExchangeService{
		store: store,
		cache: cache,
		ttl:   ttl,
		log:   log,
		now:   time.Now,
	}
}

func (s *ExchangeService) Latest(ctx context.Context, tenantID uuid.UUID, from, to string) (*model.ExchangeRate, error) {
	from, to, err := normalizePair(from, to)
	if err != nil {
		return nil, err
	}

	key := exchangeCacheKey(tenantID, from, to)
	if cached := s.cached(ctx, key); cached != nil {
		return cached, nil
	}

	rate, err := s.store.FindLatestRate(ctx, tenantID, from, to)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: No exchange rate found for %s to %s", ErrNotFound, from, to)
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, *rate, s.ttl); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("exchange cache write failed")
		}
	}
	return rate, nil
}

func (s *ExchangeService) Create(ctx context.Context, input CreateExchangeRateInput) (*model.ExchangeRate, error) {
	if !input.Principal.CanManageRates() {
		return nil, ErrPermissionDenied
	}
	from, to, err := normalizePair(input.FromCurrency, input.ToCurrency)
	if err != nil {
		return nil, err
	}
	if !input.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: rate must be positive", ErrInvalidInput)
	}
	rateDate := pricing.DateOnly(input.RateDate)
	if rateDate.IsZero() {
		rateDate = pricing.DateOnly(s.now())
	}

	saved, err := s.store.CreateRate(ctx, model.ExchangeRate{
		TenantID:     input.Principal.TenantID,
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         input.Rate,
		RateDate:     rateDate,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, exchangeCacheKey(saved.TenantID, from, to))
	s.log.Info().
		Str("pair", from+"/"+to).
		Str("rate", saved.Rate.String()).
		Msg("exchange rate recorded")
	return saved, nil
}

// LockForBooking freezes the newest known rate on the booking. Repeated calls
// return the rate frozen by the first one.
func (s *ExchangeService) LockForBooking(ctx context.Context, tenantID, bookingID uuid.UUID, from, to string) (*model.BookingRateLock, error) {
	if bookingID == uuid.Nil {
		return nil, fmt.Errorf("%w: booking_id is required", ErrInvalidInput)
	}
	rate, err := s.Latest(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	return s.store.LockBookingRate(ctx, model.BookingRateLock{
		BookingID:      bookingID,
		TenantID:       tenantID,
		ExchangeRateID: rate.ID,
		FromCurrency:   rate.FromCurrency,
		ToCurrency:     rate.ToCurrency,
		Rate:           rate.Rate,
		RateDate:       rate.RateDate,
		LockedAt:       s.now().UTC(),
	})
}

func (s *ExchangeService) cached(ctx context.Context, key string) *model.ExchangeRate {
	if s.cache == nil {
		return nil
	}
	rate, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.RecordExchangeCache("error")
		s.log.Warn().Err(err).Str("key", key).Msg("exchange cache read failed, using store")
		return nil
	case rate == nil:
		metrics.RecordExchangeCache("miss")
		return nil
	default:
		metrics.RecordExchangeCache("hit")
		return rate
	}
}

func (s *ExchangeService) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("exchange cache invalidation failed")
	}
}

func exchangeCacheKey(tenantID uuid.UUID, from, to string) string {
	return fmt.Sprintf("fx:%s:%s:%s", tenantID, from, to)
}

func normalizePair(from, to string) (string, string, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if !isCurrencyCode(from) || !isCurrencyCode(to) {
		return "", "", fmt.Errorf("%w: currency codes must have three letters", ErrInvalidInput)
	}
	if from == to {
		return "", "", fmt.Errorf("%w: currency pair must differ", ErrInvalidInput)
	}
	return from, to, nil
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
