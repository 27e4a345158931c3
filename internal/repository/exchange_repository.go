package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/tourops-pricing/internal/model"
)

type ExchangeRepository struct {
	db *gorm.DB
}

func NewExchangeRepository(db *gorm.DB) *ExchangeRepository {
	return &ExchangeRepository{db: db}
}

// FindLatestRate returns the pair's rate with the newest rate date; rates
// recorded for the same date are ordered by insertion time.
func (r *ExchangeRepository) FindLatestRate(ctx context.Context, tenantID uuid.UUID, from, to string) (*model.ExchangeRate, error) {
	var rate model.ExchangeRate
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, tenant_id, from_currency, to_currency, rate, rate_date, created_at
		FROM exchange_rates
		WHERE tenant_id = ? AND from_currency = ? AND to_currency = ?
		ORDER BY rate_date DESC, created_at DESC
		LIMIT 1
	`, tenantID, from, to).Scan(&rate).Error; err != nil {
		return nil, err
	}
	if rate.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &rate, nil
}

func (r *ExchangeRepository) CreateRate(ctx context.Context, rate model.ExchangeRate) (*model.ExchangeRate, error) {
	var saved model.ExchangeRate
	if err := r.db.WithContext(ctx).Raw(`
		INSERT INTO exchange_rates (tenant_id, from_currency, to_currency, rate, rate_date)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, tenant_id, from_currency, to_currency, rate, rate_date, created_at
	`, rate.TenantID, rate.FromCurrency, rate.ToCurrency, rate.Rate, rate.RateDate).Scan(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ExchangeRepository) LockBookingRate(ctx context.Context, lock model.BookingRateLock) (*model.BookingRateLock, error) {
	var current model.BookingRateLock
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			INSERT INTO booking_rate_locks (
				tenant_id,
				booking_id,
				exchange_rate_id,
				from_currency,
				to_currency,
				rate,
				rate_date,
				locked_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (tenant_id, booking_id) DO NOTHING
		`,
			lock.TenantID,
			lock.BookingID,
			lock.ExchangeRateID,
			lock.FromCurrency,
			lock.ToCurrency,
			lock.Rate,
			lock.RateDate,
			lock.LockedAt,
		).Error; err != nil {
			return err
		}

		return tx.Raw(`
			SELECT booking_id, tenant_id, exchange_rate_id, from_currency, to_currency, rate, rate_date, locked_at
			FROM booking_rate_locks
			WHERE tenant_id = ? AND booking_id = ?
		`, lock.TenantID, lock.BookingID).Scan(&current).Error
	})
	if err != nil {
		return nil, err
	}
	return &current, nil
}
