package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/tourops-pricing/internal/model"
)

type lockKey struct {
	tenantID  uuid.UUID
	bookingID uuid.UUID
}

// Store keeps offerings, rate seasons and exchange rates in process memory.
// Rate writes run their guard and the write under one lock, which gives the
// same all-or-nothing behaviour as the serializable Postgres path.
type Store struct {
	mu        sync.RWMutex
	offerings map[uuid.UUID]model.ServiceOffering
	rates     map[uuid.UUID]model.RateRecord
	nextSeq   int64
	exchange  []model.ExchangeRate
	locks     map[lockKey]model.BookingRateLock
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{
		offerings: make(map[uuid.UUID]model.ServiceOffering),
		rates:     make(map[uuid.UUID]model.RateRecord),
		locks:     make(map[lockKey]model.BookingRateLock),
		now:       time.Now,
	}
}

// PutOffering registers a single offering. SeedOfferings loads a whole catalog.
func (s *Store) PutOffering(offering model.ServiceOffering) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offerings[offering.ID] = offering
}

func (s *Store) GetOffering(_ context.Context, tenantID, id uuid.UUID) (*model.ServiceOffering, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	offering, ok := s.offerings[id]
	if !ok || offering.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return &offering, nil
}

func (s *Store) FindCandidates(_ context.Context, query model.RateQuery) ([]model.RateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.candidates(query), nil
}

func (s *Store) candidates(query model.RateQuery) []model.RateRecord {
	result := make([]model.RateRecord, 0)
	for _, rate := range s.rates {
		if !rate.IsActive || rate.TenantID != query.TenantID || rate.OfferingID != query.OfferingID {
			continue
		}
		if query.ExcludeID != uuid.Nil && rate.ID == query.ExcludeID {
			continue
		}
		if query.SubKey != "" && rate.SubKey() != query.SubKey {
			continue
		}
		if !query.AsOf.IsZero() && !rate.Covers(query.AsOf) {
			continue
		}
		result = append(result, rate)
	}
	sortBySeqDesc(result)
	return result
}

func (s *Store) GetRate(_ context.Context, tenantID, id uuid.UUID) (*model.RateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rate, ok := s.rates[id]
	if !ok || rate.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return &rate, nil
}

func (s *Store) ListRates(_ context.Context, tenantID, offeringID uuid.UUID) ([]model.RateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.RateRecord, 0)
	for _, rate := range s.rates {
		if rate.TenantID == tenantID && rate.OfferingID == offeringID {
			result = append(result, rate)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].SeasonFrom.Equal(result[j].SeasonFrom) {
			return result[i].SeasonFrom.Before(result[j].SeasonFrom)
		}
		return result[i].Seq < result[j].Seq
	})
	return result, nil
}

func (s *Store) SaveRate(_ context.Context, rate model.RateRecord, guard model.RateGuard) (*model.RateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if rate.ID != uuid.Nil {
		current, ok := s.rates[rate.ID]
		if !ok || current.TenantID != rate.TenantID {
			return nil, gorm.ErrRecordNotFound
		}
		rate.Seq = current.Seq
		rate.CreatedAt = current.CreatedAt
	}

	if guard != nil {
		siblings := s.candidates(model.RateQuery{
			TenantID:   rate.TenantID,
			OfferingID: rate.OfferingID,
			ExcludeID:  rate.ID,
		})
		if err := guard(siblings); err != nil {
			return nil, err
		}
	}

	if rate.ID == uuid.Nil {
		s.nextSeq++
		rate.ID = uuid.New()
		rate.Seq = s.nextSeq
		rate.CreatedAt = now
	}
	rate.UpdatedAt = now
	s.rates[rate.ID] = rate
	return &rate, nil
}

func (s *Store) DeactivateRate(_ context.Context, tenantID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rate, ok := s.rates[id]
	if !ok || rate.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	rate.IsActive = false
	rate.UpdatedAt = s.now().UTC()
	s.rates[id] = rate
	return nil
}

func (s *Store) FindLatestRate(_ context.Context, tenantID uuid.UUID, from, to string) (*model.ExchangeRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *model.ExchangeRate
	for i := range s.exchange {
		rate := s.exchange[i]
		if rate.TenantID != tenantID || rate.FromCurrency != from || rate.ToCurrency != to {
			continue
		}
		if latest == nil ||
			rate.RateDate.After(latest.RateDate) ||
			(rate.RateDate.Equal(latest.RateDate) && !rate.CreatedAt.Before(latest.CreatedAt)) {
			latest = &rate
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (s *Store) CreateRate(_ context.Context, rate model.ExchangeRate) (*model.ExchangeRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rate.ID = uuid.New()
	rate.CreatedAt = s.now().UTC()
	s.exchange = append(s.exchange, rate)
	return &rate, nil
}

func (s *Store) LockBookingRate(_ context.Context, lock model.BookingRateLock) (*model.BookingRateLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := lockKey{tenantID: lock.TenantID, bookingID: lock.BookingID}
	if existing, ok := s.locks[key]; ok {
		return &existing, nil
	}
	s.locks[key] = lock
	return &lock, nil
}

func sortBySeqDesc(rates []model.RateRecord) {
	sort.Slice(rates, func(i, j int) bool {
		return rates[i].Seq > rates[j].Seq
	})
}
