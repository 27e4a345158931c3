package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/tourops-pricing/internal/metrics"
	"github.com/nurpe/tourops-pricing/internal/model"
	"github.com/nurpe/tourops-pricing/internal/pricing"
)

type RateService struct {
	offerings OfferingCatalog
	rates     RateStore
	excel     RateSheetGenerator
	log       zerolog.Logger
}

// CreateRateInput carries either a decoded Payload or its JSON form in
// RawPayload, decoded against the offering's category.
type CreateRateInput struct {
	Principal  model.Principal
	OfferingID uuid.UUID
	SeasonFrom time.Time
	SeasonTo   time.Time
	Payload    model.RatePayload
	RawPayload []byte
}

// UpdateRateInput replaces the season and payload of an existing rate. A nil
// IsActive keeps the current flag.
type UpdateRateInput struct {
	Principal  model.Principal
	RateID     uuid.UUID
	SeasonFrom time.Time
	SeasonTo   time.Time
	IsActive   *bool
	Payload    model.RatePayload
	RawPayload []byte
}

func NewRateService(offerings OfferingCatalog, rates RateStore, excel RateSheetGenerator, log zerolog.Logger) *RateService {
	return &RateService{
		offerings: offerings,
		rates:     rates,
		excel:     excel,
		log:       log,
	}
}

func (s *RateService) Create(ctx context.Context, input CreateRateInput) (*model.RateRecord, error) {
	if !input.Principal.CanManageRates() {
		return nil, ErrPermissionDenied
	}
	tenantID := input.Principal.TenantID

	offering, err := loadOffering(ctx, s.offerings, tenantID, input.OfferingID)
	if err != nil {
		return nil, err
	}
	payload, err := decodePayload(offering.Category, input.Payload, input.RawPayload)
	if err != nil {
		return nil, err
	}
	if err := pricing.ValidatePayload(offering.Category, payload); err != nil {
		return nil, err
	}
	if err := pricing.ValidateSeason(input.SeasonFrom, input.SeasonTo); err != nil {
		return nil, err
	}

	rate := model.RateRecord{
		TenantID:   tenantID,
		OfferingID: offering.ID,
		Category:   offering.Category,
		SeasonFrom: pricing.DateOnly(input.SeasonFrom),
		SeasonTo:   pricing.DateOnly(input.SeasonTo),
		IsActive:   true,
		Payload:    payload,
	}
	return s.save(ctx, "create", rate)
}

func (s *RateService) Update(ctx context.Context, input UpdateRateInput) (*model.RateRecord, error) {
	if !input.Principal.CanManageRates() {
		return nil, ErrPermissionDenied
	}
	tenantID := input.Principal.TenantID

	current, err := s.Get(ctx, tenantID, input.RateID)
	if err != nil {
		return nil, err
	}
	payload, err := decodePayload(current.Category, input.Payload, input.RawPayload)
	if err != nil {
		return nil, err
	}
	if err := pricing.ValidatePayload(current.Category, payload); err != nil {
		return nil, err
	}
	if err := pricing.ValidateSeason(input.SeasonFrom, input.SeasonTo); err != nil {
		return nil, err
	}

	rate := *current
	rate.SeasonFrom = pricing.DateOnly(input.SeasonFrom)
	rate.SeasonTo = pricing.DateOnly(input.SeasonTo)
	rate.Payload = payload
	if input.IsActive != nil {
		rate.IsActive = *input.IsActive
	}
	return s.save(ctx, "update", rate)
}

// Deactivate soft-deletes a season. Inactive seasons never take part in
// resolution or overlap checks.
func (s *RateService) Deactivate(ctx context.Context, principal model.Principal, rateID uuid.UUID) error {
	if !principal.CanManageRates() {
		return ErrPermissionDenied
	}
	if err := s.rates.DeactivateRate(ctx, principal.TenantID, rateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: rate not found", ErrNotFound)
		}
		return err
	}
	metrics.RecordRateWrite("deactivate", "ok")
	s.log.Info().Str("rate_id", rateID.String()).Msg("rate season deactivated")
	return nil
}

func (s *RateService) Get(ctx context.Context, tenantID, rateID uuid.UUID) (*model.RateRecord, error) {
	rate, err := s.rates.GetRate(ctx, tenantID, rateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: rate not found", ErrNotFound)
		}
		return nil, err
	}
	return rate, nil
}

func (s *RateService) List(ctx context.Context, tenantID, offeringID uuid.UUID) ([]model.RateRecord, error) {
	if _, err := loadOffering(ctx, s.offerings, tenantID, offeringID); err != nil {
		return nil, err
	}
	return s.rates.ListRates(ctx, tenantID, offeringID)
}

// Export renders every season of an offering as a spreadsheet.
func (s *RateService) Export(ctx context.Context, tenantID, offeringID uuid.UUID) (*DocumentResult, error) {
	offering, err := loadOffering(ctx, s.offerings, tenantID, offeringID)
	if err != nil {
		return nil, err
	}
	rates, err := s.rates.ListRates(ctx, tenantID, offeringID)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(*offering, rates)
	if err != nil {
		return nil, err
	}
	return &DocumentResult{
		FileName: fmt.Sprintf("rates-%s-%s.xlsx", sanitizeFileName(offering.Title), offering.ID.String()[:8]),
		Content:  content,
	}, nil
}

func (s *RateService) save(ctx context.Context, operation string, rate model.RateRecord) (*model.RateRecord, error) {
	candidate := pricing.OverlapCandidate{
		TenantID:   rate.TenantID,
		OfferingID: rate.OfferingID,
		SubKey:     rate.SubKey(),
		SeasonFrom: rate.SeasonFrom,
		SeasonTo:   rate.SeasonTo,
		ExcludeID:  rate.ID,
	}
	guard := func(siblings []model.RateRecord) error {
		if !rate.IsActive {
			return nil
		}
		return pricing.CheckOverlap(candidate, siblings)
	}

	saved, err := s.rates.SaveRate(ctx, rate, guard)
	if err != nil {
		switch {
		case errors.Is(err, ErrConflict):
			metrics.RecordRateWrite(operation, "conflict")
			s.log.Warn().Err(err).
				Str("offering_id", rate.OfferingID.String()).
				Msg("rate season rejected")
		case errors.Is(err, gorm.ErrRecordNotFound):
			metrics.RecordRateWrite(operation, "not_found")
			return nil, fmt.Errorf("%w: rate not found", ErrNotFound)
		default:
			metrics.RecordRateWrite(operation, "error")
		}
		return nil, err
	}

	metrics.RecordRateWrite(operation, "ok")
	s.log.Info().
		Str("rate_id", saved.ID.String()).
		Str("offering_id", saved.OfferingID.String()).
		Str("season_from", saved.SeasonFrom.Format(pricing.DateLayout)).
		Str("season_to", saved.SeasonTo.Format(pricing.DateLayout)).
		Msgf("rate season %sd", operation)
	return saved, nil
}

func decodePayload(category model.ServiceCategory, payload model.RatePayload, raw []byte) (model.RatePayload, error) {
	if payload != nil || len(raw) == 0 {
		return payload, nil
	}
	decoded, err := model.DecodeRatePayload(category, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid rate payload: %v", ErrInvalidInput, err)
	}
	return decoded, nil
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
