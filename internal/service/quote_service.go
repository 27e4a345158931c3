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

type QuoteService struct {
	offerings OfferingCatalog
	rates     RateStore
	engine    *pricing.Engine
	pdf       QuoteDocumentGenerator
	log       zerolog.Logger
}

func NewQuoteService(offerings OfferingCatalog, rates RateStore, engine *pricing.Engine, pdf QuoteDocumentGenerator, log zerolog.Logger) *QuoteService {
	return &QuoteService{
		offerings: offerings,
		rates:     rates,
		engine:    engine,
		pdf:       pdf,
		log:       log,
	}
}

// Quote prices req for the tenant. It reads only and keeps no state between
// calls, so identical inputs over unchanged rate data give identical results.
func (s *QuoteService) Quote(ctx context.Context, tenantID uuid.UUID, req model.QuoteRequest) (*model.QuoteResult, error) {
	start := time.Now()
	result, category, err := s.quote(ctx, tenantID, req)
	if category == "" {
		category = "unknown"
	}
	metrics.RecordQuote(string(category), quoteOutcome(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *QuoteService) quote(ctx context.Context, tenantID uuid.UUID, req model.QuoteRequest) (*model.QuoteResult, model.ServiceCategory, error) {
	if req.OfferingID == uuid.Nil {
		return nil, "", fmt.Errorf("%w: service_offering_id is required", ErrInvalidInput)
	}
	if req.ServiceDate.IsZero() {
		return nil, "", fmt.Errorf("%w: service_date is required", ErrInvalidInput)
	}
	req.ServiceDate = pricing.DateOnly(req.ServiceDate)

	offering, err := s.loadOffering(ctx, tenantID, req.OfferingID)
	if err != nil {
		return nil, "", err
	}

	if !s.engine.Supports(offering.Category) {
		return nil, offering.Category, fmt.Errorf("%w: Unsupported service type", ErrInvalidInput)
	}

	subKey := pricing.SubKeyFor(offering.Category, req)
	candidates, err := s.rates.FindCandidates(ctx, model.RateQuery{
		TenantID:   tenantID,
		OfferingID: offering.ID,
		SubKey:     subKey,
		AsOf:       req.ServiceDate,
	})
	if err != nil {
		return nil, offering.Category, err
	}
	if len(candidates) > 1 && len(pricing.CoveringSubKeys(candidates, req.ServiceDate)) == 1 {
		s.log.Warn().
			Str("offering_id", offering.ID.String()).
			Int("candidates", len(candidates)).
			Time("service_date", req.ServiceDate).
			Msg("multiple active rates cover service date")
	}

	result, err := s.engine.Quote(*offering, candidates, req)
	return result, offering.Category, err
}

// QuotePDF renders the quote as a PDF document.
func (s *QuoteService) QuotePDF(ctx context.Context, tenantID uuid.UUID, req model.QuoteRequest) (*DocumentResult, error) {
	quote, err := s.Quote(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(*quote)
	if err != nil {
		return nil, err
	}
	return &DocumentResult{
		FileName: fmt.Sprintf("quote-%s-%s.pdf", strings.ToLower(string(quote.Category)), strings.ReplaceAll(quote.ServiceDate, "-", "")),
		Content:  content,
	}, nil
}

func (s *QuoteService) loadOffering(ctx context.Context, tenantID, offeringID uuid.UUID) (*model.ServiceOffering, error) {
	return loadOffering(ctx, s.offerings, tenantID, offeringID)
}

func loadOffering(ctx context.Context, catalog OfferingCatalog, tenantID, offeringID uuid.UUID) (*model.ServiceOffering, error) {
	offering, err := catalog.GetOffering(ctx, tenantID, offeringID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: Service offering not found", ErrNotFound)
		}
		return nil, err
	}
	if offering.TenantID != tenantID {
		return nil, fmt.Errorf("%w: Service offering not found", ErrNotFound)
	}
	return offering, nil
}

func quoteOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "bad_request"
	default:
		return "error"
	}
}
