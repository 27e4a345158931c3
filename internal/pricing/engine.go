package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nurpe/tourops-pricing/internal/model"
)

// quoteParts is what a strategy contributes to a QuoteResult.
type quoteParts struct {
	pricingModel string
	details      map[string]any
	breakdown    map[string]decimal.Decimal
	notes        []string
}

type strategy interface {
	category() model.ServiceCategory
	defaultPax() int
	price(offering model.ServiceOffering, rate model.RateRecord, p params) (*quoteParts, error)
}

// Engine dispatches quotes to the strategy registered for the offering's
// category. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	strategies map[model.ServiceCategory]strategy
}

func NewEngine() *Engine {
	registry := make(map[model.ServiceCategory]strategy, len(model.Categories))
	for _, s := range []strategy{
		hotelStrategy{},
		transferStrategy{},
		vehicleStrategy{},
		guideStrategy{},
		activityStrategy{},
	} {
		registry[s.category()] = s
	}
	for _, category := range model.Categories {
		if _, ok := registry[category]; !ok {
			panic(fmt.Sprintf("pricing: no strategy registered for %s", category))
		}
	}
	return &Engine{strategies: registry}
}

func (e *Engine) Supports(category model.ServiceCategory) bool {
	_, ok := e.strategies[category]
	return ok
}

// SubKeyFor returns the rate sub-key a request narrows resolution to.
func SubKeyFor(category model.ServiceCategory, req model.QuoteRequest) string {
	if category == model.CategoryHotelRoom {
		return string(req.BoardType)
	}
	return ""
}

// Quote resolves the applicable season among candidates and prices the
// request with the offering's category strategy.
func (e *Engine) Quote(offering model.ServiceOffering, candidates []model.RateRecord, req model.QuoteRequest) (*model.QuoteResult, error) {
	s, ok := e.strategies[offering.Category]
	if !ok {
		return nil, fmt.Errorf("%w: Unsupported service type", ErrInvalidInput)
	}
	if req.ServiceDate.IsZero() {
		return nil, fmt.Errorf("%w: service_date is required", ErrInvalidInput)
	}
	if req.BoardType != "" && !req.BoardType.Valid() {
		return nil, fmt.Errorf("%w: invalid board_type", ErrInvalidInput)
	}

	p, err := resolveParams(req, s.defaultPax())
	if err != nil {
		return nil, err
	}

	if offering.Category == model.CategoryHotelRoom && req.BoardType == "" {
		if boards := CoveringSubKeys(candidates, req.ServiceDate); len(boards) > 1 {
			return nil, fmt.Errorf("%w: board_type is required, the selected date is priced for %s", ErrInvalidInput, strings.Join(boards, ", "))
		}
	}

	rate, err := Resolve(candidates, SubKeyFor(offering.Category, req), req.ServiceDate)
	if err != nil {
		return nil, err
	}
	if rate.Payload == nil || rate.Payload.Category() != offering.Category {
		return nil, fmt.Errorf("rate %s payload does not match service type %s", rate.ID, offering.Category)
	}

	parts, err := s.price(offering, *rate, p)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, amount := range parts.breakdown {
		total = total.Add(amount)
	}

	return &model.QuoteResult{
		OfferingID:    offering.ID,
		Category:      offering.Category,
		OfferingTitle: offering.Title,
		SupplierName:  offering.SupplierName,
		ServiceDate:   DateOnly(req.ServiceDate).Format(DateLayout),
		Details:       parts.details,
		Pricing: model.QuotePricing{
			RateID:       rate.ID,
			PricingModel: parts.pricingModel,
			Breakdown:    parts.breakdown,
			Notes:        parts.notes,
			TotalCostTry: money(total),
		},
	}, nil
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func mul(values ...decimal.Decimal) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for _, v := range values {
		result = result.Mul(v)
	}
	return result
}

func intDec(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}
