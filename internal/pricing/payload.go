package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nurpe/tourops-pricing/internal/model"
)

// ValidatePayload checks a rate payload before it is written.
func ValidatePayload(category model.ServiceCategory, payload model.RatePayload) error {
	if payload == nil {
		return fmt.Errorf("%w: rate payload is required", ErrInvalidInput)
	}
	if payload.Category() != category {
		return fmt.Errorf("%w: rate payload does not match service type %s", ErrInvalidInput, category)
	}

	switch rate := payload.(type) {
	case model.HotelRate:
		if !rate.BoardType.Valid() {
			return fmt.Errorf("%w: invalid board_type", ErrInvalidInput)
		}
		return nonNegative(map[string]decimal.Decimal{
			"price_per_person_double": rate.PricePerPersonDouble,
			"single_supplement":       rate.SingleSupplement,
			"price_per_person_triple": rate.PricePerPersonTriple,
			"child_price_0_to_2":      rate.ChildPrice0to2,
			"child_price_3_to_5":      rate.ChildPrice3to5,
			"child_price_6_to_11":     rate.ChildPrice6to11,
		})
	case model.TransferRate:
		if rate.PricingModel != model.TransferZoneBased && rate.PricingModel != model.TransferDistanceBased {
			return fmt.Errorf("%w: invalid transfer pricing_model", ErrInvalidInput)
		}
		return nonNegative(map[string]decimal.Decimal{
			"base_cost_try":  rate.BaseCostTry,
			"included_km":    rate.IncludedKm,
			"included_hours": rate.IncludedHours,
			"extra_km_try":   rate.ExtraKmTry,
			"extra_hour_try": rate.ExtraHourTry,
		})
	case model.VehicleRate:
		return nonNegative(map[string]decimal.Decimal{
			"daily_rate_try":    rate.DailyRateTry,
			"daily_km_included": rate.DailyKmIncluded,
			"extra_km_try":      rate.ExtraKmTry,
			"driver_daily_try":  rate.DriverDailyTry,
			"hourly_rate_try":   rate.HourlyRateTry,
			"min_hours":         rate.MinHours,
		})
	case model.GuideRate:
		if rate.PricingModel != model.GuidePerDay && rate.PricingModel != model.GuidePerHour {
			return fmt.Errorf("%w: invalid guide pricing_model", ErrInvalidInput)
		}
		return nonNegative(map[string]decimal.Decimal{
			"day_cost_try":  rate.DayCostTry,
			"hour_cost_try": rate.HourCostTry,
		})
	case model.ActivityRate:
		if rate.ChildDiscountPct.GreaterThan(hundred) {
			return fmt.Errorf("%w: child_discount_pct cannot exceed 100", ErrInvalidInput)
		}
		return nonNegative(map[string]decimal.Decimal{
			"base_cost_try":      rate.BaseCostTry,
			"child_discount_pct": rate.ChildDiscountPct,
		})
	default:
		return fmt.Errorf("%w: Unsupported service type", ErrInvalidInput)
	}
}

func nonNegative(fields map[string]decimal.Decimal) error {
	for name, value := range fields {
		if value.IsNegative() {
			return fmt.Errorf("%w: %s cannot be negative", ErrInvalidInput, name)
		}
	}
	return nil
}
