package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nurpe/tourops-pricing/internal/model"
)

const BreakdownGuideCost = "guide_cost_try"

type guideStrategy struct{}

func (guideStrategy) category() model.ServiceCategory { return model.CategoryGuideService }
func (guideStrategy) defaultPax() int                 { return 1 }

// price follows the rate's own pricing model, whatever the request carries.
func (guideStrategy) price(_ model.ServiceOffering, rate model.RateRecord, p params) (*quoteParts, error) {
	guide := rate.Payload.(model.GuideRate)

	parts := &quoteParts{
		pricingModel: string(guide.PricingModel),
		details:      map[string]any{"pax": p.pax},
	}

	switch guide.PricingModel {
	case model.GuidePerDay:
		parts.details["days"] = p.days
		parts.breakdown = map[string]decimal.Decimal{
			BreakdownGuideCost: money(guide.DayCostTry.Mul(intDec(p.days))),
		}
	case model.GuidePerHour:
		hours := decimal.NewFromInt(defaultGuideHours)
		if p.hoursGiven {
			hours = p.hours
		}
		parts.details["hours"] = hours.String()
		parts.breakdown = map[string]decimal.Decimal{
			BreakdownGuideCost: money(guide.HourCostTry.Mul(hours)),
		}
	default:
		return nil, fmt.Errorf("%w: unsupported guide pricing model %q", ErrInvalidInput, guide.PricingModel)
	}
	return parts, nil
}
