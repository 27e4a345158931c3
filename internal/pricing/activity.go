package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/tourops-pricing/internal/model"
)

const (
	BreakdownAdultsCost   = "adults_cost_try"
	BreakdownChildrenCost = "children_cost_try"
)

var hundred = decimal.NewFromInt(100)

type activityStrategy struct{}

func (activityStrategy) category() model.ServiceCategory { return model.CategoryActivity }
func (activityStrategy) defaultPax() int                 { return 1 }

func (activityStrategy) price(offering model.ServiceOffering, rate model.RateRecord, p params) (*quoteParts, error) {
	activity := rate.Payload.(model.ActivityRate)

	if err := checkParticipants(p.pax, offering.MinParticipants, offering.MaxParticipants); err != nil {
		return nil, err
	}

	childUnit := activity.BaseCostTry
	if activity.ChildDiscountPct.IsPositive() && p.children > 0 {
		factor := decimal.NewFromInt(1).Sub(activity.ChildDiscountPct.Div(hundred))
		childUnit = activity.BaseCostTry.Mul(factor)
	}

	return &quoteParts{
		pricingModel: "PER_PERSON",
		details: map[string]any{
			"adults":             p.adults(),
			"children":           p.children,
			"min_participants":   offering.MinParticipants,
			"max_participants":   offering.MaxParticipants,
			"child_discount_pct": activity.ChildDiscountPct.String(),
			"child_unit_cost":    money(childUnit).String(),
		},
		breakdown: map[string]decimal.Decimal{
			BreakdownAdultsCost:   money(activity.BaseCostTry.Mul(intDec(p.adults()))),
			BreakdownChildrenCost: money(childUnit.Mul(intDec(p.children))),
		},
	}, nil
}
