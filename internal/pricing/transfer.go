package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/tourops-pricing/internal/model"
)

const (
	BreakdownBaseCost      = "base_cost_try"
	BreakdownExtraKmCost   = "extra_km_cost_try"
	BreakdownExtraHourCost = "extra_hour_cost_try"
)

type transferStrategy struct{}

func (transferStrategy) category() model.ServiceCategory { return model.CategoryTransfer }
func (transferStrategy) defaultPax() int                 { return 1 }

func (transferStrategy) price(offering model.ServiceOffering, rate model.RateRecord, p params) (*quoteParts, error) {
	transfer := rate.Payload.(model.TransferRate)

	if err := checkMaxCapacity(p.pax, offering.MaxPassengers, "transfer"); err != nil {
		return nil, err
	}

	breakdown := map[string]decimal.Decimal{
		BreakdownBaseCost: money(transfer.BaseCostTry),
	}
	if extraKm := p.distance.Sub(transfer.IncludedKm); extraKm.IsPositive() {
		breakdown[BreakdownExtraKmCost] = money(extraKm.Mul(transfer.ExtraKmTry))
	}
	if extraHours := p.hours.Sub(transfer.IncludedHours); extraHours.IsPositive() {
		breakdown[BreakdownExtraHourCost] = money(extraHours.Mul(transfer.ExtraHourTry))
	}

	return &quoteParts{
		pricingModel: string(transfer.PricingModel),
		details: map[string]any{
			"pax":            p.pax,
			"max_passengers": offering.MaxPassengers,
			"distance_km":    p.distance.String(),
			"hours":          p.hours.String(),
			"included_km":    transfer.IncludedKm.String(),
			"included_hours": transfer.IncludedHours.String(),
		},
		breakdown: breakdown,
	}, nil
}
