package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nurpe/tourops-pricing/internal/model"
)

const (
	BreakdownVehicleCost = "vehicle_cost_try"
	BreakdownDriverCost  = "driver_cost_try"
)

type vehicleStrategy struct{}

func (vehicleStrategy) category() model.ServiceCategory { return model.CategoryVehicleHire }
func (vehicleStrategy) defaultPax() int                 { return 1 }

func (vehicleStrategy) price(offering model.ServiceOffering, rate model.RateRecord, p params) (*quoteParts, error) {
	vehicle := rate.Payload.(model.VehicleRate)

	if err := checkMaxCapacity(p.pax, offering.MaxPassengers, "vehicle"); err != nil {
		return nil, err
	}

	parts := &quoteParts{
		details: map[string]any{
			"pax":            p.pax,
			"max_passengers": offering.MaxPassengers,
			"with_driver":    p.withDriver,
			"distance_km":    p.distance.String(),
		},
		breakdown: map[string]decimal.Decimal{},
	}

	days := p.days
	hourly := p.hoursGiven && !p.daysGiven && vehicle.HourlyRateTry.IsPositive()
	if hourly {
		days = 1
		billed := p.hours
		if billed.LessThan(vehicle.MinHours) {
			billed = vehicle.MinHours
			parts.notes = append(parts.notes, fmt.Sprintf("minimum %s hours applied", vehicle.MinHours.String()))
		}
		parts.pricingModel = "HOURLY"
		parts.details["hours"] = p.hours.String()
		parts.details["billed_hours"] = billed.String()
		parts.breakdown[BreakdownVehicleCost] = money(billed.Mul(vehicle.HourlyRateTry))
	} else {
		parts.pricingModel = "DAILY"
		parts.details["days"] = days
		parts.breakdown[BreakdownVehicleCost] = money(vehicle.DailyRateTry.Mul(intDec(days)))
	}

	if p.withDriver {
		parts.breakdown[BreakdownDriverCost] = money(vehicle.DriverDailyTry.Mul(intDec(days)))
	}

	allowance := vehicle.DailyKmIncluded.Mul(intDec(days))
	if overage := p.distance.Sub(allowance); overage.IsPositive() {
		parts.breakdown[BreakdownExtraKmCost] = money(overage.Mul(vehicle.ExtraKmTry))
	}
	parts.details["km_included"] = allowance.String()

	return parts, nil
}
