package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/tourops-pricing/internal/model"
)

const (
	BreakdownAdultCost = "adult_cost_try"
	BreakdownChildCost = "child_cost_try"
)

type hotelStrategy struct{}

func (hotelStrategy) category() model.ServiceCategory { return model.CategoryHotelRoom }
func (hotelStrategy) defaultPax() int                 { return 2 }

// price bills adults at the per-person double rate and children at their age
// band rate. Capacity is checked against a single room; parties larger than
// one room are quoted room by room.
func (hotelStrategy) price(offering model.ServiceOffering, rate model.RateRecord, p params) (*quoteParts, error) {
	hotel := rate.Payload.(model.HotelRate)

	if err := checkMaxCapacity(p.pax, offering.MaxOccupancy, "room"); err != nil {
		return nil, err
	}

	rooms := 1
	if offering.MaxOccupancy > 0 {
		rooms = (p.pax + offering.MaxOccupancy - 1) / offering.MaxOccupancy
	}

	nights := intDec(p.nights)
	adultCost := mul(intDec(p.adults()), hotel.PricePerPersonDouble, nights)

	childCost := decimal.Zero
	if len(p.childAges) > 0 {
		for _, age := range p.childAges {
			childCost = childCost.Add(childRateForAge(hotel, age).Mul(nights))
		}
	} else {
		childCost = mul(intDec(p.children), hotel.ChildPrice3to5, nights)
	}

	return &quoteParts{
		pricingModel: "PER_PERSON_" + string(hotel.BoardType),
		details: map[string]any{
			"board_type":    string(hotel.BoardType),
			"rooms":         rooms,
			"adults":        p.adults(),
			"children":      p.children,
			"nights":        p.nights,
			"max_occupancy": offering.MaxOccupancy,
		},
		breakdown: map[string]decimal.Decimal{
			BreakdownAdultCost: money(adultCost),
			BreakdownChildCost: money(childCost),
		},
	}, nil
}

func childRateForAge(hotel model.HotelRate, age int) decimal.Decimal {
	switch {
	case age <= 2:
		return hotel.ChildPrice0to2
	case age <= 5:
		return hotel.ChildPrice3to5
	case age <= 11:
		return hotel.ChildPrice6to11
	default:
		return hotel.PricePerPersonDouble
	}
}
