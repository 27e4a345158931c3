package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nurpe/tourops-pricing/internal/model"
)

const (
	defaultNights     = 1
	defaultDays       = 1
	defaultGuideHours = 8
	maxChildAge       = 17
)

// params are the request parameters after defaults have been applied.
type params struct {
	pax        int
	nights     int
	days       int
	daysGiven  bool
	distance   decimal.Decimal
	hours      decimal.Decimal
	hoursGiven bool
	children   int
	childAges  []int
	withDriver bool
}

func resolveParams(req model.QuoteRequest, defaultPax int) (params, error) {
	p := params{
		pax:        defaultPax,
		nights:     defaultNights,
		days:       defaultDays,
		distance:   decimal.Zero,
		hours:      decimal.Zero,
		withDriver: req.WithDriver,
	}

	if req.Pax != nil {
		if *req.Pax < 1 {
			return params{}, fmt.Errorf("%w: pax must be at least 1", ErrInvalidInput)
		}
		p.pax = *req.Pax
	}
	if req.Nights != nil {
		if *req.Nights < 1 {
			return params{}, fmt.Errorf("%w: nights must be at least 1", ErrInvalidInput)
		}
		p.nights = *req.Nights
	}
	if req.Days != nil {
		if *req.Days < 1 {
			return params{}, fmt.Errorf("%w: days must be at least 1", ErrInvalidInput)
		}
		p.days = *req.Days
		p.daysGiven = true
	}
	if req.Distance != nil {
		if req.Distance.IsNegative() {
			return params{}, fmt.Errorf("%w: distance cannot be negative", ErrInvalidInput)
		}
		p.distance = *req.Distance
	}
	if req.Hours != nil {
		if req.Hours.IsNegative() {
			return params{}, fmt.Errorf("%w: hours cannot be negative", ErrInvalidInput)
		}
		p.hours = *req.Hours
		p.hoursGiven = true
	}
	if req.Children != nil {
		if *req.Children < 0 {
			return params{}, fmt.Errorf("%w: children cannot be negative", ErrInvalidInput)
		}
		p.children = *req.Children
	}
	if len(req.ChildAges) > 0 {
		if req.Children == nil {
			p.children = len(req.ChildAges)
		}
		if len(req.ChildAges) != p.children {
			return params{}, fmt.Errorf("%w: child_ages must list one age per child", ErrInvalidInput)
		}
		for _, age := range req.ChildAges {
			if age < 0 || age > maxChildAge {
				return params{}, fmt.Errorf("%w: child age %d is out of range", ErrInvalidInput, age)
			}
		}
		p.childAges = append([]int(nil), req.ChildAges...)
	}
	if p.children > p.pax {
		return params{}, fmt.Errorf("%w: children cannot exceed pax", ErrInvalidInput)
	}
	return p, nil
}

func (p params) adults() int {
	return p.pax - p.children
}
