package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BoardType string

const (
	BoardRoomOnly     BoardType = "RO"
	BoardBedBreakfast BoardType = "BB"
	BoardHalfBoard    BoardType = "HB"
	BoardFullBoard    BoardType = "FB"
	BoardAllInclusive BoardType = "AI"
)

func (b BoardType) Valid() bool {
	switch b {
	case BoardRoomOnly, BoardBedBreakfast, BoardHalfBoard, BoardFullBoard, BoardAllInclusive:
		return true
	}
	return false
}

type TransferPricingModel string

const (
	TransferZoneBased     TransferPricingModel = "ZONE_BASED"
	TransferDistanceBased TransferPricingModel = "DISTANCE_BASED"
)

type GuidePricingModel string

const (
	GuidePerDay  GuidePricingModel = "PER_DAY"
	GuidePerHour GuidePricingModel = "PER_HOUR"
)

// RatePayload is the category specific part of a rate season. Exactly one
// implementation exists per ServiceCategory.
type RatePayload interface {
	Category() ServiceCategory
	// SubKey partitions seasons of one offering; only hotel rates use it.
	SubKey() string
}

type HotelRate struct {
	BoardType            BoardType       `json:"board_type"`
	PricePerPersonDouble decimal.Decimal `json:"price_per_person_double"`
	SingleSupplement     decimal.Decimal `json:"single_supplement"`
	PricePerPersonTriple decimal.Decimal `json:"price_per_person_triple"`
	ChildPrice0to2       decimal.Decimal `json:"child_price_0_to_2"`
	ChildPrice3to5       decimal.Decimal `json:"child_price_3_to_5"`
	ChildPrice6to11      decimal.Decimal `json:"child_price_6_to_11"`
}

func (HotelRate) Category() ServiceCategory { return CategoryHotelRoom }
func (r HotelRate) SubKey() string          { return string(r.BoardType) }

type TransferRate struct {
	PricingModel  TransferPricingModel `json:"pricing_model"`
	BaseCostTry   decimal.Decimal      `json:"base_cost_try"`
	IncludedKm    decimal.Decimal      `json:"included_km"`
	IncludedHours decimal.Decimal      `json:"included_hours"`
	ExtraKmTry    decimal.Decimal      `json:"extra_km_try"`
	ExtraHourTry  decimal.Decimal      `json:"extra_hour_try"`
}

func (TransferRate) Category() ServiceCategory { return CategoryTransfer }
func (TransferRate) SubKey() string            { return "" }

type VehicleRate struct {
	DailyRateTry    decimal.Decimal `json:"daily_rate_try"`
	DailyKmIncluded decimal.Decimal `json:"daily_km_included"`
	ExtraKmTry      decimal.Decimal `json:"extra_km_try"`
	DriverDailyTry  decimal.Decimal `json:"driver_daily_try"`
	HourlyRateTry   decimal.Decimal `json:"hourly_rate_try"`
	MinHours        decimal.Decimal `json:"min_hours"`
}

func (VehicleRate) Category() ServiceCategory { return CategoryVehicleHire }
func (VehicleRate) SubKey() string            { return "" }

type GuideRate struct {
	PricingModel GuidePricingModel `json:"pricing_model"`
	DayCostTry   decimal.Decimal   `json:"day_cost_try"`
	HourCostTry  decimal.Decimal   `json:"hour_cost_try"`
}

func (GuideRate) Category() ServiceCategory { return CategoryGuideService }
func (GuideRate) SubKey() string            { return "" }

type ActivityRate struct {
	BaseCostTry      decimal.Decimal `json:"base_cost_try"`
	ChildDiscountPct decimal.Decimal `json:"child_discount_pct"`
}

func (ActivityRate) Category() ServiceCategory { return CategoryActivity }
func (ActivityRate) SubKey() string            { return "" }

// RateRecord is one priced season of an offering. SeasonFrom and SeasonTo
// are inclusive calendar dates at UTC midnight.
type RateRecord struct {
	ID         uuid.UUID
	Seq        int64
	TenantID   uuid.UUID
	OfferingID uuid.UUID
	Category   ServiceCategory
	SeasonFrom time.Time
	SeasonTo   time.Time
	IsActive   bool
	Payload    RatePayload
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r RateRecord) SubKey() string {
	if r.Payload == nil {
		return ""
	}
	return r.Payload.SubKey()
}

// Covers reports whether the season contains the given calendar date.
func (r RateRecord) Covers(day time.Time) bool {
	return !day.Before(r.SeasonFrom) && !day.After(r.SeasonTo)
}

// RateQuery selects candidate seasons. Zero AsOf disables the date filter,
// empty SubKey matches every sub-key.
type RateQuery struct {
	TenantID   uuid.UUID
	OfferingID uuid.UUID
	SubKey     string
	AsOf       time.Time
	ExcludeID  uuid.UUID
}

// RateGuard inspects the active seasons sharing an offering with a rate that
// is about to be written and vetoes the write by returning an error.
type RateGuard func(siblings []RateRecord) error
