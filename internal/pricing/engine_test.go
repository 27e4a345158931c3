package pricing

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/tourops-pricing/internal/model"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func intPtr(v int) *int { return &v }

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func offeringFor(category model.ServiceCategory) model.ServiceOffering {
	return model.ServiceOffering{
		ID:           uuid.New(),
		TenantID:     uuid.New(),
		Category:     category,
		Title:        "Test offering",
		SupplierName: "Test supplier",
	}
}

func seasonFor(offering model.ServiceOffering, payload model.RatePayload) []model.RateRecord {
	return []model.RateRecord{
		activeRate(offering.TenantID, offering.ID, "2025-01-01", "2025-12-31", payload),
	}
}

func assertLine(t *testing.T, result *model.QuoteResult, key, want string) {
	t.Helper()
	got, ok := result.Pricing.Breakdown[key]
	if !ok {
		t.Fatalf("breakdown has no %s line: %v", key, result.Pricing.Breakdown)
	}
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", key, got, want)
	}
}

func assertTotal(t *testing.T, result *model.QuoteResult, want string) {
	t.Helper()
	if !result.Pricing.TotalCostTry.Equal(dec(want)) {
		t.Fatalf("total = %s, want %s", result.Pricing.TotalCostTry, want)
	}
}

func assertBadRequest(t *testing.T, err error, fragment string) {
	t.Helper()
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Fatalf("error %q does not contain %q", err.Error(), fragment)
	}
}

func TestNewEngineCoversEveryCategory(t *testing.T) {
	engine := NewEngine()
	for _, category := range model.Categories {
		if !engine.Supports(category) {
			t.Fatalf("no strategy for %s", category)
		}
	}
}

func TestQuoteUnsupportedCategory(t *testing.T) {
	offering := offeringFor("CRUISE_CABIN")
	_, err := NewEngine().Quote(offering, nil, model.QuoteRequest{ServiceDate: day("2025-06-01")})
	assertBadRequest(t, err, "Unsupported service type")
}

func TestQuoteWithoutRate(t *testing.T) {
	offering := offeringFor(model.CategoryTransfer)
	_, err := NewEngine().Quote(offering, nil, model.QuoteRequest{ServiceDate: day("2025-06-01")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHotelQuote(t *testing.T) {
	offering := offeringFor(model.CategoryHotelRoom)
	offering.MaxOccupancy = 4
	rates := seasonFor(offering, model.HotelRate{
		BoardType:            model.BoardBedBreakfast,
		PricePerPersonDouble: dec("100"),
		ChildPrice0to2:       dec("0"),
		ChildPrice3to5:       dec("50"),
		ChildPrice6to11:      dec("70"),
	})
	engine := NewEngine()

	t.Run("two adults one night", func(t *testing.T) {
		result, err := engine.Quote(offering, rates, model.QuoteRequest{
			OfferingID:  offering.ID,
			ServiceDate: day("2025-06-01"),
			Pax:         intPtr(2),
			Nights:      intPtr(1),
		})
		if err != nil {
			t.Fatalf("quote: %v", err)
		}
		assertLine(t, result, BreakdownAdultCost, "200")
		assertLine(t, result, BreakdownChildCost, "0")
		assertTotal(t, result, "200")
	})

	t.Run("defaults to two guests", func(t *testing.T) {
		result, err := engine.Quote(offering, rates, model.QuoteRequest{ServiceDate: day("2025-06-01")})
		if err != nil {
			t.Fatalf("quote: %v", err)
		}
		assertTotal(t, result, "200")
	})

	t.Run("adults and children", func(t *testing.T) {
		result, err := engine.Quote(offering, rates, model.QuoteRequest{
			ServiceDate: day("2025-06-01"),
			Pax:         intPtr(4),
			Children:    intPtr(2),
			Nights:      intPtr(3),
		})
		if err != nil {
			t.Fatalf("quote: %v", err)
		}
		assertLine(t, result, BreakdownAdultCost, "600")
		assertLine(t, result, BreakdownChildCost, "300")
		assertTotal(t, result, "900")
	})

	t.Run("child age bands", func(t *testing.T) {
		result, err := engine.Quote(offering, rates, model.QuoteRequest{
			ServiceDate: day("2025-06-01"),
			Pax:         intPtr(4),
			ChildAges:   []int{1, 8},
			Nights:      intPtr(2),
		})
		if err != nil {
			t.Fatalf("quote: %v", err)
		}
		assertLine(t, result, BreakdownChildCost, "140")
		assertTotal(t, result, "540")
	})

	t.Run("exceeds room capacity", func(t *testing.T) {
		_, err := engine.Quote(offering, rates, model.QuoteRequest{
			ServiceDate: day("2025-06-01"),
			Pax:         intPtr(5),
		})
		assertBadRequest(t, err, "exceeds room maximum capacity")
	})

	t.Run("board type narrows resolution", func(t *testing.T) {
		_, err := engine.Quote(offering, rates, model.QuoteRequest{
			ServiceDate: day("2025-06-01"),
			BoardType:   model.BoardAllInclusive,
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("board type required when several boards cover the date", func(t *testing.T) {
		half := activeRate(offering.TenantID, offering.ID, "2025-06-01", "2025-06-30", model.HotelRate{
			BoardType:            model.BoardHalfBoard,
			PricePerPersonDouble: dec("150"),
		})
		half.Seq = 99
		mixed := append([]model.RateRecord{half}, rates...)

		_, err := engine.Quote(offering, mixed, model.QuoteRequest{ServiceDate: day("2025-06-10")})
		assertBadRequest(t, err, "board_type is required")
		if !strings.Contains(err.Error(), "BB, HB") {
			t.Fatalf("error %q does not list the priced board types", err.Error())
		}

		result, err := engine.Quote(offering, mixed, model.QuoteRequest{ServiceDate: day("2025-07-10")})
		if err != nil {
			t.Fatalf("quote outside the HB season: %v", err)
		}
		assertTotal(t, result, "200")

		result, err = engine.Quote(offering, mixed, model.QuoteRequest{
			ServiceDate: day("2025-06-10"),
			BoardType:   model.BoardBedBreakfast,
		})
		if err != nil {
			t.Fatalf("quote with board type: %v", err)
		}
		assertTotal(t, result, "200")
	})
}

func TestTransferQuote(t *testing.T) {
	offering := offeringFor(model.CategoryTransfer)
	offering.MaxPassengers = 3
	rates := seasonFor(offering, model.TransferRate{
		PricingModel:  model.TransferDistanceBased,
		BaseCostTry:   dec("200"),
		IncludedKm:    dec("50"),
		ExtraKmTry:    dec("5"),
		IncludedHours: dec("2"),
		ExtraHourTry:  dec("25"),
	})
	engine := NewEngine()

	result, err := engine.Quote(offering, rates, model.QuoteRequest{
		ServiceDate: day("2025-06-01"),
		Distance:    decPtr("80"),
		Hours:       decPtr("3"),
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	assertLine(t, result, BreakdownBaseCost, "200")
	assertLine(t, result, BreakdownExtraKmCost, "150")
	assertLine(t, result, BreakdownExtraHourCost, "25")
	assertTotal(t, result, "375")

	result, err = engine.Quote(offering, rates, model.QuoteRequest{
		ServiceDate: day("2025-06-01"),
		Distance:    decPtr("40"),
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if len(result.Pricing.Breakdown) != 1 {
		t.Fatalf("expected only the base line, got %v", result.Pricing.Breakdown)
	}
	assertTotal(t, result, "200")

	_, err = engine.Quote(offering, rates, model.QuoteRequest{
		ServiceDate: day("2025-06-01"),
		Pax:         intPtr(4),
	})
	assertBadRequest(t, err, "exceeds transfer maximum capacity")
}

func TestVehicleQuote(t *testing.T) {
	offering := offeringFor(model.CategoryVehicleHire)
	offering.MaxPassengers = 7
	rates := seasonFor(offering, model.VehicleRate{
		DailyRateTry:    dec("1000"),
		DailyKmIncluded: dec("200"),
		ExtraKmTry:      dec("3"),
		DriverDailyTry:  dec("400"),
		HourlyRateTry:   dec("150"),
		MinHours:        dec("4"),
	})
	engine := NewEngine()

	t.Run("daily with driver and overage", func(t *testing.T) {
		result, err := engine.Quote(offering, rates, model.QuoteRequest{
			ServiceDate: day("2025-06-01"),
			Days:        intPtr(2),
			Distance:    decPtr("500"),
			WithDriver:  true,
		})
		if err != nil {
			t.Fatalf("quote: %v", err)
		}
		assertLine(t, result, BreakdownVehicleCost, "2000")
		assertLine(t, result, BreakdownDriverCost, "800")
		assertLine(t, result, BreakdownExtraKmCost, "300")
		assertTotal(t, result, "3100")
	})

	t.Run("hourly minimum applied", func(t *testing.T) {
		result, err := engine.Quote(offering, rates, model.QuoteRequest{
			ServiceDate: day("2025-06-01"),
			Hours:       decPtr("2"),
		})
		if err != nil {
			t.Fatalf("quote: %v", err)
		}
		assertLine(t, result, BreakdownVehicleCost, "600")
		assertTotal(t, result, "600")
		if len(result.Pricing.Notes) != 1 || !strings.Contains(result.Pricing.Notes[0], "minimum 4 hours applied") {
			t.Fatalf("expected minimum hours note, got %v", result.Pricing.Notes)
		}
	})

	t.Run("hourly above minimum", func(t *testing.T) {
		result, err := engine.Quote(offering, rates, model.QuoteRequest{
			ServiceDate: day("2025-06-01"),
			Hours:       decPtr("6"),
		})
		if err != nil {
			t.Fatalf("quote: %v", err)
		}
		assertTotal(t, result, "900")
		if len(result.Pricing.Notes) != 0 {
			t.Fatalf("unexpected notes %v", result.Pricing.Notes)
		}
	})

	t.Run("exceeds capacity", func(t *testing.T) {
		_, err := engine.Quote(offering, rates, model.QuoteRequest{
			ServiceDate: day("2025-06-01"),
			Pax:         intPtr(8),
		})
		assertBadRequest(t, err, "exceeds vehicle maximum capacity")
	})

	t.Run("no daily allowance bills every km", func(t *testing.T) {
		perKm := seasonFor(offering, model.VehicleRate{
			DailyRateTry: dec("1000"),
			ExtraKmTry:   dec("3"),
		})
		result, err := engine.Quote(offering, perKm, model.QuoteRequest{
			ServiceDate: day("2025-06-01"),
			Days:        intPtr(1),
			Distance:    decPtr("100"),
		})
		if err != nil {
			t.Fatalf("quote: %v", err)
		}
		assertLine(t, result, BreakdownVehicleCost, "1000")
		assertLine(t, result, BreakdownExtraKmCost, "300")
		assertTotal(t, result, "1300")
	})
}

func TestGuideQuote(t *testing.T) {
	offering := offeringFor(model.CategoryGuideService)
	engine := NewEngine()

	perDay := seasonFor(offering, model.GuideRate{PricingModel: model.GuidePerDay, DayCostTry: dec("1500"), HourCostTry: dec("250")})
	result, err := engine.Quote(offering, perDay, model.QuoteRequest{ServiceDate: day("2025-06-01")})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	assertTotal(t, result, "1500")

	result, err = engine.Quote(offering, perDay, model.QuoteRequest{ServiceDate: day("2025-06-01"), Days: intPtr(3), Hours: decPtr("2")})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	assertTotal(t, result, "4500")

	perHour := seasonFor(offering, model.GuideRate{PricingModel: model.GuidePerHour, DayCostTry: dec("1500"), HourCostTry: dec("250")})
	result, err = engine.Quote(offering, perHour, model.QuoteRequest{ServiceDate: day("2025-06-01")})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	assertTotal(t, result, "2000")

	result, err = engine.Quote(offering, perHour, model.QuoteRequest{ServiceDate: day("2025-06-01"), Hours: decPtr("3")})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	assertTotal(t, result, "750")
}

func TestActivityQuote(t *testing.T) {
	offering := offeringFor(model.CategoryActivity)
	offering.MinParticipants = 2
	offering.MaxParticipants = 10
	rates := seasonFor(offering, model.ActivityRate{BaseCostTry: dec("300"), ChildDiscountPct: dec("25")})
	engine := NewEngine()

	result, err := engine.Quote(offering, rates, model.QuoteRequest{
		ServiceDate: day("2025-06-01"),
		Pax:         intPtr(4),
		Children:    intPtr(2),
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	assertLine(t, result, BreakdownAdultsCost, "600")
	assertLine(t, result, BreakdownChildrenCost, "450")
	assertTotal(t, result, "1050")

	_, err = engine.Quote(offering, rates, model.QuoteRequest{ServiceDate: day("2025-06-01"), Pax: intPtr(1)})
	assertBadRequest(t, err, "below minimum requirement")

	_, err = engine.Quote(offering, rates, model.QuoteRequest{ServiceDate: day("2025-06-01"), Pax: intPtr(11)})
	assertBadRequest(t, err, "exceeds maximum capacity")
}

func TestQuoteRejectsInvalidParams(t *testing.T) {
	offering := offeringFor(model.CategoryActivity)
	rates := seasonFor(offering, model.ActivityRate{BaseCostTry: dec("100")})
	engine := NewEngine()

	cases := []struct {
		name string
		req  model.QuoteRequest
	}{
		{name: "zero pax", req: model.QuoteRequest{Pax: intPtr(0)}},
		{name: "children above pax", req: model.QuoteRequest{Pax: intPtr(1), Children: intPtr(2)}},
		{name: "negative distance", req: model.QuoteRequest{Distance: decPtr("-1")}},
		{name: "ages mismatch", req: model.QuoteRequest{Pax: intPtr(3), Children: intPtr(2), ChildAges: []int{4}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.ServiceDate = day("2025-06-01")
			if _, err := engine.Quote(offering, rates, tc.req); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestQuoteIsIdempotent(t *testing.T) {
	offering := offeringFor(model.CategoryHotelRoom)
	offering.MaxOccupancy = 4
	rates := seasonFor(offering, model.HotelRate{
		BoardType:            model.BoardHalfBoard,
		PricePerPersonDouble: dec("120.50"),
		ChildPrice3to5:       dec("40"),
	})
	engine := NewEngine()
	req := model.QuoteRequest{ServiceDate: day("2025-06-01"), Pax: intPtr(3), Children: intPtr(1), Nights: intPtr(2)}

	first, err := engine.Quote(offering, rates, req)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	second, err := engine.Quote(offering, rates, req)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("quotes differ:\n%s\n%s", a, b)
	}
}
