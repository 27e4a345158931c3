package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/tourops-pricing/internal/model"
)

func TestGenerateHotelSheets(t *testing.T) {
	offering := model.ServiceOffering{
		ID:           uuid.New(),
		Category:     model.CategoryHotelRoom,
		Title:        "Sea view double",
		SupplierName: "Hotel Lykia",
	}
	day := func(m time.Month, d int) time.Time { return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC) }
	rates := []model.RateRecord{
		{ID: uuid.New(), Category: model.CategoryHotelRoom, SeasonFrom: day(6, 1), SeasonTo: day(6, 30), IsActive: true,
			Payload: model.HotelRate{BoardType: model.BoardHalfBoard, PricePerPersonDouble: decimal.NewFromInt(1500)}},
		{ID: uuid.New(), Category: model.CategoryHotelRoom, SeasonFrom: day(5, 1), SeasonTo: day(5, 31), IsActive: true,
			Payload: model.HotelRate{BoardType: model.BoardBedBreakfast, PricePerPersonDouble: decimal.NewFromInt(1000)}},
		{ID: uuid.New(), Category: model.CategoryHotelRoom, SeasonFrom: day(7, 1), SeasonTo: day(7, 31), IsActive: false,
			Payload: model.HotelRate{BoardType: model.BoardBedBreakfast, PricePerPersonDouble: decimal.NewFromInt(1200)}},
	}

	content, err := NewGenerator().Generate(offering, rates)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	want := []string{"Summary", "Board type - BB", "Board type - HB"}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v, want %v", sheets, want)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("sheets = %v, want %v", sheets, want)
		}
	}

	active, _ := file.GetCellValue("Summary", "B5")
	if active != "2" {
		t.Fatalf("active seasons = %q, want 2", active)
	}
	first, _ := file.GetCellValue("Board type - BB", "B2")
	if first != "2026-05-01" {
		t.Fatalf("first BB season = %q, want 2026-05-01", first)
	}
}

func TestBuildSheetNameDeduplicates(t *testing.T) {
	used := map[string]struct{}{"Rates": {}}
	if got := buildSheetName(model.CategoryActivity, "", used); got != "Rates-2" {
		t.Fatalf("got %q", got)
	}
}
