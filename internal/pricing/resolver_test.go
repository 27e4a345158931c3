package pricing

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/nurpe/tourops-pricing/internal/model"
)

func TestResolve(t *testing.T) {
	tenantID := uuid.New()
	offeringID := uuid.New()

	june := activeRate(tenantID, offeringID, "2025-06-01", "2025-06-30", model.HotelRate{BoardType: model.BoardBedBreakfast})
	june.Seq = 1
	july := activeRate(tenantID, offeringID, "2025-07-01", "2025-07-31", model.HotelRate{BoardType: model.BoardBedBreakfast})
	july.Seq = 2
	julyHB := activeRate(tenantID, offeringID, "2025-07-01", "2025-07-31", model.HotelRate{BoardType: model.BoardHalfBoard})
	julyHB.Seq = 3
	candidates := []model.RateRecord{june, july, julyHB}

	got, err := Resolve(candidates, string(model.BoardBedBreakfast), day("2025-06-30"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ID != june.ID {
		t.Fatalf("expected june season, got %s", got.ID)
	}

	got, err = Resolve(candidates, string(model.BoardBedBreakfast), day("2025-07-01"))
	if err != nil || got.ID != july.ID {
		t.Fatalf("expected july BB season, got %v %v", got, err)
	}

	got, err = Resolve(candidates, string(model.BoardHalfBoard), day("2025-07-15"))
	if err != nil || got.ID != julyHB.ID {
		t.Fatalf("expected july HB season, got %v %v", got, err)
	}

	_, err = Resolve(candidates, string(model.BoardBedBreakfast), day("2025-08-01"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "No active rate found for the selected date") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestResolveSkipsInactive(t *testing.T) {
	rate := activeRate(uuid.New(), uuid.New(), "2025-06-01", "2025-06-30", model.ActivityRate{})
	rate.IsActive = false

	if _, err := Resolve([]model.RateRecord{rate}, "", day("2025-06-10")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolvePicksNewestOfOverlappingSeasons(t *testing.T) {
	tenantID := uuid.New()
	offeringID := uuid.New()
	older := activeRate(tenantID, offeringID, "2025-06-01", "2025-06-30", model.ActivityRate{})
	older.Seq = 10
	newer := activeRate(tenantID, offeringID, "2025-06-15", "2025-07-15", model.ActivityRate{})
	newer.Seq = 11

	for _, order := range [][]model.RateRecord{{older, newer}, {newer, older}} {
		got, err := Resolve(order, "", day("2025-06-20"))
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got.ID != newer.ID {
			t.Fatalf("expected newest season to win")
		}
	}
}

func TestCoveringSubKeys(t *testing.T) {
	tenantID := uuid.New()
	offeringID := uuid.New()
	half := activeRate(tenantID, offeringID, "2025-06-01", "2025-06-30", model.HotelRate{BoardType: model.BoardHalfBoard})
	bed := activeRate(tenantID, offeringID, "2025-06-01", "2025-06-30", model.HotelRate{BoardType: model.BoardBedBreakfast})
	bedLate := activeRate(tenantID, offeringID, "2025-06-10", "2025-07-31", model.HotelRate{BoardType: model.BoardBedBreakfast})
	allIn := activeRate(tenantID, offeringID, "2025-06-01", "2025-06-30", model.HotelRate{BoardType: model.BoardAllInclusive})
	allIn.IsActive = false
	candidates := []model.RateRecord{half, bed, bedLate, allIn}

	got := CoveringSubKeys(candidates, day("2025-06-15"))
	if strings.Join(got, ",") != "BB,HB" {
		t.Fatalf("sub-keys = %v, want [BB HB]", got)
	}
	got = CoveringSubKeys(candidates, day("2025-07-15"))
	if strings.Join(got, ",") != "BB" {
		t.Fatalf("sub-keys = %v, want [BB]", got)
	}
	if got := CoveringSubKeys(candidates, day("2025-08-15")); len(got) != 0 {
		t.Fatalf("sub-keys = %v, want none", got)
	}
}
