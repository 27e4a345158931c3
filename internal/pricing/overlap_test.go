package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/tourops-pricing/internal/model"
)

func day(raw string) time.Time {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		panic(err)
	}
	return t
}

func activeRate(tenantID, offeringID uuid.UUID, from, to string, payload model.RatePayload) model.RateRecord {
	return model.RateRecord{
		ID:         uuid.New(),
		TenantID:   tenantID,
		OfferingID: offeringID,
		Category:   payload.Category(),
		SeasonFrom: day(from),
		SeasonTo:   day(to),
		IsActive:   true,
		Payload:    payload,
	}
}

func TestCheckOverlap(t *testing.T) {
	tenantID := uuid.New()
	offeringID := uuid.New()
	existing := activeRate(tenantID, offeringID, "2025-06-01", "2025-06-30", model.ActivityRate{})

	tests := []struct {
		name    string
		from    string
		to      string
		overlap bool
	}{
		{name: "before", from: "2025-05-01", to: "2025-05-31", overlap: false},
		{name: "after", from: "2025-07-01", to: "2025-07-31", overlap: false},
		{name: "starts inside", from: "2025-06-15", to: "2025-07-15", overlap: true},
		{name: "ends inside", from: "2025-05-15", to: "2025-06-15", overlap: true},
		{name: "contains existing", from: "2025-05-01", to: "2025-07-31", overlap: true},
		{name: "inside existing", from: "2025-06-10", to: "2025-06-12", overlap: true},
		{name: "touches first day", from: "2025-05-01", to: "2025-06-01", overlap: true},
		{name: "touches last day", from: "2025-06-30", to: "2025-07-10", overlap: true},
		{name: "single day inside", from: "2025-06-05", to: "2025-06-05", overlap: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOverlap(OverlapCandidate{
				TenantID:   tenantID,
				OfferingID: offeringID,
				SeasonFrom: day(tt.from),
				SeasonTo:   day(tt.to),
			}, []model.RateRecord{existing})

			if !tt.overlap {
				if err != nil {
					t.Fatalf("expected no conflict, got %v", err)
				}
				return
			}

			var overlapErr *OverlapError
			if !errors.As(err, &overlapErr) {
				t.Fatalf("expected OverlapError, got %v", err)
			}
			if overlapErr.RateID != existing.ID {
				t.Fatalf("conflict reported rate %s, want %s", overlapErr.RateID, existing.ID)
			}
			if !errors.Is(err, ErrConflict) {
				t.Fatalf("expected ErrConflict in chain")
			}
		})
	}
}

func TestCheckOverlapIgnoresUnrelatedRecords(t *testing.T) {
	tenantID := uuid.New()
	offeringID := uuid.New()

	inactive := activeRate(tenantID, offeringID, "2025-06-01", "2025-06-30", model.HotelRate{BoardType: model.BoardBedBreakfast})
	inactive.IsActive = false
	otherBoard := activeRate(tenantID, offeringID, "2025-06-01", "2025-06-30", model.HotelRate{BoardType: model.BoardHalfBoard})
	self := activeRate(tenantID, offeringID, "2025-06-01", "2025-06-30", model.HotelRate{BoardType: model.BoardBedBreakfast})
	otherTenant := activeRate(uuid.New(), offeringID, "2025-06-01", "2025-06-30", model.HotelRate{BoardType: model.BoardBedBreakfast})

	err := CheckOverlap(OverlapCandidate{
		TenantID:   tenantID,
		OfferingID: offeringID,
		SubKey:     string(model.BoardBedBreakfast),
		SeasonFrom: day("2025-06-10"),
		SeasonTo:   day("2025-06-20"),
		ExcludeID:  self.ID,
	}, []model.RateRecord{inactive, otherBoard, self, otherTenant})
	if err != nil {
		t.Fatalf("expected no conflict, got %v", err)
	}
}

func TestCheckOverlapReportsFirstConflict(t *testing.T) {
	tenantID := uuid.New()
	offeringID := uuid.New()
	first := activeRate(tenantID, offeringID, "2025-06-01", "2025-06-10", model.GuideRate{})
	second := activeRate(tenantID, offeringID, "2025-06-11", "2025-06-20", model.GuideRate{})

	err := CheckOverlap(OverlapCandidate{
		TenantID:   tenantID,
		OfferingID: offeringID,
		SeasonFrom: day("2025-06-05"),
		SeasonTo:   day("2025-06-15"),
	}, []model.RateRecord{first, second})

	var overlapErr *OverlapError
	if !errors.As(err, &overlapErr) || overlapErr.RateID != first.ID {
		t.Fatalf("expected conflict with first rate, got %v", err)
	}
	if !overlapErr.SeasonFrom.Equal(day("2025-06-01")) || !overlapErr.SeasonTo.Equal(day("2025-06-10")) {
		t.Fatalf("unexpected conflict range %v - %v", overlapErr.SeasonFrom, overlapErr.SeasonTo)
	}
}

func TestCheckOverlapRejectsInvertedSeason(t *testing.T) {
	err := CheckOverlap(OverlapCandidate{
		SeasonFrom: day("2025-06-10"),
		SeasonTo:   day("2025-06-01"),
	}, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

// Brute force agreement between the interval test and day-by-day membership.
func TestOverlapsMatchesSharedDays(t *testing.T) {
	base := day("2025-01-01")
	at := func(offset int) time.Time { return base.AddDate(0, 0, offset) }

	for aFrom := 0; aFrom < 6; aFrom++ {
		for aTo := aFrom; aTo < 6; aTo++ {
			for bFrom := 0; bFrom < 6; bFrom++ {
				for bTo := bFrom; bTo < 6; bTo++ {
					shared := false
					for d := aFrom; d <= aTo; d++ {
						if d >= bFrom && d <= bTo {
							shared = true
						}
					}
					if got := Overlaps(at(aFrom), at(aTo), at(bFrom), at(bTo)); got != shared {
						t.Fatalf("Overlaps([%d,%d],[%d,%d]) = %v, want %v", aFrom, aTo, bFrom, bTo, got, shared)
					}
				}
			}
		}
	}
}
