package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nurpe/tourops-pricing/internal/model"
	"github.com/nurpe/tourops-pricing/internal/pricing"
)

func TestClassifyWriteError(t *testing.T) {
	serialization := &pgconn.PgError{Code: "40001"}
	deadlock := &pgconn.PgError{Code: "40P01"}
	exclusion := &pgconn.PgError{Code: "23P01"}
	other := errors.New("connection reset")

	cases := []struct {
		name    string
		err     error
		attempt int
		want    writeOutcome
	}{
		{"success", nil, 1, writeDone},
		{"serialization failure retried", serialization, 1, writeRetry},
		{"deadlock retried", deadlock, 2, writeRetry},
		{"exclusion violation retried", exclusion, 2, writeRetry},
		{"exclusion violation on last attempt", exclusion, maxWriteAttempts, writeConflict},
		{"serialization failure on last attempt", serialization, maxWriteAttempts, writeFailed},
		{"other error never retried", other, 1, writeFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyWriteError(tc.err, tc.attempt); got != tc.want {
				t.Fatalf("classifyWriteError = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClassifyWriteErrorStopsAfterThreeAttempts(t *testing.T) {
	exclusion := &pgconn.PgError{Code: "23P01"}
	attempts := 0
	for attempt := 1; ; attempt++ {
		attempts++
		if classifyWriteError(exclusion, attempt) != writeRetry {
			break
		}
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestOverlapConflictNamesWinningSeason(t *testing.T) {
	tenantID, offeringID := uuid.New(), uuid.New()
	date := func(v string) time.Time {
		d, _ := time.Parse(pricing.DateLayout, v)
		return d
	}
	winner := model.RateRecord{
		ID:         uuid.New(),
		TenantID:   tenantID,
		OfferingID: offeringID,
		Category:   model.CategoryHotelRoom,
		SeasonFrom: date("2025-06-01"),
		SeasonTo:   date("2025-06-30"),
		IsActive:   true,
		Payload:    model.HotelRate{BoardType: model.BoardBedBreakfast},
	}
	loser := model.RateRecord{
		TenantID:   tenantID,
		OfferingID: offeringID,
		Category:   model.CategoryHotelRoom,
		SeasonFrom: date("2025-06-15"),
		SeasonTo:   date("2025-07-15"),
		IsActive:   true,
		Payload:    model.HotelRate{BoardType: model.BoardBedBreakfast},
	}

	err := overlapConflict(loser, []model.RateRecord{winner})
	var overlap *pricing.OverlapError
	if !errors.As(err, &overlap) {
		t.Fatalf("expected *OverlapError, got %v", err)
	}
	if overlap.RateID != winner.ID || !overlap.SeasonFrom.Equal(winner.SeasonFrom) || !overlap.SeasonTo.Equal(winner.SeasonTo) {
		t.Fatalf("unexpected overlap %+v", overlap)
	}

	err = overlapConflict(loser, nil)
	if !errors.Is(err, pricing.ErrConflict) || errors.As(err, &overlap) {
		t.Fatalf("expected plain conflict without siblings, got %v", err)
	}
}
