package pricing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/tourops-pricing/internal/model"
)

// OverlapCandidate is a season about to be written. ExcludeID is set on
// update so the record does not collide with its own previous version.
type OverlapCandidate struct {
	TenantID   uuid.UUID
	OfferingID uuid.UUID
	SubKey     string
	SeasonFrom time.Time
	SeasonTo   time.Time
	ExcludeID  uuid.UUID
}

func ValidateSeason(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: season_from and season_to are required", ErrInvalidInput)
	}
	if DateOnly(from).After(DateOnly(to)) {
		return fmt.Errorf("%w: season_from must be before or equal to season_to", ErrInvalidInput)
	}
	return nil
}

// CheckOverlap returns an *OverlapError for the first active record in
// existing that shares at least one calendar day with the candidate, or nil.
func CheckOverlap(candidate OverlapCandidate, existing []model.RateRecord) error {
	if err := ValidateSeason(candidate.SeasonFrom, candidate.SeasonTo); err != nil {
		return err
	}
	from := DateOnly(candidate.SeasonFrom)
	to := DateOnly(candidate.SeasonTo)

	for _, rate := range existing {
		if !rate.IsActive {
			continue
		}
		if candidate.ExcludeID != uuid.Nil && rate.ID == candidate.ExcludeID {
			continue
		}
		if rate.TenantID != candidate.TenantID || rate.OfferingID != candidate.OfferingID {
			continue
		}
		if rate.SubKey() != candidate.SubKey {
			continue
		}
		if Overlaps(from, to, DateOnly(rate.SeasonFrom), DateOnly(rate.SeasonTo)) {
			return &OverlapError{
				RateID:     rate.ID,
				SeasonFrom: DateOnly(rate.SeasonFrom),
				SeasonTo:   DateOnly(rate.SeasonTo),
			}
		}
	}
	return nil
}
