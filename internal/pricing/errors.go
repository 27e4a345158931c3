package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

// OverlapError identifies the active season a candidate collides with.
type OverlapError struct {
	RateID     uuid.UUID
	SeasonFrom time.Time
	SeasonTo   time.Time
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf(
		"rate season overlaps existing active rate %s (%s - %s)",
		e.RateID,
		e.SeasonFrom.Format(DateLayout),
		e.SeasonTo.Format(DateLayout),
	)
}

func (e *OverlapError) Unwrap() error {
	return ErrConflict
}
