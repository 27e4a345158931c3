package service

import (
	"errors"

	"github.com/nurpe/tourops-pricing/internal/pricing"
)

var (
	ErrNotFound         = pricing.ErrNotFound
	ErrInvalidInput     = pricing.ErrInvalidInput
	ErrConflict         = pricing.ErrConflict
	ErrPermissionDenied = errors.New("permission denied")
)
