package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateExclusionViolation   = "23P01"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isRetryable(err error) bool {
	switch pgErrorCode(err) {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateExclusionViolation:
		return true
	}
	return false
}

func isExclusionViolation(err error) bool {
	return pgErrorCode(err) == sqlStateExclusionViolation
}
